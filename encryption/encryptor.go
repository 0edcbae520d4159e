package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// Encryptor seals and opens short secrets such as bearer tokens.
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// Algorithm represents supported encryption algorithms.
type Algorithm string

const (
	// AlgorithmChaCha20 is ChaCha20-Poly1305 (default).
	AlgorithmChaCha20 Algorithm = "chacha20-poly1305"

	// AlgorithmAESGCM is AES-256-GCM.
	AlgorithmAESGCM Algorithm = "aes-256-gcm"
)

// Option configures the encryptor.
type Option func(*options)

type options struct {
	algorithm Algorithm
}

// WithAlgorithm selects the encryption algorithm.
func WithAlgorithm(alg Algorithm) Option {
	return func(o *options) { o.algorithm = alg }
}

// Sealer is an AEAD-backed Encryptor. Ciphertexts carry the algorithm name
// as a prefix so IsSealed can tell them apart from plain tokens.
type Sealer struct {
	alg  Algorithm
	aead cipher.AEAD
}

// New creates a Sealer from a passphrase. The passphrase is hashed with
// SHA-256 to produce a 32-byte key.
func New(key string, opts ...Option) (*Sealer, error) {
	if key == "" {
		return nil, fmt.Errorf("encryption key is empty")
	}
	o := &options{algorithm: AlgorithmChaCha20}
	for _, opt := range opts {
		opt(o)
	}

	sum := sha256.Sum256([]byte(key))

	var (
		aead cipher.AEAD
		err  error
	)
	switch o.algorithm {
	case AlgorithmChaCha20:
		aead, err = chacha20poly1305.New(sum[:])
		if err != nil {
			return nil, fmt.Errorf("create chacha20: %w", err)
		}
	case AlgorithmAESGCM:
		block, cerr := aes.NewCipher(sum[:])
		if cerr != nil {
			return nil, fmt.Errorf("create cipher: %w", cerr)
		}
		aead, err = cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("create GCM: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported algorithm %q", o.algorithm)
	}

	return &Sealer{alg: o.algorithm, aead: aead}, nil
}

// Algorithm returns the cipher in use.
func (s *Sealer) Algorithm() Algorithm { return s.alg }

// Encrypt seals plaintext and returns "<algorithm>:<base64>".
func (s *Sealer) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return string(s.alg) + ":" + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt with the same key and algorithm.
func (s *Sealer) Decrypt(ciphertext string) (string, error) {
	prefix := string(s.alg) + ":"
	if !strings.HasPrefix(ciphertext, prefix) {
		return "", fmt.Errorf("ciphertext not sealed with %s", s.alg)
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(ciphertext, prefix))
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}

	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, body := data[:nonceSize], data[nonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, body, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}

	return string(plaintext), nil
}

// IsSealed reports whether value looks like the output of a Sealer.
func IsSealed(value string) bool {
	return strings.HasPrefix(value, string(AlgorithmChaCha20)+":") ||
		strings.HasPrefix(value, string(AlgorithmAESGCM)+":")
}
