package credential

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kbukum/adminkit/encryption"
	apperrors "github.com/kbukum/adminkit/errors"
)

const storeFile = "file"

// FileStore keeps a single token in a file readable only by its owner.
// When an Encryptor is set the token is sealed on disk.
type FileStore struct {
	path   string
	sealer encryption.Encryptor
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithEncryptor seals tokens before they are written.
func WithEncryptor(e encryption.Encryptor) FileOption {
	return func(s *FileStore) { s.sealer = e }
}

// NewFileStore creates a FileStore at path. The file is created on Save.
func NewFileStore(path string, opts ...FileOption) *FileStore {
	s := &FileStore{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the token file location.
func (s *FileStore) Path() string { return s.path }

// Token reads the stored token. A missing or empty file yields ErrNoToken.
func (s *FileStore) Token(context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", apperrors.CredentialUnavailable(storeFile, err)
	}

	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", ErrNoToken
	}

	if !encryption.IsSealed(value) {
		return value, nil
	}
	if s.sealer == nil {
		return "", apperrors.CredentialUnavailable(storeFile,
			fmt.Errorf("token at %s is sealed but no encryption key is configured", s.path))
	}
	token, err := s.sealer.Decrypt(value)
	if err != nil {
		return "", apperrors.CredentialUnavailable(storeFile, err)
	}
	return token, nil
}

// Save writes the token atomically with mode 0600.
func (s *FileStore) Save(_ context.Context, token string) error {
	value := token
	if s.sealer != nil {
		sealed, err := s.sealer.Encrypt(token)
		if err != nil {
			return apperrors.CredentialUnavailable(storeFile, err)
		}
		value = sealed
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return apperrors.CredentialUnavailable(storeFile, err)
	}

	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return apperrors.CredentialUnavailable(storeFile, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return apperrors.CredentialUnavailable(storeFile, err)
	}
	if _, err := tmp.WriteString(value + "\n"); err != nil {
		_ = tmp.Close()
		return apperrors.CredentialUnavailable(storeFile, err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.CredentialUnavailable(storeFile, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return apperrors.CredentialUnavailable(storeFile, err)
	}
	return nil
}

// Clear removes the token file. A missing file is not an error.
func (s *FileStore) Clear(context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperrors.CredentialUnavailable(storeFile, err)
	}
	return nil
}
