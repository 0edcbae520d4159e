// Package encryption seals credentials at rest.
//
// ChaCha20-Poly1305 is the default cipher; AES-256-GCM is available via
// WithAlgorithm. Keys are derived from a passphrase with SHA-256.
//
//	s, err := encryption.New(passphrase)
//	sealed, err := s.Encrypt(token)
//	token, err := s.Decrypt(sealed)
package encryption
