package credential

import (
	"github.com/kbukum/adminkit/config"
	"github.com/kbukum/adminkit/encryption"
	apperrors "github.com/kbukum/adminkit/errors"
)

// Open builds the Store selected by cfg.Backend.
func Open(cfg config.CredentialConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		var opts []FileOption
		if cfg.EncryptionKey != "" {
			sealer, err := encryption.New(cfg.EncryptionKey)
			if err != nil {
				return nil, apperrors.ConfigInvalid("credential.encryption_key", err.Error())
			}
			opts = append(opts, WithEncryptor(sealer))
		}
		path := cfg.Path
		if path == "" {
			path = config.DefaultTokenPath()
		}
		return NewFileStore(path, opts...), nil
	case config.BackendEnv:
		return NewEnv(cfg.EnvVar), nil
	case config.BackendRedis:
		s, err := NewRedisStore(RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Key:      cfg.Redis.Key,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, apperrors.ConfigInvalid("credential.backend", "unknown backend "+cfg.Backend)
	}
}
