// Package validation validates adminkit configuration structs.
//
// Struct tag validation uses go-playground/validator with field names taken
// from mapstructure (then yaml, then json) tags so messages match the keys
// users write in config files:
//
//	type APIConfig struct {
//	    BaseURL string `mapstructure:"base_url" validate:"required,url"`
//	}
//	err := validation.Validate(cfg)
//
// Cross-field rules use the programmatic Validator:
//
//	v := validation.New()
//	v.Required("credential.path", cfg.Path)
//	err := v.Validate()
package validation
