package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/adminkit/api"
	"github.com/kbukum/adminkit/api/apitest"
	apperrors "github.com/kbukum/adminkit/errors"
	"github.com/kbukum/adminkit/logger"
	"github.com/kbukum/adminkit/server"
)

const (
	defaultMockUser     = "Admin:admin@example.com:admin123"
	defaultMockTokenTTL = 24 * time.Hour
)

func newMockServerCmd(a *app) *cobra.Command {
	var (
		cfg    server.Config
		users  []string
		secret string
		ttl    time.Duration
		seed   bool
	)

	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Serve an in-memory admin API for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := mockOptions(users, secret, ttl, seed)
			if err != nil {
				return err
			}
			cfg.ApplyDefaults()
			if err := cfg.Validate(); err != nil {
				return apperrors.ConfigInvalid("server", err.Error())
			}

			srv := server.New(cfg, logger.Get("mock-server"))
			srv.ApplyMiddleware()
			apitest.New(opts...).Register(srv.Engine())

			if err := srv.Start(cmd.Context()); err != nil {
				return err
			}
			a.printer().line("Mock admin API listening on http://%s (ctrl-c to stop)", srv.Addr())
			for _, u := range users {
				parts := strings.SplitN(u, ":", 3)
				a.printer().line("  user %s / %s", parts[1], parts[2])
			}

			<-cmd.Context().Done()
			return srv.Stop(context.Background())
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&cfg.Host, "host", "127.0.0.1", "listen host")
	fl.IntVarP(&cfg.Port, "port", "p", 5000, "listen port")
	fl.StringArrayVar(&users, "user", []string{defaultMockUser}, "account as name:email:password, repeatable")
	fl.StringVar(&secret, "secret", "", "HMAC key for issued tokens")
	fl.DurationVar(&ttl, "token-ttl", defaultMockTokenTTL, "lifetime of issued tokens")
	fl.BoolVar(&seed, "seed", false, "preload sample projects and contact info")
	return cmd
}

// mockOptions turns the mock-server flags into apitest options.
func mockOptions(users []string, secret string, ttl time.Duration, seed bool) ([]apitest.Option, error) {
	var opts []apitest.Option
	for _, u := range users {
		parts := strings.SplitN(u, ":", 3)
		if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
			return nil, apperrors.Validation(fmt.Sprintf("--user %q must be name:email:password", u))
		}
		opts = append(opts, apitest.WithUser(parts[0], parts[1], parts[2]))
	}
	if secret != "" {
		opts = append(opts, apitest.WithSecret([]byte(secret)))
	}
	if ttl > 0 {
		opts = append(opts, apitest.WithTokenTTL(ttl))
	}
	if seed {
		opts = append(opts,
			apitest.WithProjects(
				api.Project{
					Title:        "Portfolio",
					Description:  "Personal site with an admin dashboard.",
					Stack:        "MERN",
					Github:       "https://github.com/example/portfolio",
					Popular:      true,
					Technologies: api.Technologies{"React", "Node", "MongoDB"},
					CreatedAt:    time.Now().Add(-48 * time.Hour),
				},
				api.Project{
					Title:        "Weather CLI",
					Description:  "Forecasts in the terminal.",
					Stack:        "Go",
					Technologies: api.Technologies{"Go", "Cobra"},
					CreatedAt:    time.Now().Add(-24 * time.Hour),
				},
			),
			apitest.WithContactInfo(api.ContactInfo{
				Heading:      "Get in touch",
				Email:        "hello@example.com",
				Phone:        "+1 555 0100",
				SupportEmail: "support@example.com",
				Latitude:     40.7128,
				Longitude:    -74.006,
			}),
		)
	}
	return opts, nil
}
