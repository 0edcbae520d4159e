package main

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/adminkit/api"
	"github.com/kbukum/adminkit/client"
	"github.com/kbukum/adminkit/config"
	"github.com/kbukum/adminkit/console"
	"github.com/kbukum/adminkit/credential"
	apperrors "github.com/kbukum/adminkit/errors"
	"github.com/kbukum/adminkit/httpclient"
	"github.com/kbukum/adminkit/logger"
	"github.com/kbukum/adminkit/notify"
	"github.com/kbukum/adminkit/observability"
	"github.com/kbukum/adminkit/query"
	"github.com/kbukum/adminkit/version"
)

// options holds the persistent flags.
type options struct {
	configFile string
	envFile    string
	baseURL    string
	output     string
	debug      bool
	noColor    bool
	quiet      bool
}

// app is the state shared by every subcommand of one invocation.
type app struct {
	opts options
	cfg  config.AppConfig
	log  *logger.Logger

	out    io.Writer
	errOut io.Writer

	shutdown observability.Shutdown
	store    credential.Store
	selector *client.Selector
	api      *api.API
}

// init loads configuration, installs the global logger and starts
// telemetry export when enabled.
func (a *app) init(cmd *cobra.Command) error {
	a.out = cmd.OutOrStdout()
	a.errOut = cmd.ErrOrStderr()

	var lopts []config.LoaderOption
	if a.opts.configFile != "" {
		lopts = append(lopts, config.WithConfigFile(a.opts.configFile))
	}
	if a.opts.envFile != "" {
		lopts = append(lopts, config.WithEnvFile(a.opts.envFile))
	}
	if err := config.LoadConfig("adminctl", &a.cfg, lopts...); err != nil {
		return apperrors.ConfigInvalid("config", err.Error()).WithCause(err)
	}
	a.applyFlags()
	a.cfg.ApplyDefaults()

	if _, err := parseFormat(a.opts.output); err != nil {
		return err
	}

	logger.Reset()
	logger.Init(&a.cfg.Logging)
	logger.RegisterDefaults("adminctl", "client", "http", "mutation", "query", "console", "api", "notify", "credential", "mock-server")
	a.log = logger.Get("adminctl")
	a.log.Debug("configuration loaded", logger.Fields("config", a.cfg.String(), "command", cmd.CommandPath()))

	shutdown, err := observability.Setup(cmd.Context(), observability.FromAppConfig(&a.cfg, version.Get().Short()), a.cfg.Tracing.Enabled)
	if err != nil {
		return err
	}
	a.shutdown = shutdown
	return nil
}

func (a *app) applyFlags() {
	if a.opts.baseURL != "" {
		a.cfg.API.BaseURL = a.opts.baseURL
	}
	if a.opts.debug {
		a.cfg.Debug = true
		a.cfg.Logging.Level = "debug"
	}
	if a.opts.noColor {
		a.cfg.Notify.NoColor = true
		a.cfg.Logging.NoColor = true
	}
	if a.opts.quiet {
		a.cfg.Notify.Mode = config.NotifyQuiet
	}
}

// credentials opens the configured token store once.
func (a *app) credentials() (credential.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := credential.Open(a.cfg.Credential)
	if err != nil {
		return nil, err
	}
	a.store = store
	return store, nil
}

// connect validates the configuration and wires the API client stack:
// credential store, client selector, query cache, notifier and console.
func (a *app) connect(ctx context.Context) (*api.API, error) {
	if a.api != nil {
		return a.api, nil
	}
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := a.credentials()
	if err != nil {
		return nil, err
	}

	sel, err := client.New(ctx, httpclient.Config{
		BaseURL: a.cfg.API.BaseURL,
		Timeout: a.cfg.API.Timeout,
		Headers: a.cfg.API.Headers,
	}, store, httpclient.WithLogger(logger.Get("http")))
	if err != nil {
		return nil, err
	}
	a.selector = sel

	cache := query.NewCache(
		query.WithStaleTime(a.cfg.Query.StaleTime),
		query.WithRetryAttempts(a.cfg.Query.RetryAttempts),
	)
	a.api = api.New(console.New(sel, cache, a.notifier()), store)
	return a.api, nil
}

func (a *app) notifier() notify.Notifier {
	switch a.cfg.Notify.Mode {
	case config.NotifyLog:
		return notify.NewLogNotifier(logger.Get("notify"))
	case config.NotifyQuiet:
		return notify.Discard
	default:
		return notify.NewTerminal(a.errOut, a.cfg.Notify.NoColor)
	}
}

// notifies reports whether failures were already shown to the user.
func (a *app) notifies() bool {
	return a.cfg.Notify.Mode != config.NotifyQuiet
}

func (a *app) printer() *printer {
	format, _ := parseFormat(a.opts.output)
	return &printer{w: a.out, format: format}
}

// close releases everything opened during the invocation. It is safe to
// call more than once.
func (a *app) close(ctx context.Context) error {
	var errs []error
	if a.selector != nil {
		a.selector.Close()
		a.selector = nil
	}
	if c, ok := a.store.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	a.store = nil
	a.api = nil
	if a.shutdown != nil {
		errs = append(errs, a.shutdown(ctx))
		a.shutdown = nil
	}
	return errors.Join(errs...)
}
