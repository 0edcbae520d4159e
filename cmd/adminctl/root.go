package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd builds the adminctl command tree. The returned app owns the
// resources opened by subcommands and must be closed after Execute.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:           "adminctl",
		Short:         "Manage projects, contacts and contact info of the portfolio admin API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVarP(&a.opts.configFile, "config", "c", "", "config file (default ./adminctl.yml or ~/.config/adminctl/config.yml)")
	f.StringVar(&a.opts.envFile, "env-file", "", "dotenv file to load before reading ADMINCTL_ variables")
	f.StringVar(&a.opts.baseURL, "api-url", "", "admin API base URL, overrides api.base_url")
	f.StringVarP(&a.opts.output, "output", "o", formatTable, "output format: table, json or yaml")
	f.BoolVarP(&a.opts.debug, "debug", "d", false, "enable debug logging")
	f.BoolVar(&a.opts.noColor, "no-color", false, "disable colored output")
	f.BoolVarP(&a.opts.quiet, "quiet", "q", false, "suppress notifications")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newStatusCmd(a),
		newSignupCmd(a),
		newForgotPasswordCmd(a),
		newResetPasswordCmd(a),
		newProjectsCmd(a),
		newContactsCmd(a),
		newContactInfoCmd(a),
		newRequestCmd(a),
		newMockServerCmd(a),
		newVersionCmd(a),
	)
	return root, a
}
