package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/adminkit/version"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			p := a.printer()
			if p.format == formatTable {
				p.line("%s", info.String())
				return nil
			}
			return p.print(info, nil, nil)
		},
	}
}
