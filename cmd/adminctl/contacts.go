package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/adminkit/api"
	"github.com/kbukum/adminkit/httpclient"
)

func newContactsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Read messages left through the contact form",
	}
	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List contact messages",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			st := c.Contacts(cmd.Context())
			if st.IsError() {
				return st.Err
			}
			contacts := st.Data
			if contacts == nil {
				contacts = []api.Contact{}
			}
			rows := make([][]string, 0, len(contacts))
			for _, ct := range contacts {
				rows = append(rows, []string{
					ct.Name,
					ct.Email,
					truncate(ct.Message, 48),
					formatTime(ct.CreatedAt),
				})
			}
			return a.printer().print(contacts, []string{"NAME", "EMAIL", "MESSAGE", "RECEIVED"}, rows)
		},
	})
	return cmd
}

func newContactInfoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact-info",
		Short: "Show or update the site's contact block",
	}
	cmd.AddCommand(newContactInfoGetCmd(a), newContactInfoSetCmd(a))
	return cmd
}

func printContactInfo(p *printer, info api.ContactInfo) error {
	rows := [][]string{
		{"Heading", info.Heading},
		{"Email", info.Email},
		{"Phone", info.Phone},
		{"Support email", info.SupportEmail},
		{"Latitude", formatFloat(info.Latitude)},
		{"Longitude", formatFloat(info.Longitude)},
	}
	return p.print(info, []string{"FIELD", "VALUE"}, rows)
}

func newContactInfoGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the contact block",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			st := c.ContactInfo(cmd.Context())
			if st.IsError() {
				if httpclient.IsNotFound(st.Err) {
					a.printer().line("No contact information saved yet.")
					return nil
				}
				return st.Err
			}
			return printContactInfo(a.printer(), st.Data)
		},
	}
}

func newContactInfoSetCmd(a *app) *cobra.Command {
	var info api.ContactInfo

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save the contact block; unset flags keep their current values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			st := c.ContactInfo(cmd.Context())
			if st.IsError() && !httpclient.IsNotFound(st.Err) {
				return st.Err
			}
			merged := mergeContactInfo(cmd, st.Data, info)

			if _, err := c.SaveContactInfo(cmd.Context(), merged); err != nil {
				return err
			}
			saved := c.ContactInfo(cmd.Context())
			if saved.IsError() {
				return saved.Err
			}
			return printContactInfo(a.printer(), saved.Data)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&info.Heading, "heading", "", "section heading")
	fl.StringVar(&info.Email, "email", "", "public email address")
	fl.StringVar(&info.Phone, "phone", "", "phone number")
	fl.StringVar(&info.SupportEmail, "support-email", "", "support email address")
	fl.Float64Var(&info.Latitude, "lat", 0, "map latitude")
	fl.Float64Var(&info.Longitude, "lng", 0, "map longitude")
	return cmd
}

// mergeContactInfo overlays the flags the user set onto the stored block.
func mergeContactInfo(cmd *cobra.Command, current, flags api.ContactInfo) api.ContactInfo {
	out := current
	out.ID = ""
	changed := cmd.Flags().Changed
	if changed("heading") {
		out.Heading = flags.Heading
	}
	if changed("email") {
		out.Email = flags.Email
	}
	if changed("phone") {
		out.Phone = flags.Phone
	}
	if changed("support-email") {
		out.SupportEmail = flags.SupportEmail
	}
	if changed("lat") {
		out.Latitude = flags.Latitude
	}
	if changed("lng") {
		out.Longitude = flags.Longitude
	}
	return out
}
