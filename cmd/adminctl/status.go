package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/adminkit/api"
	"github.com/kbukum/adminkit/credential"
	apperrors "github.com/kbukum/adminkit/errors"
	"github.com/kbukum/adminkit/httpclient"
	"github.com/kbukum/adminkit/observability"
	"github.com/kbukum/adminkit/version"
)

// session is the display view of the stored token.
type session struct {
	Subject   string    `json:"subject,omitempty" yaml:"subject,omitempty"`
	Email     string    `json:"email,omitempty" yaml:"email,omitempty"`
	Name      string    `json:"name,omitempty" yaml:"name,omitempty"`
	Role      string    `json:"role,omitempty" yaml:"role,omitempty"`
	IssuedAt  time.Time `json:"issued_at,omitempty" yaml:"issued_at,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Expired   bool      `json:"expired" yaml:"expired"`
}

type statusView struct {
	API     string                `json:"api" yaml:"api"`
	Backend string                `json:"credential_backend" yaml:"credential_backend"`
	Session *session              `json:"session,omitempty" yaml:"session,omitempty"`
	Report  *observability.Report `json:"report" yaml:"report"`
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session and probe the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := a.connect(ctx); err != nil {
				return err
			}

			view := statusView{
				API:     a.cfg.API.BaseURL,
				Backend: a.cfg.Credential.Backend,
				Report:  observability.NewReport(a.cfg.Name, version.Get().Short()),
			}
			view.Session = probeSession(ctx, view.Report, a.store)
			if rs, ok := a.store.(*credential.RedisStore); ok {
				view.Report.Probe(ctx, "redis", false, rs.Ping)
			}
			view.Report.Probe(ctx, "api", false, func(ctx context.Context) error {
				return pingAPI(ctx, a.selector.Client(false))
			})

			if err := renderStatus(a.printer(), view); err != nil {
				return err
			}
			if view.Report.Status == observability.HealthStatusDown {
				return fmt.Errorf("status: %s", view.Report.Status)
			}
			return nil
		},
	}
}

// probeSession reads and decodes the stored token. A missing or expired
// token degrades the report without failing it.
func probeSession(ctx context.Context, r *observability.Report, store credential.Store) *session {
	var s *session
	r.Probe(ctx, "credential", true, func(ctx context.Context) error {
		token, err := store.Token(ctx)
		if err != nil {
			return err
		}
		claims, err := credential.Inspect(token)
		if err != nil {
			return err
		}
		s = &session{
			Subject:   claims.Subject,
			Email:     claims.Email,
			Name:      claims.Name,
			Role:      claims.Role,
			IssuedAt:  claims.IssuedAt,
			ExpiresAt: claims.ExpiresAt,
			Expired:   claims.Expired(time.Now()),
		}
		if s.Expired {
			return apperrors.Unauthorized("the stored token has expired")
		}
		return nil
	})
	return s
}

// pingAPI succeeds when the API answers at all; HTTP error statuses still
// prove it is reachable.
func pingAPI(ctx context.Context, d httpclient.Doer) error {
	_, err := d.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: api.PathContactInfo})
	if err == nil || !(httpclient.IsConnection(err) || httpclient.IsTimeout(err)) {
		return nil
	}
	return err
}

func renderStatus(p *printer, v statusView) error {
	if p.format != formatTable {
		return p.print(v, nil, nil)
	}

	p.line("API:         %s", v.API)
	p.line("Credentials: %s", v.Backend)
	if v.Session != nil {
		who := v.Session.Email
		if who == "" {
			who = v.Session.Subject
		}
		p.line("Session:     %s (expires %s)", who, formatTime(v.Session.ExpiresAt))
	} else {
		p.line("Session:     not logged in")
	}
	p.line("Status:      %s", v.Report.Status)

	rows := make([][]string, 0, len(v.Report.Components))
	for _, h := range v.Report.Components {
		rows = append(rows, []string{h.Name, string(h.Status), h.Latency.Round(time.Millisecond).String(), h.Message})
	}
	return p.table([]string{"COMPONENT", "STATUS", "LATENCY", "MESSAGE"}, rows)
}
