package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/kbukum/adminkit/errors"
	"github.com/kbukum/adminkit/mutation"
)

// requestView is printed for dry runs and json/yaml results.
type requestView struct {
	Method  string            `json:"method" yaml:"method"`
	Path    string            `json:"path" yaml:"path"`
	Secure  bool              `json:"secure" yaml:"secure"`
	Query   map[string]string `json:"query,omitempty" yaml:"query,omitempty"`
	Body    any               `json:"body,omitempty" yaml:"body,omitempty"`
	Status  int               `json:"status,omitempty" yaml:"status,omitempty"`
	Message string            `json:"message,omitempty" yaml:"message,omitempty"`
	Result  any               `json:"result,omitempty" yaml:"result,omitempty"`
}

func newRequestCmd(a *app) *cobra.Command {
	var (
		data    string
		secure  bool
		dryRun  bool
		success string
	)

	cmd := &cobra.Command{
		Use:   "request <verb> <path>",
		Short: "Send an arbitrary mutation to the API",
		Long: "Send an arbitrary request through the mutation pipeline. The verb is one of\n" +
			"get, post, put, patch or delete; an empty verb means post. For get, the\n" +
			"JSON object passed with --data is sent as query parameters.",
		Example: "  adminctl request post /api/contact --data '{\"name\":\"Ann\",\"email\":\"ann@example.com\",\"message\":\"Hi\"}'\n" +
			"  adminctl request delete /api/projects/42 --secure",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := parsePayload(data)
			if err != nil {
				return err
			}
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			vars := mutation.Variables{Verb: args[0], Path: args[1], Data: payload}
			m := c.Console().Mutation(mutation.Options{Secure: secure, SuccessMessage: success})

			if dryRun {
				call, err := m.Prepare(vars)
				if err != nil {
					return err
				}
				req := call.Request()
				return a.printer().print(requestView{
					Method: req.Method,
					Path:   req.Path,
					Secure: call.Secure(),
					Query:  req.Query,
					Body:   req.Body,
				}, []string{"METHOD", "PATH", "SECURE", "QUERY", "BODY"}, [][]string{{
					req.Method, req.Path, yesNo(call.Secure()), encodeInline(req.Query), encodeInline(req.Body),
				}})
			}

			res, err := c.Console().Mutate(cmd.Context(), m, vars)
			if err != nil {
				return err
			}
			p := a.printer()
			if p.format == formatTable {
				if len(bytes.TrimSpace(res.Body)) > 0 {
					var out bytes.Buffer
					if json.Indent(&out, res.Body, "", "  ") == nil {
						p.line("%s", out.String())
					} else {
						p.line("%s", res.Body)
					}
				}
				return nil
			}
			var result any
			_ = json.Unmarshal(res.Body, &result)
			return p.print(requestView{
				Method:  methodOf(vars),
				Path:    args[1],
				Secure:  secure,
				Status:  res.StatusCode,
				Message: res.Message,
				Result:  result,
			}, nil, nil)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&data, "data", "", "JSON payload, or @file to read it from a file")
	fl.BoolVar(&secure, "secure", false, "send the stored bearer token")
	fl.BoolVar(&dryRun, "dry-run", false, "print the request that would be sent without sending it")
	fl.StringVar(&success, "success-message", "", "notification shown when the API returns no message")
	return cmd
}

// methodOf returns the method a verb resolves to, for display.
func methodOf(vars mutation.Variables) string {
	v, err := mutation.ParseVerb(vars.Verb)
	if err != nil {
		return strings.ToUpper(vars.Verb)
	}
	if v == mutation.VerbDefault {
		v = mutation.VerbPost
	}
	return v.String()
}

// parsePayload decodes --data. Numbers keep their literal form.
func parsePayload(s string) (any, error) {
	if s == "" {
		return nil, nil
	}
	raw := []byte(s)
	if path, ok := strings.CutPrefix(s, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.InvalidPayload("cannot read " + path + ": " + err.Error())
		}
		raw = b
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, apperrors.InvalidPayload("--data is not valid JSON: " + err.Error())
	}
	return v, nil
}

func encodeInline(v any) string {
	if v == nil {
		return "-"
	}
	if m, ok := v.(map[string]string); ok && len(m) == 0 {
		return "-"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "?"
	}
	return truncate(string(b), 60)
}
