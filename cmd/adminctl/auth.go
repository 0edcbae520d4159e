package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/adminkit/api"
	"github.com/kbukum/adminkit/credential"
	apperrors "github.com/kbukum/adminkit/errors"
)

// readSecret reads one line from stdin when a secret flag was left empty.
func readSecret(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	sc := bufio.NewScanner(cmd.InOrStdin())
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", apperrors.Validation("no input on stdin")
	}
	fmt.Fprintln(cmd.ErrOrStderr())
	s := strings.TrimRight(sc.Text(), "\r\n")
	if s == "" {
		return "", apperrors.Validation("value must not be empty")
	}
	return s, nil
}

func newLoginCmd(a *app) *cobra.Command {
	var req api.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				pw, err := readSecret(cmd, "Password: ")
				if err != nil {
					return err
				}
				req.Password = pw
			}
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := c.Login(cmd.Context(), req)
			if err != nil {
				return err
			}
			p := a.printer()
			if p.format != formatTable {
				return p.print(map[string]string{"email": req.Email, "message": resp.Message}, nil, nil)
			}
			p.line("Logged in as %s.", req.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "account email (required)")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "account password, read from stdin when omitted")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.Logout(cmd.Context()); err != nil {
				if errors.Is(err, credential.ErrReadOnly) {
					return apperrors.Validation(fmt.Sprintf("the token comes from $%s; unset it to log out", a.cfg.Credential.EnvVar))
				}
				return err
			}
			a.printer().line("Logged out.")
			return nil
		},
	}
}

func newSignupCmd(a *app) *cobra.Command {
	var req api.SignupRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				pw, err := readSecret(cmd, "Password: ")
				if err != nil {
					return err
				}
				req.Password = pw
			}
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			_, err = c.Signup(cmd.Context(), req)
			return err
		},
	}

	cmd.Flags().StringVarP(&req.Name, "name", "n", "", "display name (required)")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "account email (required)")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "account password, read from stdin when omitted")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newForgotPasswordCmd(a *app) *cobra.Command {
	var req api.ForgotPasswordRequest

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			_, err = c.ForgotPassword(cmd.Context(), req)
			return err
		},
	}

	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "account email (required)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newResetPasswordCmd(a *app) *cobra.Command {
	var req api.ResetPasswordRequest

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password using a reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				pw, err := readSecret(cmd, "New password: ")
				if err != nil {
					return err
				}
				req.Password = pw
			}
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			_, err = c.ResetPassword(cmd.Context(), req)
			return err
		},
	}

	cmd.Flags().StringVarP(&req.Token, "token", "t", "", "reset token from the email (required)")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "new password, read from stdin when omitted")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}
