// Package api exposes the admin API's resources as typed calls built on
// the query and mutation adapters.
package api

import (
	"context"
	"net/url"

	"github.com/kbukum/adminkit/console"
	"github.com/kbukum/adminkit/credential"
	apperrors "github.com/kbukum/adminkit/errors"
	"github.com/kbukum/adminkit/logger"
	"github.com/kbukum/adminkit/mutation"
	"github.com/kbukum/adminkit/query"
)

// Endpoint paths, relative to the API base URL.
const (
	PathLogin          = "/api/auth/login"
	PathSignup         = "/api/auth/signup"
	PathForgotPassword = "/api/auth/forgot-password"
	PathResetPassword  = "/api/auth/reset-password"
	PathProjects       = "/api/projects"
	PathContacts       = "/api/contact"
	PathContactInfo    = "/api/contact-info"
)

// Cache keys for the list queries.
const (
	KeyAllProjects = "all-projects"
	KeyAllContact  = "all-contact"
	KeyContactInfo = "contact-info"
)

// Default success messages.
const (
	MsgLogin          = "Login successful!"
	MsgSignup         = "Account created successfully!"
	MsgForgotPassword = "Password reset link sent to your email!"
	MsgResetPassword  = "Password reset successfully!"
	MsgProjectAdded   = "Project Added Successfully!"
	MsgProjectUpdated = "Project updated successfully!"
	MsgProjectDeleted = "Project Deleted Successfully!"
	MsgContactInfo    = "Contact Information Saved Successfully!"
)

// API is the typed admin API client.
type API struct {
	console *console.Console
	store   credential.Store
	log     *logger.Logger
}

// New creates an API over c. store receives the token on login and is
// cleared on logout; it may be nil when neither is used.
func New(c *console.Console, store credential.Store) *API {
	return &API{
		console: c,
		store:   store,
		log:     logger.Get("api"),
	}
}

// Console returns the underlying console.
func (a *API) Console() *console.Console { return a.console }

func projectPath(id string) string {
	return PathProjects + "/" + url.PathEscape(id)
}

// --- Auth ---

// Login exchanges credentials for a token and saves it to the store.
func (a *API) Login(ctx context.Context, req LoginRequest, cbs ...console.Callback) (*LoginResponse, error) {
	m := a.console.Mutation(mutation.Options{Path: PathLogin, SuccessMessage: MsgLogin})
	res, err := a.console.Mutate(ctx, m, mutation.Variables{Data: req}, cbs...)
	if err != nil {
		return nil, err
	}

	out, err := mutation.Decode[LoginResponse](res)
	if err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, apperrors.InvalidResponse(nil).WithDetail("field", "token")
	}

	if a.store != nil {
		if err := a.store.Save(ctx, out.Token); err != nil {
			return nil, err
		}
		a.log.Info("credential saved", logger.Fields("email", req.Email))
	}
	return &out, nil
}

// Logout clears the stored token and every cached read.
func (a *API) Logout(ctx context.Context) error {
	a.console.Cache.Clear()
	if a.store == nil {
		return nil
	}
	return a.store.Clear(ctx)
}

// Signup registers an account.
func (a *API) Signup(ctx context.Context, req SignupRequest, cbs ...console.Callback) (*mutation.Result, error) {
	m := a.console.Mutation(mutation.Options{Path: PathSignup, SuccessMessage: MsgSignup})
	return a.console.Mutate(ctx, m, mutation.Variables{Data: req}, cbs...)
}

// ForgotPassword requests a reset link.
func (a *API) ForgotPassword(ctx context.Context, req ForgotPasswordRequest, cbs ...console.Callback) (*mutation.Result, error) {
	m := a.console.Mutation(mutation.Options{Path: PathForgotPassword, SuccessMessage: MsgForgotPassword})
	return a.console.Mutate(ctx, m, mutation.Variables{Data: req}, cbs...)
}

// ResetPassword sets a new password.
func (a *API) ResetPassword(ctx context.Context, req ResetPasswordRequest, cbs ...console.Callback) (*mutation.Result, error) {
	m := a.console.Mutation(mutation.Options{Path: PathResetPassword, SuccessMessage: MsgResetPassword})
	return a.console.Mutate(ctx, m, mutation.Variables{Data: req}, cbs...)
}

// --- Projects ---

// ProjectsQuery returns the cached project list query.
func (a *API) ProjectsQuery() *query.Query[[]Project] {
	return console.Query(a.console, query.Options[[]Project]{
		Key:     KeyAllProjects,
		Path:    PathProjects,
		Enabled: true,
		Secure:  true,
	})
}

// Projects reads the project list.
func (a *API) Projects(ctx context.Context) query.State[[]Project] {
	return a.ProjectsQuery().Get(ctx)
}

// AddProject creates a project from a multipart form.
func (a *API) AddProject(ctx context.Context, in ProjectInput, cbs ...console.Callback) (*Project, *mutation.Result, error) {
	m := a.console.Mutation(mutation.Options{Path: PathProjects, Secure: true, SuccessMessage: MsgProjectAdded})
	cbs = append([]console.Callback{a.console.Invalidate(KeyAllProjects)}, cbs...)
	res, err := a.console.Mutate(ctx, m, mutation.Variables{Data: in.Multipart()}, cbs...)
	if err != nil {
		return nil, nil, err
	}
	return decodeProject(res)
}

// UpdateProject replaces a project's fields.
func (a *API) UpdateProject(ctx context.Context, id string, in ProjectInput, cbs ...console.Callback) (*Project, *mutation.Result, error) {
	m := a.console.Mutation(mutation.Options{Secure: true, SuccessMessage: MsgProjectUpdated})
	cbs = append([]console.Callback{a.console.Invalidate(KeyAllProjects)}, cbs...)
	res, err := a.console.Mutate(ctx, m, mutation.Variables{
		Verb: "put",
		Path: projectPath(id),
		Data: in.Multipart(),
	}, cbs...)
	if err != nil {
		return nil, nil, err
	}
	return decodeProject(res)
}

// DeleteProject removes a project.
func (a *API) DeleteProject(ctx context.Context, id string, cbs ...console.Callback) (*mutation.Result, error) {
	m := a.console.Mutation(mutation.Options{Secure: true, SuccessMessage: MsgProjectDeleted})
	cbs = append([]console.Callback{a.console.Invalidate(KeyAllProjects)}, cbs...)
	return a.console.Mutate(ctx, m, mutation.Variables{Verb: "delete", Path: projectPath(id)}, cbs...)
}

func decodeProject(res *mutation.Result) (*Project, *mutation.Result, error) {
	body, err := mutation.Decode[projectResponse](res)
	if err != nil {
		return nil, res, err
	}
	return body.project(), res, nil
}

// --- Contacts ---

// ContactsQuery returns the cached contact list query.
func (a *API) ContactsQuery() *query.Query[[]Contact] {
	return console.Query(a.console, query.Options[[]Contact]{
		Key:     KeyAllContact,
		Path:    PathContacts,
		Enabled: true,
		Secure:  true,
	})
}

// Contacts reads the contact messages.
func (a *API) Contacts(ctx context.Context) query.State[[]Contact] {
	return a.ContactsQuery().Get(ctx)
}

// ContactInfoQuery returns the cached contact block query.
func (a *API) ContactInfoQuery() *query.Query[ContactInfo] {
	return console.Query(a.console, query.Options[ContactInfo]{
		Key:     KeyContactInfo,
		Path:    PathContactInfo,
		Enabled: true,
	})
}

// ContactInfo reads the contact block.
func (a *API) ContactInfo(ctx context.Context) query.State[ContactInfo] {
	return a.ContactInfoQuery().Get(ctx)
}

// SaveContactInfo replaces the contact block.
func (a *API) SaveContactInfo(ctx context.Context, info ContactInfo, cbs ...console.Callback) (*mutation.Result, error) {
	m := a.console.Mutation(mutation.Options{Path: PathContactInfo, SuccessMessage: MsgContactInfo})
	cbs = append([]console.Callback{a.console.Invalidate(KeyContactInfo)}, cbs...)
	return a.console.Mutate(ctx, m, mutation.Variables{Data: info}, cbs...)
}

// --- Generic ---

// Request sends an arbitrary mutation. verb is case-insensitive and
// defaults to POST.
func (a *API) Request(ctx context.Context, verb, path string, data any, secure bool, cbs ...console.Callback) (*mutation.Result, error) {
	m := a.console.Mutation(mutation.Options{Secure: secure})
	return a.console.Mutate(ctx, m, mutation.Variables{Verb: verb, Path: path, Data: data}, cbs...)
}
