package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/adminkit/api"
	"github.com/kbukum/adminkit/api/apitest"
	"github.com/kbukum/adminkit/client"
	"github.com/kbukum/adminkit/console"
	"github.com/kbukum/adminkit/credential"
	"github.com/kbukum/adminkit/httpclient"
	"github.com/kbukum/adminkit/mutation"
	"github.com/kbukum/adminkit/notify"
	"github.com/kbukum/adminkit/query"
)

type harness struct {
	srv   *apitest.Server
	store *credential.Memory
	rec   *notify.Recorder
	api   *api.API
}

// newHarness builds an API against a fresh fake server. When loggedIn is
// set, the selector is built with a valid token for admin@example.com.
func newHarness(t *testing.T, loggedIn bool, opts ...apitest.Option) *harness {
	t.Helper()
	opts = append([]apitest.Option{apitest.WithUser("Admin", "admin@example.com", "secret123")}, opts...)
	srv, ts := apitest.NewTestServer(t, opts...)

	store := credential.NewMemory("")
	if loggedIn {
		tok, err := srv.IssueToken("admin@example.com")
		require.NoError(t, err)
		require.NoError(t, store.Save(context.Background(), tok))
	}

	sel, err := client.New(context.Background(), httpclient.Config{BaseURL: ts.URL}, store)
	require.NoError(t, err)
	t.Cleanup(sel.Close)

	rec := notify.NewRecorder()
	c := console.New(sel, query.NewCache(), rec)
	return &harness{srv: srv, store: store, rec: rec, api: api.New(c, store)}
}

func TestLogin_SavesToken(t *testing.T) {
	h := newHarness(t, false)

	out, err := h.api.Login(context.Background(), api.LoginRequest{Email: "admin@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)

	saved, err := h.store.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, out.Token, saved)

	claims, err := credential.Inspect(saved)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)

	reqs := h.srv.RequestsTo(http.MethodPost, api.PathLogin)
	require.Len(t, reqs, 1)
	assert.Empty(t, reqs[0].Authorization, "login goes through the public client")

	events := h.rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "Login successful", events[1].Message)
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t, false)

	_, err := h.api.Login(context.Background(), api.LoginRequest{Email: "admin@example.com", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", mutation.FailureMessage(err))
	assert.True(t, httpclient.IsAuth(err))

	_, tokErr := h.store.Token(context.Background())
	assert.True(t, errors.Is(tokErr, credential.ErrNoToken))
	assert.Equal(t, 1, h.rec.Count(notify.KindError))
}

func TestLogout_ClearsStoreAndCache(t *testing.T) {
	h := newHarness(t, true, apitest.WithProjects(api.Project{Title: "A"}))

	require.True(t, h.api.Projects(context.Background()).IsSuccess())
	require.NoError(t, h.api.Logout(context.Background()))

	_, err := h.store.Token(context.Background())
	assert.ErrorIs(t, err, credential.ErrNoToken)
	assert.Equal(t, query.StatusIdle, h.api.ProjectsQuery().Peek().Status)
}

func TestSignupForgotReset(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()

	res, err := h.api.Signup(ctx, api.SignupRequest{Name: "New", Email: "new@example.com", Password: "pw123456"})
	require.NoError(t, err)
	assert.Equal(t, "User registered successfully", res.Message)
	assert.True(t, h.srv.HasUser("new@example.com"))

	_, err = h.api.Signup(ctx, api.SignupRequest{Name: "New", Email: "new@example.com", Password: "pw123456"})
	require.Error(t, err)
	assert.Equal(t, "User already exists", mutation.FailureMessage(err))

	res, err = h.api.ForgotPassword(ctx, api.ForgotPasswordRequest{Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Password reset link sent", res.Message)

	tok := h.srv.ResetToken("new@example.com")
	require.NotEmpty(t, tok)

	_, err = h.api.ResetPassword(ctx, api.ResetPasswordRequest{Token: "bogus", Password: "changed1"})
	require.Error(t, err)
	assert.Equal(t, "Invalid or expired token", mutation.FailureMessage(err), "nested error.message is used")

	_, err = h.api.ResetPassword(ctx, api.ResetPasswordRequest{Token: tok, Password: "changed1"})
	require.NoError(t, err)

	_, err = h.api.Login(ctx, api.LoginRequest{Email: "new@example.com", Password: "changed1"})
	require.NoError(t, err)
}

func TestProjects_RequiresToken(t *testing.T) {
	h := newHarness(t, false)

	state := h.api.Projects(context.Background())
	require.True(t, state.IsError())
	assert.True(t, httpclient.IsAuth(state.Err))

	reqs := h.srv.RequestsTo(http.MethodGet, api.PathProjects)
	require.Len(t, reqs, 1, "auth failures are not retried")
	assert.Empty(t, reqs[0].Authorization)
}

func TestProjects_CRUD(t *testing.T) {
	h := newHarness(t, true, apitest.WithProjects(api.Project{ID: "p1", Title: "Seed", Technologies: api.Technologies{"go"}}))
	ctx := context.Background()

	state := h.api.Projects(ctx)
	require.True(t, state.IsSuccess(), "%v", state.Err)
	require.Len(t, state.Data, 1)

	popular := true
	created, res, err := h.api.AddProject(ctx, api.ProjectInput{
		Title:        "Portfolio",
		Description:  "A site",
		Stack:        "MERN",
		Popular:      &popular,
		Technologies: api.Technologies{"React", "Node"},
		Image:        &httpclient.FileField{FileName: "shot.png", ContentType: "image/png", Data: []byte("png")},
	})
	require.NoError(t, err)
	assert.Equal(t, api.MsgProjectAdded, res.Message, "no message in body, default is used")
	require.NotNil(t, created)
	assert.Equal(t, "Portfolio", created.Title)
	assert.Equal(t, api.Technologies{"React", "Node"}, created.Technologies)
	assert.True(t, bool(created.Popular))
	assert.Equal(t, "/uploads/shot.png", created.Image)

	post := h.srv.RequestsTo(http.MethodPost, api.PathProjects)
	require.Len(t, post, 1)
	assert.True(t, strings.HasPrefix(post[0].Authorization, "Bearer "))
	assert.Equal(t, "multipart/form-data", post[0].ContentType)
	assert.Contains(t, string(post[0].Body), "React, Node")

	state = h.api.Projects(ctx)
	require.Len(t, state.Data, 2, "list refetched after invalidation")

	updated, res, err := h.api.UpdateProject(ctx, created.ID, api.ProjectInput{
		Title:        "Portfolio v2",
		Description:  "A site",
		Stack:        "MERN",
		Technologies: api.Technologies{"React"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Project updated", res.Message)
	require.NotNil(t, updated)
	assert.Equal(t, "Portfolio v2", updated.Title)
	assert.True(t, bool(updated.Popular), "popular is left alone when omitted")

	res, err = h.api.DeleteProject(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Project deleted", res.Message)

	del := h.srv.RequestsTo(http.MethodDelete, api.PathProjects+"/p1")
	require.Len(t, del, 1)
	assert.Empty(t, del[0].Body)

	state = h.api.Projects(ctx)
	require.Len(t, state.Data, 1)
	assert.Equal(t, "Portfolio v2", state.Data[0].Title)

	_, err = h.api.DeleteProject(ctx, "missing")
	require.Error(t, err)
	assert.Equal(t, "Project not found", mutation.FailureMessage(err))
}

func TestContacts(t *testing.T) {
	h := newHarness(t, true, apitest.WithContacts(api.Contact{ID: "c1", Name: "Ann", Email: "ann@example.com", Message: "Hello"}))

	state := h.api.Contacts(context.Background())
	require.True(t, state.IsSuccess(), "%v", state.Err)
	require.Len(t, state.Data, 1)
	assert.Equal(t, "Ann", state.Data[0].Name)
}

func TestContactInfo_SaveInvalidates(t *testing.T) {
	h := newHarness(t, false, apitest.WithContactInfo(api.ContactInfo{Heading: "Old"}))
	ctx := context.Background()

	state := h.api.ContactInfo(ctx)
	require.True(t, state.IsSuccess(), "%v", state.Err)
	assert.Equal(t, "Old", state.Data.Heading)

	settled := 0
	res, err := h.api.SaveContactInfo(ctx, api.ContactInfo{
		Heading:      "Hi",
		Email:        "info@example.com",
		Phone:        "+1 555",
		SupportEmail: "help@example.com",
		Latitude:     23.81,
		Longitude:    90.41,
	}, console.OnSettled(func(*mutation.Result, error) { settled++ }))
	require.NoError(t, err)
	assert.Equal(t, api.MsgContactInfo, res.Message)
	assert.Equal(t, 1, settled)

	post := h.srv.RequestsTo(http.MethodPost, api.PathContactInfo)
	require.Len(t, post, 1)
	assert.Empty(t, post[0].Authorization)
	var body map[string]any
	require.NoError(t, json.Unmarshal(post[0].Body, &body))
	assert.Equal(t, "Hi", body["heading"])
	assert.Equal(t, "help@example.com", body["supportEmail"])

	state = h.api.ContactInfo(ctx)
	assert.Equal(t, "Hi", state.Data.Heading)
	assert.Len(t, h.srv.RequestsTo(http.MethodGet, api.PathContactInfo), 2)
}

func TestRequest_Generic(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	res, err := h.api.Request(ctx, "post", api.PathContacts, map[string]string{
		"name": "Bob", "email": "bob@example.com", "message": "Hi there",
	}, false)
	require.NoError(t, err)
	assert.Equal(t, "Message sent", res.Message)

	res, err = h.api.Request(ctx, "GET", api.PathContacts, map[string]string{"page": "1"}, true)
	require.NoError(t, err)
	var contacts []api.Contact
	require.NoError(t, json.Unmarshal(res.Body, &contacts))
	require.Len(t, contacts, 1)

	get := h.srv.RequestsTo(http.MethodGet, api.PathContacts)
	require.Len(t, get, 1)
	assert.Equal(t, "page=1", get[0].Query)
	assert.Empty(t, get[0].Body)

	_, err = h.api.Request(ctx, "trace", api.PathContacts, nil, false)
	require.Error(t, err)
	assert.True(t, mutation.IsConfigError(err))
}
