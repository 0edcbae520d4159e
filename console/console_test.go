package console

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/adminkit/client"
	apperrors "github.com/kbukum/adminkit/errors"
	"github.com/kbukum/adminkit/httpclient"
	"github.com/kbukum/adminkit/mutation"
	"github.com/kbukum/adminkit/notify"
	"github.com/kbukum/adminkit/query"
)

type fakeAPI struct {
	mu       sync.Mutex
	requests []httpclient.Request
	respond  func(req httpclient.Request) (int, string)
}

func (f *fakeAPI) Do(_ context.Context, req httpclient.Request) (*httpclient.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	status, body := http.StatusOK, `{}`
	if f.respond != nil {
		status, body = f.respond(req)
	}
	resp := &httpclient.Response{StatusCode: status, Body: []byte(body)}
	if err := httpclient.ClassifyStatusCode(status, resp.Body); err != nil {
		return resp, err
	}
	return resp, nil
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func newConsole(api *fakeAPI) (*Console, *notify.Recorder) {
	rec := notify.NewRecorder()
	return New(client.Pair{Public: api, Secure: api}, query.NewCache(), rec), rec
}

func TestMutate_SuccessNotification(t *testing.T) {
	api := &fakeAPI{respond: func(httpclient.Request) (int, string) {
		return http.StatusCreated, `{"message":"Created"}`
	}}
	c, rec := newConsole(api)
	a := c.Mutation(mutation.Options{Path: "/api/projects", Secure: true})

	res, err := c.Mutate(context.Background(), a, mutation.Variables{Data: map[string]string{"title": "x"}})
	require.NoError(t, err)
	assert.Equal(t, "Created", res.Message)

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, notify.KindLoading, events[0].Kind)
	assert.Equal(t, notify.DefaultPending, events[0].Message)
	assert.Equal(t, notify.KindSuccess, events[1].Kind)
	assert.Equal(t, "Created", events[1].Message)
	assert.Equal(t, events[0].Handle, events[1].Handle)
}

func TestMutate_DefaultSuccessMessage(t *testing.T) {
	c, rec := newConsole(&fakeAPI{})
	a := c.Mutation(mutation.Options{Path: "/api/projects/1", Verb: mutation.VerbDelete, SuccessMessage: "Project Deleted Successfully!"})

	_, err := c.Mutate(context.Background(), a, mutation.Variables{})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Count(notify.KindSuccess))
	assert.Equal(t, "Project Deleted Successfully!", rec.Events()[1].Message)
}

func TestMutate_ErrorNotificationAndReturn(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message from body", `{"message":"Conflict"}`, "Conflict"},
		{"fallback", `{}`, notify.DefaultFailure},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeAPI{respond: func(httpclient.Request) (int, string) {
				return http.StatusConflict, tc.body
			}}
			c, rec := newConsole(api)
			a := c.Mutation(mutation.Options{Path: "/x"})

			var gotErr error
			res, err := c.Mutate(context.Background(), a, mutation.Variables{}, OnError(func(err error) {
				gotErr = err
			}))
			require.Error(t, err)
			assert.Nil(t, res)
			assert.Same(t, err, gotErr)
			assert.Equal(t, tc.want, mutation.FailureMessage(err))

			require.Len(t, rec.Events(), 2)
			assert.Equal(t, 1, rec.Count(notify.KindError))
			assert.Equal(t, tc.want, rec.Events()[1].Message)
			assert.Empty(t, rec.Pending())
		})
	}
}

func TestMutate_ConfigErrorNotNotified(t *testing.T) {
	api := &fakeAPI{}
	c, rec := newConsole(api)
	a := c.Mutation(mutation.Options{})

	called := false
	_, err := c.Mutate(context.Background(), a, mutation.Variables{}, OnSettled(func(*mutation.Result, error) {
		called = true
	}))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeMissingTarget))
	assert.Empty(t, rec.Events())
	assert.False(t, called)
	assert.Zero(t, api.count())
}

func TestMutate_CallbacksRunOnce(t *testing.T) {
	c, _ := newConsole(&fakeAPI{})
	a := c.Mutation(mutation.Options{Path: "/x"})

	var success, failure, settled int
	_, err := c.Mutate(context.Background(), a, mutation.Variables{},
		OnSuccess(func(*mutation.Result) { success++ }),
		OnError(func(error) { failure++ }),
		OnSettled(func(*mutation.Result, error) { settled++ }),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, success)
	assert.Equal(t, 0, failure)
	assert.Equal(t, 1, settled)
}

func TestMutate_ContactInfoInvalidatesOnce(t *testing.T) {
	api := &fakeAPI{respond: func(req httpclient.Request) (int, string) {
		if req.Method == http.MethodGet {
			return http.StatusOK, `{"heading":"Old"}`
		}
		return http.StatusOK, `{"message":"Contact Information Saved Successfully!"}`
	}}
	c, rec := newConsole(api)

	info := Query(c, query.Options[map[string]string]{Key: "contact-info", Path: "/api/contact-info", Enabled: true})
	info.Get(context.Background())
	require.Equal(t, 1, api.count())

	invalidations := 0
	a := c.Mutation(mutation.Options{Path: "/api/contact-info"})
	_, err := c.Mutate(context.Background(), a, mutation.Variables{Data: map[string]string{"heading": "Hi"}},
		c.Invalidate("contact-info"),
		OnSuccess(func(*mutation.Result) { invalidations++ }),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, invalidations)

	api.mu.Lock()
	post := api.requests[1]
	api.mu.Unlock()
	assert.Equal(t, http.MethodPost, post.Method)
	assert.Equal(t, "/api/contact-info", post.Path)
	body, err := json.Marshal(post.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"heading":"Hi"}`, string(body))

	assert.Equal(t, "Contact Information Saved Successfully!", rec.Events()[1].Message)

	info.Get(context.Background())
	assert.Equal(t, 3, api.count(), "invalidated key should refetch")
}

func TestMutate_ConcurrentHandlesIndependent(t *testing.T) {
	release := make(chan struct{})
	api := &fakeAPI{respond: func(req httpclient.Request) (int, string) {
		if req.Path == "/slow" {
			<-release
			return http.StatusBadRequest, `{"message":"slow failed"}`
		}
		return http.StatusOK, `{"message":"fast ok"}`
	}}
	c, rec := newConsole(api)
	a := c.Mutation(mutation.Options{Path: "/fast"})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = c.Mutate(context.Background(), a, mutation.Variables{Path: "/slow"})
	}()

	_, err := c.Mutate(context.Background(), a, mutation.Variables{})
	require.NoError(t, err)
	close(release)
	wg.Wait()

	loading := 0
	for _, e := range rec.Events() {
		if e.Kind == notify.KindLoading {
			loading++
		}
	}
	require.Equal(t, 2, loading)

	var handles []notify.Handle
	for _, e := range rec.Events() {
		if e.Kind == notify.KindLoading {
			handles = append(handles, e.Handle)
		}
	}
	require.NotEqual(t, handles[0], handles[1])

	for _, h := range handles {
		events := rec.ForHandle(h)
		require.Len(t, events, 2, "each handle resolves exactly once")
		switch events[1].Kind {
		case notify.KindSuccess:
			assert.Equal(t, "fast ok", events[1].Message)
		case notify.KindError:
			assert.Equal(t, "slow failed", events[1].Message)
		default:
			t.Fatalf("unexpected resolution %v", events[1].Kind)
		}
	}
	assert.Empty(t, rec.Pending())
}

func TestNew_Defaults(t *testing.T) {
	c := New(client.Pair{}, nil, nil)
	assert.NotNil(t, c.Cache)
	assert.Equal(t, notify.Discard, c.Notifier)
}
