// Package apitest is an in-memory implementation of the admin API, served
// with Gin. Package tests use it through NewTestServer and
// `adminctl mock-server` serves it for local development.
package apitest

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kbukum/adminkit/api"
	"github.com/kbukum/adminkit/logger"
	"github.com/kbukum/adminkit/server/middleware"
)

// Recorded is one request seen by the server.
type Recorded struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	ContentType   string
	Body          []byte
}

type user struct {
	id   string
	name string
	hash []byte
}

// Server holds the fake API state. It is safe for concurrent use.
type Server struct {
	mu          sync.Mutex
	secret      []byte
	tokenTTL    time.Duration
	now         func() time.Time
	users       map[string]user
	resetTokens map[string]string
	projects    []api.Project
	contacts    []api.Contact
	info        *api.ContactInfo
	requests    []Recorded
	log         *logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithUser seeds an account.
func WithUser(name, email, password string) Option {
	return func(s *Server) {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			panic(err)
		}
		s.users[strings.ToLower(email)] = user{id: uuid.NewString(), name: name, hash: hash}
	}
}

// WithProjects seeds projects.
func WithProjects(projects ...api.Project) Option {
	return func(s *Server) {
		for _, p := range projects {
			if p.ID == "" {
				p.ID = uuid.NewString()
			}
			s.projects = append(s.projects, p)
		}
	}
}

// WithContacts seeds contact messages.
func WithContacts(contacts ...api.Contact) Option {
	return func(s *Server) {
		s.contacts = append(s.contacts, contacts...)
	}
}

// WithContactInfo seeds the contact block.
func WithContactInfo(info api.ContactInfo) Option {
	return func(s *Server) {
		s.info = &info
	}
}

// WithSecret sets the HMAC key used to sign tokens.
func WithSecret(secret []byte) Option {
	return func(s *Server) {
		s.secret = secret
	}
}

// WithTokenTTL sets the lifetime of issued tokens.
func WithTokenTTL(d time.Duration) Option {
	return func(s *Server) {
		s.tokenTTL = d
	}
}

// New creates a Server.
func New(opts ...Option) *Server {
	s := &Server{
		secret:      []byte("adminkit-mock-secret"),
		tokenTTL:    24 * time.Hour,
		now:         time.Now,
		users:       make(map[string]user),
		resetTokens: make(map[string]string),
		log:         logger.Get("apitest"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns a Gin engine serving the API.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.Use(middleware.Recovery(s.log))
	s.Register(e)
	return e
}

// NewTestServer starts s on a loopback port and closes it when the test ends.
func NewTestServer(t testing.TB, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	s := New(opts...)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

// Register mounts the API routes on e.
func (s *Server) Register(e *gin.Engine) {
	e.Use(s.record())

	e.POST(api.PathLogin, s.login)
	e.POST(api.PathSignup, s.signup)
	e.POST(api.PathForgotPassword, s.forgotPassword)
	e.POST(api.PathResetPassword, s.resetPassword)
	e.GET(api.PathContactInfo, s.getContactInfo)
	e.POST(api.PathContactInfo, s.saveContactInfo)
	e.POST(api.PathContacts, s.createContact)

	secure := e.Group("", middleware.BearerAuth(s.ValidateToken))
	secure.GET(api.PathProjects, s.listProjects)
	secure.POST(api.PathProjects, s.createProject)
	secure.PUT(api.PathProjects+"/:id", s.updateProject)
	secure.DELETE(api.PathProjects+"/:id", s.deleteProject)
	secure.GET(api.PathContacts, s.listContacts)
}

func (s *Server) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}
		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method:        c.Request.Method,
			Path:          c.Request.URL.Path,
			Query:         c.Request.URL.RawQuery,
			Authorization: c.GetHeader("Authorization"),
			ContentType:   c.ContentType(),
			Body:          body,
		})
		s.mu.Unlock()
		c.Next()
	}
}

// IssueToken signs a token for a seeded account.
func (s *Server) IssueToken(email string) (string, error) {
	s.mu.Lock()
	u, ok := s.users[strings.ToLower(email)]
	s.mu.Unlock()
	if !ok {
		return "", errors.New("apitest: unknown user")
	}
	return s.sign(u, email)
}

func (s *Server) sign(u user, email string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   u.id,
		"email": email,
		"name":  u.name,
		"role":  "admin",
		"iss":   "adminkit-mock",
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateToken verifies a token signed by this server.
func (s *Server) ValidateToken(token string) (map[string]any, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ResetToken returns the pending reset token for email.
func (s *Server) ResetToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for tok, e := range s.resetTokens {
		if e == strings.ToLower(email) {
			return tok
		}
	}
	return ""
}

// Requests returns a copy of every recorded request.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Recorded, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestsTo returns the recorded requests for method and path.
func (s *Server) RequestsTo(method, path string) []Recorded {
	var out []Recorded
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Projects returns the stored projects.
func (s *Server) Projects() []api.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// ContactInfo returns the stored contact block, or nil.
func (s *Server) ContactInfo() *api.ContactInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.info == nil {
		return nil
	}
	info := *s.info
	return &info
}

// HasUser reports whether an account exists for email.
func (s *Server) HasUser(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[strings.ToLower(email)]
	return ok
}

func sortedProjects(in []api.Project) []api.Project {
	out := make([]api.Project, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
