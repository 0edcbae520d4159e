package api

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/adminkit/httpclient"
)

// Technologies is a project's tech list. The API stores it either as a
// JSON array or as one comma-separated string; both decode to a slice.
type Technologies []string

// UnmarshalJSON accepts an array of strings or a comma-separated string.
func (t *Technologies) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = cleanList(list)
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*t = ParseTechnologies(joined)
	return nil
}

// String joins the list the way the API's multipart form expects.
func (t Technologies) String() string {
	return strings.Join(t, ", ")
}

// ParseTechnologies splits a comma-separated list, dropping blanks.
func ParseTechnologies(s string) Technologies {
	return cleanList(strings.Split(s, ","))
}

func cleanList(in []string) Technologies {
	out := make(Technologies, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Project is a portfolio entry.
type Project struct {
	ID           string       `json:"_id" yaml:"id"`
	Title        string       `json:"title" yaml:"title"`
	Description  string       `json:"description" yaml:"description"`
	Stack        string       `json:"stack" yaml:"stack"`
	Github       string       `json:"github,omitempty" yaml:"github,omitempty"`
	Live         string       `json:"live,omitempty" yaml:"live,omitempty"`
	Popular      FlexBool     `json:"popular" yaml:"popular"`
	Technologies Technologies `json:"technologies" yaml:"technologies"`
	Image        string       `json:"image,omitempty" yaml:"image,omitempty"`
	CreatedAt    time.Time    `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
}

// FlexBool decodes true, "true", "on" and "1" as true. Multipart forms
// round-trip the popular flag as a string.
type FlexBool bool

// UnmarshalJSON accepts a JSON bool or a string.
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = FlexBool(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*b = FlexBool(parseBool(s))
	return nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes":
		return true
	}
	v, _ := strconv.ParseBool(s)
	return v
}

// ProjectInput is the multipart form sent to create or update a project.
type ProjectInput struct {
	Title        string
	Description  string
	Stack        string
	Github       string
	Live         string
	// Popular is omitted from the form when nil.
	Popular      *bool
	Technologies Technologies
	Image        *httpclient.FileField
}

// Multipart encodes the input as the API's form fields.
func (in ProjectInput) Multipart() *httpclient.MultipartBody {
	body := (&httpclient.MultipartBody{}).
		SetField("title", in.Title).
		SetField("description", in.Description).
		SetField("stack", in.Stack).
		SetField("github", in.Github).
		SetField("live", in.Live).
		SetField("technologies", in.Technologies.String())
	if in.Popular != nil {
		popular := ""
		if *in.Popular {
			popular = "true"
		}
		body.SetField("popular", popular)
	}
	if in.Image != nil {
		f := *in.Image
		if f.FieldName == "" {
			f.FieldName = "image"
		}
		body.AddFile(f)
	}
	return body
}

// projectResponse covers the shapes create and update responses use.
type projectResponse struct {
	Message        string   `json:"message"`
	Project        *Project `json:"project"`
	UpdatedProject *Project `json:"updatedProject"`
	Data           *Project `json:"data"`
}

func (r projectResponse) project() *Project {
	switch {
	case r.UpdatedProject != nil:
		return r.UpdatedProject
	case r.Project != nil:
		return r.Project
	default:
		return r.Data
	}
}

// Contact is a message left through the public site.
type Contact struct {
	ID        string    `json:"_id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email" yaml:"email"`
	Address   string    `json:"address,omitempty" yaml:"address,omitempty"`
	Message   string    `json:"message" yaml:"message"`
	CreatedAt time.Time `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
}

// ContactInfo is the site's contact block.
type ContactInfo struct {
	ID           string  `json:"_id,omitempty" yaml:"id,omitempty"`
	Heading      string  `json:"heading" yaml:"heading"`
	Email        string  `json:"email" yaml:"email"`
	Phone        string  `json:"phone" yaml:"phone"`
	SupportEmail string  `json:"supportEmail" yaml:"support_email"`
	Latitude     float64 `json:"latitude" yaml:"latitude"`
	Longitude    float64 `json:"longitude" yaml:"longitude"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

// SignupRequest registers a new admin account.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotPasswordRequest asks for a reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest sets a new password with a reset token.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}
