package mutation

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	apperrors "github.com/kbukum/adminkit/errors"
	"github.com/kbukum/adminkit/httpclient"
)

// Verb is the closed set of HTTP verbs a mutation can dispatch.
type Verb int

const (
	// VerbDefault defers to the adapter's configured verb (POST when unset).
	VerbDefault Verb = iota
	VerbGet
	VerbPost
	VerbPut
	VerbPatch
	VerbDelete
)

var verbNames = map[Verb]string{
	VerbGet:    http.MethodGet,
	VerbPost:   http.MethodPost,
	VerbPut:    http.MethodPut,
	VerbPatch:  http.MethodPatch,
	VerbDelete: http.MethodDelete,
}

// String returns the HTTP method name.
func (v Verb) String() string {
	if name, ok := verbNames[v]; ok {
		return name
	}
	return "DEFAULT"
}

// ParseVerb resolves a case-insensitive verb name. An empty name yields
// VerbDefault; anything outside the supported set is an UNSUPPORTED_VERB
// error.
func ParseVerb(s string) (Verb, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "" {
		return VerbDefault, nil
	}
	for v, n := range verbNames {
		if n == name {
			return v, nil
		}
	}
	return VerbDefault, apperrors.UnsupportedVerb(s)
}

// shaper builds the outbound request for one verb.
type shaper func(path string, data any) (httpclient.Request, error)

var shapers = map[Verb]shaper{
	VerbGet:    shapeQuery,
	VerbPost:   shapeBody(http.MethodPost),
	VerbPut:    shapeBody(http.MethodPut),
	VerbPatch:  shapeBody(http.MethodPatch),
	VerbDelete: shapeDelete,
}

func shapeBody(method string) shaper {
	return func(path string, data any) (httpclient.Request, error) {
		return httpclient.Request{Method: method, Path: path, Body: data}, nil
	}
}

// shapeDelete sends the payload as body only when one is given.
func shapeDelete(path string, data any) (httpclient.Request, error) {
	req := httpclient.Request{Method: http.MethodDelete, Path: path}
	if !isNil(data) {
		req.Body = data
	}
	return req, nil
}

// shapeQuery flattens the payload into query parameters. GET never
// carries a body.
func shapeQuery(path string, data any) (httpclient.Request, error) {
	query, err := flattenQuery(data)
	if err != nil {
		return httpclient.Request{}, err
	}
	return httpclient.Request{Method: http.MethodGet, Path: path, Query: query}, nil
}

func flattenQuery(data any) (map[string]string, error) {
	if isNil(data) {
		return nil, nil
	}

	switch v := data.(type) {
	case map[string]string:
		return maps.Clone(v), nil
	case url.Values:
		out := make(map[string]string, len(v))
		for k, vals := range v {
			if len(vals) > 1 {
				return nil, apperrors.InvalidPayload(fmt.Sprintf("query parameter %q has multiple values", k))
			}
			out[k] = v.Get(k)
		}
		return out, nil
	case *httpclient.MultipartBody, httpclient.MultipartBody:
		return nil, apperrors.InvalidPayload("multipart payloads cannot be sent with GET")
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, apperrors.InvalidPayload(err.Error()).WithCause(err)
	}

	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, apperrors.InvalidPayload("GET payload must be an object")
	}

	out := make(map[string]string, len(fields))
	for k, val := range fields {
		s, err := queryValue(val)
		if err != nil {
			return nil, err
		}
		out[k] = s
	}
	return out, nil
}

func queryValue(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		// Nested objects and arrays travel as their JSON text.
		b, err := json.Marshal(x)
		if err != nil {
			return "", apperrors.InvalidPayload(fmt.Sprintf("query value: %v", err))
		}
		return string(b), nil
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
