package observability

import (
	"context"
	"time"
)

// HealthStatus is the state of a dependency as seen from the CLI.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDown     HealthStatus = "down"
	HealthStatusDegraded HealthStatus = "degraded"
)

// Health describes one dependency: the admin API, the credential store.
type Health struct {
	Name    string            `json:"name" yaml:"name"`
	Status  HealthStatus      `json:"status" yaml:"status"`
	Message string            `json:"message,omitempty" yaml:"message,omitempty"`
	Latency time.Duration     `json:"latency_ns" yaml:"latency"`
	Details map[string]string `json:"details,omitempty" yaml:"details,omitempty"`
}

// Report aggregates the dependency checks run by `adminctl status`.
type Report struct {
	Service    string       `json:"service" yaml:"service"`
	Status     HealthStatus `json:"status" yaml:"status"`
	Version    string       `json:"version,omitempty" yaml:"version,omitempty"`
	Components []Health     `json:"components,omitempty" yaml:"components,omitempty"`
}

// CheckFunc probes one dependency.
type CheckFunc func(ctx context.Context) error

// NewReport creates a Report with status up.
func NewReport(service, version string) *Report {
	return &Report{
		Service: service,
		Status:  HealthStatusUp,
		Version: version,
	}
}

// Add appends a component result and lowers the overall status if needed.
func (r *Report) Add(h Health) {
	r.Components = append(r.Components, h)

	switch h.Status {
	case HealthStatusDown:
		r.Status = HealthStatusDown
	case HealthStatusDegraded:
		if r.Status != HealthStatusDown {
			r.Status = HealthStatusDegraded
		}
	}
}

// Probe runs check under a span and adds its result. A failing probe
// marks the component down unless optional is set, in which case it
// is degraded.
func (r *Report) Probe(ctx context.Context, name string, optional bool, check CheckFunc) Health {
	ctx, span := StartSpan(ctx, "health."+name)
	start := time.Now()
	err := check(ctx)
	EndSpan(span, err)

	h := Health{Name: name, Status: HealthStatusUp, Latency: time.Since(start)}
	if err != nil {
		h.Message = err.Error()
		h.Status = HealthStatusDown
		if optional {
			h.Status = HealthStatusDegraded
		}
	}
	r.Add(h)
	return h
}
