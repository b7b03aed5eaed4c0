package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// Health statuses.
const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Status int
	Body   HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"database": probe(ctx, s.backends.Store),
		"posters":  probe(ctx, s.backends.Posters),
	}

	out := &HealthOutput{
		Status: http.StatusOK,
		Body:   HealthResponse{Status: statusHealthy, Components: components},
	}
	for _, c := range components {
		if c.Status != statusHealthy {
			out.Status = http.StatusServiceUnavailable
			out.Body.Status = statusUnhealthy
		}
	}
	return out, nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

// probe pings a backend with a short timeout.
func probe(ctx context.Context, p pinger) ComponentHealth {
	if p == nil {
		return ComponentHealth{Status: statusUnhealthy, Message: "not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{Status: statusUnhealthy, Latency: latency.String(), Message: "ping failed"}
	}
	return ComponentHealth{Status: statusHealthy, Latency: latency.String()}
}
