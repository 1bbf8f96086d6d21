package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/readwellapp/readwell-server/internal/errors"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Service health",
		Description: "Pings the database and probes the object store. Any failure degrades the status and returns 503.",
		Tags:        []string{"System"},
	}, s.handleHealth)
}

// HealthChecks holds the per-subsystem probe results.
type HealthChecks struct {
	Database string `json:"database"`
	Storage  string `json:"storage"`
}

// HealthOutput reports overall and per-subsystem health.
type HealthOutput struct {
	Body struct {
		Status string       `json:"status" doc:"ok or degraded"`
		Checks HealthChecks `json:"checks"`
	}
}

func (s *Server) handleHealth(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	checks := HealthChecks{Database: "ok", Storage: "ok"}
	degraded := false

	if err := s.store.Ping(ctx); err != nil {
		s.log.Error("health: database ping failed", "error", err)
		checks.Database = "down"
		degraded = true
	}
	if err := s.storage.Probe(ctx); err != nil {
		s.log.Error("health: storage probe failed", "error", err)
		checks.Storage = "down"
		degraded = true
	}

	if degraded {
		return nil, domainerrors.Unavailable("service degraded", checks)
	}

	out := &HealthOutput{}
	out.Body.Status = "ok"
	out.Body.Checks = checks
	return out, nil
}
