package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "triggerScan",
		Method:        http.MethodPost,
		Path:          "/api/v1/scan",
		Summary:       "Trigger scan",
		Description:   "Requests a scan of the source tree; returns immediately",
		Tags:          []string{"Admin"},
		DefaultStatus: http.StatusAccepted,
	}, s.handleTriggerScan)

	huma.Register(s.api, huma.Operation{
		OperationID: "getStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Get stats",
		Description: "Returns catalog counts",
		Tags:        []string{"Admin"},
	}, s.handleGetStats)
}

type TriggerScanOutput struct {
	Body struct {
		Status string `json:"status" doc:"Always 'scheduled'"`
	}
}

func (s *Server) handleTriggerScan(_ context.Context, _ *struct{}) (*TriggerScanOutput, error) {
	s.worldService.TriggerScan()

	out := &TriggerScanOutput{}
	out.Body.Status = "scheduled"
	return out, nil
}

type StatsOutput struct {
	Body struct {
		Worlds     int `json:"worlds" doc:"Number of worlds in the catalog"`
		Categories int `json:"categories" doc:"Number of categories"`
	}
}

func (s *Server) handleGetStats(ctx context.Context, _ *struct{}) (*StatsOutput, error) {
	stats, err := s.worldService.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	out := &StatsOutput{}
	out.Body.Worlds = stats.Worlds
	out.Body.Categories = stats.Categories
	return out, nil
}
