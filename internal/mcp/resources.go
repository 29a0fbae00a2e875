// ABOUTME: MCP resource implementations for the dose tracker.
// ABOUTME: Provides dose://today and dose://summary resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/dose/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// dose://today - Today's classified doses
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "dose://today",
		Name:        "Today's Doses",
		Description: "Scheduled and logged doses for today with their status",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// dose://summary - Adherence, streaks, and the active stack
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "dose://summary",
		Name:        "Dose Summary",
		Description: "Adherence, streaks, compounds, and schedules",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	today, err := s.tracker.Today(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load today: %w", err)
	}

	result := map[string]any{
		"date":        today.Day,
		"occurrences": today.Occurrences,
		"counts": map[string]int{
			"completed": today.Count(models.StatusCompleted),
			"pending":   today.Count(models.StatusPending),
			"missed":    today.Count(models.StatusMissed),
		},
	}
	return jsonResource("dose://today", result)
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	report, err := s.tracker.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	compounds, err := s.tracker.Compounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list compounds: %w", err)
	}
	schedules, err := s.tracker.Schedules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	result := map[string]any{
		"generated_at": s.tracker.Now().Format(time.RFC3339),
		"adherence":    report,
		"compounds":    compounds,
		"schedules":    schedules,
	}
	return jsonResource("dose://summary", result)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
