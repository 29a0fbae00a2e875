// ABOUTME: MCP tool implementations for compounds, schedules, and doses.
// ABOUTME: Each handler delegates to the Tracker and returns short ids.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/dose/internal/engine"
	"github.com/harperreed/dose/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_compound",
		Description: "Start tracking a compound in the active stack",
	}, s.handleAddCompound)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_compounds",
		Description: "List tracked compounds",
	}, s.handleListCompounds)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_schedule",
		Description: "Create a recurring dose schedule for a tracked compound",
	}, s.handleAddSchedule)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_schedules",
		Description: "List dose schedules",
	}, s.handleListSchedules)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_schedule",
		Description: "Delete a schedule by ID or ID prefix",
	}, s.handleDeleteSchedule)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_dose",
		Description: "Log a dose that was taken",
	}, s.handleLogDose)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_calendar",
		Description: "Get classified doses (completed, pending, missed) per day",
	}, s.handleGetCalendar)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_stats",
		Description: "Get adherence percentage and dose streaks",
	}, s.handleGetStats)
}

// Tool input/output types

type emptyInput struct{}

type addCompoundInput struct {
	Name     string `json:"name" jsonschema:"Compound name, e.g. BPC-157"`
	Category string `json:"category,omitempty" jsonschema:"Optional category"`
}

type addScheduleInput struct {
	PeptideName string `json:"peptide_name" jsonschema:"Compound name the schedule doses"`
	Amount      string `json:"amount" jsonschema:"Dose amount, free text"`
	Frequency   string `json:"frequency,omitempty" jsonschema:"daily, weekly or biweekly (default daily)"`
	Days        []int  `json:"days,omitempty" jsonschema:"Weekdays 0-6 with Sunday=0, required unless daily"`
	Time        string `json:"time,omitempty" jsonschema:"Time of day HH:MM (default 09:00)"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"Schedule ID or prefix"`
}

type logDoseInput struct {
	PeptideName string `json:"peptide_name" jsonschema:"Compound name"`
	Amount      string `json:"amount" jsonschema:"Dose amount"`
	TakenAt     string `json:"taken_at,omitempty" jsonschema:"Timestamp (ISO 8601), defaults to now"`
}

type calendarInput struct {
	Start string `json:"start,omitempty" jsonschema:"First day YYYY-MM-DD, defaults to today"`
	Days  int    `json:"days,omitempty" jsonschema:"Number of days, 1 to 366 (default 7)"`
}

type itemOutput struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type statsOutput struct {
	WindowDays    int `json:"window_days"`
	ScheduledDays int `json:"scheduled_days"`
	SatisfiedDays int `json:"satisfied_days"`
	Percent       int `json:"percent"`
	CurrentStreak int `json:"current_streak"`
	BestStreak    int `json:"best_streak"`
}

// Tool handlers

func (s *Server) handleAddCompound(ctx context.Context, req *mcp.CallToolRequest, input addCompoundInput) (*mcp.CallToolResult, itemOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, itemOutput{}, fmt.Errorf("compound name is required")
	}

	c := models.NewCompound(name)
	if input.Category != "" {
		c.WithCategory(input.Category)
	}
	if err := s.tracker.AddCompound(ctx, c); err != nil {
		return nil, itemOutput{}, fmt.Errorf("failed to add compound: %w", err)
	}

	id := c.ID.String()[:8]
	return nil, itemOutput{
		ID:      id,
		Name:    c.Name,
		Message: fmt.Sprintf("Tracking %s (ID: %s)", c.Name, id),
	}, nil
}

func (s *Server) handleListCompounds(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	compounds, err := s.tracker.Compounds(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list compounds: %w", err)
	}
	if len(compounds) == 0 {
		return nil, map[string]any{"message": "No compounds tracked."}, nil
	}
	return nil, map[string]any{"compounds": compounds}, nil
}

func (s *Server) handleAddSchedule(ctx context.Context, req *mcp.CallToolRequest, input addScheduleInput) (*mcp.CallToolResult, itemOutput, error) {
	sched := models.NewSchedule(strings.TrimSpace(input.PeptideName), input.Amount)
	if input.Frequency != "" {
		sched.WithFrequency(models.Frequency(input.Frequency))
	}
	if len(input.Days) > 0 {
		for _, d := range input.Days {
			if d < 0 || d > 6 {
				return nil, itemOutput{}, fmt.Errorf("day %d out of range 0-6", d)
			}
		}
		sched.WithDays(input.Days...)
	} else if sched.Frequency != models.FrequencyDaily {
		sched.DaysOfWeek = nil
	}
	if input.Time != "" {
		sched.WithTime(input.Time)
	}

	if err := s.tracker.CreateSchedule(ctx, sched); err != nil {
		return nil, itemOutput{}, fmt.Errorf("failed to create schedule: %w", err)
	}

	id := sched.ID[:8]
	return nil, itemOutput{
		ID:      id,
		Name:    sched.PeptideName,
		Message: fmt.Sprintf("Scheduled %s %s at %s (ID: %s)", sched.PeptideName, sched.Amount, sched.Time, id),
	}, nil
}

func (s *Server) handleListSchedules(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	schedules, err := s.tracker.Schedules(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	if len(schedules) == 0 {
		return nil, map[string]any{"message": "No schedules found."}, nil
	}
	return nil, map[string]any{"schedules": schedules}, nil
}

func (s *Server) handleDeleteSchedule(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	sched, err := s.tracker.DeleteSchedule(ctx, input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete schedule: %w", err)
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted schedule %s (%s)", sched.ID[:8], sched.PeptideName),
	}, nil
}

func (s *Server) handleLogDose(ctx context.Context, req *mcp.CallToolRequest, input logDoseInput) (*mcp.CallToolResult, itemOutput, error) {
	name := strings.TrimSpace(input.PeptideName)
	if name == "" {
		return nil, itemOutput{}, fmt.Errorf("peptide name is required")
	}

	e := models.NewDoseEntry(name, input.Amount)
	if input.TakenAt != "" {
		t, err := s.parseTime(input.TakenAt)
		if err != nil {
			return nil, itemOutput{}, err
		}
		e.WithDate(t)
	}
	if err := s.tracker.LogDose(ctx, e); err != nil {
		return nil, itemOutput{}, fmt.Errorf("failed to log dose: %w", err)
	}

	id := e.ID.String()[:8]
	return nil, itemOutput{
		ID:      id,
		Name:    e.PeptideName,
		Message: fmt.Sprintf("Logged %s %s at %s (ID: %s)", e.PeptideName, e.Amount, e.Date.In(s.tracker.Location()).Format("2006-01-02 15:04"), id),
	}, nil
}

func (s *Server) handleGetCalendar(ctx context.Context, req *mcp.CallToolRequest, input calendarInput) (*mcp.CallToolResult, any, error) {
	start := s.tracker.Now()
	if input.Start != "" {
		t, err := engine.ParseDayKey(input.Start, s.tracker.Location())
		if err != nil {
			return nil, nil, fmt.Errorf("invalid start date: %s (use YYYY-MM-DD)", input.Start)
		}
		start = t
	}
	days := input.Days
	if days == 0 {
		days = 7
	}
	if days < 1 || days > engine.MaxWindowDays {
		return nil, nil, fmt.Errorf("days must be between 1 and %d", engine.MaxWindowDays)
	}

	calendar, err := s.tracker.Calendar(ctx, start, days)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build calendar: %w", err)
	}
	return nil, map[string]any{"days": calendar}, nil
}

func (s *Server) handleGetStats(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, statsOutput, error) {
	report, err := s.tracker.Stats(ctx)
	if err != nil {
		return nil, statsOutput{}, fmt.Errorf("failed to compute stats: %w", err)
	}
	return nil, statsOutput{
		WindowDays:    report.WindowDays,
		ScheduledDays: report.ScheduledDays,
		SatisfiedDays: report.SatisfiedDays,
		Percent:       report.Percent,
		CurrentStreak: report.Streak.Current,
		BestStreak:    report.Streak.Best,
	}, nil
}

// parseTime accepts RFC3339 or a local "YYYY-MM-DD HH:MM".
func (s *Server) parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", value, s.tracker.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp: %s", value)
	}
	return t, nil
}
