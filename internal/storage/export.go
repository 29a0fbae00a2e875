// ABOUTME: Export and import functionality for dose tracker data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats over any Repository.
package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/dose/internal/engine"
	"github.com/harperreed/dose/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for dose tracker data.
// Reminders are derived and are not exported.
type ExportData struct {
	Version    string             `json:"version" yaml:"version"`
	ExportedAt time.Time          `json:"exported_at" yaml:"exported_at"`
	Tool       string             `json:"tool" yaml:"tool"`
	Compounds  []models.Compound  `json:"compounds" yaml:"compounds"`
	Schedules  []models.Schedule  `json:"schedules" yaml:"schedules"`
	Doses      []models.DoseEntry `json:"doses" yaml:"doses"`
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData() (*ExportData, error) {
	return CollectData(d)
}

// ImportData imports data from an export file.
func (d *DB) ImportData(data *ExportData) error {
	return ImportInto(d, data)
}

// CollectData gathers compounds, schedules and doses from r into an export.
func CollectData(r Repository) (*ExportData, error) {
	compounds, err := r.ListCompounds()
	if err != nil {
		return nil, fmt.Errorf("list compounds: %w", err)
	}
	schedules, err := r.GetSchedules()
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	doses, err := r.GetDoseHistory()
	if err != nil {
		return nil, fmt.Errorf("list doses: %w", err)
	}

	return &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "dose",
		Compounds:  compounds,
		Schedules:  schedules,
		Doses:      doses,
	}, nil
}

// ImportInto writes every record of data into r. Compounds and schedules
// replace existing records with the same ID; duplicate doses are an error.
func ImportInto(r Repository, data *ExportData) error {
	for i := range data.Compounds {
		if err := r.SaveCompound(&data.Compounds[i]); err != nil {
			return fmt.Errorf("import compound: %w", err)
		}
	}
	for i := range data.Schedules {
		if _, err := r.SaveSchedule(&data.Schedules[i]); err != nil {
			return fmt.Errorf("import schedule: %w", err)
		}
	}
	for i := range data.Doses {
		if err := r.SaveDose(&data.Doses[i]); err != nil {
			return fmt.Errorf("import dose: %w", err)
		}
	}
	return nil
}

// ExportJSON exports all data as JSON.
func ExportJSON(r Repository) ([]byte, error) {
	data, err := r.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ImportJSON imports data from JSON bytes.
func ImportJSON(r Repository, raw []byte) error {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return r.ImportData(&data)
}

// ExportYAML exports all data as YAML with doses grouped by calendar day.
func ExportYAML(r Repository) ([]byte, error) {
	data, err := r.GetAllData()
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version    string                `yaml:"version"`
		ExportedAt string                `yaml:"exported_at"`
		Tool       string                `yaml:"tool"`
		Compounds  []yamlCompound        `yaml:"compounds"`
		Schedules  []yamlSchedule        `yaml:"schedules"`
		Doses      map[string][]yamlDose `yaml:"doses"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Compounds:  make([]yamlCompound, 0, len(data.Compounds)),
		Schedules:  make([]yamlSchedule, 0, len(data.Schedules)),
		Doses:      make(map[string][]yamlDose),
	}

	for _, c := range data.Compounds {
		yamlData.Compounds = append(yamlData.Compounds, yamlCompound{
			ID:       shortID(c.ID.String()),
			Name:     c.Name,
			Category: c.Category,
			Paused:   c.Paused,
		})
	}

	for _, s := range data.Schedules {
		yamlData.Schedules = append(yamlData.Schedules, yamlSchedule{
			ID:        shortID(s.ID),
			Name:      s.PeptideName,
			Amount:    s.Amount,
			Frequency: string(s.Frequency),
			Days:      DayNames(s.EffectiveDays()),
			Time:      s.Time,
			Enabled:   s.Enabled,
		})
	}

	for _, e := range data.Doses {
		key := engine.LocalDayKey(e.Date, nil)
		yamlData.Doses[key] = append(yamlData.Doses[key], yamlDose{
			Time:   e.Date.Format("15:04"),
			Name:   e.PeptideName,
			Amount: e.Amount,
		})
	}

	return yaml.Marshal(yamlData)
}

type yamlCompound struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Category string `yaml:"category,omitempty"`
	Paused   bool   `yaml:"paused,omitempty"`
}

type yamlSchedule struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Amount    string   `yaml:"amount"`
	Frequency string   `yaml:"frequency"`
	Days      []string `yaml:"days"`
	Time      string   `yaml:"time"`
	Enabled   bool     `yaml:"enabled"`
}

type yamlDose struct {
	Time   string `yaml:"time"`
	Name   string `yaml:"name"`
	Amount string `yaml:"amount"`
}

// ExportMarkdown exports data as Markdown tables. When since is set only
// doses on or after it are included.
func ExportMarkdown(r Repository, since *time.Time) (string, error) {
	data, err := r.GetAllData()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Dose Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	if len(data.Compounds) > 0 {
		sb.WriteString("## Compounds\n\n")
		sb.WriteString("| Name | Category | Status |\n")
		sb.WriteString("|------|----------|--------|\n")
		for _, c := range data.Compounds {
			status := "active"
			if c.Paused {
				status = "paused"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", c.Name, c.Category, status))
		}
		sb.WriteString("\n")
	}

	if len(data.Schedules) > 0 {
		sb.WriteString("## Schedules\n\n")
		sb.WriteString("| Compound | Amount | Days | Time | Enabled |\n")
		sb.WriteString("|----------|--------|------|------|---------|\n")
		for _, s := range data.Schedules {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %t |\n",
				s.PeptideName, s.Amount, strings.Join(DayNames(s.EffectiveDays()), ", "), s.Time, s.Enabled))
		}
		sb.WriteString("\n")
	}

	grouped := make(map[string][]models.DoseEntry)
	for _, e := range data.Doses {
		if since != nil && e.Date.Before(*since) {
			continue
		}
		key := engine.LocalDayKey(e.Date, nil)
		grouped[key] = append(grouped[key], e)
	}

	if len(grouped) > 0 {
		days := make([]string, 0, len(grouped))
		for k := range grouped {
			days = append(days, k)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(days)))

		sb.WriteString("## Dose Log\n\n")
		for _, day := range days {
			sb.WriteString(fmt.Sprintf("### %s\n\n", day))
			sb.WriteString("| Time | Compound | Amount |\n")
			sb.WriteString("|------|----------|--------|\n")
			for _, e := range grouped[day] {
				sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", e.Date.Format("15:04"), e.PeptideName, e.Amount))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String(), nil
}

var weekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DayNames renders weekday indexes as short names.
func DayNames(days []int) []string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		if d >= 0 && d < len(weekdayNames) {
			names = append(names, weekdayNames[d])
		}
	}
	return names
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
