// Package config defines the JSON configuration for a mariprog run and the
// layering that builds it: built-in defaults, then an optional JSON file,
// then MARIPROG_* environment variables, then command-line flags.
//
// Example (trimmed):
//
//	{
//	  "job":     "weekly",
//	  "inputs":  { "dir": "exports", "encoding": "auto" },
//	  "reports": ["programme", "due"],
//	  "export":  { "kind": "sqlite", "dsn": "file:mariprog.db" }
//	}
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"mariprog/internal/ingest"
	"mariprog/internal/report"
)

// DateLayout is the layout of the date-valued settings.
const DateLayout = "2006-01-02"

// Config is the top-level object decoded from a config file.
type Config struct {
	// Job labels metrics and log lines for this run.
	Job string `json:"job" validate:"required"`

	Inputs Inputs `json:"inputs"`

	// Roster is the inspector initials looked for in the programme header.
	Roster []string `json:"roster" validate:"min=1,dive,required"`

	// Reports are printed in the order listed.
	Reports []string `json:"reports"`

	Meetings Meetings `json:"meetings"`
	PFSA     PFSA     `json:"pfsa"`
	Log      Log      `json:"log"`
	Metrics  Metrics  `json:"metrics"`
	Export   Export   `json:"export"`
}

// Inputs names the five exports. Relative names resolve against Dir.
type Inputs struct {
	Dir         string `json:"dir"`
	Programme   string `json:"programme" validate:"required"`
	Dump        string `json:"dump" validate:"required"`
	PFSA        string `json:"pfsa" validate:"required"`
	Meetings    string `json:"meetings" validate:"required"`
	Assessments string `json:"assessments" validate:"required"`

	// Encoding is "auto", "utf-8" or "latin-1".
	Encoding string `json:"encoding" validate:"oneof=auto utf-8 latin-1"`
}

// Path resolves an input name against Dir.
func (in Inputs) Path(name string) string {
	if in.Dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(in.Dir, name)
}

// Meetings configures the meetings report.
type Meetings struct {
	// After is the cutoff date; only later meetings are listed.
	After string `json:"after"`
	// Comments prints meeting comments instead of the inspectors.
	Comments bool `json:"comments"`
}

// AfterDate parses After.
func (m Meetings) AfterDate() (time.Time, error) {
	t, err := time.Parse(DateLayout, m.After)
	if err != nil {
		return time.Time{}, fmt.Errorf("meetings.after: %w", err)
	}
	return t, nil
}

// PFSA configures the PFSA expiry report.
type PFSA struct {
	// WarnDays is how far ahead an expiry counts as EXPIRING.
	WarnDays int `json:"warn_days" validate:"gte=0"`
	// AsOf fixes the report date. Empty means today.
	AsOf string `json:"as_of"`
}

// Warn returns WarnDays as a duration.
func (p PFSA) Warn() time.Duration { return time.Duration(p.WarnDays) * 24 * time.Hour }

// AsOfDate parses AsOf, or truncates now to a UTC date when AsOf is empty.
func (p PFSA) AsOfDate(now time.Time) (time.Time, error) {
	if p.AsOf == "" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(DateLayout, p.AsOf)
	if err != nil {
		return time.Time{}, fmt.Errorf("pfsa.as_of: %w", err)
	}
	return t, nil
}

// Log configures the zap logger.
type Log struct {
	Level  string `json:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" validate:"oneof=console json"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	Backend        string `json:"backend" validate:"oneof=none pushgateway datadog"`
	PushgatewayURL string `json:"pushgateway_url" validate:"required_if=Backend pushgateway,omitempty,url"`
	DatadogAddr    string `json:"datadog_addr" validate:"required_if=Backend datadog"`
}

// Export selects the snapshot export target. An empty Kind disables export.
type Export struct {
	Kind        string `json:"kind" validate:"omitempty,oneof=sqlite postgres mssql"`
	DSN         string `json:"dsn" validate:"required_with=Kind"`
	TablePrefix string `json:"table_prefix"`
}

// Enabled reports whether a snapshot export was requested.
func (e Export) Enabled() bool { return e.Kind != "" }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Job: "mariprog",
		Inputs: Inputs{
			Dir:         ".",
			Programme:   "programme.csv",
			Dump:        "dump.csv",
			PFSA:        "pfsa.csv",
			Meetings:    "psa_meetings.csv",
			Assessments: "psa_aid.csv",
			Encoding:    "auto",
		},
		Roster:   append([]string(nil), ingest.DefaultRoster...),
		Reports:  append([]string(nil), report.Names...),
		Meetings: Meetings{After: "2019-01-01"},
		PFSA:     PFSA{WarnDays: 90},
		Log:      Log{Level: "info", Format: "console"},
		Metrics:  Metrics{Backend: "none"},
		Export:   Export{TablePrefix: "mariprog_"},
	}
}
