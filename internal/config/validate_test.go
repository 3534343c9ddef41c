package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// hasIssue reports whether issues contains an Issue with the given severity,
// path, and a Message containing msgSubstr.
func hasIssue(t *testing.T, issues []Issue, sev IssueSeverity, path, msgSubstr string) bool {
	t.Helper()
	for _, iss := range issues {
		if iss.Severity == sev && iss.Path == path && strings.Contains(iss.Message, msgSubstr) {
			return true
		}
	}
	return false
}

func TestValidate_Cases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		sev    IssueSeverity
		path   string
		msg    string
	}{
		{"empty job", func(c *Config) { c.Job = "" }, SeverityError, "job", "must not be empty"},
		{"bad encoding", func(c *Config) { c.Inputs.Encoding = "cp1252" }, SeverityError, "inputs.encoding", `"cp1252" is not one of`},
		{"empty input name", func(c *Config) { c.Inputs.PFSA = "" }, SeverityError, "inputs.pfsa", "must not be empty"},
		{"empty roster", func(c *Config) { c.Roster = nil }, SeverityError, "roster", "at least 1"},
		{"blank roster entry", func(c *Config) { c.Roster = []string{"KS", ""} }, SeverityError, "roster[1]", "must not be empty"},
		{"padded roster entry", func(c *Config) { c.Roster = []string{" KS"} }, SeverityWarning, "roster[0]", "whitespace"},
		{"duplicate inspector", func(c *Config) { c.Roster = []string{"KS", "KS"} }, SeverityWarning, "roster[1]", "more than once"},
		{"unknown report", func(c *Config) { c.Reports = []string{"due", "summary"} }, SeverityError, "reports[1]", `unknown report "summary"`},
		{"repeated report", func(c *Config) { c.Reports = []string{"due", "due"} }, SeverityWarning, "reports[1]", "more than once"},
		{"no reports", func(c *Config) { c.Reports = nil }, SeverityWarning, "reports", "no reports selected"},
		{"bad cutoff", func(c *Config) { c.Meetings.After = "01/01/2019" }, SeverityError, "meetings.after", "YYYY-MM-DD"},
		{"bad as_of", func(c *Config) { c.PFSA.AsOf = "tomorrow" }, SeverityError, "pfsa.as_of", "YYYY-MM-DD"},
		{"negative warn days", func(c *Config) { c.PFSA.WarnDays = -1 }, SeverityError, "pfsa.warn_days", ">= 0"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, SeverityError, "log.level", "not one of"},
		{"unknown metrics backend", func(c *Config) { c.Metrics.Backend = "statsd" }, SeverityError, "metrics.backend", "not one of"},
		{"pushgateway without url", func(c *Config) { c.Metrics.Backend = "pushgateway" }, SeverityError, "metrics.pushgateway_url", "must not be empty"},
		{"pushgateway bad url", func(c *Config) {
			c.Metrics.Backend = "pushgateway"
			c.Metrics.PushgatewayURL = "not a url"
		}, SeverityError, "metrics.pushgateway_url", "not a URL"},
		{"datadog without addr", func(c *Config) { c.Metrics.Backend = "datadog" }, SeverityError, "metrics.datadog_addr", "must not be empty"},
		{"unknown export", func(c *Config) { c.Export.Kind = "oracle"; c.Export.DSN = "x" }, SeverityError, "export.kind", "not one of"},
		{"export without dsn", func(c *Config) { c.Export.Kind = "sqlite" }, SeverityError, "export.dsn", "must not be empty"},
		{"dsn without export", func(c *Config) { c.Export.DSN = "file:x.db" }, SeverityWarning, "export.dsn", "nothing will be exported"},
		{"unsafe prefix", func(c *Config) {
			c.Export.Kind = "sqlite"
			c.Export.DSN = ":memory:"
			c.Export.TablePrefix = "x; drop"
		}, SeverityError, "export.table_prefix", "identifier"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(&cfg)
			issues := Validate(cfg)
			assert.True(t, hasIssue(t, issues, tt.sev, tt.path, tt.msg), "got %+v", issues)
			assert.Equal(t, tt.sev == SeverityError, HasErrors(issues))
		})
	}
}

func TestValidate_ValidExportAndMetrics(t *testing.T) {
	cfg := Default()
	cfg.Metrics = Metrics{Backend: "pushgateway", PushgatewayURL: "http://localhost:9091"}
	cfg.Export = Export{Kind: "postgres", DSN: "postgres://u@localhost/db", TablePrefix: "ops_"}
	assert.Empty(t, Validate(cfg))
}

func TestIssue_Error(t *testing.T) {
	iss := Issue{Severity: SeverityError, Path: "job", Message: "must not be empty"}
	assert.Equal(t, "error at job: must not be empty", iss.Error())
}
