package config

import (
	"flag"
	"strings"
)

// Flags are the command-line overrides. Only flags given on the command
// line replace configured values.
type Flags struct {
	fs *flag.FlagSet

	ConfigPath string
	Validate   bool

	dir, encoding, roster, reports    string
	after, asOf, logLevel, logFormat  string
	metricsBackend, pushURL, ddAddr   string
	exportKind, exportDSN, exportPref string
	comments                          bool
	warnDays                          int
}

// RegisterFlags defines the mariprog flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.ConfigPath, "config", "", "JSON config path (optional)")
	fs.BoolVar(&f.Validate, "validate", false, "validate the configuration and exit")

	fs.StringVar(&f.dir, "dir", "", "directory holding the CSV exports")
	fs.StringVar(&f.encoding, "encoding", "", "input encoding: auto, utf-8 or latin-1")
	fs.StringVar(&f.roster, "roster", "", "comma-separated inspector initials")
	fs.StringVar(&f.reports, "reports", "", "comma-separated reports to print, in order")
	fs.StringVar(&f.after, "after", "", "list meetings after this date (YYYY-MM-DD)")
	fs.BoolVar(&f.comments, "comments", false, "print meeting comments instead of inspectors")
	fs.IntVar(&f.warnDays, "warn-days", 0, "days ahead a PFSA expiry counts as EXPIRING")
	fs.StringVar(&f.asOf, "as-of", "", "report date for PFSA expiry (YYYY-MM-DD)")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&f.logFormat, "log-format", "", "console or json")
	fs.StringVar(&f.metricsBackend, "metrics-backend", "", "none, pushgateway or datadog")
	fs.StringVar(&f.pushURL, "pushgateway-url", "", "Pushgateway base URL")
	fs.StringVar(&f.ddAddr, "datadog-addr", "", "DogStatsD address")
	fs.StringVar(&f.exportKind, "export", "", "snapshot export: sqlite, postgres or mssql")
	fs.StringVar(&f.exportDSN, "export-dsn", "", "snapshot export DSN")
	fs.StringVar(&f.exportPref, "export-prefix", "", "snapshot table name prefix")
	return f
}

// Apply overlays every flag that was set on the command line onto cfg.
func (f *Flags) Apply(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "dir":
			cfg.Inputs.Dir = f.dir
		case "encoding":
			cfg.Inputs.Encoding = f.encoding
		case "roster":
			cfg.Roster = splitList(f.roster)
		case "reports":
			cfg.Reports = splitList(f.reports)
		case "after":
			cfg.Meetings.After = f.after
		case "comments":
			cfg.Meetings.Comments = f.comments
		case "warn-days":
			cfg.PFSA.WarnDays = f.warnDays
		case "as-of":
			cfg.PFSA.AsOf = f.asOf
		case "log-level":
			cfg.Log.Level = f.logLevel
		case "log-format":
			cfg.Log.Format = f.logFormat
		case "metrics-backend":
			cfg.Metrics.Backend = f.metricsBackend
		case "pushgateway-url":
			cfg.Metrics.PushgatewayURL = f.pushURL
		case "datadog-addr":
			cfg.Metrics.DatadogAddr = f.ddAddr
		case "export":
			cfg.Export.Kind = f.exportKind
		case "export-dsn":
			cfg.Export.DSN = f.exportDSN
		case "export-prefix":
			cfg.Export.TablePrefix = f.exportPref
		}
	})
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
