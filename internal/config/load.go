package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment override, e.g. MARIPROG_INPUT_DIR.
const EnvPrefix = "MARIPROG"

// env holds the environment overrides. Only variables that are set and
// non-empty replace the value below them.
type env struct {
	Job            string   `envconfig:"JOB"`
	InputDir       string   `envconfig:"INPUT_DIR"`
	Encoding       string   `envconfig:"ENCODING"`
	Roster         []string `envconfig:"ROSTER"`
	Reports        []string `envconfig:"REPORTS"`
	MeetingsAfter  string   `envconfig:"MEETINGS_AFTER"`
	Comments       *bool    `envconfig:"MEETINGS_COMMENTS"`
	WarnDays       *int     `envconfig:"PFSA_WARN_DAYS"`
	AsOf           string   `envconfig:"PFSA_AS_OF"`
	LogLevel       string   `envconfig:"LOG_LEVEL"`
	LogFormat      string   `envconfig:"LOG_FORMAT"`
	MetricsBackend string   `envconfig:"METRICS_BACKEND"`
	PushgatewayURL string   `envconfig:"PUSHGATEWAY_URL"`
	DatadogAddr    string   `envconfig:"DATADOG_ADDR"`
	ExportKind     string   `envconfig:"EXPORT_KIND"`
	ExportDSN      string   `envconfig:"EXPORT_DSN"`
	TablePrefix    string   `envconfig:"EXPORT_TABLE_PREFIX"`
}

// Load builds a Config from the defaults, the JSON file at path (skipped
// when path is empty) and the environment. Flags are applied afterwards by
// Flags.Apply.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays MARIPROG_* variables onto cfg.
func ApplyEnv(cfg *Config) error {
	var e env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return fmt.Errorf("environment: %w", err)
	}

	setString(&cfg.Job, e.Job)
	setString(&cfg.Inputs.Dir, e.InputDir)
	setString(&cfg.Inputs.Encoding, e.Encoding)
	setStrings(&cfg.Roster, e.Roster)
	setStrings(&cfg.Reports, e.Reports)
	setString(&cfg.Meetings.After, e.MeetingsAfter)
	if e.Comments != nil {
		cfg.Meetings.Comments = *e.Comments
	}
	if e.WarnDays != nil {
		cfg.PFSA.WarnDays = *e.WarnDays
	}
	setString(&cfg.PFSA.AsOf, e.AsOf)
	setString(&cfg.Log.Level, e.LogLevel)
	setString(&cfg.Log.Format, e.LogFormat)
	setString(&cfg.Metrics.Backend, e.MetricsBackend)
	setString(&cfg.Metrics.PushgatewayURL, e.PushgatewayURL)
	setString(&cfg.Metrics.DatadogAddr, e.DatadogAddr)
	setString(&cfg.Export.Kind, e.ExportKind)
	setString(&cfg.Export.DSN, e.ExportDSN)
	setString(&cfg.Export.TablePrefix, e.TablePrefix)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setStrings(dst *[]string, v []string) {
	if len(v) > 0 {
		*dst = v
	}
}
