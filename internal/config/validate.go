package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"mariprog/internal/report"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks the run.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is printed but does not block the run.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path is a dotted JSON path into the config (e.g. "metrics.pushgateway_url").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

var (
	structValidator = newValidator()
	identPattern    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks cfg and returns every issue found. It does not modify cfg.
func Validate(cfg Config) []Issue {
	issues := validateStruct(cfg)
	issues = append(issues, validateReports(cfg.Reports)...)
	issues = append(issues, validateRoster(cfg.Roster)...)
	issues = append(issues, validateDates(cfg)...)
	issues = append(issues, validateExport(cfg.Export)...)
	return issues
}

func validateStruct(cfg Config) []Issue {
	err := structValidator.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []Issue{{Severity: SeverityError, Path: "", Message: err.Error()}}
	}

	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     fieldPath(fe.Namespace()),
			Message:  ruleMessage(fe),
		})
	}
	return issues
}

// fieldPath drops the leading "Config." from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if", "required_with":
		return "must not be empty"
	case "oneof":
		return fmt.Sprintf("%q is not one of: %s", fmt.Sprint(fe.Value()), fe.Param())
	case "min":
		return fmt.Sprintf("needs at least %s entries", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "url":
		return fmt.Sprintf("%q is not a URL", fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

func validateReports(names []string) []Issue {
	if len(names) == 0 {
		return []Issue{{
			Severity: SeverityWarning,
			Path:     "reports",
			Message:  "no reports selected; the run only loads and exports",
		}}
	}

	var issues []Issue
	seen := make(map[string]bool, len(names))
	for i, n := range names {
		path := fmt.Sprintf("reports[%d]", i)
		switch {
		case !report.Known(n):
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path,
				Message:  fmt.Sprintf("unknown report %q; known: %s", n, strings.Join(report.Names, ", ")),
			})
		case seen[n]:
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     path,
				Message:  fmt.Sprintf("report %q is listed more than once", n),
			})
		}
		seen[n] = true
	}
	return issues
}

func validateRoster(roster []string) []Issue {
	var issues []Issue
	seen := make(map[string]bool, len(roster))
	for i, r := range roster {
		if r != strings.TrimSpace(r) {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("roster[%d]", i),
				Message:  fmt.Sprintf("%q has surrounding whitespace and will not match a header", r),
			})
		}
		if seen[r] && r != "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("roster[%d]", i),
				Message:  fmt.Sprintf("inspector %q is listed more than once", r),
			})
		}
		seen[r] = true
	}
	return issues
}

func validateDates(cfg Config) []Issue {
	var issues []Issue
	if _, err := cfg.Meetings.AfterDate(); err != nil {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "meetings.after",
			Message:  fmt.Sprintf("%q is not a YYYY-MM-DD date", cfg.Meetings.After),
		})
	}
	if _, err := cfg.PFSA.AsOfDate(time.Now()); err != nil {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "pfsa.as_of",
			Message:  fmt.Sprintf("%q is not a YYYY-MM-DD date", cfg.PFSA.AsOf),
		})
	}
	return issues
}

func validateExport(e Export) []Issue {
	if !e.Enabled() {
		if e.DSN != "" {
			return []Issue{{
				Severity: SeverityWarning,
				Path:     "export.dsn",
				Message:  "dsn is set but export.kind is empty; nothing will be exported",
			}}
		}
		return nil
	}
	if !identPattern.MatchString(e.TablePrefix) {
		return []Issue{{
			Severity: SeverityError,
			Path:     "export.table_prefix",
			Message:  fmt.Sprintf("%q must be a plain SQL identifier prefix", e.TablePrefix),
		}}
	}
	return nil
}
