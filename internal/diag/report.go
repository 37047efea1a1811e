package diag

import (
	"encoding/json"
	"errors"

	"github.com/darmie/rayzor/internal/ast"
)

// Report is the canonical structured diagnostic type, generalized from
// the teacher's internal/errors.Report to the compiler-core taxonomy.
// All error builders return *Report; a Report survives errors.As()
// unwrapping by way of ReportError.
type Report struct {
	Schema  string         `json:"schema"` // always "rayzor.diag/v1"
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Span    *ast.Span      `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Fix     *Fix           `json:"fix,omitempty"`
}

// Fix is a suggested remediation.
type Fix struct {
	Suggestion string `json:"suggestion"`
}

// ReportError wraps a Report as an error.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown diagnostic"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport extracts a Report from an error chain.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// Wrap wraps a Report as an error.
func Wrap(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// New builds a Report for code in phase at pos, attaching the code's
// canonical remediation if one is registered.
func New(phase, code, message string, span *ast.Span) *Report {
	r := &Report{
		Schema:  "rayzor.diag/v1",
		Code:    code,
		Phase:   phase,
		Message: message,
		Span:    span,
	}
	if s, ok := Remediation(code); ok {
		r.Fix = &Fix{Suggestion: s}
	}
	return r
}

// WithData attaches structured context data to a Report.
func (r *Report) WithData(data map[string]any) *Report {
	r.Data = data
	return r
}

// ToJSON renders the report deterministically.
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Sink receives diagnostics as the pipeline produces them; the driver
// decides whether to pretty-print or aggregate (§7 "a diagnostic sink
// interface suffices").
type Sink interface {
	Emit(r *Report)
}

// CollectingSink accumulates reports in memory, used by phases that
// gather errors non-fatally and report all of them at phase end.
type CollectingSink struct {
	Reports []*Report
}

func (s *CollectingSink) Emit(r *Report) {
	s.Reports = append(s.Reports, r)
}

func (s *CollectingSink) HasErrors() bool { return len(s.Reports) > 0 }
