package render

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for the render executor.
var (
	ErrRenderExhausted = errors.New("all render tiers failed")
	ErrTierTimeout     = errors.New("render tier timed out")
	ErrTierLaunch      = errors.New("render engine launch failed")
	ErrEngineNotFound  = errors.New("render engine binary not found")
	ErrPageLoad        = errors.New("page load failed")
	ErrPDFExport       = errors.New("PDF export failed")
	ErrEmptyOutput     = errors.New("render engine produced no output")
	ErrInvalidSize     = errors.New("page size must be positive")
)

// TierError records why one tier failed.
type TierError struct {
	Tier     string
	Duration time.Duration
	Err      error
}

func (e *TierError) Error() string {
	return fmt.Sprintf("%s tier: %v", e.Tier, e.Err)
}

func (e *TierError) Unwrap() error { return e.Err }

// ExhaustedError is returned when every tier failed. It is not retryable:
// the same input on the same host fails the same way.
type ExhaustedError struct {
	Failures    []*TierError
	Environment Environment
}

func (e *ExhaustedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v (%d tiers; deployment=%s os=%s arch=%s)",
		ErrRenderExhausted, len(e.Failures), e.Environment.Deployment, e.Environment.OS, e.Environment.Arch)
	for _, f := range e.Failures {
		b.WriteString("\n  ")
		b.WriteString(f.Error())
	}
	return b.String()
}

// Unwrap exposes ErrRenderExhausted and every tier failure to errors.Is/As.
func (e *ExhaustedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures)+1)
	errs = append(errs, ErrRenderExhausted)
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}
