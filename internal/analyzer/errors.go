package analyzer

import (
	"errors"
	"fmt"
)

// Sentinel errors for each gate in the pipeline. Every one of them is
// terminal for the current request: the pipeline never substitutes
// synthetic content for missing real data.
var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrInsufficientSearchData = errors.New("insufficient search data")
	ErrInsufficientExtraction = errors.New("insufficient extracted content")
	ErrInvalidAIResponse      = errors.New("invalid AI response")
	ErrReportTooShort         = errors.New("report too short")
	ErrMissingSection         = errors.New("missing report section")
	ErrProviderUnavailable    = errors.New("provider unavailable")
)

// Stage names the pipeline state the request was in when it succeeded or
// failed.
type Stage string

const (
	StagePending            Stage = "pending"
	StageSearchingWeb       Stage = "searching_web"
	StageExtractingContent  Stage = "extracting_content"
	StageGeneratingAnalysis Stage = "generating_analysis"
	StageValidatingOutput   Stage = "validating_output"
	StageCompleted          Stage = "completed"
	StageFailed             Stage = "failed"
)

// GateError reports exactly which threshold was not met, carrying the
// observed and required quantities so callers never see a generic failure.
type GateError struct {
	Stage    Stage
	Err      error
	Observed int
	Required int
	Detail   string
}

func (e *GateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Detail)
}

func (e *GateError) Unwrap() error {
	return e.Err
}

// countFailure renders messages of the form "4 found, 5 required" or
// "2 usable pages, 3 required" depending on the unit.
func countFailure(stage Stage, sentinel error, observed, required int, unit string) *GateError {
	return &GateError{
		Stage:    stage,
		Err:      sentinel,
		Observed: observed,
		Required: required,
		Detail:   fmt.Sprintf("%d %s, %d required", observed, unit, required),
	}
}

func detailFailure(stage Stage, sentinel error, format string, args ...any) *GateError {
	return &GateError{
		Stage:  stage,
		Err:    sentinel,
		Detail: fmt.Sprintf(format, args...),
	}
}
