// Package model defines the core domain models used throughout the application.
package model

import "fmt"

// ValidationStatus is the verdict a validator reached for a word.
type ValidationStatus string

// Validation status constants.
const (
	StatusValid     ValidationStatus = "VALID"
	StatusInvalid   ValidationStatus = "INVALID"
	StatusUncertain ValidationStatus = "UNCERTAIN"
	StatusError     ValidationStatus = "ERROR"
)

// Source names shared by every layer that builds outcomes.
const (
	SourceService  = "SERVICE"
	SourceEngine   = "ENGINE"
	SourceLocalDB  = "LOCAL_DB"
	SourceFixed    = "FIXED_LIST"
	SourceWeb      = "WEB_VALIDATOR"
	SourceSemantic = "AI"
)

// ValidationOutcome is the result of one validation attempt.
// Outcomes are values; build them with NewOutcome or the helpers below.
type ValidationOutcome struct {
	Status     ValidationStatus `json:"status"`
	Source     string           `json:"source"`
	Details    string           `json:"details"`
	Confidence float64          `json:"confidence"`
}

// NewOutcome builds an outcome, clamping confidence into [0, 1].
// A VALID verdict needs positive confidence; without it the outcome is
// downgraded to UNCERTAIN.
func NewOutcome(status ValidationStatus, confidence float64, source, details string) ValidationOutcome {
	if status == StatusValid && !(confidence > 0) {
		status = StatusUncertain
	}
	switch {
	case confidence < 0:
		confidence = 0
	case confidence > 1:
		confidence = 1
	}
	return ValidationOutcome{
		Status:     status,
		Confidence: confidence,
		Source:     source,
		Details:    details,
	}
}

// Valid returns a VALID outcome.
func Valid(confidence float64, source, details string) ValidationOutcome {
	return NewOutcome(StatusValid, confidence, source, details)
}

// Invalid returns an INVALID outcome. Rejections carry zero confidence.
func Invalid(source, details string) ValidationOutcome {
	return NewOutcome(StatusInvalid, 0, source, details)
}

// Uncertain returns an UNCERTAIN outcome.
func Uncertain(confidence float64, source, details string) ValidationOutcome {
	return NewOutcome(StatusUncertain, confidence, source, details)
}

// Errored returns an ERROR outcome.
func Errored(source, details string) ValidationOutcome {
	return NewOutcome(StatusError, 0, source, details)
}

// IsValid reports whether the word was accepted.
func (o ValidationOutcome) IsValid() bool {
	return o.Status == StatusValid
}

// IsUncertain reports whether no verdict was reached.
func (o ValidationOutcome) IsUncertain() bool {
	return o.Status == StatusUncertain
}

// IsError reports whether the request itself was malformed.
func (o ValidationOutcome) IsError() bool {
	return o.Status == StatusError
}

// IsConfident reports whether the outcome is a verdict (VALID or INVALID)
// that should stop further validation.
func (o ValidationOutcome) IsConfident() bool {
	return o.Status == StatusValid || o.Status == StatusInvalid
}

func (o ValidationOutcome) String() string {
	return fmt.Sprintf("%s (%.2f, %s): %s", o.Status, o.Confidence, o.Source, o.Details)
}
