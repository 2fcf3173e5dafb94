package apperrors

import (
	"fmt"
	"strings"
)

// PostingErrorKind classifies why a source event could not be posted.
type PostingErrorKind string

const (
	PostingValidation        PostingErrorKind = "validation"
	PostingAccountResolution PostingErrorKind = "account_resolution"
	PostingImbalanced        PostingErrorKind = "imbalanced_entry"
	PostingNumbering         PostingErrorKind = "numbering"
	PostingStorage           PostingErrorKind = "storage"
)

var postingKindSentinels = map[PostingErrorKind]error{
	PostingValidation:        ErrValidation,
	PostingAccountResolution: ErrAccountResolution,
	PostingImbalanced:        ErrImbalancedEntry,
	PostingNumbering:         ErrSequenceAllocation,
	PostingStorage:           ErrStorage,
}

// PostingError is returned by every failed posting or unposting attempt.
type PostingError struct {
	Kind              PostingErrorKind
	SourceModule      string
	SourceReferenceID string
	Message           string
	Err               error
}

// NewPostingError builds a PostingError for the given source event.
func NewPostingError(kind PostingErrorKind, module, referenceID, message string, err error) *PostingError {
	return &PostingError{
		Kind:              kind,
		SourceModule:      module,
		SourceReferenceID: referenceID,
		Message:           message,
		Err:               err,
	}
}

func (e *PostingError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "posting %s/%s failed (%s)", e.SourceModule, e.SourceReferenceID, e.Kind)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *PostingError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrValidation) and friends match on the error kind.
func (e *PostingError) Is(target error) bool {
	sentinel, ok := postingKindSentinels[e.Kind]
	return ok && sentinel == target
}

// ParseDiagnostics describes what the extractor saw when a statement produced no lines.
type ParseDiagnostics struct {
	Strategy          string `json:"strategy"`
	TextLength        int    `json:"textLength"`
	Sample            string `json:"sample"`
	DateTokenCount    int    `json:"dateTokenCount"`
	HasPeriod         bool   `json:"hasPeriod"`
	HasOpeningBalance bool   `json:"hasOpeningBalance"`
	HasClosingBalance bool   `json:"hasClosingBalance"`
}

// ParseFailure is returned when a statement document yields zero transaction lines.
type ParseFailure struct {
	Reason      string
	Diagnostics ParseDiagnostics
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("%s: %s", ErrParseFailure.Error(), e.Reason)
}

func (e *ParseFailure) Is(target error) bool {
	return target == ErrParseFailure
}
