package chefs

import (
	"errors"
	"fmt"

	"github.com/sevigo/gochef/schema"
)

// ProcessingStatus classifies the outcome of a Process call.
type ProcessingStatus string

const (
	// StatusSuccess means the whole file was converted into a document.
	StatusSuccess ProcessingStatus = "success"
	// StatusFailure means nothing usable was produced.
	StatusFailure ProcessingStatus = "failure"
	// StatusPartial means a document was produced but some parts of the
	// file could not be extracted.
	StatusPartial ProcessingStatus = "partial"
	// StatusSkipped means the chef declined the file without error.
	StatusSkipped ProcessingStatus = "skipped"
)

// Successful reports whether the status carries a usable document.
func (s ProcessingStatus) Successful() bool {
	return s == StatusSuccess || s == StatusPartial
}

// Valid reports whether s is one of the defined statuses.
func (s ProcessingStatus) Valid() bool {
	switch s {
	case StatusSuccess, StatusFailure, StatusPartial, StatusSkipped:
		return true
	}
	return false
}

// ProcessingResult is the uniform outcome every chef returns from Process.
// Extraction problems never escape Process as errors; they land here.
type ProcessingResult struct {
	Status ProcessingStatus
	// Document is set exactly when Status is success-like.
	Document *schema.Document
	// Metadata carries processing facts (source path, duration, counters).
	// Never nil when built through the constructors.
	Metadata map[string]any
	// Err is set for failures and optionally for partial results; it
	// explains what went wrong without having been thrown.
	Err error
}

// Success builds a coherent success result. doc must be non-nil; a nil doc
// is a programming error surfaced by Validate.
func Success(doc *schema.Document, metadata map[string]any) *ProcessingResult {
	return &ProcessingResult{
		Status:   StatusSuccess,
		Document: doc,
		Metadata: ensureMetadata(metadata),
	}
}

// Partial builds a result for a document with degraded sections. err should
// describe what was lost.
func Partial(doc *schema.Document, err error, metadata map[string]any) *ProcessingResult {
	return &ProcessingResult{
		Status:   StatusPartial,
		Document: doc,
		Metadata: ensureMetadata(metadata),
		Err:      err,
	}
}

// Failure builds a result for a file that produced nothing usable.
func Failure(err error, metadata map[string]any) *ProcessingResult {
	if err == nil {
		err = errors.New("processing failed")
	}
	return &ProcessingResult{
		Status:   StatusFailure,
		Metadata: ensureMetadata(metadata),
		Err:      err,
	}
}

// Skipped builds a result for a file the chef declined to process.
func Skipped(reason string, metadata map[string]any) *ProcessingResult {
	r := &ProcessingResult{
		Status:   StatusSkipped,
		Metadata: ensureMetadata(metadata),
	}
	if reason != "" {
		r.Err = errors.New(reason)
	}
	return r
}

// Validate checks the coherence invariant between status, document and
// error. Registries and pipelines call it before trusting a result.
func (r *ProcessingResult) Validate() error {
	if !r.Status.Valid() {
		return fmt.Errorf("invalid processing status %q", r.Status)
	}
	if r.Status.Successful() && r.Document == nil {
		return fmt.Errorf("status %q requires a document", r.Status)
	}
	if r.Status == StatusSuccess && r.Err != nil {
		return fmt.Errorf("status %q must not carry an error", r.Status)
	}
	if r.Status == StatusFailure {
		if r.Err == nil {
			return fmt.Errorf("status %q requires an error", r.Status)
		}
		if r.Document != nil {
			return fmt.Errorf("status %q must not carry a document", r.Status)
		}
	}
	if r.Status == StatusSkipped && r.Document != nil {
		return fmt.Errorf("status %q must not carry a document", r.Status)
	}
	return nil
}

func (r *ProcessingResult) String() string {
	switch {
	case r.Document != nil && r.Err != nil:
		return fmt.Sprintf("ProcessingResult(%s, %s, err: %v)", r.Status, r.Document.ID, r.Err)
	case r.Document != nil:
		return fmt.Sprintf("ProcessingResult(%s, %s)", r.Status, r.Document.ID)
	case r.Err != nil:
		return fmt.Sprintf("ProcessingResult(%s, err: %v)", r.Status, r.Err)
	}
	return fmt.Sprintf("ProcessingResult(%s)", r.Status)
}

func ensureMetadata(m map[string]any) map[string]any {
	if m == nil {
		return make(map[string]any)
	}
	return m
}
