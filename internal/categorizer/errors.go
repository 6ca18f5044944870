package categorizer

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/dvloznov/finanzas-demo/internal/config"
)

var (
	// ErrInputNotFound means the transaction file does not exist yet.
	ErrInputNotFound = errors.New("input file not found")

	// ErrMissingCredential means the selected model provider has no API key.
	ErrMissingCredential = config.ErrMissingCredential

	// ErrMalformedResponse means the model never produced a parseable answer
	// for a batch within the attempt limit.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrAborted means the operator declined to replace existing rows.
	ErrAborted = errors.New("aborted by operator")
)

// rawPreviewLimit caps how much of a bad response is kept for diagnostics.
const rawPreviewLimit = 300

// MalformedResponseError reports the last unparseable response of a batch.
type MalformedResponseError struct {
	Batch    int
	Attempts int
	Raw      string
	Err      error
}

func newMalformedResponseError(batch, attempts int, raw string, err error) *MalformedResponseError {
	return &MalformedResponseError{Batch: batch, Attempts: attempts, Raw: truncateRaw(raw), Err: err}
}

// truncateRaw cuts raw to at most rawPreviewLimit bytes on a rune boundary.
func truncateRaw(raw string) string {
	if len(raw) <= rawPreviewLimit {
		return raw
	}
	end := rawPreviewLimit
	for end > 0 && !utf8.RuneStart(raw[end]) {
		end--
	}
	return raw[:end]
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("batch %d: could not parse model response after %d attempts: %v\nraw: %s",
		e.Batch, e.Attempts, e.Err, e.Raw)
}

func (e *MalformedResponseError) Unwrap() []error {
	return []error{ErrMalformedResponse, e.Err}
}
