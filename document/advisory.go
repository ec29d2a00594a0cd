package document

import (
	"fmt"

	"github.com/google/uuid"
)

// AdvisoryCode identifies one kind of non-fatal condition noticed while
// loading a document.
type AdvisoryCode string

const (
	// CookieMissing: the file lacks the format cookie and may not be a
	// pipeline document at all; the load proceeds anyway.
	CookieMissing AdvisoryCode = "cookie_missing"

	// OlderProducer: the file was written by an older release. Saving it
	// again from that release may lose newer content.
	OlderProducer AdvisoryCode = "older_producer"

	// ModuleCountMismatch: fewer modules materialized than the document
	// declared.
	ModuleCountMismatch AdvisoryCode = "module_count_mismatch"
)

// Advisory is one non-fatal diagnostic. Advisories are reported to the caller
// but never change the success or failure of a call.
type Advisory struct {
	Code    AdvisoryCode
	Message string
}

// Report collects the advisories of one load. ID is generated per report so
// log lines from the same load can be correlated.
type Report struct {
	ID         string
	Advisories []Advisory
}

// NewReport returns an empty report with a fresh ID.
func NewReport() *Report {
	return &Report{ID: uuid.New().String()}
}

// Add appends an advisory with a formatted message.
func (r *Report) Add(code AdvisoryCode, format string, args ...interface{}) {
	r.Advisories = append(r.Advisories, Advisory{Code: code, Message: fmt.Sprintf(format, args...)})
}

// Has reports whether an advisory with the given code was recorded.
func (r *Report) Has(code AdvisoryCode) bool {
	for _, a := range r.Advisories {
		if a.Code == code {
			return true
		}
	}
	return false
}
