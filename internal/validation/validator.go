package validation

import (
	"strings"

	"go-medscan/pkg/models"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxUploadSize is the upload cap applied when no override is given
const DefaultMaxUploadSize = 10 * 1024 * 1024 // 10MB

var allowedTypes = map[models.Operation][]string{
	models.PrescriptionAnalysis: {"image/jpeg", "image/png", "image/gif", "application/pdf"},
	models.StripAnalysis:        {"image/jpeg", "image/png", "image/gif"},
}

// UploadValidator gates every upload before any network activity. Input that
// is certain to be rejected never costs a request.
type UploadValidator struct {
	maxSize int64
}

// NewUploadValidator creates a validator with the default size limit
func NewUploadValidator() *UploadValidator {
	return &UploadValidator{maxSize: DefaultMaxUploadSize}
}

// NewUploadValidatorWithLimit creates a validator with a custom size limit
func NewUploadValidatorWithLimit(maxSize int64) *UploadValidator {
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}
	return &UploadValidator{maxSize: maxSize}
}

// Validate checks a candidate upload in order: file present, MIME type in the
// operation's allowed set, size within the limit. The first failing check
// wins; reasons are not aggregated. Pure and synchronous, no I/O.
func (v *UploadValidator) Validate(req *models.UploadRequest) models.ValidationOutcome {
	if req == nil || (len(req.Content) == 0 && req.SizeBytes == 0) {
		return models.ValidationOutcome{Reason: "No file selected"}
	}

	allowed, ok := allowedTypes[req.Operation]
	if !ok {
		return models.ValidationOutcome{Reason: "Unknown operation: " + string(req.Operation)}
	}

	if !isTypeAllowed(effectiveMIMEType(req), allowed) {
		return models.ValidationOutcome{
			Reason: "Invalid file type. Please upload " + describeAllowed(req.Operation) + ".",
		}
	}

	size := req.SizeBytes
	if size == 0 {
		size = int64(len(req.Content))
	}
	if size > v.maxSize {
		return models.ValidationOutcome{Reason: "File too large. Maximum size is 10MB."}
	}

	return models.ValidationOutcome{Accepted: true}
}

// effectiveMIMEType resolves the type to check against the allowed set.
// Browsers declare a type on every selected file; CLI callers often cannot,
// so an empty or generic declaration falls back to content sniffing.
func effectiveMIMEType(req *models.UploadRequest) string {
	declared := strings.TrimSpace(req.DeclaredMIMEType)
	if declared != "" && declared != "application/octet-stream" {
		// Strip any parameters, e.g. "image/jpeg; charset=binary"
		if i := strings.Index(declared, ";"); i >= 0 {
			declared = strings.TrimSpace(declared[:i])
		}
		return strings.ToLower(declared)
	}
	if len(req.Content) == 0 {
		return declared
	}
	return mimetype.Detect(req.Content).String()
}

func isTypeAllowed(mimeType string, allowed []string) bool {
	for _, t := range allowed {
		if mimeType == t {
			return true
		}
	}
	return false
}

func describeAllowed(operation models.Operation) string {
	if operation == models.PrescriptionAnalysis {
		return "an image (JPEG, PNG, GIF) or PDF file"
	}
	return "a JPEG, PNG, or GIF image"
}
