package models

// Operation identifies which analysis endpoint an upload is destined for
type Operation string

const (
	// PrescriptionAnalysis extracts text and medicines from a prescription image or PDF
	PrescriptionAnalysis Operation = "prescription"
	// StripAnalysis identifies a medicine from a strip photo
	StripAnalysis Operation = "strip"
)

// UploadRequest carries a user-selected file through validation and transmission.
// It is built once when the file is selected and not mutated afterwards.
type UploadRequest struct {
	Filename         string
	DeclaredMIMEType string
	SizeBytes        int64
	Content          []byte
	Operation        Operation
}

// ValidationOutcome is the synchronous verdict on an UploadRequest
type ValidationOutcome struct {
	Accepted bool
	Reason   string
}
