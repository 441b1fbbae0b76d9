package models

// AnalysisResult is the canonical shape every consumer renders, independent of
// which response variant the backend produced.
// Medicines is always non-nil after normalization, even when the backend omits
// the field entirely.
type AnalysisResult struct {
	RawText           string            `json:"raw_text"`
	ConfidencePercent *float64          `json:"confidence_percent,omitempty"`
	IsHandwritten     *bool             `json:"is_handwritten,omitempty"`
	Medicines         []MedicineFinding `json:"medicines"`
	OtherEntities     []Entity          `json:"other_entities,omitempty"`
}

// MedicineFinding is one detected medicine. Optional attributes stay empty
// when no source field carried them; MatchScore is a 0-1 similarity fraction
// and is only converted to a percentage at presentation time.
type MedicineFinding struct {
	Name                 string   `json:"name"`
	Dosage               string   `json:"dosage,omitempty"`
	Timing               string   `json:"timing,omitempty"`
	Duration             string   `json:"duration,omitempty"`
	MatchedCanonicalName string   `json:"matched_canonical_name,omitempty"`
	MatchScore           *float64 `json:"match_score,omitempty"`
	Summary              string   `json:"summary,omitempty"`
	SideEffects          string   `json:"side_effects,omitempty"`
	Uses                 string   `json:"uses,omitempty"`
	Generic              string   `json:"generic,omitempty"`
	Ingredients          string   `json:"ingredients,omitempty"`
	DosageAdult          string   `json:"dosage_adult,omitempty"`
	DosageChild          string   `json:"dosage_child,omitempty"`
}

// Entity is a labelled fragment of the OCR text that is not a medicine,
// e.g. a patient name or a date
type Entity struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}
