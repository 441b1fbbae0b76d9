// Package normalize maps the backend's historically inconsistent response
// bodies into the one canonical AnalysisResult shape every consumer renders.
// The compatibility shim lives here and nowhere else.
package normalize

import (
	"encoding/json"

	"go-medscan/pkg/models"
)

// rawMedicine accepts every field name any backend revision has used for a
// detected medicine
type rawMedicine struct {
	Name             string   `json:"name"`
	BrandName        string   `json:"brand_name"`
	Dosage           string   `json:"dosage"`
	PrescribedDosage string   `json:"prescribed_dosage"`
	Timing           string   `json:"timing"`
	Duration         string   `json:"duration"`
	Matched          string   `json:"matched"`
	MatchedCanonical string   `json:"matched_canonical"`
	MatchScore       *float64 `json:"match_score"`
	Confidence       *float64 `json:"confidence"`
	LaymanSummary    string   `json:"layman_summary"`
	Summary          string   `json:"summary"`
	SideEffects      string   `json:"side_effects"`
	Uses             string   `json:"uses"`
	Generic          string   `json:"generic"`
	Ingredients      string   `json:"ingredients"`
	DosageAdult      string   `json:"dosage_adult"`
	DosageChild      string   `json:"dosage_child"`
}

// rawPrescription is the nesting used by the prescriptions-array revision:
// dosage and timing sit on the prescription, the medicine underneath
type rawPrescription struct {
	Dosage   string       `json:"dosage"`
	Timing   string       `json:"timing"`
	Duration string       `json:"duration"`
	Medicine *rawMedicine `json:"medicine"`
}

type rawEntity struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// rawEnvelope is the union of every success-body shape the backend produces.
// Slices stay nil when the field is absent, which is how shape detection
// distinguishes "no medicines found" from "different shape".
type rawEnvelope struct {
	ExtractedText *string           `json:"extracted_text"`
	OCRText       *string           `json:"ocr_text"`
	RawText       *string           `json:"raw_text"`
	Confidence    *float64          `json:"confidence"`
	IsHandwritten *bool             `json:"is_handwritten"`
	Medicines     []rawMedicine     `json:"medicines"`
	Prescriptions []rawPrescription `json:"prescriptions"`
	Found         *bool             `json:"found"`
	Medicine      *rawMedicine      `json:"medicine"`
	Entities      []rawEntity       `json:"entities"`
}

// Normalize maps a raw success body into the canonical result. It never
// fails: an unrecognized or unparseable structure degrades to an empty
// medicine list with whatever text could be extracted, not an error.
// Normalizing the same body twice yields structurally equal results.
func Normalize(body []byte, operation models.Operation) models.AnalysisResult {
	result := models.AnalysisResult{
		Medicines: []models.MedicineFinding{},
	}

	var env rawEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return result
	}

	result.RawText = extractText(&env)
	result.IsHandwritten = env.IsHandwritten
	if env.Confidence != nil {
		c := clamp(*env.Confidence, 0, 100)
		result.ConfidencePercent = &c
	}

	// Shape precedence: medicines array, then prescriptions array, then the
	// single best-match object
	medicinesShape := false
	switch {
	case env.Medicines != nil:
		medicinesShape = true
		for i := range env.Medicines {
			result.Medicines = append(result.Medicines, mapMedicine(&env.Medicines[i]))
		}
	case env.Prescriptions != nil:
		for i := range env.Prescriptions {
			result.Medicines = append(result.Medicines, mapPrescription(&env.Prescriptions[i]))
		}
	case env.Medicine != nil:
		if env.Found == nil || *env.Found {
			result.Medicines = append(result.Medicines, mapMedicine(env.Medicine))
		}
	}

	result.OtherEntities = mapEntities(env.Entities, medicinesShape)

	return result
}

// extractText resolves the OCR text from whichever field the responding
// revision used, in precedence order
func extractText(env *rawEnvelope) string {
	switch {
	case env.ExtractedText != nil:
		return *env.ExtractedText
	case env.OCRText != nil:
		return *env.OCRText
	case env.RawText != nil:
		return *env.RawText
	}
	return ""
}

// mapMedicine picks the most specific source field for each attribute and
// leaves an attribute empty when no source field exists
func mapMedicine(raw *rawMedicine) models.MedicineFinding {
	finding := models.MedicineFinding{
		Name:                 firstNonEmpty(raw.BrandName, raw.Name),
		Dosage:               firstNonEmpty(raw.PrescribedDosage, raw.Dosage),
		Timing:               raw.Timing,
		Duration:             raw.Duration,
		MatchedCanonicalName: firstNonEmpty(raw.MatchedCanonical, raw.Matched),
		Summary:              firstNonEmpty(raw.LaymanSummary, raw.Summary),
		SideEffects:          raw.SideEffects,
		Uses:                 raw.Uses,
		Generic:              raw.Generic,
		Ingredients:          raw.Ingredients,
		DosageAdult:          raw.DosageAdult,
		DosageChild:          raw.DosageChild,
	}

	// A per-medicine score is a 0-1 fraction regardless of which name it came
	// under; the distinction from the 0-100 OCR confidence is by field
	// position, never by magnitude
	if score := firstNonNil(raw.MatchScore, raw.Confidence); score != nil {
		s := clamp(*score, 0, 1)
		finding.MatchScore = &s
	}

	return finding
}

func mapPrescription(raw *rawPrescription) models.MedicineFinding {
	var finding models.MedicineFinding
	if raw.Medicine != nil {
		finding = mapMedicine(raw.Medicine)
	}
	// Prescription-level fields win over anything nested under the medicine
	if raw.Dosage != "" {
		finding.Dosage = raw.Dosage
	}
	if raw.Timing != "" {
		finding.Timing = raw.Timing
	}
	if raw.Duration != "" {
		finding.Duration = raw.Duration
	}
	return finding
}

// mapEntities copies the entity list, excluding labels already represented in
// the medicine list when one was present, so nothing is displayed twice
func mapEntities(entities []rawEntity, medicinesPresent bool) []models.Entity {
	if entities == nil {
		return nil
	}
	mapped := make([]models.Entity, 0, len(entities))
	for _, e := range entities {
		if medicinesPresent && (e.Label == "MEDICINE" || e.Label == "DOSAGE") {
			continue
		}
		mapped = append(mapped, models.Entity{Label: e.Label, Text: e.Text})
	}
	return mapped
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonNil(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
