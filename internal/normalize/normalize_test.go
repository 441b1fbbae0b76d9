package normalize

import (
	"reflect"
	"testing"

	"go-medscan/pkg/models"
)

func TestNormalize_MedicinesArray(t *testing.T) {
	body := []byte(`{
		"extracted_text": "Rx Amoxicillin 250mg twice daily",
		"confidence": 82.5,
		"is_handwritten": true,
		"medicines": [
			{"brand_name": "Amoxil", "name": "Amoxicillin", "prescribed_dosage": "250mg", "dosage": "ignored", "timing": "twice daily", "matched_canonical": "Amoxicillin Trihydrate", "match_score": 0.91, "layman_summary": "antibiotic"},
			{"name": "Paracetamol", "dosage": "500mg", "confidence": 0.7}
		],
		"entities": [
			{"label": "MEDICINE", "text": "Amoxil"},
			{"label": "DOSAGE", "text": "250mg"},
			{"label": "DOCTOR", "text": "Dr. Rao"}
		]
	}`)

	result := Normalize(body, models.PrescriptionAnalysis)

	if len(result.Medicines) != 2 {
		t.Fatalf("Expected 2 medicines, got %d", len(result.Medicines))
	}

	first := result.Medicines[0]
	if first.Name != "Amoxil" {
		t.Errorf("Expected brand_name to win, got %q", first.Name)
	}
	if first.Dosage != "250mg" {
		t.Errorf("Expected prescribed_dosage to win, got %q", first.Dosage)
	}
	if first.MatchedCanonicalName != "Amoxicillin Trihydrate" {
		t.Errorf("Expected matched_canonical to win, got %q", first.MatchedCanonicalName)
	}
	if first.MatchScore == nil || *first.MatchScore != 0.91 {
		t.Errorf("Expected match score 0.91, got %v", first.MatchScore)
	}
	if first.Summary != "antibiotic" {
		t.Errorf("Expected layman_summary mapped, got %q", first.Summary)
	}

	second := result.Medicines[1]
	if second.Name != "Paracetamol" || second.Dosage != "500mg" {
		t.Errorf("Expected fallback field names mapped, got %+v", second)
	}
	if second.MatchScore == nil || *second.MatchScore != 0.7 {
		t.Errorf("Expected per-medicine confidence used as match score, got %v", second.MatchScore)
	}

	if result.RawText != "Rx Amoxicillin 250mg twice daily" {
		t.Errorf("Unexpected raw text %q", result.RawText)
	}
	if result.ConfidencePercent == nil || *result.ConfidencePercent != 82.5 {
		t.Errorf("Expected confidence 82.5, got %v", result.ConfidencePercent)
	}
	if result.IsHandwritten == nil || !*result.IsHandwritten {
		t.Error("Expected is_handwritten=true carried over")
	}

	// MEDICINE and DOSAGE entities are already represented in the medicine
	// list and must not be duplicated
	if len(result.OtherEntities) != 1 || result.OtherEntities[0].Label != "DOCTOR" {
		t.Errorf("Expected only the DOCTOR entity, got %+v", result.OtherEntities)
	}
}

func TestNormalize_PrescriptionsArray(t *testing.T) {
	body := []byte(`{
		"confidence": 75,
		"prescriptions": [
			{"dosage": "1 tablet", "timing": "after meals", "duration": "5 days", "medicine": {"name": "Cetirizine", "uses": "allergy relief"}},
			{"medicine": {"name": "Ibuprofen"}}
		]
	}`)

	result := Normalize(body, models.PrescriptionAnalysis)

	if len(result.Medicines) != 2 {
		t.Fatalf("Expected 2 medicines, got %d", len(result.Medicines))
	}

	first := result.Medicines[0]
	if first.Name != "Cetirizine" || first.Dosage != "1 tablet" || first.Timing != "after meals" || first.Duration != "5 days" {
		t.Errorf("Expected prescription-level fields merged, got %+v", first)
	}
	if first.Uses != "allergy relief" {
		t.Errorf("Expected nested uses mapped, got %q", first.Uses)
	}
	if result.Medicines[1].Name != "Ibuprofen" {
		t.Errorf("Expected second medicine, got %+v", result.Medicines[1])
	}
}

func TestNormalize_SingleMatchShape(t *testing.T) {
	body := []byte(`{"ocr_text":"Paracetamol 500mg", "found":true, "medicine":{"name":"Paracetamol", "layman_summary":"pain relief"}}`)

	result := Normalize(body, models.StripAnalysis)

	if len(result.Medicines) != 1 {
		t.Fatalf("Expected 1 medicine, got %d", len(result.Medicines))
	}
	if result.Medicines[0].Name != "Paracetamol" || result.Medicines[0].Summary != "pain relief" {
		t.Errorf("Unexpected finding %+v", result.Medicines[0])
	}
	if result.RawText != "Paracetamol 500mg" {
		t.Errorf("Unexpected raw text %q", result.RawText)
	}
}

func TestNormalize_SingleMatchNotFound(t *testing.T) {
	body := []byte(`{"found":false, "medicine":{"name":"ignored"}, "ocr_text":"blurry text"}`)

	result := Normalize(body, models.StripAnalysis)

	if len(result.Medicines) != 0 {
		t.Errorf("Expected no medicines when found=false, got %d", len(result.Medicines))
	}
	if result.Medicines == nil {
		t.Error("Medicines must be non-nil even when empty")
	}
	if result.RawText != "blurry text" {
		t.Errorf("Unexpected raw text %q", result.RawText)
	}
}

func TestNormalize_EmptyMedicinesIsNotAnError(t *testing.T) {
	body := []byte(`{"medicines": [], "extracted_text": "illegible"}`)

	result := Normalize(body, models.PrescriptionAnalysis)

	if result.Medicines == nil || len(result.Medicines) != 0 {
		t.Errorf("Expected present-but-empty medicines, got %v", result.Medicines)
	}
	if result.RawText != "illegible" {
		t.Errorf("Unexpected raw text %q", result.RawText)
	}
	if result.ConfidencePercent != nil {
		t.Errorf("Expected no confidence, got %v", *result.ConfidencePercent)
	}
}

func TestNormalize_ShapePrecedence(t *testing.T) {
	// When both a medicines array and a single match are present, the array
	// wins
	body := []byte(`{
		"medicines": [{"name": "FromArray"}],
		"found": true,
		"medicine": {"name": "FromSingle"}
	}`)

	result := Normalize(body, models.StripAnalysis)

	if len(result.Medicines) != 1 || result.Medicines[0].Name != "FromArray" {
		t.Errorf("Expected the medicines array to take precedence, got %+v", result.Medicines)
	}
}

func TestNormalize_TextPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"extracted_text wins", `{"extracted_text":"a","ocr_text":"b","raw_text":"c"}`, "a"},
		{"ocr_text next", `{"ocr_text":"b","raw_text":"c"}`, "b"},
		{"raw_text last", `{"raw_text":"c"}`, "c"},
		{"none present", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize([]byte(tt.body), models.PrescriptionAnalysis)
			if result.RawText != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result.RawText)
			}
		})
	}
}

func TestNormalize_Clamping(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectConf  *float64
		expectScore *float64
	}{
		{
			name:       "confidence above range",
			body:       `{"confidence": 140.0, "medicines": []}`,
			expectConf: floatPtr(100),
		},
		{
			name:       "confidence below range",
			body:       `{"confidence": -3, "medicines": []}`,
			expectConf: floatPtr(0),
		},
		{
			name:        "match score above range",
			body:        `{"medicines": [{"name": "X", "match_score": 1.8}]}`,
			expectScore: floatPtr(1),
		},
		{
			name:        "match score below range",
			body:        `{"medicines": [{"name": "X", "match_score": -0.2}]}`,
			expectScore: floatPtr(0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize([]byte(tt.body), models.PrescriptionAnalysis)

			if tt.expectConf != nil {
				if result.ConfidencePercent == nil || *result.ConfidencePercent != *tt.expectConf {
					t.Errorf("Expected confidence %v, got %v", *tt.expectConf, result.ConfidencePercent)
				}
			}
			if tt.expectScore != nil {
				if len(result.Medicines) != 1 || result.Medicines[0].MatchScore == nil || *result.Medicines[0].MatchScore != *tt.expectScore {
					t.Errorf("Expected match score %v, got %+v", *tt.expectScore, result.Medicines)
				}
			}
		})
	}
}

func TestNormalize_UnrecognizedShapeDegrades(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unrelated object", `{"matches": [{"brand_name": "X"}]}`},
		{"invalid JSON", `not json at all`},
		{"empty body", ``},
		{"JSON array", `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize([]byte(tt.body), models.StripAnalysis)
			if result.Medicines == nil {
				t.Fatal("Medicines must be non-nil")
			}
			if len(result.Medicines) != 0 {
				t.Errorf("Expected no medicines, got %d", len(result.Medicines))
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	bodies := [][]byte{
		[]byte(`{"extracted_text":"Rx","confidence":70,"medicines":[{"name":"A","match_score":0.5}],"entities":[{"label":"DATE","text":"today"}]}`),
		[]byte(`{"found":true,"medicine":{"name":"B"},"ocr_text":"text"}`),
		[]byte(`garbage`),
	}

	for _, body := range bodies {
		first := Normalize(body, models.PrescriptionAnalysis)
		second := Normalize(body, models.PrescriptionAnalysis)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Expected idempotent normalization for %s", body)
		}
	}
}

func TestNormalize_EntitiesWithoutMedicinesArray(t *testing.T) {
	// Without a medicines array there is nothing to deduplicate against, so
	// all entities are kept
	body := []byte(`{
		"found": true,
		"medicine": {"name": "X"},
		"entities": [{"label": "MEDICINE", "text": "X"}, {"label": "DATE", "text": "today"}]
	}`)

	result := Normalize(body, models.StripAnalysis)
	if len(result.OtherEntities) != 2 {
		t.Errorf("Expected both entities kept, got %+v", result.OtherEntities)
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
