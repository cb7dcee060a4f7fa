package profiletext

import (
	"strings"
	"testing"

	"specialist-match-be/internal/entity"
)

func sampleSpecialist() *entity.Specialist {
	return &entity.Specialist{
		Name:            "Anna K",
		Tagline:         "CBT therapist for young adults",
		Description:     "I help clients manage anxiety and burnout.",
		Category:        entity.CategoryPsychology,
		Specializations: []string{"anxiety", "burnout"},
		WorkFormats:     []string{entity.FormatOnline},
		City:            "Berlin",
		ExperienceYears: 8,
		Fields: entity.CategoryFields{
			Psychology: &entity.PsychologyFields{
				Approaches:   []string{"CBT"},
				ProblemAreas: []string{"panic attacks"},
			},
		},
	}
}

func TestBuildRepeatsHighSignalFields(t *testing.T) {
	doc := NewBuilder().Build(sampleSpecialist())

	if got := strings.Count(doc, "anxiety, burnout, panic attacks"); got != problemWeight {
		t.Errorf("problem terms repeated %d times, want %d", got, problemWeight)
	}
	if got := strings.Count(doc, "I help clients manage anxiety and burnout."); got != descriptionWeight {
		t.Errorf("description repeated %d times, want %d", got, descriptionWeight)
	}

	// Incidental fields appear exactly once
	for _, once := range []string{"Anna K", "Berlin", "8 years"} {
		if got := strings.Count(doc, once); got != 1 {
			t.Errorf("%q appears %d times, want 1", once, got)
		}
	}
}

func TestBuildToleratesEmptyProfile(t *testing.T) {
	doc := NewBuilder().Build(&entity.Specialist{Name: "X", Category: entity.CategoryFitness})
	if doc == "" {
		t.Fatal("empty document for minimal profile")
	}
	if !strings.Contains(doc, "fitness") {
		t.Errorf("category missing in document: %q", doc)
	}
}
