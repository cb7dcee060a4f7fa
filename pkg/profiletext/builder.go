package profiletext

import (
	"fmt"
	"strings"

	"specialist-match-be/internal/entity"
)

// Repetition factors for embedding weighting. The embedding model has no
// field-level weighting, so high-signal fields are repeated to pull the
// document's cosine geometry toward them.
const (
	problemWeight     = 3
	descriptionWeight = 2
	methodWeight      = 2
)

// Builder renders a specialist profile into the document that gets embedded.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// Build produces the weighted natural-language document for one specialist.
// Problem areas and specializations repeat problemWeight times, the free-text
// description descriptionWeight times; incidental fields (name, city, years)
// appear once.
func (b *Builder) Build(s *entity.Specialist) string {
	var doc strings.Builder

	doc.WriteString(fmt.Sprintf("Specialist: %s\n", s.Name))
	doc.WriteString(fmt.Sprintf("Category: %s\n", s.Category))
	if s.Tagline != "" {
		doc.WriteString(s.Tagline + "\n")
	}
	doc.WriteString("\n")

	repeatList(&doc, "Works with", append(append([]string{}, s.Specializations...), s.Fields.ProblemTerms()...), problemWeight)
	repeatList(&doc, "Methods", s.Fields.MethodTerms(), methodWeight)

	if s.Description != "" {
		for i := 0; i < descriptionWeight; i++ {
			doc.WriteString(s.Description + "\n")
		}
		doc.WriteString("\n")
	}

	// Incidental fields, stated once
	if s.City != "" {
		doc.WriteString(fmt.Sprintf("City: %s\n", s.City))
	}
	if len(s.WorkFormats) > 0 {
		doc.WriteString(fmt.Sprintf("Formats: %s\n", strings.Join(s.WorkFormats, ", ")))
	}
	if s.ExperienceYears > 0 {
		doc.WriteString(fmt.Sprintf("Experience: %d years\n", s.ExperienceYears))
	}

	return doc.String()
}

func repeatList(doc *strings.Builder, label string, items []string, times int) {
	if len(items) == 0 {
		return
	}
	line := fmt.Sprintf("%s: %s\n", label, strings.Join(items, ", "))
	for i := 0; i < times; i++ {
		doc.WriteString(line)
	}
	doc.WriteString("\n")
}
