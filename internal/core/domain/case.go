package domain

import "fmt"

// GeneralSpecialty is the sentinel that disables specialty filtering.
// A specialty set containing it means "search everything".
const GeneralSpecialty = "general"

// CaseStudy is the four-field structured case record submitted for
// analysis. It is ephemeral: normalized, embedded, and never persisted.
type CaseStudy struct {
	PatientHistory     string
	CurrentSymptoms    string
	PatientPerspective string
	DoctorOpinion      string
}

// Description renders the case as the text block used for term
// normalization and embedding.
func (c CaseStudy) Description() string {
	return fmt.Sprintf(
		"Patient History: %s\nCurrent Symptoms: %s\nPatient's Perspective: %s\nDoctor's Initial Assessment: %s",
		c.PatientHistory, c.CurrentSymptoms, c.PatientPerspective, c.DoctorOpinion,
	)
}

// FilterSpecialties reports whether the given specialty set should be
// applied as a metadata filter. The filter is skipped when the set is
// empty or contains the general sentinel.
func FilterSpecialties(specialties []string) bool {
	if len(specialties) == 0 {
		return false
	}
	for _, s := range specialties {
		if s == GeneralSpecialty {
			return false
		}
	}
	return true
}

// Answer is a generated response with its supporting citations.
type Answer struct {
	// Text is the generator output.
	Text string

	// Sources lists citations in order: vector-store citations
	// ("PMCID - Title") before web URLs. Never empty; when nothing
	// grounded the answer, it holds the general-knowledge sentinel.
	Sources []string
}

// GeneralKnowledgeSource is the citation sentinel used when an answer
// had no retrieved evidence behind it.
const GeneralKnowledgeSource = "Response generated using general medical knowledge"
