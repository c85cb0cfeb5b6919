package analytics

import (
	"strings"

	"github.com/ceejaycejas/nutrikid-sbfp/models"
)

// Scope narrows a student collection before aggregation. All fields are
// optional; a zero Scope matches everything. Handlers build the scope from
// the authenticated user's claims and query parameters, never from ambient
// state.
type Scope struct {
	SchoolID  *uint
	SectionID *uint
	Query     string // case-insensitive substring match on the student name
}

func (sc Scope) matches(s models.Student) bool {
	if sc.SchoolID != nil && (s.SchoolID == nil || *s.SchoolID != *sc.SchoolID) {
		return false
	}
	if sc.SectionID != nil && (s.SectionID == nil || *s.SectionID != *sc.SectionID) {
		return false
	}
	if q := strings.TrimSpace(sc.Query); q != "" {
		if !strings.Contains(strings.ToLower(s.Name), strings.ToLower(q)) {
			return false
		}
	}
	return true
}

// Filter applies the scope as a plain predicate conjunction. Collections are
// bounded by one school's enrollment, so a linear scan is all this needs.
func Filter(students []models.Student, sc Scope) []models.Student {
	out := make([]models.Student, 0, len(students))
	for _, s := range students {
		if sc.matches(s) {
			out = append(out, s)
		}
	}
	return out
}
