package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ceejaycejas/nutrikid-sbfp/models"
)

func scopedStudents() []models.Student {
	return []models.Student{
		{ID: 1, Name: "Ana Reyes", SchoolID: up(1), SectionID: up(10)},
		{ID: 2, Name: "Ben Santos", SchoolID: up(1), SectionID: up(11)},
		{ID: 3, Name: "Carla Cruz", SchoolID: up(2), SectionID: up(20)},
		{ID: 4, Name: "Dan Reyes", SchoolID: nil, SectionID: nil},
	}
}

func TestFilterZeroScopeMatchesAll(t *testing.T) {
	got := Filter(scopedStudents(), Scope{})
	assert.Len(t, got, 4)
}

func TestFilterBySchool(t *testing.T) {
	got := Filter(scopedStudents(), Scope{SchoolID: up(1)})
	assert.Len(t, got, 2)
	for _, s := range got {
		assert.Equal(t, uint(1), *s.SchoolID)
	}
}

func TestFilterBySchoolAndSection(t *testing.T) {
	got := Filter(scopedStudents(), Scope{SchoolID: up(1), SectionID: up(11)})
	assert.Len(t, got, 1)
	assert.Equal(t, uint(2), got[0].ID)
}

func TestFilterSearchIsCaseInsensitive(t *testing.T) {
	got := Filter(scopedStudents(), Scope{Query: "reyes"})
	assert.Len(t, got, 2)

	got = Filter(scopedStudents(), Scope{Query: "  REYES "})
	assert.Len(t, got, 2, "query is trimmed before matching")
}

func TestFilterConjunction(t *testing.T) {
	got := Filter(scopedStudents(), Scope{SchoolID: up(1), Query: "reyes"})
	assert.Len(t, got, 1)
	assert.Equal(t, "Ana Reyes", got[0].Name)
}

func TestFilterUnscopedRecordsNeverMatchScopedFilters(t *testing.T) {
	got := Filter(scopedStudents(), Scope{SchoolID: up(99)})
	assert.Empty(t, got)
}
