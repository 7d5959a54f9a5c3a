package priority

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-core/internal/domain"
)

func snapshotWithFaculty(prioritize bool) domain.Snapshot {
	return domain.NewSnapshot(
		domain.Settings{PrioritizeFaculty: prioritize},
		[]domain.Faculty{{ID: "f1", Priority: 10}},
		nil,
		[]domain.Group{{ID: "g1", FacultyID: "f1"}},
		nil,
		nil,
		nil,
	)
}

func TestEffectiveIgnoresFacultyWhenDisabled(t *testing.T) {
	snap := snapshotWithFaculty(false)
	course := domain.Course{Priority: 5, GroupIDs: []string{"g1"}}

	require.Equal(t, 5.0, Effective(snap, course))
}

func TestEffectiveBlendsFacultyWeight(t *testing.T) {
	snap := snapshotWithFaculty(true)
	course := domain.Course{Priority: 5, GroupIDs: []string{"g1"}}

	got := Effective(snap, course)
	want := 0.7*5.0 + 0.3*10.0
	require.InDelta(t, want, got, 1e-9)
}

func TestOrderSortsDescendingAndIsStableOnTies(t *testing.T) {
	snap := snapshotWithFaculty(false)
	courses := []domain.Course{
		{ID: "low", Priority: 1},
		{ID: "high", Priority: 9},
		{ID: "tie-a", Priority: 5},
		{ID: "tie-b", Priority: 5},
	}

	order := Order(snap, courses)

	require.Equal(t, []int{1, 2, 3, 0}, order)
}
