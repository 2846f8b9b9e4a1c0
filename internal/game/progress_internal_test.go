package game

import (
	"testing"

	"github.com/myrjola/casefile/internal/catalog"
	"github.com/stretchr/testify/require"
)

func TestSession_markExamined(t *testing.T) {
	s := NewSession()
	require.True(t, s.markExamined(ItemExhibitB))
	require.False(t, s.markExamined(ItemExhibitB), "second call must not report a change")
	require.True(t, s.Examined(ItemExhibitB))
	require.False(t, s.Examined(ItemExhibitA))
	require.False(t, s.Examined(ItemTimeline))
}

func TestSession_phaseOneInEitherOrder(t *testing.T) {
	orders := [][]Item{
		{ItemExhibitA, ItemExhibitB},
		{ItemExhibitB, ItemExhibitA},
		{ItemExhibitB, ItemExhibitB, ItemExhibitA, ItemExhibitA},
	}
	for _, order := range orders {
		s := NewSession()
		s.markExamined(order[0])
		require.False(t, s.PhaseComplete(PhaseExhibits))
		for _, item := range order[1:] {
			s.markExamined(item)
		}
		require.True(t, s.PhaseComplete(PhaseExhibits))
		require.True(t, s.PhaseUnlocked(PhaseTimeline))
		require.False(t, s.PhaseComplete(PhaseTimeline))
		require.False(t, s.PhaseUnlocked(PhaseInterrogation))
	}
}

func TestSession_revealFragmentIsIdempotent(t *testing.T) {
	s := NewSession()
	for _, id := range []int{2, 2, 4, 1, 3, 5} {
		_, err := s.revealFragment(id)
		require.NoError(t, err)
	}
	require.Equal(t, catalog.FragmentCount, s.FragmentsRevealed())

	grew, err := s.revealFragment(3)
	require.NoError(t, err)
	require.False(t, grew)
	require.Equal(t, catalog.FragmentCount, s.FragmentsRevealed())

	for _, id := range []int{0, 6, -1} {
		_, err = s.revealFragment(id)
		require.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestSession_completeInterrogation(t *testing.T) {
	s := NewSession()
	order := catalog.SuspectOrder()

	require.ErrorIs(t, s.completeInterrogation(catalog.SuspectComparison), ErrOutOfOrderInterrogation)
	for i, id := range order {
		for _, other := range order {
			if other != id {
				require.ErrorIs(t, s.completeInterrogation(other), ErrOutOfOrderInterrogation)
			}
		}
		require.NoError(t, s.completeInterrogation(id))
		require.True(t, s.Interrogated(id))
		require.Equal(t, i+1, s.nextSuspect)
		require.ErrorIs(t, s.completeInterrogation(id), ErrOutOfOrderInterrogation, "already interrogated")
	}
	require.Len(t, s.interrogated, catalog.SuspectCount)
	require.True(t, s.PhaseComplete(PhaseInterrogation))
	for _, id := range order {
		require.ErrorIs(t, s.completeInterrogation(id), ErrOutOfOrderInterrogation)
	}
	_, remaining := s.NextSuspect()
	require.False(t, remaining)
}

func TestSession_recordContradiction(t *testing.T) {
	tests := []struct {
		name    string
		item    int
		value   int
		wantErr error
	}{
		{name: "lowest", item: 1, value: 0},
		{name: "highest", item: 3, value: 100},
		{name: "item zero", item: 0, value: 10, wantErr: ErrInvalidInput},
		{name: "item four", item: 4, value: 10, wantErr: ErrInvalidInput},
		{name: "negative", item: 2, value: -1, wantErr: ErrInvalidInput},
		{name: "too high", item: 2, value: 101, wantErr: ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession()
			err := s.recordContradiction(tt.item, tt.value)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Zero(t, s.ContradictionsTouched())
				return
			}
			require.NoError(t, err)
			got, touched := s.ContradictionValue(tt.item)
			require.True(t, touched)
			require.Equal(t, tt.value, got)
		})
	}
}

func TestSession_markContradictionsExaminedNeedsEveryValue(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.recordContradiction(1, 50))
	require.NoError(t, s.recordContradiction(2, 50))
	_, err := s.markContradictionsExamined()
	require.ErrorIs(t, err, ErrInvalidState)
	require.False(t, s.PhaseComplete(PhaseContradictions))

	require.NoError(t, s.recordContradiction(3, 50))
	changed, err := s.markContradictionsExamined()
	require.NoError(t, err)
	require.True(t, changed)
	require.True(t, s.PhaseComplete(PhaseContradictions))
}
