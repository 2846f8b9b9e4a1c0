package game_test

import (
	"context"
	"testing"

	"github.com/myrjola/casefile/internal/game"
	"github.com/stretchr/testify/require"
)

func TestSubmitName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "plain", input: "Avery", want: "Avery"},
		{name: "trimmed", input: "  Jo \t", want: "Jo"},
		{name: "multibyte", input: "Åsa", want: "Åsa"},
		{name: "too short", input: "A", wantErr: game.ErrInvalidInput},
		{name: "too short after trimming", input: "  B  ", wantErr: game.ErrInvalidInput},
		{name: "empty", input: "", wantErr: game.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t)
			s := game.NewSession()
			_, err := e.SubmitName(context.Background(), s, tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Equal(t, game.ScreenName, s.Screen())
				require.Empty(t, s.Name())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, s.Name())
			require.Equal(t, game.ScreenIntro, s.Screen())
		})
	}
}

func TestSubmitName_onlyOnce(t *testing.T) {
	e := newEngine(t)
	s := playTo(t, e, game.ScreenBoard)
	_, err := e.SubmitName(context.Background(), s, "Someone Else")
	require.ErrorIs(t, err, game.ErrInvalidState)
	require.Equal(t, "Avery", s.Name())
}

func TestNavigate_gating(t *testing.T) {
	tests := []struct {
		name   string
		from   game.ScreenID
		target game.ScreenID
		locked bool
	}{
		{name: "board before name", from: game.ScreenName, target: game.ScreenBoard, locked: true},
		{name: "back to name entry", from: game.ScreenBoard, target: game.ScreenName, locked: true},
		{name: "timeline before exhibits", from: game.ScreenBoard, target: game.ScreenTimeline, locked: true},
		{name: "suspects before timeline", from: game.ScreenBoard, target: game.ScreenSuspects, locked: true},
		{name: "interrogation without suspect", from: game.ScreenSuspects, target: game.ScreenInterrogation, locked: true},
		{name: "contradictions before interrogations", from: game.ScreenSuspects, target: game.ScreenContradictions, locked: true},
		{name: "assessment before contradictions", from: game.ScreenContradictions, target: game.ScreenAssessment, locked: true},
		{name: "conclusion before assessment", from: game.ScreenAssessment, target: game.ScreenConclusion, locked: true},
		{name: "final before verdict", from: game.ScreenConclusion, target: game.ScreenFinal, locked: true},
		{name: "mirror after name", from: game.ScreenBoard, target: game.ScreenMirror},
		{name: "observation after name", from: game.ScreenIntro, target: game.ScreenObservation},
		{name: "back to board from suspects", from: game.ScreenSuspects, target: game.ScreenBoard},
		{name: "revisit timeline", from: game.ScreenSuspects, target: game.ScreenTimeline},
		{name: "back to board from conclusion", from: game.ScreenConclusion, target: game.ScreenBoard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t)
			s := playTo(t, e, tt.from)
			require.Equal(t, !tt.locked, e.Unlocked(s, tt.target))
			change, err := e.Navigate(context.Background(), s, tt.target)
			if tt.locked {
				require.ErrorIs(t, err, game.ErrScreenLocked)
				require.Equal(t, tt.from, s.Screen())
				require.False(t, change.Moved)
				return
			}
			require.NoError(t, err)
			require.True(t, change.Moved)
			require.Equal(t, tt.target, s.Screen())
		})
	}
}

func TestNavigate_noops(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	s := playTo(t, e, game.ScreenBoard)

	for _, target := range []game.ScreenID{game.ScreenBoard, "basement", ""} {
		change, err := e.Navigate(ctx, s, target)
		require.NoError(t, err)
		require.False(t, change.Moved)
		require.Empty(t, change.Events)
		require.Equal(t, game.ScreenBoard, s.Screen())
	}
}

func TestNavigate_leavingExhibitMarksItExamined(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	s := playTo(t, e, game.ScreenBoard)

	ok(t)(e.Navigate(ctx, s, game.ScreenObservation))
	require.False(t, s.Examined(game.ItemExhibitB))
	change := ok(t)(e.Navigate(ctx, s, game.ScreenMirror))
	require.True(t, s.Examined(game.ItemExhibitB))
	examined, found := change.Find(game.EventExamined)
	require.True(t, found)
	require.Equal(t, game.ItemExhibitB, examined.Item)

	change = ok(t)(e.Navigate(ctx, s, game.ScreenBoard))
	require.True(t, s.PhaseComplete(game.PhaseExhibits))
	require.True(t, change.Has(game.EventPhaseComplete))
	require.True(t, change.Has(game.EventBoardRefreshed))
}

func TestNavigate_leavingTimelineUnlocksSuspects(t *testing.T) {
	e := newEngine(t)
	s := playTo(t, e, game.ScreenTimeline)
	require.False(t, e.Unlocked(s, game.ScreenSuspects))

	change := ok(t)(e.Navigate(context.Background(), s, game.ScreenSuspects))
	require.True(t, s.Examined(game.ItemTimeline))
	require.True(t, change.Has(game.EventGalleryRefreshed))
}

func TestExamineExhibit(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	s := game.NewSession()

	_, err := e.ExamineExhibit(ctx, s, game.ItemExhibitA)
	require.ErrorIs(t, err, game.ErrScreenLocked, "nothing is examined before the case opens")

	ok(t)(e.SubmitName(ctx, s, "Avery"))
	_, err = e.ExamineExhibit(ctx, s, game.ItemTimeline)
	require.ErrorIs(t, err, game.ErrScreenLocked)
	_, err = e.ExamineExhibit(ctx, s, game.ItemContradictions)
	require.ErrorIs(t, err, game.ErrInvalidInput)
	_, err = e.ExamineExhibit(ctx, s, "exhibit-c")
	require.ErrorIs(t, err, game.ErrInvalidInput)

	change := ok(t)(e.ExamineExhibit(ctx, s, game.ItemExhibitA))
	require.True(t, change.Has(game.EventExamined))
	change = ok(t)(e.ExamineExhibit(ctx, s, game.ItemExhibitA))
	require.Empty(t, change.Events, "examining twice changes nothing")
	require.True(t, s.Examined(game.ItemExhibitA))
}

func TestRevealFragment(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	s := playTo(t, e, game.ScreenBoard)

	_, err := e.RevealFragment(ctx, s, 1)
	require.ErrorIs(t, err, game.ErrInvalidState, "fragments are on the mirror")

	ok(t)(e.Navigate(ctx, s, game.ScreenMirror))
	var counts []int
	for _, id := range []int{2, 2, 4, 1, 3, 5} {
		change := ok(t)(e.RevealFragment(ctx, s, id))
		if ev, found := change.Find(game.EventFragmentRevealed); found {
			counts = append(counts, ev.Value)
		}
	}
	require.Equal(t, []int{1, 2, 3, 4, 5}, counts)
	require.Equal(t, 5, s.FragmentsRevealed())

	_, err = e.RevealFragment(ctx, s, 6)
	require.ErrorIs(t, err, game.ErrInvalidInput)
}
