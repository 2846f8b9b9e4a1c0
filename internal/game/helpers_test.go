package game_test

import (
	"context"
	"testing"

	"github.com/myrjola/casefile/internal/catalog"
	"github.com/myrjola/casefile/internal/game"
	"github.com/myrjola/casefile/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, observers ...game.Observer) *game.Engine {
	t.Helper()
	logger := testhelpers.NewLogger(testhelpers.NewTestWriter(t))
	return game.NewEngine(catalog.MustLoad(), logger, observers...)
}

// ok fails the test when an intent is rejected. Use it as ok(t)(e.Navigate(...)).
func ok(t *testing.T) func(game.Change, error) game.Change {
	t.Helper()
	return func(change game.Change, err error) game.Change {
		t.Helper()
		require.NoError(t, err)
		return change
	}
}

// interrogate runs the interrogation of the current suspect to its end, alternating approaches.
func interrogate(t *testing.T, e *game.Engine, s *game.Session) {
	t.Helper()
	ctx := context.Background()
	suspect, _, running := s.CurrentInterrogation()
	require.True(t, running)
	profile, found := e.Catalog().Suspect(suspect)
	require.True(t, found)
	for i := range profile.Exchanges {
		ok(t)(e.SelectInterrogationOption(ctx, s, i%2))
		ok(t)(e.AdvanceInterrogation(ctx, s))
	}
}

// playTo drives a fresh session through the case until it reaches target.
func playTo(t *testing.T, e *game.Engine, target game.ScreenID) *game.Session {
	t.Helper()
	ctx := context.Background()
	s := game.NewSession()
	steps := []func(){
		func() { ok(t)(e.SubmitName(ctx, s, "Avery")) },
		func() { ok(t)(e.Navigate(ctx, s, game.ScreenBoard)) },
		func() {
			ok(t)(e.Navigate(ctx, s, game.ScreenMirror))
			for id := 1; id <= catalog.FragmentCount; id++ {
				ok(t)(e.RevealFragment(ctx, s, id))
			}
			ok(t)(e.Navigate(ctx, s, game.ScreenBoard))
			ok(t)(e.Navigate(ctx, s, game.ScreenObservation))
			ok(t)(e.Navigate(ctx, s, game.ScreenBoard))
		},
		func() { ok(t)(e.Navigate(ctx, s, game.ScreenTimeline)) },
		func() { ok(t)(e.Navigate(ctx, s, game.ScreenSuspects)) },
		func() { ok(t)(e.StartInterrogation(ctx, s, catalog.SuspectSocialMedia)) },
		func() {
			for range catalog.SuspectCount {
				interrogate(t, e, s)
				// Next suspect, or back to the list after the last one.
				ok(t)(e.AdvanceInterrogation(ctx, s))
			}
		},
		func() { ok(t)(e.Navigate(ctx, s, game.ScreenContradictions)) },
		func() {
			ok(t)(e.SetContradictionValue(ctx, s, 1, 60))
			ok(t)(e.SetContradictionValue(ctx, s, 2, 70))
			ok(t)(e.SetContradictionValue(ctx, s, 3, 40))
			ok(t)(e.SubmitContradictions(ctx, s))
			ok(t)(e.Navigate(ctx, s, game.ScreenAssessment))
		},
		func() {
			for _, q := range e.Catalog().Assessment {
				ok(t)(e.AnswerAssessment(ctx, s, q.ID, q.Options[0].ID))
			}
			ok(t)(e.Navigate(ctx, s, game.ScreenConclusion))
		},
		func() {
			ok(t)(e.ChooseVerdict(ctx, s, catalog.BlameSelf))
			ok(t)(e.Navigate(ctx, s, game.ScreenFinal))
		},
	}
	for _, step := range steps {
		if s.Screen() == target {
			return s
		}
		step()
	}
	require.Equal(t, target, s.Screen(), "playthrough never reached screen")
	return s
}
