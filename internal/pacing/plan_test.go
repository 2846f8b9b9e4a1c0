package pacing_test

import (
	"context"
	"testing"
	"time"

	"github.com/myrjola/casefile/internal/catalog"
	"github.com/myrjola/casefile/internal/game"
	"github.com/myrjola/casefile/internal/pacing"
	"github.com/stretchr/testify/require"
)

func change(events ...game.Event) game.Change {
	return game.Change{Intent: game.IntentNavigate, Moved: false, Events: events}
}

func TestFor_timeline(t *testing.T) {
	c := catalog.MustLoad()
	p := pacing.For(c, game.View{}, change(game.Event{Kind: game.EventTimelineRevealStarted}))

	require.Len(t, p.Reveals, len(c.Timeline)+1)
	require.Equal(t, time.Second, p.Reveals[0].At)
	require.Equal(t, 3500*time.Millisecond, p.Reveals[1].At)
	note := p.Reveals[len(p.Reveals)-1]
	require.Equal(t, pacing.KindTimelineNote, note.Kind)
	require.Equal(t, c.TimelineNote, note.Text)
	require.Equal(t, time.Second+time.Duration(len(c.Timeline))*2500*time.Millisecond+time.Second, note.At)
	require.Equal(t, note.At, p.Duration())
}

func TestFor_response(t *testing.T) {
	c := catalog.MustLoad()
	p := pacing.For(c, game.View{}, change(game.Event{
		Kind:    game.EventApproachChosen,
		Suspect: catalog.SuspectValidation,
		Index:   1,
		Option:  1,
	}))

	validation, _ := c.Suspect(catalog.SuspectValidation)
	require.Equal(t, []pacing.Reveal{
		{Kind: pacing.KindResponse, Index: 1, Text: validation.Exchanges[1].Responses[1], At: 1500 * time.Millisecond},
		{Kind: pacing.KindNextExchange, Index: 2, At: 2700 * time.Millisecond},
	}, p.Reveals)
}

func TestFor_contradictionsAndAssessment(t *testing.T) {
	c := catalog.MustLoad()
	tests := []struct {
		name  string
		event game.Event
		want  []pacing.Reveal
	}{
		{
			name:  "next slider",
			event: game.Event{Kind: game.EventContradictionRecorded, Index: 1, Value: 70},
			want:  []pacing.Reveal{{Kind: pacing.KindContradictionItem, Index: 2, At: 600 * time.Millisecond}},
		},
		{
			name:  "last slider",
			event: game.Event{Kind: game.EventContradictionRecorded, Index: 3, Value: 70},
			want:  nil,
		},
		{
			name:  "submit button",
			event: game.Event{Kind: game.EventContradictionsReady},
			want:  []pacing.Reveal{{Kind: pacing.KindContradictionSubmit, At: 800 * time.Millisecond}},
		},
		{
			name:  "next question",
			event: game.Event{Kind: game.EventAssessmentAnswered, Index: 1},
			want:  []pacing.Reveal{{Kind: pacing.KindAssessmentQuestion, Index: 2, At: 500 * time.Millisecond}},
		},
		{
			name:  "last question",
			event: game.Event{Kind: game.EventAssessmentAnswered, Index: c.Assessment[len(c.Assessment)-1].ID},
			want:  nil,
		},
		{
			name:  "nothing to reveal",
			event: game.Event{Kind: game.EventAudioToggled},
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pacing.For(c, game.View{}, change(tt.event))
			require.Equal(t, tt.want, p.Reveals)
		})
	}
}

func TestFor_revelation(t *testing.T) {
	c := catalog.MustLoad()
	p := pacing.For(c, game.View{Name: "Avery"}, change(game.Event{Kind: game.EventRevelationStarted}))

	require.Len(t, p.Reveals, len(c.Revelation)+1)
	require.Equal(t, "Interesting choice, Avery.", p.Reveals[0].Text)
	last := p.Reveals[len(c.Revelation)-1]
	require.Equal(t, "The subject is you.", last.Text)
	require.Equal(t, "final-revelation", last.Class)
	require.Equal(t, 18*time.Second, last.At)
	require.Equal(t, pacing.Reveal{Kind: pacing.KindCloseCase, At: 21 * time.Second}, p.Reveals[len(p.Reveals)-1])
}

func TestPlay(t *testing.T) {
	p := pacing.Plan{Reveals: []pacing.Reveal{
		{Kind: pacing.KindCloseCase, At: 3 * time.Second},
		{Kind: pacing.KindRevelation, Index: 0, At: 0},
		{Kind: pacing.KindRevelation, Index: 1, At: time.Second},
	}}
	out := make(chan pacing.Reveal, len(p.Reveals))
	require.NoError(t, pacing.Play(context.Background(), p, 0, out))
	close(out)

	var kinds []pacing.Kind
	for r := range out {
		kinds = append(kinds, r.Kind)
	}
	require.Equal(t, []pacing.Kind{pacing.KindRevelation, pacing.KindRevelation, pacing.KindCloseCase}, kinds)
}

func TestPlay_cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := pacing.Plan{Reveals: []pacing.Reveal{{Kind: pacing.KindCloseCase, At: time.Hour}}}
	err := pacing.Play(ctx, p, 1, make(chan pacing.Reveal))
	require.ErrorIs(t, err, context.Canceled)
}
