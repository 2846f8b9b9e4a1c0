package play

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/myrjola/casefile/internal/catalog"
	"github.com/myrjola/casefile/internal/game"
	"github.com/myrjola/casefile/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playScript(t *testing.T, lines ...string) (string, *terminal) {
	t.Helper()
	engine := game.NewEngine(catalog.MustLoad(), testhelpers.NewLogger(testhelpers.NewTestWriter(t)))
	var out bytes.Buffer
	term := newTerminal(engine, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out, 0)
	require.NoError(t, term.Run(context.Background()))
	return out.String(), term
}

func interrogateAll() []string {
	var lines []string
	for i, id := range catalog.SuspectOrder() {
		if i == 0 {
			lines = append(lines, "start "+string(id))
		} else {
			lines = append(lines, "next")
		}
		lines = append(lines, "choose 1", "choose 2")
	}
	return append(lines, "next")
}

func TestTerminal_fullPlaythrough(t *testing.T) {
	script := []string{
		"Avery",
		"go board",
		"go mirror",
		"fragment 1", "fragment 2", "fragment 3", "fragment 4", "fragment 5",
		"go board",
		"go observation",
		"go board",
		"go timeline",
		"go board",
		"go suspects",
	}
	script = append(script, interrogateAll()...)
	script = append(script,
		"go board",
		"go contradictions",
		"mark 1 60", "mark 2 70", "mark 3 40",
		"submit",
		"go board",
		"go assessment",
		"answer 1 a", "answer 2 b", "answer 3 c", "answer 4 a",
		"go conclusion",
		"blame self",
		"go final",
		"quit",
	)

	out, term := playScript(t, script...)

	assert.NotContains(t, out, lockedMessage)
	assert.NotContains(t, out, invalidInputMessage)
	assert.NotContains(t, out, "Unknown command")
	c := catalog.MustLoad()
	assert.Contains(t, out, c.TimelineNote)
	assert.Contains(t, out, c.Timeline[len(c.Timeline)-1].What)
	assert.Contains(t, out, "SOCIAL MEDIA: I gave them what they wanted. They chose to look.")
	assert.Contains(t, out, "AVERY: You made visibility addictive.")
	assert.Equal(t, len(catalog.SuspectOrder()), strings.Count(out, "[END OF INTERROGATION]"))
	assert.Contains(t, out, "Interesting choice, Avery.")
	assert.Contains(t, out, "The subject is you.")
	assert.Equal(t, game.ScreenFinal, term.session.Screen())
	assert.Empty(t, term.pending)
}

func TestTerminal_rejections(t *testing.T) {
	tests := []struct {
		name   string
		script []string
		want   string
	}{
		{"short name", []string{"A"}, invalidInputMessage},
		{"locked screen", []string{"Avery", "go timeline"}, lockedMessage},
		{"malformed fragment", []string{"Avery", "go board", "go mirror", "fragment x"}, invalidInputMessage},
		{"missing argument", []string{"Avery", "go"}, invalidInputMessage},
		{"interrogation out of order", []string{"Avery", "start validation"}, lockedMessage},
		{"unknown command", []string{"Avery", "dance"}, "Unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := playScript(t, tt.script...)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestTerminal_reset(t *testing.T) {
	out, term := playScript(t, "Avery", "go board", "audio", "reset")

	assert.Contains(t, out, "Sound on.")
	assert.Equal(t, game.ScreenName, term.session.Screen())
	assert.Empty(t, term.session.Name())
	assert.False(t, term.session.AudioEnabled())
	assert.Equal(t, 2, strings.Count(out, "Identify yourself, investigator."))
}

func TestTerminal_endOfInputShowsPendingReveals(t *testing.T) {
	engine := game.NewEngine(catalog.MustLoad(), testhelpers.NewLogger(testhelpers.NewTestWriter(t)))
	var out bytes.Buffer
	// A scale this large keeps every reveal pending until the input ends.
	input := strings.NewReader("Avery\ngo board\ngo mirror\ngo board\ngo observation\ngo board\ngo timeline\n")
	term := newTerminal(engine, input, &out, 1000)
	require.NoError(t, term.Run(context.Background()))

	c := catalog.MustLoad()
	for _, event := range c.Timeline {
		assert.Equal(t, 1, strings.Count(out.String(), event.What), "each event once")
	}
	assert.Contains(t, out.String(), c.TimelineNote)
}
