package play

import (
	"fmt"
	"slices"
	"strings"

	"github.com/myrjola/casefile/internal/catalog"
	"github.com/myrjola/casefile/internal/game"
	"github.com/myrjola/casefile/internal/pacing"
)

func soundLabel(enabled bool) string {
	if enabled {
		return "Sound on."
	}
	return "Sound off."
}

func (t *terminal) text(view game.View, s string) string {
	return catalog.Interpolate(s, view.Name)
}

func (t *terminal) heading(title string) {
	t.println()
	t.println(title)
	t.println(strings.Repeat("=", len([]rune(title))))
}

//nolint:cyclop // one case per screen
func (t *terminal) render(view game.View) {
	switch view.Screen {
	case game.ScreenName:
		t.heading(t.catalog.Title)
		t.println("Identify yourself, investigator. Type your name.")
	case game.ScreenIntro:
		t.heading(t.catalog.Title)
		for _, line := range t.catalog.Intro {
			t.println(t.text(view, line))
		}
		t.println("Type 'go board' to open the case file.")
	case game.ScreenBoard:
		t.renderBoard(view)
	case game.ScreenMirror:
		t.renderMirror(view)
	case game.ScreenObservation:
		t.renderExhibit(view, t.catalog.Observation)
	case game.ScreenTimeline:
		t.renderTimeline()
	case game.ScreenSuspects:
		t.renderSuspects(view)
	case game.ScreenInterrogation:
		t.heading("INTERROGATION: " + t.suspectName(view))
		t.renderTranscript(view, 0)
	case game.ScreenContradictions:
		t.renderContradictions(view)
	case game.ScreenAssessment:
		t.renderAssessment(view)
	case game.ScreenConclusion:
		t.renderConclusion(view)
	case game.ScreenFinal:
		t.renderFinal(view)
	}
}

type boardEntry struct {
	screen game.ScreenID
	item   game.Item
	label  string
}

func (t *terminal) renderBoard(view game.View) {
	t.heading("INVESTIGATION BOARD")
	entries := []boardEntry{
		{game.ScreenMirror, game.ItemExhibitA, t.catalog.Mirror.Title},
		{game.ScreenObservation, game.ItemExhibitB, t.catalog.Observation.Title},
		{game.ScreenTimeline, game.ItemTimeline, "TIMELINE"},
		{game.ScreenSuspects, "", "SUSPECTS"},
		{game.ScreenContradictions, game.ItemContradictions, "CONTRADICTIONS"},
		{game.ScreenAssessment, "", "ASSESSMENT"},
		{game.ScreenConclusion, "", "CONCLUSION"},
	}
	for _, entry := range entries {
		status := "open"
		switch {
		case !view.Unlocked[entry.screen]:
			status = "locked"
		case entry.item != "" && view.Examined[entry.item]:
			status = "examined"
		}
		t.printf("  %-40s [%s]  go %s\n", entry.label, status, entry.screen)
	}
}

func (t *terminal) renderExhibit(view game.View, exhibit catalog.Exhibit) {
	t.heading(exhibit.Title)
	t.println(t.text(view, exhibit.Description))
	for _, p := range exhibit.Paragraphs {
		t.println()
		t.println(t.text(view, p))
	}
}

func (t *terminal) renderMirror(view game.View) {
	t.renderExhibit(view, t.catalog.Mirror)
	t.println()
	for _, f := range t.catalog.Fragments {
		if slices.Contains(view.Fragments, f.ID) {
			t.printf("  %d. %s: %s\n", f.ID, f.Label, t.text(view, f.Analysis))
			continue
		}
		t.printf("  %d. %s (fragment %d)\n", f.ID, f.Label, f.ID)
	}
	switch len(view.Fragments) {
	case 0:
	case catalog.FragmentCount:
		t.println(t.text(view, t.catalog.FullObservation))
	default:
		t.println(t.text(view, t.catalog.FirstObservation))
	}
}

func (t *terminal) renderTimeline() {
	t.heading("TIMELINE RECONSTRUCTION")
	for i := range t.catalog.Timeline {
		if !t.isPending(pacing.KindTimelineEvent, i) {
			t.printTimelineEvent(i)
		}
	}
	if !t.isPending(pacing.KindTimelineNote, 0) {
		t.println(t.catalog.TimelineNote)
	}
}

func (t *terminal) printTimelineEvent(i int) {
	if i < 0 || i >= len(t.catalog.Timeline) {
		return
	}
	event := t.catalog.Timeline[i]
	t.printf("  %-10s %s\n", event.When, event.What)
}

func (t *terminal) renderSuspects(view game.View) {
	t.heading("SUSPECTS")
	for _, s := range t.catalog.Suspects() {
		status := "LOCKED"
		switch {
		case slices.Contains(view.Interrogated, s.ID):
			status = "COMPLETED"
		case s.ID == view.NextSuspect:
			status = "READY     start " + string(s.ID)
		}
		t.printf("  %-22s %s\n", s.Name, status)
	}
}

func (t *terminal) suspectName(view game.View) string {
	if view.Interrogation == nil {
		return ""
	}
	s, _ := t.catalog.Suspect(view.Interrogation.Suspect)
	return s.Name
}

// renderTranscript prints the transcript from line from on, followed by what the player can do next. A response
// that is still pending is left to its reveal.
func (t *terminal) renderTranscript(view game.View, from int) {
	in := view.Interrogation
	if in == nil {
		return
	}
	last := len(in.Transcript) - 1
	for i := from; i <= last; i++ {
		line := in.Transcript[i]
		switch line.Speaker {
		case game.SpeakerSystem:
			t.println(line.Text)
		case game.SpeakerInvestigator:
			t.printf("%s: %s\n", upper.String(view.Name), line.Text)
		case game.SpeakerSuspect:
			if i == last && t.pendingKind(pacing.KindResponse) {
				continue
			}
			t.printf("%s: %s\n", t.suspectName(view), line.Text)
		}
	}
	switch in.State {
	case game.InterrogationAwaitingChoice:
		s, _ := t.catalog.Suspect(in.Suspect)
		exchange := s.Exchanges[in.Exchange]
		t.println(exchange.Prompt)
		for i, approach := range exchange.Approaches {
			t.printf("  choose %d: %s\n", i+1, approach)
		}
	case game.InterrogationRevealingResponse:
	case game.InterrogationFinished:
		switch in.Affordance {
		case game.AffordanceNextSuspect:
			t.println("Type 'next' to interrogate the next suspect.")
		case game.AffordanceReturnToList, game.AffordanceNone:
			t.println("Type 'next' to return to the suspects.")
		}
	}
}

// transcriptLength is the number of transcript lines of the interrogation on screen, if any.
func (t *terminal) transcriptLength() int {
	view := t.engine.View(t.session)
	if view.Screen != game.ScreenInterrogation || view.Interrogation == nil {
		return 0
	}
	return len(view.Interrogation.Transcript)
}

func (t *terminal) renderContradictions(view game.View) {
	t.heading("CONTRADICTIONS")
	for i, item := range t.catalog.Contradictions {
		if i > 0 && !view.Contradictions[i-1].Touched {
			break
		}
		c := view.Contradictions[i]
		value := "  ?"
		if c.Touched {
			value = fmt.Sprintf("%3d", c.Value)
		}
		t.printf("  %d. %s  <%s>  %s   (mark %d <0-100>)\n", item.ID, item.Left, value, item.Right, item.ID)
	}
	switch {
	case view.Submitted:
		t.println(t.text(view, t.catalog.Leanings[view.Leaning]))
	case allTouched(view.Contradictions):
		t.println("Type 'submit' to record your position.")
	}
}

func allTouched(contradictions []game.ContradictionView) bool {
	for _, c := range contradictions {
		if !c.Touched {
			return false
		}
	}
	return true
}

func (t *terminal) renderAssessment(view game.View) {
	t.heading("ASSESSMENT")
	for _, q := range t.catalog.Assessment {
		answer := view.Answers[q.ID]
		t.printf("  %d. %s\n", q.ID, q.Prompt)
		if answer != "" {
			option, _ := q.Option(answer)
			t.printf("     > %s\n", option.Text)
			continue
		}
		for _, o := range q.Options {
			t.printf("     answer %d %s: %s\n", q.ID, o.ID, o.Text)
		}
		break
	}
	if view.AssessmentComplete {
		t.println(t.text(view, t.catalog.AssessmentOutro))
	}
}

func (t *terminal) renderConclusion(view game.View) {
	t.heading("CONCLUSION")
	if view.Verdict != "" {
		for _, line := range t.catalog.Blame[view.Verdict].Lines {
			t.println(t.text(view, line))
		}
		t.println("Type 'go final' to proceed.")
		return
	}
	t.println("Who is responsible for the shattered ego?")
	for _, target := range catalog.BlameTargets() {
		t.printf("  blame %-16s %s\n", target, t.catalog.Blame[target].Label)
	}
}

func (t *terminal) renderFinal(view game.View) {
	t.println()
	for i, msg := range t.catalog.Revelation {
		if !t.isPending(pacing.KindRevelation, i) {
			t.println(t.text(view, msg.Text))
		}
	}
	if !t.isPending(pacing.KindCloseCase, 0) {
		t.println("Type 'reset' to close the case.")
	}
}
