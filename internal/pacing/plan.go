// Package pacing turns state changes into timed presentation reveals.
//
// The game commits every state change immediately. What the player sees afterwards is paced: timeline events
// appear one by one, a suspect's response follows the chosen approach after a pause, the final revelation
// unfolds line by line. A Plan lists those reveals with their offsets; a Scheduler or Play delivers them.
package pacing

import (
	"time"

	"github.com/myrjola/casefile/internal/catalog"
	"github.com/myrjola/casefile/internal/game"
)

// Kind tells the presentation layer what a reveal shows.
type Kind string

const (
	KindTimelineEvent       Kind = "timeline-event"
	KindTimelineNote        Kind = "timeline-note"
	KindResponse            Kind = "response"
	KindNextExchange        Kind = "next-exchange"
	KindContradictionItem   Kind = "contradiction-item"
	KindContradictionSubmit Kind = "contradiction-submit"
	KindAssessmentQuestion  Kind = "assessment-question"
	KindAssessmentComplete  Kind = "assessment-complete"
	KindRevelation          Kind = "revelation"
	KindCloseCase           Kind = "close-case"
)

const (
	TimelineLead             = 1000 * time.Millisecond
	TimelineStep             = 2500 * time.Millisecond
	TimelineNoteLag          = 1000 * time.Millisecond
	ResponseDelay            = 1500 * time.Millisecond
	NextExchangeDelay        = 1200 * time.Millisecond
	ContradictionItemDelay   = 600 * time.Millisecond
	ContradictionSubmitDelay = 800 * time.Millisecond
	AssessmentDelay          = 500 * time.Millisecond
)

// Reveal is one timed presentation effect. At is the offset from the moment the plan starts.
type Reveal struct {
	Kind  Kind          `json:"kind"`
	Index int           `json:"index"`
	Text  string        `json:"text,omitempty"`
	Class string        `json:"class,omitempty"`
	At    time.Duration `json:"at"`
}

// Plan is an ordered list of reveals.
type Plan struct {
	Reveals []Reveal
}

// Empty reports whether the plan reveals nothing.
func (p Plan) Empty() bool {
	return len(p.Reveals) == 0
}

// Duration is the offset of the last reveal.
func (p Plan) Duration() time.Duration {
	var d time.Duration
	for _, r := range p.Reveals {
		d = max(d, r.At)
	}
	return d
}

func (p *Plan) add(r Reveal) {
	p.Reveals = append(p.Reveals, r)
}

// For derives the reveals that follow change. view is the state after the change.
func For(c *catalog.Catalog, view game.View, change game.Change) Plan {
	var p Plan
	for _, ev := range change.Events {
		switch ev.Kind { //nolint:exhaustive // most events reveal nothing
		case game.EventTimelineRevealStarted:
			for i, event := range c.Timeline {
				p.add(Reveal{Kind: KindTimelineEvent, Index: i, Text: event.What, At: TimelineLead + time.Duration(i)*TimelineStep})
			}
			p.add(Reveal{
				Kind:  KindTimelineNote,
				Index: 0,
				Text:  c.TimelineNote,
				At:    TimelineLead + time.Duration(len(c.Timeline))*TimelineStep + TimelineNoteLag,
			})
		case game.EventApproachChosen:
			suspect, _ := c.Suspect(ev.Suspect)
			response := suspect.Exchanges[ev.Index].Responses[ev.Option]
			p.add(Reveal{Kind: KindResponse, Index: ev.Index, Text: response, At: ResponseDelay})
			p.add(Reveal{Kind: KindNextExchange, Index: ev.Index + 1, At: ResponseDelay + NextExchangeDelay})
		case game.EventContradictionRecorded:
			if ev.Index < len(c.Contradictions) {
				p.add(Reveal{Kind: KindContradictionItem, Index: ev.Index + 1, At: ContradictionItemDelay})
			}
		case game.EventContradictionsReady:
			p.add(Reveal{Kind: KindContradictionSubmit, At: ContradictionSubmitDelay})
		case game.EventAssessmentAnswered:
			if next := nextQuestion(c, ev.Index); next != 0 {
				p.add(Reveal{Kind: KindAssessmentQuestion, Index: next, At: AssessmentDelay})
			}
		case game.EventAssessmentCompleted:
			p.add(Reveal{Kind: KindAssessmentComplete, At: AssessmentDelay})
		case game.EventRevelationStarted:
			for i, msg := range c.Revelation {
				p.add(Reveal{
					Kind:  KindRevelation,
					Index: i,
					Text:  catalog.Interpolate(msg.Text, view.Name),
					Class: msg.Class,
					At:    msg.Delay,
				})
			}
			p.add(Reveal{Kind: KindCloseCase, At: c.CloseCaseAfter})
		}
	}
	return p
}

// nextQuestion returns the id of the question after id, or 0 after the last one.
func nextQuestion(c *catalog.Catalog, id int) int {
	for i, q := range c.Assessment {
		if q.ID == id && i+1 < len(c.Assessment) {
			return c.Assessment[i+1].ID
		}
	}
	return 0
}
