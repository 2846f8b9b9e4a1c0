// Package game implements the progression model of the case: the progress tracker, the screen navigator, the
// interrogation sequencer, the contradiction recorder and the assessment and verdict capture.
//
// A Session is plain data owned by exactly one player. Every mutation goes through an Engine intent, which
// validates the intent against the current state, applies it and reports what changed. Sessions are not safe for
// concurrent use; the web server serialises access through the session store and the CLI is single threaded.
package game

import (
	"github.com/myrjola/casefile/internal/catalog"
)

// contradictionSlot is the recorded position of one contradiction slider.
type contradictionSlot struct {
	value   int
	touched bool
}

// Session is the complete mutable state of one playthrough.
type Session struct {
	name     string
	screen   ScreenID
	examined map[Item]bool
	// fragments is indexed by fragment id, index 0 is unused.
	fragments    [catalog.FragmentCount + 1]bool
	interrogated map[catalog.SuspectID]bool
	// nextSuspect indexes catalog.SuspectOrder.
	nextSuspect    int
	interrogation  *interrogation
	contradictions [catalog.ContradictionCount]contradictionSlot
	submitted      bool
	leaning        catalog.Leaning
	answers        map[int]string
	verdict        catalog.BlameTarget
	audio          bool
}

// NewSession returns a session at the start of the case.
func NewSession() *Session {
	s := &Session{
		name:          "",
		screen:        InitialScreen,
		examined:      make(map[Item]bool),
		fragments:     [catalog.FragmentCount + 1]bool{},
		interrogated:  make(map[catalog.SuspectID]bool),
		nextSuspect:   0,
		interrogation: nil,
		submitted:     false,
		leaning:       "",
		answers:       make(map[int]string),
		verdict:       "",
		audio:         false,
	}
	for i := range s.contradictions {
		s.contradictions[i] = contradictionSlot{value: DefaultContradictionValue, touched: false}
	}
	return s
}

// Name returns the investigator name, empty until submitted.
func (s *Session) Name() string {
	return s.name
}

// Screen returns the current screen.
func (s *Session) Screen() ScreenID {
	return s.screen
}

// AudioEnabled reports whether the ambient audio is toggled on.
func (s *Session) AudioEnabled() bool {
	return s.audio
}

// Verdict returns the chosen blame target and whether one has been chosen.
func (s *Session) Verdict() (catalog.BlameTarget, bool) {
	return s.verdict, s.verdict != ""
}

// Leaning returns the contradiction outcome and whether contradictions have been submitted.
func (s *Session) Leaning() (catalog.Leaning, bool) {
	return s.leaning, s.submitted
}
