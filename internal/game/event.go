package game

import "github.com/myrjola/casefile/internal/catalog"

// Intent names a player action.
type Intent string

const (
	IntentSubmitName           Intent = "submit-name"
	IntentNavigate             Intent = "navigate"
	IntentExamineExhibit       Intent = "examine-exhibit"
	IntentRevealFragment       Intent = "reveal-fragment"
	IntentStartInterrogation   Intent = "start-interrogation"
	IntentSelectOption         Intent = "select-option"
	IntentAdvanceInterrogation Intent = "advance-interrogation"
	IntentSetContradiction     Intent = "set-contradiction"
	IntentSubmitContradictions Intent = "submit-contradictions"
	IntentAnswerAssessment     Intent = "answer-assessment"
	IntentChooseVerdict        Intent = "choose-verdict"
	IntentToggleAudio          Intent = "toggle-audio"
	IntentReset                Intent = "reset"
)

// EventKind classifies a state change reported to observers.
type EventKind string

const (
	EventNameSubmitted EventKind = "name-submitted"
	EventScreenExited  EventKind = "screen-exited"
	EventScreenEntered EventKind = "screen-entered"
	EventExamined      EventKind = "examined"
	EventPhaseComplete EventKind = "phase-complete"

	EventFragmentRevealed EventKind = "fragment-revealed"

	// The refresh events are emitted when entering screens whose presentation is rebuilt on every visit.
	EventBoardRefreshed             EventKind = "board-refreshed"
	EventGalleryRefreshed           EventKind = "gallery-refreshed"
	EventTimelineRevealStarted      EventKind = "timeline-reveal-started"
	EventContradictionSequenceReset EventKind = "contradiction-sequence-reset"
	EventRevelationStarted          EventKind = "revelation-started"

	EventInterrogationStarted  EventKind = "interrogation-started"
	EventApproachChosen        EventKind = "approach-chosen"
	EventExchangeAdvanced      EventKind = "exchange-advanced"
	EventInterrogationFinished EventKind = "interrogation-finished"

	EventContradictionRecorded   EventKind = "contradiction-recorded"
	EventContradictionsReady     EventKind = "contradictions-ready"
	EventContradictionsSubmitted EventKind = "contradictions-submitted"

	EventAssessmentAnswered  EventKind = "assessment-answered"
	EventAssessmentCompleted EventKind = "assessment-completed"
	EventVerdictChosen       EventKind = "verdict-chosen"

	EventAudioToggled EventKind = "audio-toggled"
	EventSessionReset EventKind = "session-reset"
)

// Event is a single state change. Only the fields relevant to Kind are set.
type Event struct {
	Kind     EventKind
	Screen   ScreenID
	Item     Item
	Phase    Phase
	Fragment int
	Suspect  catalog.SuspectID
	// Index is the exchange index for interrogation events and the item id for contradiction events.
	Index   int
	Option  int
	Value   int
	Leaning catalog.Leaning
	Blame   catalog.BlameTarget
}

// Change describes the outcome of one intent.
type Change struct {
	Intent Intent
	// Moved reports whether the current screen changed.
	Moved  bool
	Events []Event
}

// Has reports whether the change contains an event of kind.
func (c Change) Has(kind EventKind) bool {
	_, ok := c.Find(kind)
	return ok
}

// Find returns the first event of kind.
func (c Change) Find(kind EventKind) (Event, bool) {
	for _, e := range c.Events {
		if e.Kind == kind {
			return e, true
		}
	}
	return Event{}, false
}
