package game

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/myrjola/casefile/internal/errors"
)

// MinNameLength is the minimum number of characters in an investigator name.
const MinNameLength = 2

// Unlocked reports whether target may be navigated to from the current state.
func (e *Engine) Unlocked(s *Session, target ScreenID) bool {
	switch target {
	case ScreenName:
		// Only a reset returns to the name screen.
		return false
	case ScreenIntro, ScreenBoard, ScreenMirror, ScreenObservation:
		return s.name != ""
	case ScreenTimeline:
		return s.PhaseUnlocked(PhaseTimeline)
	case ScreenSuspects:
		return s.PhaseUnlocked(PhaseInterrogation)
	case ScreenInterrogation:
		return s.interrogation != nil
	case ScreenContradictions:
		return s.PhaseUnlocked(PhaseContradictions)
	case ScreenAssessment:
		return s.PhaseComplete(PhaseContradictions)
	case ScreenConclusion:
		return s.PhaseComplete(PhaseContradictions) && e.AssessmentComplete(s)
	case ScreenFinal:
		return s.verdict != ""
	default:
		return false
	}
}

// Navigate moves to target. Navigating to the current screen or to an unknown screen changes nothing.
func (e *Engine) Navigate(ctx context.Context, s *Session, target ScreenID) (Change, error) {
	return e.apply(ctx, s, IntentNavigate, func(st *step) error {
		return e.transition(st, target)
	})
}

func (e *Engine) transition(st *step, target ScreenID) error {
	s := st.s
	if !target.Valid() || target == s.screen {
		return nil
	}
	attrs := []slog.Attr{slog.String("from", string(s.screen)), slog.String("to", string(target))}
	if s.screen == ScreenFinal {
		return errors.Wrap(ErrScreenLocked, "case closed", attrs...)
	}
	from := s.screen
	st.emit(Event{Kind: EventScreenExited, Screen: from})
	// The leave hook may complete the phase that unlocks target. A locked target rolls the hook back with the rest
	// of the intent.
	e.exit(st, from)
	if !e.Unlocked(s, target) {
		return errors.Wrap(ErrScreenLocked, "navigate", attrs...)
	}
	s.screen = target
	st.moved = true
	st.emit(Event{Kind: EventScreenEntered, Screen: target})
	e.enter(st, target)
	return nil
}

// exit runs the leave hook of screen. Leaving an exhibit marks it examined.
func (e *Engine) exit(st *step, screen ScreenID) {
	s := st.s
	switch screen { //nolint:exhaustive // most screens have no leave hook
	case ScreenMirror:
		st.examine(ItemExhibitA)
	case ScreenObservation:
		st.examine(ItemExhibitB)
	case ScreenTimeline:
		st.examine(ItemTimeline)
	case ScreenContradictions:
		if s.ContradictionsTouched() == len(s.contradictions) {
			st.examine(ItemContradictions)
		}
	case ScreenInterrogation:
		if s.interrogation != nil && s.interrogation.state == InterrogationFinished {
			s.interrogation = nil
		}
	}
}

// enter runs the enter hook of screen.
func (e *Engine) enter(st *step, screen ScreenID) {
	switch screen { //nolint:exhaustive // most screens have no enter hook
	case ScreenBoard:
		st.emit(Event{Kind: EventBoardRefreshed, Screen: screen})
	case ScreenSuspects:
		st.emit(Event{Kind: EventGalleryRefreshed, Screen: screen})
	case ScreenTimeline:
		st.emit(Event{Kind: EventTimelineRevealStarted, Screen: screen})
	case ScreenContradictions:
		st.emit(Event{Kind: EventContradictionSequenceReset, Screen: screen})
	case ScreenFinal:
		st.emit(Event{Kind: EventRevelationStarted, Screen: screen, Blame: st.s.verdict})
	}
}

// SubmitName sets the investigator name and opens the case.
func (e *Engine) SubmitName(ctx context.Context, s *Session, name string) (Change, error) {
	return e.apply(ctx, s, IntentSubmitName, func(st *step) error {
		name = strings.TrimSpace(name)
		if st.s.screen != ScreenName || st.s.name != "" {
			return errors.Wrap(ErrInvalidState, "name already submitted")
		}
		if utf8.RuneCountInString(name) < MinNameLength {
			return errors.Wrap(ErrInvalidInput, "name too short", slog.Int("length", utf8.RuneCountInString(name)))
		}
		st.s.name = name
		st.emit(Event{Kind: EventNameSubmitted})
		return e.transition(st, ScreenIntro)
	})
}

// ExamineExhibit marks item examined at the moment its content is shown. The phase presenting the item must be
// unlocked. Contradictions are examined by submitting them.
func (e *Engine) ExamineExhibit(ctx context.Context, s *Session, item Item) (Change, error) {
	return e.apply(ctx, s, IntentExamineExhibit, func(st *step) error {
		attr := slog.String("item", string(item))
		var phase Phase
		switch item { //nolint:exhaustive // contradictions are rejected below
		case ItemExhibitA, ItemExhibitB:
			phase = PhaseExhibits
		case ItemTimeline:
			phase = PhaseTimeline
		default:
			return errors.Wrap(ErrInvalidInput, "unknown exhibit", attr)
		}
		if st.s.name == "" || !st.s.PhaseUnlocked(phase) {
			return errors.Wrap(ErrScreenLocked, "exhibit locked", attr)
		}
		st.examine(item)
		return nil
	})
}

// RevealFragment reveals fragment id of the mirror exhibit. Revealing a fragment twice is harmless.
func (e *Engine) RevealFragment(ctx context.Context, s *Session, id int) (Change, error) {
	return e.apply(ctx, s, IntentRevealFragment, func(st *step) error {
		if st.s.screen != ScreenMirror {
			return errors.Wrap(ErrInvalidState, "mirror not on screen", slog.Int("fragment", id))
		}
		grew, err := st.s.revealFragment(id)
		if err != nil {
			return err
		}
		if grew {
			st.emit(Event{Kind: EventFragmentRevealed, Fragment: id, Value: st.s.FragmentsRevealed()})
		}
		return nil
	})
}

// ToggleAudio flips the ambient audio preference. It is independent of progression.
func (e *Engine) ToggleAudio(ctx context.Context, s *Session) (Change, error) {
	return e.apply(ctx, s, IntentToggleAudio, func(st *step) error {
		st.s.audio = !st.s.audio
		st.emit(Event{Kind: EventAudioToggled})
		return nil
	})
}

// Reset discards all progress and returns to the name screen.
func (e *Engine) Reset(ctx context.Context, s *Session) (Change, error) {
	return e.apply(ctx, s, IntentReset, func(st *step) error {
		from := st.s.screen
		*st.s = *NewSession()
		st.moved = from != st.s.screen
		st.emit(Event{Kind: EventSessionReset, Screen: st.s.screen})
		return nil
	})
}
