package game

import (
	"context"
	"log/slog"

	"github.com/myrjola/casefile/internal/catalog"
	"github.com/myrjola/casefile/internal/errors"
)

const (
	// DefaultContradictionValue is the untouched slider position.
	DefaultContradictionValue = 50
	// MaxContradictionValue is the far right of a slider, the private struggle.
	MaxContradictionValue = 100
)

// Lean classifies slider values. A value above the midpoint leans towards the private struggle; two or more such
// values lean towards truth, none towards confidence and exactly one sits in the middle.
func Lean(values []int) catalog.Leaning {
	high := 0
	for _, v := range values {
		if v > DefaultContradictionValue {
			high++
		}
	}
	switch {
	case high >= 2: //nolint:mnd // majority of three
		return catalog.LeaningTruth
	case high == 0:
		return catalog.LeaningConfidence
	default:
		return catalog.LeaningMiddle
	}
}

// ContradictionValue returns the recorded value of item and whether the player has set it.
func (s *Session) ContradictionValue(item int) (int, bool) {
	if item < 1 || item > catalog.ContradictionCount {
		return 0, false
	}
	slot := s.contradictions[item-1]
	return slot.value, slot.touched
}

// ContradictionsTouched returns how many sliders the player has set.
func (s *Session) ContradictionsTouched() int {
	n := 0
	for _, slot := range s.contradictions {
		if slot.touched {
			n++
		}
	}
	return n
}

func (s *Session) contradictionValues() []int {
	values := make([]int, len(s.contradictions))
	for i, slot := range s.contradictions {
		values[i] = slot.value
	}
	return values
}

// recordContradiction sets the slider for item. Values are adjustable until the exercise is submitted.
func (s *Session) recordContradiction(item, value int) error {
	attrs := []slog.Attr{slog.Int("item", item), slog.Int("value", value)}
	if item < 1 || item > catalog.ContradictionCount {
		return errors.Wrap(ErrInvalidInput, "unknown contradiction", attrs...)
	}
	if value < 0 || value > MaxContradictionValue {
		return errors.Wrap(ErrInvalidInput, "contradiction value out of range", attrs...)
	}
	if s.submitted {
		return errors.Wrap(ErrInvalidState, "contradictions already submitted", attrs...)
	}
	s.contradictions[item-1] = contradictionSlot{value: value, touched: true}
	return nil
}

// markContradictionsExamined completes phase 4. It requires every slider to be set.
func (s *Session) markContradictionsExamined() (bool, error) {
	if s.ContradictionsTouched() < catalog.ContradictionCount {
		return false, errors.Wrap(ErrInvalidState, "contradictions incomplete",
			slog.Int("touched", s.ContradictionsTouched()))
	}
	return s.markExamined(ItemContradictions), nil
}

// SetContradictionValue records the slider position for item while the contradictions screen is shown.
func (e *Engine) SetContradictionValue(ctx context.Context, s *Session, item, value int) (Change, error) {
	return e.apply(ctx, s, IntentSetContradiction, func(st *step) error {
		if st.s.screen != ScreenContradictions {
			return errors.Wrap(ErrInvalidState, "contradictions not on screen", slog.String("screen", string(st.s.screen)))
		}
		before := st.s.ContradictionsTouched()
		if err := st.s.recordContradiction(item, value); err != nil {
			return err
		}
		st.emit(Event{Kind: EventContradictionRecorded, Index: item, Value: value})
		if before < catalog.ContradictionCount && st.s.ContradictionsTouched() == catalog.ContradictionCount {
			st.emit(Event{Kind: EventContradictionsReady})
		}
		return nil
	})
}

// SubmitContradictions freezes the slider values, derives the leaning and completes phase 4.
func (e *Engine) SubmitContradictions(ctx context.Context, s *Session) (Change, error) {
	return e.apply(ctx, s, IntentSubmitContradictions, func(st *step) error {
		s := st.s
		if s.screen != ScreenContradictions {
			return errors.Wrap(ErrInvalidState, "contradictions not on screen", slog.String("screen", string(s.screen)))
		}
		if s.submitted {
			return errors.Wrap(ErrInvalidState, "contradictions already submitted")
		}
		if s.ContradictionsTouched() < catalog.ContradictionCount {
			return errors.Wrap(ErrInvalidState, "set every contradiction before submitting",
				slog.Int("touched", s.ContradictionsTouched()))
		}
		s.leaning = Lean(s.contradictionValues())
		s.submitted = true
		changed, err := s.markContradictionsExamined()
		if err != nil {
			return err
		}
		if changed {
			st.emit(Event{Kind: EventExamined, Item: ItemContradictions})
		}
		st.emit(Event{Kind: EventContradictionsSubmitted, Leaning: s.leaning})
		return nil
	})
}
