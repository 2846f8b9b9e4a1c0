package game

import (
	"context"
	"log/slog"

	"github.com/myrjola/casefile/internal/catalog"
	"github.com/myrjola/casefile/internal/errors"
)

// Answer returns the option chosen for assessment question q.
func (s *Session) Answer(q int) (string, bool) {
	a, ok := s.answers[q]
	return a, ok
}

// AssessmentComplete reports whether every question in the catalog has an answer.
func (e *Engine) AssessmentComplete(s *Session) bool {
	for _, q := range e.catalog.Assessment {
		if _, ok := s.answers[q.ID]; !ok {
			return false
		}
	}
	return true
}

// AnswerAssessment records option for question while the assessment is shown. Answers may be changed until the
// verdict is chosen.
func (e *Engine) AnswerAssessment(ctx context.Context, s *Session, question int, option string) (Change, error) {
	return e.apply(ctx, s, IntentAnswerAssessment, func(st *step) error {
		attrs := []slog.Attr{slog.Int("question", question), slog.String("option", option)}
		if st.s.screen != ScreenAssessment {
			return errors.Wrap(ErrInvalidState, "assessment not on screen", attrs...)
		}
		if st.s.verdict != "" {
			return errors.Wrap(ErrInvalidState, "verdict already chosen", attrs...)
		}
		q, ok := e.catalog.Question(question)
		if !ok {
			return errors.Wrap(ErrInvalidInput, "unknown question", attrs...)
		}
		if _, ok = q.Option(option); !ok {
			return errors.Wrap(ErrInvalidInput, "unknown option", attrs...)
		}
		wasComplete := e.AssessmentComplete(st.s)
		st.s.answers[question] = option
		st.emit(Event{Kind: EventAssessmentAnswered, Index: question})
		if !wasComplete && e.AssessmentComplete(st.s) {
			st.emit(Event{Kind: EventAssessmentCompleted})
		}
		return nil
	})
}

// ChooseVerdict records the single blame choice on the conclusion screen.
func (e *Engine) ChooseVerdict(ctx context.Context, s *Session, target catalog.BlameTarget) (Change, error) {
	return e.apply(ctx, s, IntentChooseVerdict, func(st *step) error {
		attr := slog.String("blame", string(target))
		if st.s.screen != ScreenConclusion {
			return errors.Wrap(ErrInvalidState, "conclusion not on screen", attr)
		}
		if !target.Valid() {
			return errors.Wrap(ErrInvalidInput, "unknown blame target", attr)
		}
		if st.s.verdict != "" {
			return errors.Wrap(ErrInvalidState, "verdict already chosen", attr)
		}
		st.s.verdict = target
		st.emit(Event{Kind: EventVerdictChosen, Blame: target})
		return nil
	})
}
