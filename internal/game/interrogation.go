package game

import (
	"context"
	"log/slog"

	"github.com/myrjola/casefile/internal/catalog"
	"github.com/myrjola/casefile/internal/errors"
)

// InterrogationState is the position of the sequencer within one interrogation.
type InterrogationState string

const (
	InterrogationAwaitingChoice    InterrogationState = "awaiting-choice"
	InterrogationRevealingResponse InterrogationState = "revealing-response"
	InterrogationFinished          InterrogationState = "finished"
)

// Speaker attributes a transcript line.
type Speaker string

const (
	SpeakerSystem       Speaker = "system"
	SpeakerInvestigator Speaker = "investigator"
	SpeakerSuspect      Speaker = "suspect"
)

// TranscriptLine is one line of the interrogation transcript.
type TranscriptLine struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

const (
	lineInitiated = "[INTERROGATION INITIATED]"
	lineSelect    = "[SELECT YOUR APPROACH]"
	lineEnded     = "[END OF INTERROGATION]"
)

// Affordance is what a finished interrogation offers the player.
type Affordance string

const (
	AffordanceNone         Affordance = ""
	AffordanceNextSuspect  Affordance = "next-suspect"
	AffordanceReturnToList Affordance = "return-to-list"
)

type interrogation struct {
	suspect    catalog.SuspectID
	exchange   int
	state      InterrogationState
	transcript []TranscriptLine
}

func (i *interrogation) say(speaker Speaker, text string) {
	i.transcript = append(i.transcript, TranscriptLine{Speaker: speaker, Text: text})
}

// CurrentInterrogation returns the suspect and exchange index of an interrogation in progress. It reports false
// when no interrogation is running, including when the last one has finished.
func (s *Session) CurrentInterrogation() (catalog.SuspectID, int, bool) {
	if s.interrogation == nil || s.interrogation.state == InterrogationFinished {
		return "", 0, false
	}
	return s.interrogation.suspect, s.interrogation.exchange, true
}

// Affordance returns what the interrogation screen offers after the current interrogation finished.
func (s *Session) Affordance() Affordance {
	if s.interrogation == nil || s.interrogation.state != InterrogationFinished {
		return AffordanceNone
	}
	if _, ok := s.NextSuspect(); ok {
		return AffordanceNextSuspect
	}
	return AffordanceReturnToList
}

// StartInterrogation begins interrogating suspect and moves to the interrogation screen. Only the next suspect in
// order can be interrogated.
func (e *Engine) StartInterrogation(ctx context.Context, s *Session, suspect catalog.SuspectID) (Change, error) {
	return e.apply(ctx, s, IntentStartInterrogation, func(st *step) error {
		return e.startInterrogation(st, suspect)
	})
}

func (e *Engine) startInterrogation(st *step, id catalog.SuspectID) error {
	s := st.s
	attr := slog.String("suspect", string(id))
	if !id.Valid() {
		return errors.Wrap(ErrInvalidInput, "unknown suspect", attr)
	}
	if !s.PhaseUnlocked(PhaseInterrogation) {
		return errors.Wrap(ErrScreenLocked, "interrogations locked", attr)
	}
	if !s.CanInterrogate(id) {
		return errors.Wrap(ErrOutOfOrderInterrogation, "start interrogation", attr, slog.Int("next", s.nextSuspect))
	}
	suspect, ok := e.catalog.Suspect(id)
	if !ok {
		return errors.New("suspect missing from catalog", attr)
	}
	in := &interrogation{
		suspect:    id,
		exchange:   0,
		state:      InterrogationAwaitingChoice,
		transcript: nil,
	}
	in.say(SpeakerSystem, lineInitiated)
	in.say(SpeakerSystem, "Subject: "+suspect.Name)
	in.say(SpeakerSystem, lineSelect)
	s.interrogation = in
	st.emit(Event{Kind: EventInterrogationStarted, Suspect: id})
	return e.transition(st, ScreenInterrogation)
}

// SelectInterrogationOption chooses approach option for the current exchange. The suspect's response is recorded
// immediately; pacing its display is left to the presentation layer.
func (e *Engine) SelectInterrogationOption(ctx context.Context, s *Session, option int) (Change, error) {
	return e.apply(ctx, s, IntentSelectOption, func(st *step) error {
		in := st.s.interrogation
		if st.s.screen != ScreenInterrogation || in == nil || in.state != InterrogationAwaitingChoice {
			return errors.Wrap(ErrInvalidState, "no exchange awaiting a choice")
		}
		if option < 0 || option > 1 {
			return errors.Wrap(ErrInvalidInput, "option out of range", slog.Int("option", option))
		}
		suspect, _ := e.catalog.Suspect(in.suspect)
		exchange := suspect.Exchanges[in.exchange]
		in.say(SpeakerInvestigator, exchange.Approaches[option])
		in.say(SpeakerSuspect, exchange.Responses[option])
		in.state = InterrogationRevealingResponse
		st.emit(Event{Kind: EventApproachChosen, Suspect: in.suspect, Index: in.exchange, Option: option})
		return nil
	})
}

// AdvanceInterrogation moves past a revealed response to the next exchange, finishing the interrogation after the
// last one. On a finished interrogation it follows the offered affordance: the next suspect, or back to the list.
func (e *Engine) AdvanceInterrogation(ctx context.Context, s *Session) (Change, error) {
	return e.apply(ctx, s, IntentAdvanceInterrogation, func(st *step) error {
		in := st.s.interrogation
		if st.s.screen != ScreenInterrogation || in == nil {
			return errors.Wrap(ErrInvalidState, "no interrogation on screen")
		}
		switch in.state {
		case InterrogationAwaitingChoice:
			return errors.Wrap(ErrInvalidState, "choose an approach first", slog.String("suspect", string(in.suspect)))
		case InterrogationRevealingResponse:
			suspect, _ := e.catalog.Suspect(in.suspect)
			in.exchange++
			if in.exchange < len(suspect.Exchanges) {
				in.state = InterrogationAwaitingChoice
				in.say(SpeakerSystem, lineSelect)
				st.emit(Event{Kind: EventExchangeAdvanced, Suspect: in.suspect, Index: in.exchange})
				return nil
			}
			in.state = InterrogationFinished
			in.say(SpeakerSystem, lineEnded)
			if err := st.s.completeInterrogation(in.suspect); err != nil {
				return err
			}
			st.emit(Event{Kind: EventInterrogationFinished, Suspect: in.suspect})
			return nil
		case InterrogationFinished:
			if next, ok := st.s.NextSuspect(); ok {
				return e.startInterrogation(st, next)
			}
			return e.transition(st, ScreenSuspects)
		default:
			return errors.New("unknown interrogation state", slog.String("state", string(in.state)))
		}
	})
}
