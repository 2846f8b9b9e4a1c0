package game

import (
	"log/slog"

	"github.com/myrjola/casefile/internal/catalog"
	"github.com/myrjola/casefile/internal/errors"
)

// markExamined records that item was shown. It reports whether the flag changed.
func (s *Session) markExamined(item Item) bool {
	if s.examined[item] {
		return false
	}
	s.examined[item] = true
	return true
}

// Examined reports whether item has been examined.
func (s *Session) Examined(item Item) bool {
	return s.examined[item]
}

// revealFragment adds id to the revealed fragments. It reports whether the set grew.
func (s *Session) revealFragment(id int) (bool, error) {
	if id < 1 || id > catalog.FragmentCount {
		return false, errors.Wrap(ErrInvalidInput, "fragment out of range", slog.Int("fragment", id))
	}
	if s.fragments[id] {
		return false, nil
	}
	s.fragments[id] = true
	return true, nil
}

// FragmentRevealed reports whether fragment id has been revealed.
func (s *Session) FragmentRevealed(id int) bool {
	if id < 1 || id > catalog.FragmentCount {
		return false
	}
	return s.fragments[id]
}

// FragmentsRevealed returns the number of distinct fragments revealed.
func (s *Session) FragmentsRevealed() int {
	n := 0
	for _, revealed := range s.fragments {
		if revealed {
			n++
		}
	}
	return n
}

// CanInterrogate reports whether suspect is the next one in order and has not been interrogated yet.
func (s *Session) CanInterrogate(suspect catalog.SuspectID) bool {
	order := catalog.SuspectOrder()
	if s.nextSuspect >= len(order) {
		return false
	}
	return order[s.nextSuspect] == suspect && !s.interrogated[suspect]
}

// completeInterrogation records suspect as interrogated and advances to the next one in order.
func (s *Session) completeInterrogation(suspect catalog.SuspectID) error {
	if !s.CanInterrogate(suspect) {
		return errors.Wrap(ErrOutOfOrderInterrogation, "complete interrogation",
			slog.String("suspect", string(suspect)), slog.Int("next", s.nextSuspect))
	}
	s.interrogated[suspect] = true
	s.nextSuspect++
	return nil
}

// Interrogated reports whether suspect has been interrogated.
func (s *Session) Interrogated(suspect catalog.SuspectID) bool {
	return s.interrogated[suspect]
}

// NextSuspect returns the next suspect to interrogate, if any remain.
func (s *Session) NextSuspect() (catalog.SuspectID, bool) {
	order := catalog.SuspectOrder()
	if s.nextSuspect >= len(order) {
		return "", false
	}
	return order[s.nextSuspect], true
}

// PhaseComplete reports whether phase p is complete.
func (s *Session) PhaseComplete(p Phase) bool {
	switch p {
	case PhaseExhibits:
		return s.examined[ItemExhibitA] && s.examined[ItemExhibitB]
	case PhaseTimeline:
		return s.examined[ItemTimeline]
	case PhaseInterrogation:
		return len(s.interrogated) == catalog.SuspectCount
	case PhaseContradictions:
		return s.examined[ItemContradictions]
	default:
		return false
	}
}

// PhaseUnlocked reports whether phase p may be entered. Phase 1 is always unlocked and every later phase unlocks
// when its predecessor completes.
func (s *Session) PhaseUnlocked(p Phase) bool {
	switch {
	case p == PhaseExhibits:
		return true
	case p > PhaseExhibits && p <= PhaseCount:
		return s.PhaseComplete(p - 1)
	default:
		return false
	}
}

// completedPhases returns a snapshot of phase completion, index 0 is phase 1.
func (s *Session) completedPhases() [PhaseCount]bool {
	var done [PhaseCount]bool
	for i := range done {
		done[i] = s.PhaseComplete(Phase(i + 1))
	}
	return done
}
