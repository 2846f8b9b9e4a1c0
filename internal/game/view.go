package game

import (
	"encoding/json"
	"log/slog"
	"slices"

	"github.com/myrjola/casefile/internal/catalog"
	"github.com/myrjola/casefile/internal/errors"
)

// InterrogationView is the read model of the current or just finished interrogation.
type InterrogationView struct {
	Suspect    catalog.SuspectID
	Exchange   int
	State      InterrogationState
	Transcript []TranscriptLine
	Affordance Affordance
}

// ContradictionView is the read model of one slider.
type ContradictionView struct {
	Item    int
	Value   int
	Touched bool
}

// View is an immutable snapshot of a session for presentation.
type View struct {
	Name     string
	Screen   ScreenID
	Examined map[Item]bool
	// Fragments lists the revealed fragment ids in ascending order.
	Fragments []int
	// Phases[i] reports whether phase i+1 is complete.
	Phases             [PhaseCount]bool
	Unlocked           map[ScreenID]bool
	Interrogated       []catalog.SuspectID
	NextSuspect        catalog.SuspectID
	Interrogation      *InterrogationView
	Contradictions     []ContradictionView
	Submitted          bool
	Leaning            catalog.Leaning
	Answers            map[int]string
	AssessmentComplete bool
	Verdict            catalog.BlameTarget
	AudioEnabled       bool
}

// View returns a snapshot of s.
func (e *Engine) View(s *Session) View {
	v := View{
		Name:               s.name,
		Screen:             s.screen,
		Examined:           make(map[Item]bool, len(itemScreens)),
		Fragments:          make([]int, 0, catalog.FragmentCount),
		Phases:             s.completedPhases(),
		Unlocked:           make(map[ScreenID]bool, len(screens)),
		Interrogated:       make([]catalog.SuspectID, 0, catalog.SuspectCount),
		NextSuspect:        "",
		Interrogation:      nil,
		Contradictions:     make([]ContradictionView, 0, catalog.ContradictionCount),
		Submitted:          s.submitted,
		Leaning:            s.leaning,
		Answers:            make(map[int]string, len(s.answers)),
		AssessmentComplete: e.AssessmentComplete(s),
		Verdict:            s.verdict,
		AudioEnabled:       s.audio,
	}
	for item := range itemScreens {
		v.Examined[item] = s.examined[item]
	}
	for id := 1; id <= catalog.FragmentCount; id++ {
		if s.fragments[id] {
			v.Fragments = append(v.Fragments, id)
		}
	}
	for _, screen := range screens {
		v.Unlocked[screen] = screen == s.screen || e.Unlocked(s, screen)
	}
	for _, id := range catalog.SuspectOrder() {
		if s.interrogated[id] {
			v.Interrogated = append(v.Interrogated, id)
		}
	}
	v.NextSuspect, _ = s.NextSuspect()
	if in := s.interrogation; in != nil {
		v.Interrogation = &InterrogationView{
			Suspect:    in.suspect,
			Exchange:   in.exchange,
			State:      in.state,
			Transcript: slices.Clone(in.transcript),
			Affordance: s.Affordance(),
		}
	}
	for i, slot := range s.contradictions {
		v.Contradictions = append(v.Contradictions, ContradictionView{Item: i + 1, Value: slot.value, Touched: slot.touched})
	}
	for q, a := range s.answers {
		v.Answers[q] = a
	}
	return v
}

const snapshotVersion = 1

type interrogationSnapshot struct {
	Suspect    catalog.SuspectID  `json:"suspect"`
	Exchange   int                `json:"exchange"`
	State      InterrogationState `json:"state"`
	Transcript []TranscriptLine   `json:"transcript"`
}

type contradictionSnapshot struct {
	Value   int  `json:"value"`
	Touched bool `json:"touched"`
}

// snapshot is the persisted form of a Session.
type snapshot struct {
	Version        int                     `json:"version"`
	Name           string                  `json:"name"`
	Screen         ScreenID                `json:"screen"`
	Examined       []Item                  `json:"examined"`
	Fragments      []int                   `json:"fragments"`
	Interrogated   []catalog.SuspectID     `json:"interrogated"`
	NextSuspect    int                     `json:"nextSuspect"`
	Interrogation  *interrogationSnapshot  `json:"interrogation,omitempty"`
	Contradictions []contradictionSnapshot `json:"contradictions"`
	Submitted      bool                    `json:"submitted"`
	Leaning        catalog.Leaning         `json:"leaning,omitempty"`
	Answers        map[int]string          `json:"answers"`
	Verdict        catalog.BlameTarget     `json:"verdict,omitempty"`
	Audio          bool                    `json:"audio"`
}

// MarshalBinary implements encoding.BinaryMarshaler so that sessions can be kept in a session store.
func (s *Session) MarshalBinary() ([]byte, error) {
	snap := snapshot{
		Version:        snapshotVersion,
		Name:           s.name,
		Screen:         s.screen,
		Examined:       make([]Item, 0, len(s.examined)),
		Fragments:      make([]int, 0, catalog.FragmentCount),
		Interrogated:   make([]catalog.SuspectID, 0, len(s.interrogated)),
		NextSuspect:    s.nextSuspect,
		Interrogation:  nil,
		Contradictions: make([]contradictionSnapshot, 0, len(s.contradictions)),
		Submitted:      s.submitted,
		Leaning:        s.leaning,
		Answers:        s.answers,
		Verdict:        s.verdict,
		Audio:          s.audio,
	}
	for item, examined := range s.examined {
		if examined {
			snap.Examined = append(snap.Examined, item)
		}
	}
	slices.Sort(snap.Examined)
	for id := 1; id <= catalog.FragmentCount; id++ {
		if s.fragments[id] {
			snap.Fragments = append(snap.Fragments, id)
		}
	}
	for _, id := range catalog.SuspectOrder() {
		if s.interrogated[id] {
			snap.Interrogated = append(snap.Interrogated, id)
		}
	}
	if in := s.interrogation; in != nil {
		snap.Interrogation = &interrogationSnapshot{
			Suspect:    in.suspect,
			Exchange:   in.exchange,
			State:      in.state,
			Transcript: in.transcript,
		}
	}
	for _, slot := range s.contradictions {
		snap.Contradictions = append(snap.Contradictions, contradictionSnapshot{Value: slot.value, Touched: slot.touched})
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, errors.Wrap(err, "marshal session")
	}
	return data, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. It rejects data that violates a session invariant with
// ErrCorruptSession. Use Engine.Restore to also check the data against the catalog.
func (s *Session) UnmarshalBinary(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return errors.Wrap(ErrCorruptSession, "decode session", slog.String("cause", err.Error()))
	}
	restored, err := fromSnapshot(snap)
	if err != nil {
		return err
	}
	*s = *restored
	return nil
}

func corrupt(msg string, attrs ...slog.Attr) error {
	return errors.Wrap(ErrCorruptSession, msg, attrs...)
}

//nolint:gocognit,cyclop,funlen // one check per invariant
func fromSnapshot(snap snapshot) (*Session, error) {
	if snap.Version != snapshotVersion {
		return nil, corrupt("unsupported version", slog.Int("version", snap.Version))
	}
	s := NewSession()
	if !snap.Screen.Valid() {
		return nil, corrupt("unknown screen", slog.String("screen", string(snap.Screen)))
	}
	s.screen = snap.Screen
	switch {
	case snap.Screen == ScreenName && snap.Name != "":
		return nil, corrupt("name set before submission")
	case snap.Screen != ScreenName && len([]rune(snap.Name)) < MinNameLength:
		return nil, corrupt("name missing")
	}
	s.name = snap.Name
	for _, item := range snap.Examined {
		if _, ok := itemScreens[item]; !ok {
			return nil, corrupt("unknown item", slog.String("item", string(item)))
		}
		s.examined[item] = true
	}
	for _, id := range snap.Fragments {
		if id < 1 || id > catalog.FragmentCount || s.fragments[id] {
			return nil, corrupt("bad fragment", slog.Int("fragment", id))
		}
		s.fragments[id] = true
	}
	order := catalog.SuspectOrder()
	if snap.NextSuspect < 0 || snap.NextSuspect > len(order) || len(snap.Interrogated) != snap.NextSuspect {
		return nil, corrupt("bad interrogation progress", slog.Int("next", snap.NextSuspect))
	}
	for i, id := range snap.Interrogated {
		if order[i] != id {
			return nil, corrupt("interrogated out of order", slog.String("suspect", string(id)))
		}
		s.interrogated[id] = true
	}
	s.nextSuspect = snap.NextSuspect
	if in := snap.Interrogation; in != nil {
		if err := checkInterrogation(s, in); err != nil {
			return nil, err
		}
		s.interrogation = &interrogation{
			suspect:    in.Suspect,
			exchange:   in.Exchange,
			state:      in.State,
			transcript: slices.Clone(in.Transcript),
		}
	}
	if len(snap.Contradictions) != catalog.ContradictionCount {
		return nil, corrupt("wrong number of contradictions", slog.Int("count", len(snap.Contradictions)))
	}
	for i, c := range snap.Contradictions {
		if c.Value < 0 || c.Value > MaxContradictionValue {
			return nil, corrupt("contradiction out of range", slog.Int("item", i+1), slog.Int("value", c.Value))
		}
		s.contradictions[i] = contradictionSlot{value: c.Value, touched: c.Touched}
	}
	if snap.Submitted {
		if s.ContradictionsTouched() != catalog.ContradictionCount || snap.Leaning != Lean(s.contradictionValues()) {
			return nil, corrupt("inconsistent contradiction result", slog.String("leaning", string(snap.Leaning)))
		}
	} else if snap.Leaning != "" {
		return nil, corrupt("leaning before submission")
	}
	if s.examined[ItemContradictions] && s.ContradictionsTouched() != catalog.ContradictionCount {
		return nil, corrupt("contradictions examined while incomplete")
	}
	s.submitted = snap.Submitted
	s.leaning = snap.Leaning
	for q, a := range snap.Answers {
		s.answers[q] = a
	}
	if snap.Verdict != "" && !snap.Verdict.Valid() {
		return nil, corrupt("unknown verdict", slog.String("verdict", string(snap.Verdict)))
	}
	s.verdict = snap.Verdict
	s.audio = snap.Audio
	return s, nil
}

func checkInterrogation(s *Session, in *interrogationSnapshot) error {
	attr := slog.String("suspect", string(in.Suspect))
	if !in.Suspect.Valid() || in.Exchange < 0 {
		return corrupt("bad interrogation", attr, slog.Int("exchange", in.Exchange))
	}
	switch in.State {
	case InterrogationAwaitingChoice, InterrogationRevealingResponse:
		if !s.CanInterrogate(in.Suspect) {
			return corrupt("interrogation of unexpected suspect", attr)
		}
	case InterrogationFinished:
		if s.nextSuspect == 0 || catalog.SuspectOrder()[s.nextSuspect-1] != in.Suspect {
			return corrupt("finished interrogation of unexpected suspect", attr)
		}
	default:
		return corrupt("unknown interrogation state", attr, slog.String("state", string(in.State)))
	}
	return nil
}

// Restore decodes a session and checks it against the catalog the engine plays.
func (e *Engine) Restore(data []byte) (*Session, error) {
	s := NewSession()
	if err := s.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	if in := s.interrogation; in != nil {
		suspect, _ := e.catalog.Suspect(in.suspect)
		last := len(suspect.Exchanges) - 1
		if in.state == InterrogationFinished {
			// Finishing steps past the last exchange.
			last++
		}
		if in.exchange > last {
			return nil, corrupt("exchange out of range", slog.Int("exchange", in.exchange))
		}
	}
	for q, a := range s.answers {
		question, ok := e.catalog.Question(q)
		if !ok {
			return nil, corrupt("unknown question", slog.Int("question", q))
		}
		if _, ok = question.Option(a); !ok {
			return nil, corrupt("unknown option", slog.Int("question", q), slog.String("option", a))
		}
	}
	if s.screen != ScreenName && !e.Unlocked(s, s.screen) {
		return nil, corrupt("screen not reachable", slog.String("screen", string(s.screen)))
	}
	return s, nil
}
