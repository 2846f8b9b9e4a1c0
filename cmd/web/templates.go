package main

import (
	"fmt"
	"html/template"
	"slices"

	"github.com/myrjola/casefile/internal/catalog"
	"github.com/myrjola/casefile/internal/game"
	"github.com/myrjola/casefile/internal/pacing"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upper = cases.Upper(language.English)

type baseTemplateData struct {
	Title        string
	AudioEnabled bool
	// RevealToken names the reveal stream of the last intent, if it had timed reveals.
	RevealToken string
	Error       string
}

type caseTemplateData struct {
	baseTemplateData

	View    game.View
	Catalog *catalog.Catalog
	// Pending holds the reveal keys still waiting for their stream event.
	Pending map[string]bool
}

func (app *application) newCaseTemplateData(view game.View, token string, pending []string) caseTemplateData {
	c := app.engine.Catalog()
	data := caseTemplateData{
		baseTemplateData: baseTemplateData{
			Title:        c.Title,
			AudioEnabled: view.AudioEnabled,
			RevealToken:  token,
			Error:        "",
		},
		View:    view,
		Catalog: c,
		Pending: make(map[string]bool, len(pending)),
	}
	if token != "" {
		for _, key := range pending {
			data.Pending[key] = true
		}
	}
	return data
}

// revealKey identifies the element a reveal uncovers.
func revealKey(r pacing.Reveal) string {
	return fmt.Sprintf("%s:%d", r.Kind, r.Index)
}

// Reveal marks the element shown by the reveal kind and index. The element starts hidden while that reveal is
// pending on the stream.
func (d caseTemplateData) Reveal(kind string, index int) template.HTMLAttr {
	key := fmt.Sprintf("%s:%d", kind, index)
	attr := fmt.Sprintf(`data-reveal="%s"`, template.HTMLEscapeString(key))
	if d.Pending[key] {
		attr += " hidden"
	}
	return template.HTMLAttr(attr) //nolint:gosec // kind and index come from templates.
}

// Text interpolates the investigator name into catalog copy.
func (d caseTemplateData) Text(s string) string {
	return catalog.Interpolate(s, d.View.Name)
}

// Investigator is the transcript label of the player.
func (d caseTemplateData) Investigator() string {
	return upper.String(d.View.Name)
}

// Speaker labels a transcript line. System lines have no label.
func (d caseTemplateData) Speaker(line game.TranscriptLine) string {
	switch line.Speaker {
	case game.SpeakerInvestigator:
		return d.Investigator()
	case game.SpeakerSuspect:
		return d.SuspectName()
	case game.SpeakerSystem:
		return ""
	default:
		return ""
	}
}

func (d caseTemplateData) Unlocked(screen string) bool {
	return d.View.Unlocked[game.ScreenID(screen)]
}

type navLink struct {
	Screen string
	Label  string
	Locked bool
}

// Goto is the data of the "goto" template: a button navigating to screen.
func (d caseTemplateData) Goto(screen, label string) navLink {
	return navLink{Screen: screen, Label: label, Locked: !d.Unlocked(screen)}
}

func (d caseTemplateData) Examined(item string) bool {
	return d.View.Examined[game.Item(item)]
}

func (d caseTemplateData) PhaseComplete(phase int) bool {
	return phase >= 1 && phase <= game.PhaseCount && d.View.Phases[phase-1]
}

type fragmentCard struct {
	catalog.Fragment
	Revealed bool
}

func (d caseTemplateData) Fragments() []fragmentCard {
	cards := make([]fragmentCard, 0, len(d.Catalog.Fragments))
	for _, f := range d.Catalog.Fragments {
		cards = append(cards, fragmentCard{Fragment: f, Revealed: slices.Contains(d.View.Fragments, f.ID)})
	}
	return cards
}

// Observation is the mirror remark for the number of revealed fragments.
func (d caseTemplateData) Observation() string {
	switch len(d.View.Fragments) {
	case 0:
		return ""
	case catalog.FragmentCount:
		return d.Text(d.Catalog.FullObservation)
	default:
		return d.Text(d.Catalog.FirstObservation)
	}
}

type suspectStatus string

const (
	suspectCompleted suspectStatus = "COMPLETED"
	suspectReady     suspectStatus = "READY"
	suspectLocked    suspectStatus = "LOCKED"
)

type suspectCard struct {
	catalog.Suspect
	Status suspectStatus
}

func (c suspectCard) Ready() bool {
	return c.Status == suspectReady
}

func (d caseTemplateData) Suspects() []suspectCard {
	suspects := d.Catalog.Suspects()
	cards := make([]suspectCard, 0, len(suspects))
	for _, s := range suspects {
		status := suspectLocked
		switch {
		case slices.Contains(d.View.Interrogated, s.ID):
			status = suspectCompleted
		case s.ID == d.View.NextSuspect:
			status = suspectReady
		}
		cards = append(cards, suspectCard{Suspect: s, Status: status})
	}
	return cards
}

// Exchange returns the exchange awaiting a choice, or nil.
func (d caseTemplateData) Exchange() *catalog.Exchange {
	in := d.View.Interrogation
	if in == nil || in.State != game.InterrogationAwaitingChoice {
		return nil
	}
	s, ok := d.Catalog.Suspect(in.Suspect)
	if !ok || in.Exchange >= len(s.Exchanges) {
		return nil
	}
	return &s.Exchanges[in.Exchange]
}

// Revealing reports whether the last transcript line is a response still being revealed.
func (d caseTemplateData) Revealing() bool {
	in := d.View.Interrogation
	return in != nil && in.State == game.InterrogationRevealingResponse
}

// LastLine is the index of the last transcript line.
func (d caseTemplateData) LastLine() int {
	if d.View.Interrogation == nil {
		return -1
	}
	return len(d.View.Interrogation.Transcript) - 1
}

// NextExchange is the index of the exchange that follows the one being revealed.
func (d caseTemplateData) NextExchange() int {
	if d.View.Interrogation == nil {
		return 0
	}
	return d.View.Interrogation.Exchange + 1
}

func (d caseTemplateData) SuspectName() string {
	if d.View.Interrogation == nil {
		return ""
	}
	s, _ := d.Catalog.Suspect(d.View.Interrogation.Suspect)
	return s.Name
}

type contradictionRow struct {
	catalog.ContradictionItem
	game.ContradictionView
}

// Contradictions lists the items shown so far: the first one and every item after a touched one.
func (d caseTemplateData) Contradictions() []contradictionRow {
	rows := make([]contradictionRow, 0, len(d.Catalog.Contradictions))
	for i, item := range d.Catalog.Contradictions {
		if i > 0 && !d.View.Contradictions[i-1].Touched {
			break
		}
		rows = append(rows, contradictionRow{ContradictionItem: item, ContradictionView: d.View.Contradictions[i]})
	}
	return rows
}

func (d caseTemplateData) ContradictionsReady() bool {
	for _, c := range d.View.Contradictions {
		if !c.Touched {
			return false
		}
	}
	return true
}

func (d caseTemplateData) LeaningMessage() string {
	return d.Text(d.Catalog.Leanings[d.View.Leaning])
}

type questionRow struct {
	catalog.AssessmentQuestion
	Answer string
}

// Questions lists the assessment questions up to and including the first unanswered one.
func (d caseTemplateData) Questions() []questionRow {
	rows := make([]questionRow, 0, len(d.Catalog.Assessment))
	for _, q := range d.Catalog.Assessment {
		answer := d.View.Answers[q.ID]
		rows = append(rows, questionRow{AssessmentQuestion: q, Answer: answer})
		if answer == "" {
			break
		}
	}
	return rows
}

type blameOption struct {
	Target catalog.BlameTarget
	Label  string
}

func (d caseTemplateData) BlameOptions() []blameOption {
	options := make([]blameOption, 0, len(catalog.BlameTargets()))
	for _, t := range catalog.BlameTargets() {
		options = append(options, blameOption{Target: t, Label: d.Catalog.Blame[t].Label})
	}
	return options
}

func (d caseTemplateData) VerdictLines() []string {
	return d.Catalog.Blame[d.View.Verdict].Lines
}

func (d caseTemplateData) Revelation() []catalog.RevelationMessage {
	return d.Catalog.Revelation
}
