// Package catalog holds the static, read-only content of the case: suspects and their interrogation
// exchanges, exhibit fragments, the timeline, contradiction items, assessment questions and the verdict and
// revelation copy.
//
// The catalog is authored as YAML, embedded into the binary and validated once at startup. A malformed
// catalog is a configuration error; nothing in the game mutates a loaded catalog.
package catalog

import (
	"strings"
	"time"
)

// SuspectID identifies one of the four suspects.
type SuspectID string

const (
	SuspectSocialMedia   SuspectID = "social-media"
	SuspectHighStandards SuspectID = "high-standards"
	SuspectComparison    SuspectID = "comparison"
	SuspectValidation    SuspectID = "validation"
)

// suspectOrder is the fixed interrogation order.
var suspectOrder = [...]SuspectID{
	SuspectSocialMedia,
	SuspectHighStandards,
	SuspectComparison,
	SuspectValidation,
}

// SuspectCount is the number of suspects in every case.
const SuspectCount = len(suspectOrder)

// SuspectOrder returns the fixed interrogation order.
func SuspectOrder() []SuspectID {
	order := suspectOrder
	return order[:]
}

// Valid reports whether id is one of the known suspects.
func (id SuspectID) Valid() bool {
	for _, s := range suspectOrder {
		if s == id {
			return true
		}
	}
	return false
}

// BlameTarget is the single terminal choice on the conclusion screen.
type BlameTarget string

const (
	BlameSocialMedia   BlameTarget = "social-media"
	BlameHighStandards BlameTarget = "high-standards"
	BlameComparison    BlameTarget = "comparison"
	BlameValidation    BlameTarget = "validation"
	BlameSelf          BlameTarget = "self"
	BlameNone          BlameTarget = "none"
)

var blameTargets = [...]BlameTarget{
	BlameSocialMedia,
	BlameHighStandards,
	BlameComparison,
	BlameValidation,
	BlameSelf,
	BlameNone,
}

// BlameTargets returns the blame choices in display order.
func BlameTargets() []BlameTarget {
	targets := blameTargets
	return targets[:]
}

// Valid reports whether t is one of the known blame targets.
func (t BlameTarget) Valid() bool {
	for _, b := range blameTargets {
		if b == t {
			return true
		}
	}
	return false
}

// Leaning is the qualitative outcome of the contradiction exercise.
type Leaning string

const (
	LeaningTruth      Leaning = "truth"
	LeaningMiddle     Leaning = "middle"
	LeaningConfidence Leaning = "confidence"
)

var leanings = [...]Leaning{LeaningTruth, LeaningMiddle, LeaningConfidence}

// Exchange is one interrogation step: a prompt, two approaches and the position-aligned responses.
type Exchange struct {
	Prompt     string
	Approaches [2]string
	Responses  [2]string
}

// Suspect is an interrogation target.
type Suspect struct {
	ID        SuspectID
	Name      string
	Portrait  string
	Exchanges []Exchange
}

// Fragment is one clickable piece of the mirror exhibit.
type Fragment struct {
	ID       int
	Label    string
	Analysis string
}

// Exhibit is a piece of evidence on the board.
type Exhibit struct {
	Title       string
	Description string
	Paragraphs  []string
}

// TimelineEvent is one entry in the timeline reconstruction.
type TimelineEvent struct {
	When string
	What string
}

// ContradictionItem is a spectrum between a public claim and a private struggle.
type ContradictionItem struct {
	ID    int
	Left  string
	Right string
}

// AssessmentOption is one answer to an assessment question.
type AssessmentOption struct {
	ID   string
	Text string
}

// AssessmentQuestion is one self-assessment multiple-choice question.
type AssessmentQuestion struct {
	ID      int
	Prompt  string
	Options []AssessmentOption
}

// Option returns the option with id.
func (q AssessmentQuestion) Option(id string) (AssessmentOption, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return AssessmentOption{}, false
}

// BlameVerdict is the copy shown after the blame choice.
type BlameVerdict struct {
	Label string
	Lines []string
}

// RevelationMessage is one line of the final revelation, shown Delay after the sequence starts.
type RevelationMessage struct {
	Text  string
	Delay time.Duration
	Class string
}

// Catalog is the complete static content of a case.
type Catalog struct {
	Title            string
	Intro            []string
	Mirror           Exhibit
	Observation      Exhibit
	Fragments        []Fragment
	FirstObservation string
	FullObservation  string
	Timeline         []TimelineEvent
	TimelineNote     string
	Contradictions   []ContradictionItem
	Leanings         map[Leaning]string
	Assessment       []AssessmentQuestion
	AssessmentOutro  string
	Blame            map[BlameTarget]BlameVerdict
	Revelation       []RevelationMessage
	CloseCaseAfter   time.Duration
	suspects         map[SuspectID]Suspect
}

// Suspect returns the suspect with id. Every valid id is present in a validated catalog.
func (c *Catalog) Suspect(id SuspectID) (Suspect, bool) {
	s, ok := c.suspects[id]
	return s, ok
}

// Suspects returns all suspects in interrogation order.
func (c *Catalog) Suspects() []Suspect {
	suspects := make([]Suspect, 0, len(suspectOrder))
	for _, id := range suspectOrder {
		suspects = append(suspects, c.suspects[id])
	}
	return suspects
}

// Fragment returns the fragment with id.
func (c *Catalog) Fragment(id int) (Fragment, bool) {
	for _, f := range c.Fragments {
		if f.ID == id {
			return f, true
		}
	}
	return Fragment{}, false
}

// Question returns the assessment question with id.
func (c *Catalog) Question(id int) (AssessmentQuestion, bool) {
	for _, q := range c.Assessment {
		if q.ID == id {
			return q, true
		}
	}
	return AssessmentQuestion{}, false
}

// Interpolate replaces every {name} placeholder in text with the investigator name.
func Interpolate(text, name string) string {
	return strings.ReplaceAll(text, "{name}", name)
}
