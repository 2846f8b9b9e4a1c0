package game

// ScreenID names one of the fixed screens of the case.
type ScreenID string

const (
	ScreenName           ScreenID = "name"
	ScreenIntro          ScreenID = "intro"
	ScreenBoard          ScreenID = "board"
	ScreenMirror         ScreenID = "mirror"
	ScreenObservation    ScreenID = "observation"
	ScreenTimeline       ScreenID = "timeline"
	ScreenSuspects       ScreenID = "suspects"
	ScreenInterrogation  ScreenID = "interrogation"
	ScreenContradictions ScreenID = "contradictions"
	ScreenAssessment     ScreenID = "assessment"
	ScreenConclusion     ScreenID = "conclusion"
	ScreenFinal          ScreenID = "final"
)

// InitialScreen is where every fresh session starts.
const InitialScreen = ScreenName

var screens = [...]ScreenID{
	ScreenName,
	ScreenIntro,
	ScreenBoard,
	ScreenMirror,
	ScreenObservation,
	ScreenTimeline,
	ScreenSuspects,
	ScreenInterrogation,
	ScreenContradictions,
	ScreenAssessment,
	ScreenConclusion,
	ScreenFinal,
}

// Screens returns every screen in narrative order.
func Screens() []ScreenID {
	s := screens
	return s[:]
}

// Valid reports whether s is a known screen.
func (s ScreenID) Valid() bool {
	for _, known := range screens {
		if known == s {
			return true
		}
	}
	return false
}

// Item is a piece of evidence whose examination is tracked.
type Item string

const (
	ItemExhibitA       Item = "exhibit-a"
	ItemExhibitB       Item = "exhibit-b"
	ItemTimeline       Item = "timeline"
	ItemContradictions Item = "contradictions"
)

// itemScreens maps each item to the screen that presents it.
var itemScreens = map[Item]ScreenID{
	ItemExhibitA:       ScreenMirror,
	ItemExhibitB:       ScreenObservation,
	ItemTimeline:       ScreenTimeline,
	ItemContradictions: ScreenContradictions,
}

// Phase is one of the four gated stages of the investigation.
type Phase int

const (
	PhaseExhibits Phase = iota + 1
	PhaseTimeline
	PhaseInterrogation
	PhaseContradictions
)

// PhaseCount is the number of gated phases.
const PhaseCount = 4
