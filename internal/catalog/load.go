package catalog

import (
	"bytes"
	_ "embed"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/myrjola/casefile/internal/errors"
	"gopkg.in/yaml.v3"
)

//go:embed case.yaml
var embeddedCase []byte

// FragmentCount is the number of fragments in the mirror exhibit.
const FragmentCount = 5

// ContradictionCount is the number of contradiction items.
const ContradictionCount = 3

var ErrMalformed = errors.NewSentinel("malformed catalog")

type rawExchange struct {
	Prompt     string   `yaml:"prompt"`
	Approaches []string `yaml:"approaches"`
	Responses  []string `yaml:"responses"`
}

type rawSuspect struct {
	ID        string        `yaml:"id"`
	Name      string        `yaml:"name"`
	Portrait  string        `yaml:"portrait"`
	Exchanges []rawExchange `yaml:"exchanges"`
}

type rawExhibit struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Paragraphs  []string `yaml:"paragraphs"`
}

type rawFragment struct {
	ID       int    `yaml:"id"`
	Label    string `yaml:"label"`
	Analysis string `yaml:"analysis"`
}

type rawTimelineEvent struct {
	When string `yaml:"when"`
	What string `yaml:"what"`
}

type rawContradiction struct {
	ID    int    `yaml:"id"`
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}

type rawOption struct {
	ID   string `yaml:"id"`
	Text string `yaml:"text"`
}

type rawQuestion struct {
	ID      int         `yaml:"id"`
	Prompt  string      `yaml:"prompt"`
	Options []rawOption `yaml:"options"`
}

type rawBlame struct {
	Target string   `yaml:"target"`
	Label  string   `yaml:"label"`
	Lines  []string `yaml:"lines"`
}

type rawRevelation struct {
	Text    string `yaml:"text"`
	DelayMS int    `yaml:"delay_ms"`
	Class   string `yaml:"class"`
}

type rawCatalog struct {
	Title            string             `yaml:"title"`
	Intro            []string           `yaml:"intro"`
	Mirror           rawExhibit         `yaml:"mirror"`
	Observation      rawExhibit         `yaml:"observation"`
	Fragments        []rawFragment      `yaml:"fragments"`
	FirstObservation string             `yaml:"first_observation"`
	FullObservation  string             `yaml:"full_observation"`
	Timeline         []rawTimelineEvent `yaml:"timeline"`
	TimelineNote     string             `yaml:"timeline_note"`
	Suspects         []rawSuspect       `yaml:"suspects"`
	Contradictions   []rawContradiction `yaml:"contradictions"`
	Leanings         map[string]string  `yaml:"leanings"`
	Assessment       []rawQuestion      `yaml:"assessment"`
	AssessmentOutro  string             `yaml:"assessment_outro"`
	Blame            []rawBlame         `yaml:"blame"`
	Revelation       []rawRevelation    `yaml:"revelation"`
	CloseCaseAfterMS int                `yaml:"close_case_after_ms"`
}

// Load returns the embedded case catalog.
func Load() (*Catalog, error) {
	c, err := Parse(bytes.NewReader(embeddedCase))
	if err != nil {
		return nil, errors.Wrap(err, "parse embedded catalog")
	}
	return c, nil
}

// LoadFile parses and validates the catalog at path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open catalog", slog.String("path", path))
	}
	defer func() {
		_ = f.Close()
	}()
	c, err := Parse(f)
	if err != nil {
		return nil, errors.Wrap(err, "parse catalog", slog.String("path", path))
	}
	return c, nil
}

// MustLoad is Load for program initialisation where a broken catalog is fatal.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes a YAML catalog from r and validates it.
func Parse(r io.Reader) (*Catalog, error) {
	var raw rawCatalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(ErrMalformed, "decode yaml", slog.String("cause", err.Error()))
	}
	return raw.build()
}

// Raw returns the embedded catalog source.
func Raw() []byte {
	return bytes.Clone(embeddedCase)
}

func malformed(msg string, attrs ...slog.Attr) error {
	return errors.Wrap(ErrMalformed, msg, attrs...)
}

func (raw rawCatalog) build() (*Catalog, error) {
	var errs []error

	c := &Catalog{
		Title:            raw.Title,
		Intro:            raw.Intro,
		Mirror:           Exhibit(raw.Mirror),
		Observation:      Exhibit(raw.Observation),
		Fragments:        nil,
		FirstObservation: raw.FirstObservation,
		FullObservation:  raw.FullObservation,
		Timeline:         nil,
		TimelineNote:     raw.TimelineNote,
		Contradictions:   nil,
		Leanings:         map[Leaning]string{},
		Assessment:       nil,
		AssessmentOutro:  raw.AssessmentOutro,
		Blame:            map[BlameTarget]BlameVerdict{},
		Revelation:       nil,
		CloseCaseAfter:   time.Duration(raw.CloseCaseAfterMS) * time.Millisecond,
		suspects:         map[SuspectID]Suspect{},
	}

	if raw.Title == "" {
		errs = append(errs, malformed("missing title"))
	}

	errs = append(errs, c.buildSuspects(raw.Suspects)...)
	errs = append(errs, c.buildFragments(raw.Fragments)...)
	errs = append(errs, c.buildContradictions(raw.Contradictions)...)
	errs = append(errs, c.buildAssessment(raw.Assessment)...)
	errs = append(errs, c.buildVerdicts(raw.Leanings, raw.Blame)...)
	errs = append(errs, c.buildRevelation(raw.Revelation)...)

	for _, e := range raw.Timeline {
		c.Timeline = append(c.Timeline, TimelineEvent(e))
	}
	if len(c.Timeline) == 0 {
		errs = append(errs, malformed("empty timeline"))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c, nil
}

func (c *Catalog) buildSuspects(raw []rawSuspect) []error {
	var errs []error
	for _, rs := range raw {
		id := SuspectID(rs.ID)
		attr := slog.String("suspect", rs.ID)
		if !id.Valid() {
			errs = append(errs, malformed("unknown suspect", attr))
			continue
		}
		if _, dup := c.suspects[id]; dup {
			errs = append(errs, malformed("duplicate suspect", attr))
			continue
		}
		if rs.Name == "" {
			errs = append(errs, malformed("suspect without name", attr))
		}
		if len(rs.Exchanges) == 0 {
			errs = append(errs, malformed("suspect without exchanges", attr))
		}
		suspect := Suspect{
			ID:        id,
			Name:      rs.Name,
			Portrait:  rs.Portrait,
			Exchanges: make([]Exchange, 0, len(rs.Exchanges)),
		}
		for i, re := range rs.Exchanges {
			exchangeAttr := slog.Int("exchange", i)
			if re.Prompt == "" {
				errs = append(errs, malformed("exchange without prompt", attr, exchangeAttr))
			}
			if len(re.Approaches) != 2 || len(re.Responses) != 2 { //nolint:mnd // two approaches per exchange
				errs = append(errs, malformed("exchange needs exactly two approaches and two responses",
					attr, exchangeAttr,
					slog.Int("approaches", len(re.Approaches)),
					slog.Int("responses", len(re.Responses))))
				continue
			}
			suspect.Exchanges = append(suspect.Exchanges, Exchange{
				Prompt:     re.Prompt,
				Approaches: [2]string{re.Approaches[0], re.Approaches[1]},
				Responses:  [2]string{re.Responses[0], re.Responses[1]},
			})
		}
		c.suspects[id] = suspect
	}
	for _, id := range suspectOrder {
		if _, ok := c.suspects[id]; !ok {
			errs = append(errs, malformed("missing suspect", slog.String("suspect", string(id))))
		}
	}
	return errs
}

func (c *Catalog) buildFragments(raw []rawFragment) []error {
	var errs []error
	seen := map[int]bool{}
	for _, f := range raw {
		if f.ID < 1 || f.ID > FragmentCount || seen[f.ID] {
			errs = append(errs, malformed("fragment id must be unique in 1..5", slog.Int("fragment", f.ID)))
			continue
		}
		seen[f.ID] = true
		c.Fragments = append(c.Fragments, Fragment(f))
	}
	if len(seen) != FragmentCount {
		errs = append(errs, malformed("wrong number of fragments", slog.Int("fragments", len(seen))))
	}
	return errs
}

func (c *Catalog) buildContradictions(raw []rawContradiction) []error {
	var errs []error
	for i, item := range raw {
		if item.ID != i+1 {
			errs = append(errs, malformed("contradiction ids must be 1, 2, 3 in order", slog.Int("item", item.ID)))
			continue
		}
		c.Contradictions = append(c.Contradictions, ContradictionItem(item))
	}
	if len(raw) != ContradictionCount {
		errs = append(errs, malformed("wrong number of contradiction items", slog.Int("items", len(raw))))
	}
	return errs
}

func (c *Catalog) buildAssessment(raw []rawQuestion) []error {
	var errs []error
	seen := map[int]bool{}
	for _, rq := range raw {
		attr := slog.Int("question", rq.ID)
		if seen[rq.ID] {
			errs = append(errs, malformed("duplicate assessment question", attr))
			continue
		}
		seen[rq.ID] = true
		if len(rq.Options) < 2 { //nolint:mnd // a choice needs two options
			errs = append(errs, malformed("assessment question needs at least two options", attr))
		}
		q := AssessmentQuestion{ID: rq.ID, Prompt: rq.Prompt, Options: nil}
		optionIDs := map[string]bool{}
		for _, o := range rq.Options {
			if o.ID == "" || optionIDs[o.ID] {
				errs = append(errs, malformed("assessment option ids must be unique and non-empty",
					attr, slog.String("option", o.ID)))
				continue
			}
			optionIDs[o.ID] = true
			q.Options = append(q.Options, AssessmentOption(o))
		}
		c.Assessment = append(c.Assessment, q)
	}
	if len(c.Assessment) == 0 {
		errs = append(errs, malformed("empty assessment"))
	}
	return errs
}

func (c *Catalog) buildVerdicts(rawLeanings map[string]string, rawBlame []rawBlame) []error {
	var errs []error
	for key, text := range rawLeanings {
		c.Leanings[Leaning(key)] = text
	}
	for _, l := range leanings {
		if c.Leanings[l] == "" {
			errs = append(errs, malformed("missing leaning message", slog.String("leaning", string(l))))
		}
	}
	if len(rawLeanings) != len(leanings) {
		errs = append(errs, malformed("unknown leaning", slog.Int("leanings", len(rawLeanings))))
	}

	for _, rb := range rawBlame {
		target := BlameTarget(rb.Target)
		if !target.Valid() {
			errs = append(errs, malformed("unknown blame target", slog.String("target", rb.Target)))
			continue
		}
		c.Blame[target] = BlameVerdict{Label: rb.Label, Lines: rb.Lines}
	}
	for _, t := range blameTargets {
		if _, ok := c.Blame[t]; !ok {
			errs = append(errs, malformed("missing blame verdict", slog.String("target", string(t))))
		}
	}
	return errs
}

func (c *Catalog) buildRevelation(raw []rawRevelation) []error {
	var (
		errs []error
		last time.Duration
	)
	for i, rr := range raw {
		delay := time.Duration(rr.DelayMS) * time.Millisecond
		if delay < last {
			errs = append(errs, malformed("revelation message scheduled before its predecessor", slog.Int("message", i)))
		}
		last = delay
		c.Revelation = append(c.Revelation, RevelationMessage{Text: rr.Text, Delay: delay, Class: rr.Class})
	}
	if len(c.Revelation) == 0 {
		errs = append(errs, malformed("empty revelation"))
	}
	if c.CloseCaseAfter < last {
		errs = append(errs, malformed("close case shown before the revelation ends"))
	}
	return errs
}
