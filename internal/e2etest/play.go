package e2etest

import (
	"context"
	"fmt"
	"log/slog"
	neturl "net/url"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/casefile/internal/errors"
)

// maxInterrogationSteps bounds the interrogation loop of PlayCase against a misbehaving server.
const maxInterrogationSteps = 100

// PlayCase plays a whole case from the name screen to the final revelation as investigator name, always picking
// the first option, and returns the final screen.
func (c *Client) PlayCase(ctx context.Context, name string) (*goquery.Document, error) {
	doc, err := c.GetDoc(ctx, "/")
	if err != nil {
		return nil, errors.Wrap(err, "get front page")
	}
	steps := []struct {
		name string
		do   func(doc *goquery.Document) (*goquery.Document, error)
	}{
		{"submit name", func(doc *goquery.Document) (*goquery.Document, error) {
			return c.SubmitOK(ctx, doc, "form[action='/name']", neturl.Values{"name": {name}})
		}},
		{"open board", c.navigateTo(ctx, "board")},
		{"examine mirror", c.navigateTo(ctx, "mirror")},
		{"reveal fragments", c.revealFragments(ctx)},
		{"leave mirror", c.navigateTo(ctx, "board")},
		{"examine observation log", c.navigateTo(ctx, "observation")},
		{"leave observation log", c.navigateTo(ctx, "board")},
		{"reconstruct timeline", c.navigateTo(ctx, "timeline")},
		{"leave timeline", c.navigateTo(ctx, "board")},
		{"open suspects", c.navigateTo(ctx, "suspects")},
		{"interrogate", c.interrogate(ctx)},
		{"leave suspects", c.navigateTo(ctx, "board")},
		{"open contradictions", c.navigateTo(ctx, "contradictions")},
		{"record contradictions", c.recordContradictions(ctx, 60, 70, 40)},
		{"submit contradictions", func(doc *goquery.Document) (*goquery.Document, error) {
			return c.SubmitOK(ctx, doc, "form#contradiction-submit", nil)
		}},
		{"leave contradictions", c.navigateTo(ctx, "board")},
		{"open assessment", c.navigateTo(ctx, "assessment")},
		{"answer assessment", c.answerAssessment(ctx)},
		{"open conclusion", c.navigateTo(ctx, "conclusion")},
		{"choose verdict", func(doc *goquery.Document) (*goquery.Document, error) {
			return c.SubmitOK(ctx, doc, "form[action='/verdict']:has(input[value='self'])", nil)
		}},
		{"open final", c.navigateTo(ctx, "final")},
	}
	for _, step := range steps {
		next, stepErr := step.do(doc)
		if stepErr != nil {
			return nil, errors.Wrap(stepErr, step.name, slog.String("screen", Screen(doc)))
		}
		doc = next
	}
	return doc, nil
}

func (c *Client) navigateTo(ctx context.Context, screen string) func(*goquery.Document) (*goquery.Document, error) {
	return func(doc *goquery.Document) (*goquery.Document, error) {
		next, err := c.Navigate(ctx, doc, screen)
		if err != nil {
			return nil, err
		}
		if got := Screen(next); got != screen {
			return nil, errors.New("navigation ended on another screen",
				slog.String("want", screen), slog.String("got", got))
		}
		return next, nil
	}
}

func (c *Client) revealFragments(ctx context.Context) func(*goquery.Document) (*goquery.Document, error) {
	return func(doc *goquery.Document) (*goquery.Document, error) {
		var err error
		for id := 1; id <= 5; id++ {
			if doc, err = c.SubmitOK(ctx, doc, fmt.Sprintf("form#fragment-%d", id), nil); err != nil {
				return nil, errors.Wrap(err, "reveal fragment", slog.Int("fragment", id))
			}
		}
		return doc, nil
	}
}

// interrogate starts with the suspect marked ready and follows every exchange and affordance until the
// suspects screen comes back.
func (c *Client) interrogate(ctx context.Context) func(*goquery.Document) (*goquery.Document, error) {
	return func(doc *goquery.Document) (*goquery.Document, error) {
		doc, err := c.SubmitOK(ctx, doc, "form[action='/suspects/start']", nil)
		if err != nil {
			return nil, errors.Wrap(err, "start interrogation")
		}
		for range maxInterrogationSteps {
			switch {
			case Screen(doc) == "suspects":
				return doc, nil
			case doc.Find("#question-options form").Length() > 0:
				doc, err = c.SubmitOK(ctx, doc, "#question-options form:first-of-type", nil)
			default:
				doc, err = c.SubmitOK(ctx, doc, "form#advance", nil)
			}
			if err != nil {
				return nil, err
			}
		}
		return nil, errors.New("interrogation did not finish")
	}
}

func (c *Client) recordContradictions(
	ctx context.Context,
	values ...int,
) func(*goquery.Document) (*goquery.Document, error) {
	return func(doc *goquery.Document) (*goquery.Document, error) {
		var err error
		for i, v := range values {
			selector := fmt.Sprintf("form#contradiction-%d", i+1)
			if doc, err = c.SubmitOK(ctx, doc, selector, neturl.Values{"value": {strconv.Itoa(v)}}); err != nil {
				return nil, errors.Wrap(err, "record contradiction", slog.Int("item", i+1))
			}
		}
		return doc, nil
	}
}

func (c *Client) answerAssessment(ctx context.Context) func(*goquery.Document) (*goquery.Document, error) {
	return func(doc *goquery.Document) (*goquery.Document, error) {
		var err error
		for doc.Find("#assessment-complete").Length() == 0 {
			selector := ".assessment-question:not(.answered) form:first-of-type"
			if doc, err = c.SubmitOK(ctx, doc, selector, nil); err != nil {
				return nil, errors.Wrap(err, "answer question")
			}
		}
		return doc, nil
	}
}
