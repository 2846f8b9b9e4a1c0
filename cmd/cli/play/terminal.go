package play

import (
	"bufio"
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/myrjola/casefile/internal/catalog"
	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/game"
	"github.com/myrjola/casefile/internal/pacing"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upper = cases.Upper(language.English)

const (
	invalidInputMessage = "That does not add up. Check your input and try again."
	lockedMessage       = "That part of the case is not open to you yet."
	helpText            = `Commands:
  go <screen>                  move to board, mirror, observation, timeline, suspects,
                               contradictions, assessment, conclusion or final
  examine <item>               examine exhibit-a, exhibit-b or timeline
  fragment <1-5>               reveal a fragment of the mirror
  start <suspect>              interrogate a suspect
  choose <1|2>                 pick an interrogation approach
  next                         continue the interrogation
  mark <item> <0-100>          place a contradiction slider
  submit                       record the contradictions
  answer <question> <option>   answer an assessment question
  blame <target>               name who is responsible
  audio                        toggle sound
  look                         show the current screen again
  reset                        start the case over
  help                         show this help
  quit                         leave`
)

type delivery struct {
	gen    uint64
	reveal pacing.Reveal
}

// terminal plays one session over a line-oriented reader and writer. Timed reveals are printed as their timers
// fire; any input first prints whatever is still pending.
type terminal struct {
	engine     *game.Engine
	catalog    *catalog.Catalog
	session    *game.Session
	in         io.Reader
	out        io.Writer
	scale      float64
	scheduler  *pacing.Scheduler
	deliveries chan delivery
	// pending holds the reveals of the last intent that have not been printed yet, ordered by offset.
	pending []pacing.Reveal
}

func newTerminal(engine *game.Engine, in io.Reader, out io.Writer, scale float64) *terminal {
	return &terminal{
		engine:     engine,
		catalog:    engine.Catalog(),
		session:    game.NewSession(),
		in:         in,
		out:        out,
		scale:      scale,
		scheduler:  nil,
		deliveries: make(chan delivery),
		pending:    nil,
	}
}

// Run plays until the input ends, the player quits, or ctx is done.
func (t *terminal) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	t.scheduler = pacing.NewScheduler(t.scale, func(gen uint64, r pacing.Reveal) {
		select {
		case t.deliveries <- delivery{gen: gen, reveal: r}:
		case <-done:
		}
	})
	defer t.scheduler.Invalidate()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(t.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	t.render(t.engine.View(t.session))
	t.prompt()
	for {
		select {
		case <-ctx.Done():
			t.println()
			return nil
		case d := <-t.deliveries:
			if d.gen != t.scheduler.Generation() {
				break
			}
			t.pending = slices.DeleteFunc(t.pending, func(r pacing.Reveal) bool { return r == d.reveal })
			t.println()
			t.show(ctx, d.reveal)
			t.prompt()
		case line, ok := <-lines:
			if !ok {
				t.flush(ctx)
				select {
				case err := <-readErr:
					return errors.Wrap(err, "read input")
				default:
					return nil
				}
			}
			if quit := t.handle(ctx, line); quit {
				return nil
			}
			t.prompt()
		}
	}
}

// handle runs one input line. It reports whether the player quit.
//
//nolint:gocognit,cyclop,funlen // one case per command
func (t *terminal) handle(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	command, args := strings.ToLower(fields[0]), fields[1:]
	e := t.engine
	switch command {
	case "quit", "exit":
		t.flush(ctx)
		return true
	case "help":
		t.println(helpText)
	case "look":
		t.flush(ctx)
		t.render(e.View(t.session))
	case "name":
		t.apply(ctx, func(ctx context.Context, s *game.Session) (game.Change, error) {
			return e.SubmitName(ctx, s, strings.Join(args, " "))
		})
	case "go":
		t.withArgs(args, 1, func() {
			t.apply(ctx, func(ctx context.Context, s *game.Session) (game.Change, error) {
				return e.Navigate(ctx, s, game.ScreenID(args[0]))
			})
		})
	case "examine":
		t.withArgs(args, 1, func() {
			t.apply(ctx, func(ctx context.Context, s *game.Session) (game.Change, error) {
				return e.ExamineExhibit(ctx, s, game.Item(args[0]))
			})
		})
	case "fragment":
		t.withInts(args, 1, func(n []int) {
			t.apply(ctx, func(ctx context.Context, s *game.Session) (game.Change, error) {
				return e.RevealFragment(ctx, s, n[0])
			})
		})
	case "start":
		t.withArgs(args, 1, func() {
			t.apply(ctx, func(ctx context.Context, s *game.Session) (game.Change, error) {
				return e.StartInterrogation(ctx, s, catalog.SuspectID(args[0]))
			})
		})
	case "choose":
		t.withInts(args, 1, func(n []int) {
			t.apply(ctx, func(ctx context.Context, s *game.Session) (game.Change, error) {
				return e.SelectInterrogationOption(ctx, s, n[0]-1)
			})
		})
	case "next":
		if t.pendingKind(pacing.KindNextExchange) {
			// The pending reveal advances on its own.
			t.flush(ctx)
			break
		}
		t.apply(ctx, e.AdvanceInterrogation)
	case "mark":
		t.withInts(args, 2, func(n []int) {
			t.apply(ctx, func(ctx context.Context, s *game.Session) (game.Change, error) {
				return e.SetContradictionValue(ctx, s, n[0], n[1])
			})
		})
	case "submit":
		t.apply(ctx, e.SubmitContradictions)
	case "answer":
		t.withInts(args[:min(len(args), 1)], 1, func(n []int) {
			t.withArgs(args, 2, func() {
				t.apply(ctx, func(ctx context.Context, s *game.Session) (game.Change, error) {
					return e.AnswerAssessment(ctx, s, n[0], strings.ToLower(args[1]))
				})
			})
		})
	case "blame":
		t.withArgs(args, 1, func() {
			t.apply(ctx, func(ctx context.Context, s *game.Session) (game.Change, error) {
				return e.ChooseVerdict(ctx, s, catalog.BlameTarget(args[0]))
			})
		})
	case "audio":
		t.apply(ctx, e.ToggleAudio)
	case "reset":
		// Nothing planned before the reset may reach the new playthrough.
		t.scheduler.Invalidate()
		t.pending = nil
		t.apply(ctx, e.Reset)
	default:
		if t.session.Screen() == game.ScreenName {
			t.apply(ctx, func(ctx context.Context, s *game.Session) (game.Change, error) {
				return e.SubmitName(ctx, s, line)
			})
			break
		}
		t.println("Unknown command. Type 'help' for the list of commands.")
	}
	return false
}

func (t *terminal) withArgs(args []string, n int, f func()) {
	if len(args) < n {
		t.println(invalidInputMessage)
		return
	}
	f()
}

func (t *terminal) withInts(args []string, n int, f func([]int)) {
	if len(args) < n {
		t.println(invalidInputMessage)
		return
	}
	ints := make([]int, 0, n)
	for _, arg := range args[:n] {
		v, err := strconv.Atoi(arg)
		if err != nil {
			t.println(invalidInputMessage)
			return
		}
		ints = append(ints, v)
	}
	f(ints)
}

// apply prints what is still pending, runs intent, prints its outcome, and schedules its reveals.
func (t *terminal) apply(ctx context.Context, intent func(context.Context, *game.Session) (game.Change, error)) {
	t.flush(ctx)
	before := t.transcriptLength()
	change, err := intent(ctx, t.session)
	if err != nil {
		t.reject(err)
		return
	}
	view := t.engine.View(t.session)
	plan := pacing.For(t.catalog, view, change)
	t.pending = slices.SortedStableFunc(slices.Values(plan.Reveals), func(a, b pacing.Reveal) int {
		return cmp.Compare(a.At, b.At)
	})
	switch {
	case change.Moved:
		t.render(view)
	case change.Has(game.EventAudioToggled):
		t.println(soundLabel(view.AudioEnabled))
	case view.Screen == game.ScreenInterrogation:
		t.renderTranscript(view, before)
	case len(change.Events) > 0:
		t.render(view)
	}
	if plan.Empty() {
		return
	}
	if t.scale == 0 {
		t.flush(ctx)
		return
	}
	t.scheduler.Schedule(plan)
}

// flush drops the timers of the pending reveals and prints them right away.
func (t *terminal) flush(ctx context.Context) {
	if len(t.pending) == 0 {
		return
	}
	t.scheduler.Invalidate()
	pending := t.pending
	t.pending = nil
	for _, r := range pending {
		t.show(ctx, r)
	}
}

func (t *terminal) show(ctx context.Context, r pacing.Reveal) {
	switch r.Kind {
	case pacing.KindTimelineEvent:
		t.printTimelineEvent(r.Index)
	case pacing.KindTimelineNote, pacing.KindRevelation:
		t.println(r.Text)
	case pacing.KindResponse:
		t.printf("%s: %s\n", t.suspectName(t.engine.View(t.session)), r.Text)
	case pacing.KindNextExchange:
		t.apply(ctx, t.engine.AdvanceInterrogation)
	case pacing.KindCloseCase:
		t.println("Type 'reset' to close the case.")
	case pacing.KindContradictionItem,
		pacing.KindContradictionSubmit,
		pacing.KindAssessmentQuestion,
		pacing.KindAssessmentComplete:
		// Printed with the screen.
	}
}

func (t *terminal) pendingKind(kind pacing.Kind) bool {
	return slices.ContainsFunc(t.pending, func(r pacing.Reveal) bool { return r.Kind == kind })
}

func (t *terminal) isPending(kind pacing.Kind, index int) bool {
	return slices.ContainsFunc(t.pending, func(r pacing.Reveal) bool { return r.Kind == kind && r.Index == index })
}

func (t *terminal) reject(err error) {
	switch {
	case errors.Is(err, game.ErrInvalidInput):
		t.println(invalidInputMessage)
	case errors.Is(err, game.ErrScreenLocked),
		errors.Is(err, game.ErrOutOfOrderInterrogation),
		errors.Is(err, game.ErrInvalidState):
		t.println(lockedMessage)
	default:
		t.printf("Something went wrong: %v\n", err)
	}
}

func (t *terminal) prompt() {
	t.printf("> ")
}

func (t *terminal) println(a ...any) {
	_, _ = fmt.Fprintln(t.out, a...)
}

func (t *terminal) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(t.out, format, a...)
}
