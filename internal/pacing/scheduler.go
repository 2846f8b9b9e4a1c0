package pacing

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

type timer interface {
	Stop() bool
}

func realAfterFunc(d time.Duration, f func()) timer {
	return time.AfterFunc(d, f)
}

// Scheduler delivers planned reveals on timers. Every plan is scheduled under the current generation and
// Invalidate moves to a new one, so reveals planned before a reset are dropped even if their timer already fired.
type Scheduler struct {
	mu         sync.Mutex
	generation uint64
	timers     []timer
	scale      float64
	deliver    func(gen uint64, r Reveal)
	afterFunc  func(d time.Duration, f func()) timer
}

// NewScheduler creates a scheduler that calls deliver for each reveal. Offsets are multiplied by scale; zero
// delivers every reveal right away. deliver is called from timer goroutines with the generation the reveal was
// scheduled under; a consumer that queues reveals should compare it with Generation before acting.
func NewScheduler(scale float64, deliver func(gen uint64, r Reveal)) *Scheduler {
	return &Scheduler{
		mu:         sync.Mutex{},
		generation: 0,
		timers:     nil,
		scale:      scale,
		deliver:    deliver,
		afterFunc:  realAfterFunc,
	}
}

// Schedule arms timers for every reveal in p and returns the generation they belong to.
func (s *Scheduler) Schedule(p Plan) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	gen := s.generation
	for _, r := range p.Reveals {
		s.timers = append(s.timers, s.afterFunc(Scale(r.At, s.scale), func() {
			s.fire(gen, r)
		}))
	}
	return gen
}

func (s *Scheduler) fire(gen uint64, r Reveal) {
	s.mu.Lock()
	current := s.generation == gen
	s.mu.Unlock()
	if current {
		s.deliver(gen, r)
	}
}

// Invalidate drops every pending reveal and starts a new generation.
func (s *Scheduler) Invalidate() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	s.generation++
	return s.generation
}

// Generation returns the current generation.
func (s *Scheduler) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Scale multiplies d by factor.
func Scale(d time.Duration, factor float64) time.Duration {
	return time.Duration(float64(d) * factor)
}

// Play sends the reveals of p to out at their scaled offsets, in order of offset. It returns nil after the last
// reveal and ctx.Err() if ctx is done first. out is not closed.
func Play(ctx context.Context, p Plan, scale float64, out chan<- Reveal) error {
	start := time.Now()
	for _, r := range sorted(p) {
		wait := time.Until(start.Add(Scale(r.At, scale)))
		if wait > 0 {
			t := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- r:
		}
	}
	return nil
}

func sorted(p Plan) []Reveal {
	reveals := slices.Clone(p.Reveals)
	slices.SortStableFunc(reveals, func(a, b Reveal) int {
		return cmp.Compare(a.At, b.At)
	})
	return reveals
}
