// Package engine wires the per-turn pipeline into a compiled graph and
// exposes the single entry point the transports call.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/compose"

	contractx "bookline/dialog/contract"
	schedulex "bookline/dialog/schedule"
)

const defaultJoinLink = "https://wa.me/14155238886?text=join%20green-bad"

// Config carries the deployment-specific knobs of the dialog engine.
type Config struct {
	// Services maps a bookable service type (lowercase) to its duration in
	// minutes. Durations must be 30 or 60.
	Services map[string]int
	// JoinLink is the hand-off URL sent on agent transfer.
	JoinLink string
}

// Engine processes conversational turns. One Engine serves many users; the
// per-user state lives entirely in the session attribute blob each turn
// carries.
type Engine struct {
	services map[string]int
	index    contractx.AnswerIndex
	joinLink string

	graphRunner compose.Runnable[contractx.TurnRequest, contractx.TurnResult]

	now func() time.Time
	rng *rand.Rand
}

// New builds an Engine. index may be nil when no answer index is deployed;
// question intents then close with an apology.
func New(index contractx.AnswerIndex, cfg Config) (*Engine, error) {
	if len(cfg.Services) == 0 {
		return nil, errors.New("at least one bookable service is required")
	}
	services := make(map[string]int, len(cfg.Services))
	for name, duration := range cfg.Services {
		if duration != schedulex.DurationShort && duration != schedulex.DurationLong {
			return nil, fmt.Errorf("service %q: %w: %d minutes", name, contractx.ErrUnsupportedDuration, duration)
		}
		services[strings.ToLower(name)] = duration
	}

	joinLink := strings.TrimSpace(cfg.JoinLink)
	if joinLink == "" {
		joinLink = defaultJoinLink
	}

	e := &Engine{
		services: services,
		index:    index,
		joinLink: joinLink,
		now:      time.Now,
		rng:      newLockedRand(time.Now().UnixNano()),
	}

	graphRunner, err := e.compileTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	e.graphRunner = graphRunner

	return e, nil
}

// ProcessTurn runs one conversational turn. The caller persists the returned
// session attributes verbatim and feeds them back on the user's next turn.
// Turns for different users may run concurrently.
func (e *Engine) ProcessTurn(ctx context.Context, req contractx.TurnRequest) (contractx.TurnResult, error) {
	return e.graphRunner.Invoke(ctx, req)
}

// lockedSource serializes draws from a shared rand source. One generator is
// threaded through every turn's availability generation and math/rand sources
// are not safe for concurrent use.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source64
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}

func newLockedRand(seed int64) *rand.Rand {
	return rand.New(&lockedSource{src: rand.NewSource(seed).(rand.Source64)})
}
