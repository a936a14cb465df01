package chat

import (
	"context"
	"sync"

	"github.com/nbbb26/lightermeet"
)

// TranslationService is the slice of the translator the coordinator needs.
type TranslationService interface {
	Translate(ctx context.Context, text, targetLang, sourceLang string) (lightermeet.Result, error)
}

// Coordinator tracks translation state for every message observed from the
// chat stream. It guarantees at most one in-flight request per message key,
// discards results that arrive after a language change or teardown, and
// never translates the local user's own messages.
//
// All state is guarded by one mutex; the epoch counter marks generations.
// A result is committed only when its generation is still current, so a late
// completion from before a language change can never surface under the new
// language.
type Coordinator struct {
	mu            sync.Mutex
	service       TranslationService
	localIdentity string
	targetLang    string
	sourceHint    string
	epoch         uint64
	closed        bool
	states        map[string]*State
	inflight      map[string]context.CancelFunc
	byText        map[string][]string // text -> keys in arrival order
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithSourceHint fixes the source language passed to the service instead of
// auto-detection.
func WithSourceHint(lang string) CoordinatorOption {
	return func(c *Coordinator) {
		c.sourceHint = lang
	}
}

// NewCoordinator creates a coordinator translating remote messages into
// targetLang for the user identified by localIdentity.
func NewCoordinator(service TranslationService, localIdentity, targetLang string, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		service:       service,
		localIdentity: localIdentity,
		targetLang:    targetLang,
		states:        make(map[string]*State),
		inflight:      make(map[string]context.CancelFunc),
		byText:        make(map[string][]string),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Observe registers a message from the chat stream. Observing the same
// message again is a no-op, so redelivery and re-renders are safe. Own
// messages complete immediately without a service call; remote messages go
// Pending and are translated asynchronously.
func (c *Coordinator) Observe(msg Message) {
	key := msg.Key()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if _, seen := c.states[key]; seen {
		c.mu.Unlock()
		return
	}

	c.byText[msg.Text] = append(c.byText[msg.Text], key)

	if msg.Sender == c.localIdentity {
		c.states[key] = &State{Key: key, Status: StatusDone}
		c.mu.Unlock()
		return
	}

	c.states[key] = &State{Key: key, Status: StatusPending}

	ctx, cancel := context.WithCancel(context.Background())
	c.inflight[key] = cancel
	epoch := c.epoch
	target := c.targetLang
	source := c.sourceHint
	c.mu.Unlock()

	go c.translate(ctx, epoch, key, msg.Text, target, source)
}

// translate runs one translation request and commits the outcome unless the
// request's generation has been superseded.
func (c *Coordinator) translate(ctx context.Context, epoch uint64, key, text, target, source string) {
	res, err := c.service.Translate(ctx, text, target, source)

	c.mu.Lock()
	defer c.mu.Unlock()

	if cancel, ok := c.inflight[key]; ok && c.epoch == epoch {
		cancel()
		delete(c.inflight, key)
	}

	// A cancelled or superseded result is discarded, never stored.
	if c.epoch != epoch || ctx.Err() != nil {
		return
	}

	state, ok := c.states[key]
	if !ok || state.Status != StatusPending {
		return
	}

	if err != nil {
		state.Status = StatusError
		state.ErrorDetail = "translation failed: " + err.Error()
		return
	}

	state.Status = StatusDone
	state.TranslatedText = res.TranslatedText
}

// SetTargetLanguage switches the user's target language. Every in-flight
// request is aborted and all state is discarded in one step, since every
// outstanding translation target is now wrong. Setting the current language
// again is a no-op.
func (c *Coordinator) SetTargetLanguage(lang string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || lang == c.targetLang {
		return
	}

	c.targetLang = lang
	c.resetLocked()
}

// TargetLanguage returns the current target language.
func (c *Coordinator) TargetLanguage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.targetLang
}

// Close aborts all in-flight requests and stops accepting messages.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.resetLocked()
}

// resetLocked bumps the generation, aborts in-flight requests, and clears
// all maps (lock held).
func (c *Coordinator) resetLocked() {
	c.epoch++
	for _, cancel := range c.inflight {
		cancel()
	}
	c.inflight = make(map[string]context.CancelFunc)
	c.states = make(map[string]*State)
	c.byText = make(map[string][]string)
}

// StateOf returns a copy of the state for a message key.
func (c *Coordinator) StateOf(key string) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.states[key]
	if !ok {
		return State{}, false
	}
	return *state, true
}

// Len returns the number of tracked message states.
func (c *Coordinator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.states)
}

// InFlight returns the number of outstanding translation requests.
func (c *Coordinator) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inflight)
}
