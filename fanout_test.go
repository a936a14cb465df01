package lightermeet

import (
	"context"
	"sync"
	"testing"
)

// fanoutProvider records which translation prompts it saw, keyed by target
// language name in the system instruction.
type fanoutProvider struct {
	mu       sync.Mutex
	detected string
	fail     map[string]error // user text -> error
	calls    int
	requests []CompletionRequest
}

func (p *fanoutProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	p.requests = append(p.requests, req)

	if req.MaxTokens == detectMaxTokens {
		return p.detected, nil
	}
	if err, ok := p.fail[req.User]; ok && err != nil {
		return "", err
	}
	return "translated:" + req.User, nil
}

func (p *fanoutProvider) translateCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, req := range p.requests {
		if req.MaxTokens != detectMaxTokens {
			n++
		}
	}
	return n
}

func TestTranslateForRoom_ExcludesSource(t *testing.T) {
	p := &fanoutProvider{}
	tr := New(p, WithRetryConfig(fastRetry()))

	results, err := tr.TranslateForRoom(context.Background(), "hi", []string{"en", "es", "fr"}, "en")
	if err != nil {
		t.Fatalf("TranslateForRoom failed: %v", err)
	}

	if results["en"] != "hi" {
		t.Errorf("source language must map to the original text, got %q", results["en"])
	}
	if len(results) != 3 {
		t.Errorf("expected en, es, fr in results, got %v", results)
	}
	if results["es"] != "translated:hi" || results["fr"] != "translated:hi" {
		t.Errorf("unexpected translations: %v", results)
	}

	// Exactly two translate calls: es and fr, never en.
	if got := p.translateCalls(); got != 2 {
		t.Errorf("expected exactly 2 translate calls, got %d", got)
	}
}

func TestTranslateForRoom_DetectsSourceOnce(t *testing.T) {
	p := &fanoutProvider{detected: "es"}
	tr := New(p, WithRetryConfig(fastRetry()))

	results, err := tr.TranslateForRoom(context.Background(), "hola", []string{"es", "en"}, "")
	if err != nil {
		t.Fatalf("TranslateForRoom failed: %v", err)
	}

	if results["es"] != "hola" {
		t.Errorf("detected source must map to original text, got %q", results["es"])
	}
	if results["en"] != "translated:hola" {
		t.Errorf("unexpected en translation: %q", results["en"])
	}

	detectCalls := p.calls - p.translateCalls()
	if detectCalls != 1 {
		t.Errorf("expected exactly 1 detection call, got %d", detectCalls)
	}
}

func TestTranslateForRoom_AllOrNothing(t *testing.T) {
	p := &fanoutProvider{
		fail: map[string]error{},
	}
	// Every translate call for this text fails fatally.
	p.fail["hi"] = &ProviderError{Kind: KindConfig, Message: "missing API key"}

	tr := New(p, WithRetryConfig(fastRetry()))

	results, err := tr.TranslateForRoom(context.Background(), "hi", []string{"es", "fr"}, "en")
	if err == nil {
		t.Fatal("one failed translation must fail the whole fan-out")
	}
	if results != nil {
		t.Errorf("no partial map may be returned, got %v", results)
	}
}

func TestTranslateForRoom_SharesCache(t *testing.T) {
	p := &fanoutProvider{}
	cache := newCountingCache()
	tr := New(p, WithCache(cache), WithRetryConfig(fastRetry()))

	ctx := context.Background()

	if _, err := tr.TranslateForRoom(ctx, "hi", []string{"es", "fr"}, "en"); err != nil {
		t.Fatal(err)
	}
	first := p.translateCalls()

	// Same broadcast again: everything comes from the cache.
	if _, err := tr.TranslateForRoom(ctx, "hi", []string{"es", "fr"}, "en"); err != nil {
		t.Fatal(err)
	}

	if p.translateCalls() != first {
		t.Errorf("repeat broadcast should be fully cached, calls went %d -> %d", first, p.translateCalls())
	}
}

func TestTranslateForRoom_OnlySourceRequested(t *testing.T) {
	p := &fanoutProvider{}
	tr := New(p, WithRetryConfig(fastRetry()))

	results, err := tr.TranslateForRoom(context.Background(), "hi", []string{"en"}, "en")
	if err != nil {
		t.Fatalf("TranslateForRoom failed: %v", err)
	}

	if len(results) != 1 || results["en"] != "hi" {
		t.Errorf("expected only the original text, got %v", results)
	}
	if p.calls != 0 {
		t.Errorf("no provider calls expected, got %d", p.calls)
	}
}
