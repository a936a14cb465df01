package lightermeet

import (
	"context"
	"fmt"
	"strings"
)

// CompletionProvider is the boundary to the hosted language model. A provider
// classifies its own failures into an ErrorKind at the point the call fails.
type CompletionProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest contains the parameters for one model call.
type CompletionRequest struct {
	System      string  // System instruction
	User        string  // User text
	MaxTokens   int     // Output token cap
	Temperature float32 // Sampling temperature
}

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	// Get retrieves a cached translation. Returns empty string and false if
	// not found or expired.
	Get(key string) (string, bool)

	// Set stores a translation in the cache.
	Set(key string, value string) error

	// Clear removes all cached translations.
	Clear()
}

// Result is the outcome of a single translation.
type Result struct {
	TranslatedText   string
	DetectedLanguage string // Set only when the source language was known or detected
	Cached           bool
}

const (
	translateMaxTokens   = 500
	translateTemperature = 0.1
	detectMaxTokens      = 5
)

// Translator translates chat text via a completion provider, consulting a
// shared cache first and retrying transient provider failures with bounded
// exponential backoff. It holds no per-call state, so concurrent calls for
// different keys proceed fully in parallel.
type Translator struct {
	provider CompletionProvider
	cache    TranslationCache
	retry    RetryConfig
}

// Option is a functional option for configuring the Translator.
type Option func(*Translator)

// WithCache sets the translation cache.
func WithCache(cache TranslationCache) Option {
	return func(t *Translator) {
		t.cache = cache
	}
}

// WithRetryConfig overrides the retry bounds for provider calls.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(t *Translator) {
		t.retry = cfg
	}
}

// New creates a Translator backed by the given provider.
func New(provider CompletionProvider, opts ...Option) *Translator {
	t := &Translator{
		provider: provider,
		retry:    DefaultRetryConfig(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Translate translates text into targetLang. Pass an empty sourceLang to let
// the model detect the source. When source and target match the text is
// returned unchanged with no cache or provider interaction.
//
// Failures after retries are surfaced to the caller; the original text is
// never silently returned in place of a failed translation.
func (t *Translator) Translate(ctx context.Context, text, targetLang, sourceLang string) (Result, error) {
	if !IsSupported(targetLang) {
		return Result{}, &LanguageError{Code: targetLang}
	}
	if sourceLang != "" && !IsSupported(sourceLang) {
		return Result{}, &LanguageError{Code: sourceLang}
	}

	// Identity short-circuit
	if sourceLang == targetLang && sourceLang != "" {
		return Result{TranslatedText: text, DetectedLanguage: sourceLang}, nil
	}

	key := CacheKey(text, targetLang, sourceLang)
	if t.cache != nil {
		if cached, ok := t.cache.Get(key); ok {
			return Result{TranslatedText: cached, Cached: true}, nil
		}
	}

	system := translateInstruction(targetLang, sourceLang)

	translated, err := WithRetry(ctx, t.retry, func() (string, error) {
		out, err := t.provider.Complete(ctx, CompletionRequest{
			System:      system,
			User:        text,
			MaxTokens:   translateMaxTokens,
			Temperature: translateTemperature,
		})
		if err != nil {
			return "", err
		}

		out = strings.TrimSpace(out)
		if out == "" {
			return "", &ProviderError{
				Kind:    KindMalformed,
				Message: "empty completion",
			}
		}
		return out, nil
	})
	if err != nil {
		return Result{}, &TranslationError{
			Message: fmt.Sprintf("translating to %s", targetLang),
			Cause:   err,
		}
	}

	if t.cache != nil {
		_ = t.cache.Set(key, translated) // Ignore cache set errors
	}

	return Result{TranslatedText: translated, DetectedLanguage: sourceLang}, nil
}

// DetectLanguage asks the model for the 2-letter language code of text.
// Detection is a best-effort hint: any failure, or a code outside the
// supported set, collapses to DefaultLanguage rather than an error.
func (t *Translator) DetectLanguage(ctx context.Context, text string) string {
	out, err := t.provider.Complete(ctx, CompletionRequest{
		System:      detectInstruction,
		User:        text,
		MaxTokens:   detectMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return DefaultLanguage
	}

	code := strings.ToLower(strings.TrimSpace(out))
	if IsSupported(code) {
		return code
	}
	return DefaultLanguage
}

// ClearCache empties the shared translation cache.
func (t *Translator) ClearCache() {
	if t.cache != nil {
		t.cache.Clear()
	}
}

// translateInstruction builds the system instruction for a translation call.
func translateInstruction(targetLang, sourceLang string) string {
	sourceName := "the original language"
	if sourceLang != "" {
		sourceName = LanguageName(sourceLang)
	}

	return fmt.Sprintf(`You are a translator. Translate the following text from %s to %s.
Only output the translation, nothing else. Preserve formatting, emojis, and tone.
If the text is already in the target language, return it unchanged.`, sourceName, LanguageName(targetLang))
}

const detectInstruction = `Detect the language of the following text.
Respond with ONLY the 2-letter language code (e.g., "en", "es", "fr", "de", "zh", "ja").
If you can't detect it, respond with "en".`
