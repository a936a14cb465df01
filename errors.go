package lightermeet

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies a provider failure. The kind is decided at the
// external-call boundary (the provider), never inferred from error text.
type ErrorKind int

const (
	// KindOther is an unclassified failure. Not retried.
	KindOther ErrorKind = iota
	// KindRateLimited indicates the provider rejected the call for quota reasons.
	KindRateLimited
	// KindTimeout indicates the call exceeded its time budget.
	KindTimeout
	// KindNetwork indicates a transport-level failure.
	KindNetwork
	// KindMalformed indicates the provider answered with an empty or
	// unusable completion. Treated as a failure, never as "no translation
	// needed".
	KindMalformed
	// KindConfig indicates missing or rejected credentials. Fatal to any
	// translation attempt; never retried.
	KindConfig
	// KindCanceled indicates the caller abandoned the request.
	KindCanceled
)

// String returns a short name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindMalformed:
		return "malformed"
	case KindConfig:
		return "config"
	case KindCanceled:
		return "canceled"
	default:
		return "other"
	}
}

// Retryable reports whether failures of this kind are worth retrying.
func (k ErrorKind) Retryable() bool {
	switch k {
	case KindRateLimited, KindTimeout, KindNetwork, KindMalformed:
		return true
	default:
		return false
	}
}

// ProviderError indicates a completion provider failure.
type ProviderError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error (%s): %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error (%s): %s", e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// TranslationError is the failure surfaced by the translation service after
// any retries are exhausted.
type TranslationError struct {
	Message string
	Cause   error
}

func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// LanguageError indicates a language code outside the supported set.
type LanguageError struct {
	Code string
}

func (e *LanguageError) Error() string {
	return fmt.Sprintf("unsupported language: %q", e.Code)
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Kind.Retryable()
	}

	// Context errors mean the caller gave up; retrying cannot help.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	return false
}
