// Package chat coordinates per-message translation for a live chat stream:
// stable message identity, at most one in-flight request per message,
// cancellation on language change, and render-pass formatting.
package chat

import (
	"fmt"

	"github.com/nbbb26/lightermeet"
)

// Message is one record from the room's chat stream. The stream is append
// only but may redeliver records and may carry duplicate text across
// distinct records.
type Message struct {
	ID        string // Transport-assigned id, preferred for identity when present
	Sender    string // Sender identity
	Timestamp int64  // Milliseconds since epoch
	Text      string
}

// Key returns a stable identity for the message: the transport id when
// present, otherwise a composite of sender, timestamp, and text hash. The
// composite survives duplicate text and reordering.
func (m Message) Key() string {
	if m.ID != "" {
		return m.ID
	}
	return fmt.Sprintf("%s|%d|%s", m.Sender, m.Timestamp, lightermeet.HashText(m.Text))
}

// Status is the lifecycle of a message's translation.
// Transitions: Pending -> Done or Pending -> Error, exactly once.
type Status int

const (
	StatusPending Status = iota
	StatusDone
	StatusError
)

// String returns a short name for the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is the translation state recorded for one message key.
type State struct {
	Key            string
	TranslatedText string // Empty for own messages and while pending
	Status         Status
	ErrorDetail    string // Human-readable, set only for StatusError
}
