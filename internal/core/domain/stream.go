package domain

// StreamEventKind tags a decoded model stream line.
type StreamEventKind int

// Stream event kinds.
const (
	// StreamFragment carries a piece of answer text.
	StreamFragment StreamEventKind = iota

	// StreamMalformed is a line that could not be decoded. It is skipped.
	StreamMalformed

	// StreamDone is the explicit end-of-stream signal.
	StreamDone
)

// String returns the kind name.
func (k StreamEventKind) String() string {
	switch k {
	case StreamFragment:
		return "fragment"
	case StreamMalformed:
		return "malformed"
	case StreamDone:
		return "done"
	default:
		return "unknown"
	}
}

// StreamEvent is one decoded unit of a model response stream.
type StreamEvent struct {
	Kind StreamEventKind

	// Content is the fragment text. A done event may carry trailing text.
	Content string

	// Err is the decode error for malformed events.
	Err error
}

// StreamResult is the assembled text of a model stream.
type StreamResult struct {
	Text string

	// Complete is true when the done signal was received.
	Complete bool

	// Malformed counts skipped fragments.
	Malformed int
}
