package domain

type EventKind string

const (
	EventInfo        EventKind = "info"
	EventProcessing  EventKind = "processing"
	EventSuccess     EventKind = "success"
	EventError       EventKind = "error"
	EventErrorDetail EventKind = "error_detail"
	EventProgress    EventKind = "progress"
	EventSummary     EventKind = "summary"
)

// Event is one message on the worker-to-shell stream.
type Event struct {
	Kind    EventKind
	Message string
	// Index is the 1-based position of the file the event belongs to, 0 for job-level events.
	Index    int
	Path     string
	Progress int
	Summary  *Summary
}

func Info(msg string) Event {
	return Event{Kind: EventInfo, Message: msg}
}
