package favorites

import (
	"time"
)

const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// Paper is the open attribute bag describing one paper (title, authors,
// summary fields, code metadata and whatever else the frontend sends). The
// core never branches on its contents beyond the identity lookup below;
// attributes are stored and replayed verbatim.
type Paper map[string]any

// Key returns the stable identity of the paper: "id", falling back to
// "url". An empty string means the paper cannot be identified.
func (p Paper) Key() string {
	if id, ok := p["id"].(string); ok && id != "" {
		return id
	}
	if url, ok := p["url"].(string); ok && url != "" {
		return url
	}
	return ""
}

// Event is one line of the append-only log. Field names match the
// historical JSONL format, so old partitions replay unchanged.
type Event struct {
	EventID   string `json:"event_id,omitempty"`
	EventTime string `json:"event_time"`
	Action    string `json:"action"`
	PaperID   string `json:"paper_id"`
	Paper     Paper  `json:"paper,omitempty"`
}

// Time parses the event timestamp. A record with an unparsable timestamp
// gets the zero time so it can never win against a validly timed record,
// but it still participates in case no other record touches its key.
func (e Event) Time() time.Time {
	t, err := time.Parse(time.RFC3339Nano, e.EventTime)
	if err != nil {
		return time.Time{}
	}
	return t
}
