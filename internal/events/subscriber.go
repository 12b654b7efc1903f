package events

import (
	"encoding/json"
	"fmt"
)

// Message is a single event as received from the bus.
type Message struct {
	Topic string
	Data  []byte
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	Subscribe(topic string) (<-chan Message, func(), error)
	Close() error
}

// Decode unmarshals the payload into the event type registered for its topic.
// Unknown topics decode into a generic map.
func (m Message) Decode() (any, error) {
	var v any
	switch m.Topic {
	case TopicApplicationAdvanced:
		v = &ApplicationAdvanced{}
	case TopicApplicationArchived:
		v = &ApplicationArchived{}
	case TopicCandidateRevealed:
		v = &CandidateRevealed{}
	case TopicNoteAdded:
		v = &NoteAdded{}
	case TopicExportCompleted:
		v = &ExportCompleted{}
	default:
		v = &map[string]any{}
	}
	if err := json.Unmarshal(m.Data, v); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", m.Topic, err)
	}
	return v, nil
}

// Summary renders a one-line human description of the event.
func (m Message) Summary() string {
	v, err := m.Decode()
	if err != nil {
		return fmt.Sprintf("%s (undecodable: %v)", m.Topic, err)
	}
	switch e := v.(type) {
	case *ApplicationAdvanced:
		return fmt.Sprintf("application %s advanced %s -> %s (job %s)", e.ApplicationID, e.FromStage, e.ToStage, e.JobID)
	case *ApplicationArchived:
		return fmt.Sprintf("application %s archived from %s (job %s)", e.ApplicationID, e.FromStage, e.JobID)
	case *CandidateRevealed:
		return fmt.Sprintf("candidate %s revealed, balance %d", e.CandidateID, e.Balance)
	case *NoteAdded:
		if e.Note == nil {
			return "note added"
		}
		return fmt.Sprintf("note %s added to candidate %s", e.Note.ID, e.Note.CandidateID)
	case *ExportCompleted:
		return fmt.Sprintf("export %s: %d rows as %s to %s", e.ExportID, e.Rows, e.Format, e.Destination)
	}
	return fmt.Sprintf("%s %s", m.Topic, m.Data)
}
