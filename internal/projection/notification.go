package projection

import (
	"time"
)

// Notification is the envelope of a provider notification
type Notification struct {
	EventID      string
	ResourceType string
	EventType    string
	Summary      *string
	CreateTime   *time.Time
	// Resource is the verbatim resource body, nil when absent
	Resource []byte
	Raw      []byte
}

// Envelope reads a notification. Only a body that is not a JSON object fails;
// missing members are left empty for the caller to judge.
func Envelope(raw []byte) (*Notification, error) {
	body, err := object(raw, "notification")
	if err != nil {
		return nil, err
	}

	n := &Notification{
		EventID:      str(body.Get("id")),
		ResourceType: str(body.Get("resource_type")),
		EventType:    str(body.Get("event_type")),
		Summary:      optStr(body.Get("summary")),
		CreateTime:   optTime(body.Get("create_time")),
		Raw:          raw,
	}
	if resource := rawJSON(body.Get("resource")); resource != nil {
		n.Resource = []byte(resource)
	}
	return n, nil
}
