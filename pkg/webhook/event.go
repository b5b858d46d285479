package webhook

import "encoding/json"

// Event types delivered by the provider. Unknown types are acknowledged
// without side effects so new provider events never cause retry storms.
const (
	EventSent       = "email.sent"
	EventDelivered  = "email.delivered"
	EventBounced    = "email.bounced"
	EventComplained = "email.complained"
	EventOpened     = "email.opened"
	EventClicked    = "email.clicked"
)

// Bounce subtypes. Only hard bounces suppress.
const (
	BounceHard = "hard"
	BounceSoft = "soft"
)

// Event is one provider delivery notification.
type Event struct {
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

// EventData is the provider payload for a single message. Fields not used
// by classification are ignored on decode.
type EventData struct {
	EmailID string   `json:"email_id"`
	Email   string   `json:"email"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Type    string   `json:"type"`   // bounce subtype on email.bounced
	Reason  string   `json:"reason"` // provider diagnostic text
}

// Recipient returns the affected address: the explicit email field when
// present, otherwise the first To entry.
func (d EventData) Recipient() string {
	if d.Email != "" {
		return d.Email
	}
	if len(d.To) > 0 {
		return d.To[0]
	}
	return ""
}

// ParseEvent decodes the raw webhook body.
func ParseEvent(body []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil || ev.Type == "" {
		return Event{}, ErrMalformedEvent
	}
	return ev, nil
}
