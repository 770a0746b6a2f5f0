package api

// Wire types of the action webhook. The external dialogue engine posts the
// recognized action plus the conversation tracker; the reply carries slot
// events to apply and messages to deliver.

type WebhookRequest struct {
	NextAction string  `json:"next_action"`
	SenderID   string  `json:"sender_id"`
	Tracker    Tracker `json:"tracker"`
}

type Tracker struct {
	SenderID string         `json:"sender_id"`
	Slots    map[string]any `json:"slots"`
}

type Event struct {
	Event string `json:"event"`
	Name  string `json:"name,omitempty"`
	Value any    `json:"value"`
}

const (
	eventSlot       = "slot"
	eventResetSlots = "reset_slots"
	eventActiveLoop = "active_loop"
)

type WebhookResponse struct {
	Events    []Event    `json:"events"`
	Responses []Response `json:"responses"`
}

// Response is one (text, optional image) pair handed to the presentation
// layer. Delivery is not this service's concern.
type Response struct {
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
}
