package notification

type Type string

const (
	TypeEmail Type = "email"
	TypeSMS   Type = "sms"
	TypePush  Type = "push"
)

// Template names consumed by the delivery side.
const (
	TemplateBookingConfirmation = "booking_confirmation"
	TemplateBookingCancellation = "booking_cancellation"
)

type Payload struct {
	Type      Type           `json:"type"`
	Recipient string         `json:"recipient"`
	Template  string         `json:"template"`
	Data      map[string]any `json:"data,omitempty"`
}

// Notifier accepts a notification for best-effort asynchronous delivery.
// Notify never blocks the caller and never reports delivery failures back
// into the calling control flow.
type Notifier interface {
	Notify(payload Payload)
}
