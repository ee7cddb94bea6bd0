package payments

import "encoding/json"

// EventTransactionCompleted is the only provider event the service acts on.
const EventTransactionCompleted = "transaction.completed"

// Provider payloads have mixed snake_case/camelCase custom-data keys depending
// on which client created the transaction. Aliases are checked in order; first
// non-empty wins.
var appointmentIDAliases = []string{"appointment_id", "appointmentId", "appointmentID"}

// WebhookEvent is the decoded provider webhook envelope.
type WebhookEvent struct {
	EventType  string          `json:"event_type"`
	EventTypeC string          `json:"eventType"`
	Data       TransactionData `json:"data"`
}

// TransactionData is the transaction object carried by webhook events and
// returned by the transactions listing API.
type TransactionData struct {
	ID          string                 `json:"id"`
	Status      string                 `json:"status"`
	CustomData  map[string]interface{} `json:"custom_data"`
	CustomDataC map[string]interface{} `json:"customData"`
}

// Type returns the event type under either key variant.
func (e *WebhookEvent) Type() string {
	if e.EventType != "" {
		return e.EventType
	}
	return e.EventTypeC
}

// AppointmentID extracts the appointment reference from custom data,
// tolerating key-variant aliases. Empty when absent.
func (d *TransactionData) AppointmentID() string {
	for _, custom := range []map[string]interface{}{d.CustomData, d.CustomDataC} {
		for _, key := range appointmentIDAliases {
			if v, ok := custom[key].(string); ok && v != "" {
				return v
			}
		}
	}
	return ""
}

// ParseWebhookEvent decodes the raw webhook body.
func ParseWebhookEvent(rawBody []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
