package contract

type EventType string

const (
	EventPing EventType = "ping"

	EventSessionExpired EventType = "SESSION_EXPIRED"
	EventAck            EventType = "ACK"

	EventPostCreated EventType = "POST_CREATED"
	EventPostUpdated EventType = "POST_UPDATED"
	EventPostDeleted EventType = "POST_DELETED"

	EventCategoryCreated EventType = "CATEGORY_CREATED"

	EventNoteCreated EventType = "NOTE_CREATED"
	EventNoteUpdated EventType = "NOTE_UPDATED"
	EventNoteDeleted EventType = "NOTE_DELETED"
)

// IncomingSocketMessage is used for messages we receive from the clients.
type IncomingSocketMessage struct {
	Type EventType `json:"type"`
}

// OutgoingSocketMessage is what we send to the client.
type OutgoingSocketMessage struct {
	Type EventType `json:"type"`
	Data any       `json:"data,omitempty"`
}
