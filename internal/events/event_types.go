package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered      EventType = "user_registered"
	EventUserDeleted         EventType = "user_deleted"
	EventGroupCreated        EventType = "group_created"
	EventGroupMembersChanged EventType = "group_members_changed"
	EventGroupDeleted        EventType = "group_deleted"
	EventTransactionRecorded EventType = "transaction_recorded"
	EventTransactionsDeleted EventType = "transactions_deleted"
)

// Event represents a domain event emitted by services. Subject names the
// user or group the event is about.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserDeletedPayload payload.
type UserDeletedPayload struct {
	Email               string `json:"email"`
	DeletedTransactions int64  `json:"deleted_transactions"`
	DeletedFromGroup    bool   `json:"deleted_from_group"`
}

// GroupMembersChangedPayload payload.
type GroupMembersChangedPayload struct {
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
}

// TransactionRecordedPayload payload.
type TransactionRecordedPayload struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
}

// TransactionsDeletedPayload payload.
type TransactionsDeletedPayload struct {
	IDs []string `json:"ids"`
}
