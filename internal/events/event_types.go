package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered    EventType = "user_registered"
	EventUserAuthenticated EventType = "user_authenticated"
	EventUserUpdated       EventType = "user_updated"
	EventUserDeleted       EventType = "user_deleted"
	EventRolesAssigned     EventType = "roles_assigned"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserName string `json:"username"`
	Email    string `json:"email"`
}

// UserAuthenticatedPayload payload.
type UserAuthenticatedPayload struct {
	UserName   string `json:"username"`
	RememberMe bool   `json:"remember_me"`
}

// UserUpdatedPayload payload.
type UserUpdatedPayload struct {
	Email string `json:"email"`
}

// UserDeletedPayload payload.
type UserDeletedPayload struct {
	UserName string `json:"username"`
}

// RolesAssignedPayload payload.
type RolesAssignedPayload struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}
