package domain

import "time"

// RoleAdmin is the built-in role required for administrative endpoints.
const RoleAdmin = "admin"

// Role is a named authorization group managed administratively.
type Role struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// RoleSelection expresses desired membership for a single role.
// Selected=true requests membership, Selected=false requests removal.
type RoleSelection struct {
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}
