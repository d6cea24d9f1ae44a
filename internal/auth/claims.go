package auth

import (
	"strings"

	"github.com/spec-kit/membership-service/internal/domain"
)

// RoleSeparator joins role names into the single role claim.
const RoleSeparator = ";"

// ClaimSet is the canonical claim set built for an authenticated user.
// It is ephemeral: rebuilt on every authentication, never persisted.
type ClaimSet struct {
	Subject   string
	Email     string
	GivenName string
	Role      string
	Name      string
}

// BuildClaims assembles the claim set for a user and its role names.
// Pure and deterministic: the same inputs always yield the same claims.
// An empty role list yields an empty role claim, not an absent one.
func BuildClaims(user *domain.User, roles []string) ClaimSet {
	return ClaimSet{
		Subject:   user.ID,
		Email:     user.Email,
		GivenName: user.FirstName,
		Role:      strings.Join(roles, RoleSeparator),
		Name:      user.UserName,
	}
}

// RoleNames splits the joined role claim back into individual names.
func (cs ClaimSet) RoleNames() []string {
	if cs.Role == "" {
		return nil
	}
	return strings.Split(cs.Role, RoleSeparator)
}

// HasRole reports whether the claim set carries the given role name.
func (cs ClaimSet) HasRole(name string) bool {
	for _, role := range cs.RoleNames() {
		if role == name {
			return true
		}
	}
	return false
}
