package service

import (
	"context"
	"reflect"
	"testing"

	"github.com/spec-kit/membership-service/internal/domain"
)

func seedAssignmentUser(users *stubUserRepo, id string) {
	users.users[id] = &domain.User{ID: id, UserName: "member-" + id, Email: id + "@example.com"}
}

func membership(t *testing.T, roles *stubRoleRepo, userID string) []string {
	t.Helper()
	names, err := roles.ListNamesForUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListNamesForUser: %v", err)
	}
	return names
}

func TestAssign_UserNotFound(t *testing.T) {
	roles := newStubRoleRepo("admin")
	svc := NewRoleAssignmentService(newStubUserRepo(), roles, nil)

	err := svc.Assign(context.Background(), "missing", []domain.RoleSelection{{Name: "admin", Selected: true}})
	if domainErr(t, err).Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if len(roles.callLog) != 0 {
		t.Fatalf("no store mutation expected before the user check, got %v", roles.callLog)
	}
}

func TestAssign_RemoveThenAdd(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo("admin", "editor")
	seedAssignmentUser(users, "u1")
	roles.grant("u1", "editor")

	svc := NewRoleAssignmentService(users, roles, nil)

	err := svc.Assign(context.Background(), "u1", []domain.RoleSelection{
		{Name: "admin", Selected: true},
		{Name: "editor", Selected: false},
	})
	if err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}

	if got := membership(t, roles, "u1"); !reflect.DeepEqual(got, []string{"admin"}) {
		t.Fatalf("expected membership [admin], got %v", got)
	}
	if !reflect.DeepEqual(roles.callLog, []string{"remove", "add"}) {
		t.Fatalf("removal must run before addition, got %v", roles.callLog)
	}
}

func TestAssign_Idempotent(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo("admin", "editor", "viewer")
	seedAssignmentUser(users, "u1")
	roles.grant("u1", "editor", "viewer")

	svc := NewRoleAssignmentService(users, roles, nil)

	desired := []domain.RoleSelection{
		{Name: "admin", Selected: true},
		{Name: "editor", Selected: false},
		{Name: "viewer", Selected: true},
	}

	if err := svc.Assign(context.Background(), "u1", desired); err != nil {
		t.Fatalf("first Assign returned error: %v", err)
	}
	once := membership(t, roles, "u1")

	if err := svc.Assign(context.Background(), "u1", desired); err != nil {
		t.Fatalf("second Assign returned error: %v", err)
	}
	twice := membership(t, roles, "u1")

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("reconcile is not idempotent: %v vs %v", once, twice)
	}
	if !reflect.DeepEqual(twice, []string{"admin", "viewer"}) {
		t.Fatalf("unexpected membership: %v", twice)
	}
}

func TestAssign_UnknownRoleOnAdd(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo("admin")
	seedAssignmentUser(users, "u1")

	svc := NewRoleAssignmentService(users, roles, nil)

	err := svc.Assign(context.Background(), "u1", []domain.RoleSelection{{Name: "ghost", Selected: true}})
	de := domainErr(t, err)
	if de.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND for unknown role, got %s", de.Code)
	}
	if de.Details["role"] != "ghost" {
		t.Fatalf("expected role detail, got %v", de.Details)
	}
}

func TestAssign_UnknownRoleOnRemoveIsNoop(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo("admin")
	seedAssignmentUser(users, "u1")
	roles.grant("u1", "admin")

	svc := NewRoleAssignmentService(users, roles, nil)

	err := svc.Assign(context.Background(), "u1", []domain.RoleSelection{{Name: "ghost", Selected: false}})
	if err != nil {
		t.Fatalf("removing an unknown role must be a no-op, got %v", err)
	}
	if got := membership(t, roles, "u1"); !reflect.DeepEqual(got, []string{"admin"}) {
		t.Fatalf("membership should be untouched, got %v", got)
	}
}

func TestAssign_DuplicateNamesLastWins(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo("admin")
	seedAssignmentUser(users, "u1")
	roles.grant("u1", "admin")

	svc := NewRoleAssignmentService(users, roles, nil)

	err := svc.Assign(context.Background(), "u1", []domain.RoleSelection{
		{Name: "admin", Selected: true},
		{Name: "admin", Selected: false},
	})
	if err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}
	if got := membership(t, roles, "u1"); len(got) != 0 {
		t.Fatalf("last value should win; expected empty membership, got %v", got)
	}
}
