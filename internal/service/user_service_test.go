package service

import (
	"context"
	"fmt"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(users *stubUserRepo, roles *stubRoleRepo) *UserService {
	return NewUserService(users, roles, nil, bcrypt.MinCost)
}

func registerInput(userName, email string) RegisterInput {
	return RegisterInput{
		UserName:  userName,
		Email:     email,
		Password:  "Pw1!secret",
		FirstName: "Test",
		LastName:  "User",
		Phone:     "555-0100",
	}
}

func TestRegister_Success(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestUserService(users, newStubRoleRepo())

	user, err := svc.Register(context.Background(), registerInput("alice", "a@x.com"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected generated id")
	}
	if user.PasswordHash == "Pw1!secret" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Pw1!secret")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestRegister_DuplicateUserName(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(), newStubRoleRepo())

	if _, err := svc.Register(context.Background(), registerInput("alice", "a@x.com")); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := svc.Register(context.Background(), registerInput("alice", "b@x.com"))
	de := domainErr(t, err)
	if de.Code != "CONFLICT" || de.Message != "username already exists" {
		t.Fatalf("expected username conflict, got %s %q", de.Code, de.Message)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(), newStubRoleRepo())

	if _, err := svc.Register(context.Background(), registerInput("alice", "a@x.com")); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := svc.Register(context.Background(), registerInput("bob", "a@x.com"))
	de := domainErr(t, err)
	if de.Code != "CONFLICT" || de.Message != "email already exists" {
		t.Fatalf("expected email conflict, got %s %q", de.Code, de.Message)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(), newStubRoleRepo())

	_, err := svc.Register(context.Background(), RegisterInput{UserName: "alice"})
	if domainErr(t, err).Code != "VALIDATION_FAILED" {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
}

func TestUpdate_Success(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestUserService(users, newStubRoleRepo())

	created, _ := svc.Register(context.Background(), registerInput("alice", "a@x.com"))

	err := svc.Update(context.Background(), UpdateInput{
		ID:        created.ID,
		Email:     "new@x.com",
		FirstName: "Alicia",
		LastName:  "Smith",
		Phone:     "555-0199",
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	stored, _ := users.GetByID(context.Background(), created.ID)
	if stored.Email != "new@x.com" || stored.FirstName != "Alicia" || stored.Phone != "555-0199" {
		t.Fatalf("fields not updated: %+v", stored)
	}
}

func TestUpdate_KeepOwnEmail(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(), newStubRoleRepo())

	created, _ := svc.Register(context.Background(), registerInput("alice", "a@x.com"))

	err := svc.Update(context.Background(), UpdateInput{
		ID:    created.ID,
		Email: "a@x.com",
	})
	if err != nil {
		t.Fatalf("updating with own email should succeed: %v", err)
	}
}

func TestUpdate_EmailOwnedByOther(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(), newStubRoleRepo())

	_, _ = svc.Register(context.Background(), registerInput("alice", "a@x.com"))
	bob, _ := svc.Register(context.Background(), registerInput("bob", "b@x.com"))

	err := svc.Update(context.Background(), UpdateInput{ID: bob.ID, Email: "a@x.com"})
	de := domainErr(t, err)
	if de.Code != "CONFLICT" {
		t.Fatalf("expected CONFLICT, got %s", de.Code)
	}
}

func TestUpdate_UserNotFound(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(), newStubRoleRepo())

	err := svc.Update(context.Background(), UpdateInput{ID: "missing", Email: "x@x.com"})
	if domainErr(t, err).Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestUserService(users, newStubRoleRepo())

	created, _ := svc.Register(context.Background(), registerInput("alice", "a@x.com"))

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := users.GetByID(context.Background(), created.ID); err == nil {
		t.Fatalf("user should be gone")
	}

	err := svc.Delete(context.Background(), created.ID)
	if domainErr(t, err).Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND for second delete, got %v", err)
	}
}

func TestGetByID_WithRoles(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo("admin", "editor")
	svc := newTestUserService(users, roles)

	created, _ := svc.Register(context.Background(), registerInput("alice", "a@x.com"))
	roles.grant(created.ID, "editor")

	profile, err := svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if profile.User.UserName != "alice" {
		t.Fatalf("unexpected user: %+v", profile.User)
	}
	if len(profile.Roles) != 1 || profile.Roles[0] != "editor" {
		t.Fatalf("unexpected roles: %v", profile.Roles)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(), newStubRoleRepo())

	if _, err := svc.GetByID(context.Background(), "missing"); domainErr(t, err).Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND")
	}
}

func TestGetPaging_KeywordOnPhone(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestUserService(users, newStubRoleRepo())

	for i := 0; i < 25; i++ {
		phone := fmt.Sprintf("444-%04d", i)
		if i < 3 {
			phone = fmt.Sprintf("555-%04d", i)
		}
		input := registerInput(fmt.Sprintf("user%02d", i), fmt.Sprintf("user%02d@x.com", i))
		input.Phone = phone
		if _, err := svc.Register(context.Background(), input); err != nil {
			t.Fatalf("register %d failed: %v", i, err)
		}
	}

	page, err := svc.GetPaging(context.Background(), "555", 1, 10)
	if err != nil {
		t.Fatalf("GetPaging returned error: %v", err)
	}
	if len(page.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(page.Items))
	}
	if page.TotalRecords != 3 {
		t.Fatalf("expected totalRecords=3, got %d", page.TotalRecords)
	}
}

func TestGetPaging_PageBounds(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestUserService(users, newStubRoleRepo())

	for i := 0; i < 12; i++ {
		if _, err := svc.Register(context.Background(), registerInput(fmt.Sprintf("user%02d", i), fmt.Sprintf("user%02d@x.com", i))); err != nil {
			t.Fatalf("register %d failed: %v", i, err)
		}
	}

	first, err := svc.GetPaging(context.Background(), "", 1, 10)
	if err != nil {
		t.Fatalf("GetPaging returned error: %v", err)
	}
	if len(first.Items) != 10 || first.TotalRecords != 12 {
		t.Fatalf("unexpected first page: %d items, total %d", len(first.Items), first.TotalRecords)
	}

	second, err := svc.GetPaging(context.Background(), "", 2, 10)
	if err != nil {
		t.Fatalf("GetPaging returned error: %v", err)
	}
	if len(second.Items) != 2 || second.TotalRecords != 12 {
		t.Fatalf("unexpected second page: %d items, total %d", len(second.Items), second.TotalRecords)
	}
	if second.Items[0].UserName != "user10" {
		t.Fatalf("pagination should be 1-indexed; second page starts at %s", second.Items[0].UserName)
	}
}
