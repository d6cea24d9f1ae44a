package auth

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

const (
	testSecret = "test-secret"
	testIssuer = "membership-service"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager(testSecret, testIssuer, 3*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}
	return tm.WithClock(func() time.Time { return baseTime })
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	if _, err := NewTokenManager("", testIssuer, time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		roles []string
	}{
		{"no roles", nil},
		{"one role", []string{"admin"}},
		{"many roles", []string{"admin", "editor", "viewer"}},
	}

	tm := newTestManager(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			issued := BuildClaims(testUser(), tc.roles)
			token, expiresAt, err := tm.Issue(issued)
			if err != nil {
				t.Fatalf("Issue returned error: %v", err)
			}
			if want := baseTime.Add(3 * time.Hour); !expiresAt.Equal(want) {
				t.Fatalf("expected expiry %v, got %v", want, expiresAt)
			}

			verified, err := tm.Verify(token)
			if err != nil {
				t.Fatalf("Verify returned error: %v", err)
			}
			if *verified != issued {
				t.Fatalf("claims did not round-trip: issued %+v, verified %+v", issued, verified)
			}
			if got := verified.RoleNames(); !reflect.DeepEqual(got, tc.roles) {
				t.Fatalf("role names did not round-trip: want %v, got %v", tc.roles, got)
			}
		})
	}
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	tm := newTestManager(t)
	token, _, err := tm.Issue(BuildClaims(testUser(), []string{"admin"}))
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	tm.WithClock(func() time.Time { return baseTime.Add(2*time.Hour + 59*time.Minute) })
	if _, err := tm.Verify(token); err != nil {
		t.Fatalf("token should still verify before expiry: %v", err)
	}

	tm.WithClock(func() time.Time { return baseTime.Add(3*time.Hour + time.Second) })
	if _, err := tm.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerify_WrongKey(t *testing.T) {
	tm := newTestManager(t)
	token, _, err := tm.Issue(BuildClaims(testUser(), nil))
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	other, err := NewTokenManager("another-secret", testIssuer, 3*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}
	other.WithClock(func() time.Time { return baseTime })

	if _, err := other.Verify(token); !errors.Is(err, ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	tm := newTestManager(t)
	if _, err := tm.Verify("not-a-token"); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestVerify_WrongIssuer(t *testing.T) {
	tm := newTestManager(t)
	token, _, err := tm.Issue(BuildClaims(testUser(), nil))
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	other, err := NewTokenManager(testSecret, "someone-else", 3*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}
	other.WithClock(func() time.Time { return baseTime })

	if _, err := other.Verify(token); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}
