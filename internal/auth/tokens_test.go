package auth

import (
	"testing"
	"time"
)

func TestTokenStore_IssueAndValidate(t *testing.T) {
	store := NewTokenStore(time.Hour, nil)

	token, expiresAt, err := store.Issue("client-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if got := time.Until(expiresAt); got < 59*time.Minute || got > 61*time.Minute {
		t.Errorf("expected expiry about an hour out, got %v", got)
	}
	if !store.Validate(token) {
		t.Error("freshly issued token should validate")
	}
	if store.Validate("no-such-token") {
		t.Error("unknown token must not validate")
	}
}

func TestTokenStore_TokensAreUnique(t *testing.T) {
	store := NewTokenStore(time.Hour, nil)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, _, err := store.Issue("client")
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate token issued: %s", token)
		}
		seen[token] = true
	}
	if store.ActiveCount() != 50 {
		t.Errorf("expected 50 active tokens, got %d", store.ActiveCount())
	}
}

func TestTokenStore_Expiry(t *testing.T) {
	store := NewTokenStore(time.Hour, nil)
	current := time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	token, _, err := store.Issue("client-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	current = current.Add(59 * time.Minute)
	if !store.Validate(token) {
		t.Error("token should still be valid before the TTL elapses")
	}

	current = current.Add(2 * time.Minute)
	if store.Validate(token) {
		t.Error("token must be invalid after the TTL elapses")
	}
	if store.Validate(token) {
		t.Error("expired token stays invalid on repeat validation")
	}
	if store.ActiveCount() != 0 {
		t.Errorf("expected 0 active tokens, got %d", store.ActiveCount())
	}
}

func TestTokenStore_OnExpireFires(t *testing.T) {
	var expired []string
	store := NewTokenStore(time.Hour, func(token string) {
		expired = append(expired, token)
	})
	current := time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	token, _, err := store.Issue("client-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	current = current.Add(2 * time.Hour)
	store.Validate(token)

	if len(expired) != 1 || expired[0] != token {
		t.Errorf("expected onExpire for %s, got %v", token, expired)
	}
}

func TestTokenStore_IssueSweepsExpired(t *testing.T) {
	store := NewTokenStore(time.Hour, nil)
	current := time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	if _, _, err := store.Issue("old"); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	current = current.Add(2 * time.Hour)
	fresh, _, err := store.Issue("new")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if store.ActiveCount() != 1 {
		t.Errorf("expected only the fresh token, got %d active", store.ActiveCount())
	}
	if !store.Validate(fresh) {
		t.Error("fresh token should validate after the sweep")
	}
}
