package auth

import (
	"testing"
	"time"
)

func TestTempKeyDeriver_KnownValue(t *testing.T) {
	d := NewTempKeyDeriver("test-salt")
	now := time.Date(2024, 1, 15, 7, 23, 45, 0, time.UTC)

	key := d.Derive(now)
	if key != "2a7e862f84dd4ae2fce6194f8a8a77c1" {
		t.Errorf("unexpected key for fixed hour: %s", key)
	}
	if len(key) != 32 {
		t.Errorf("expected 32-char key, got %d", len(key))
	}
}

func TestTempKeyDeriver_DefaultSaltKnownValue(t *testing.T) {
	d := NewTempKeyDeriver("pdf-translator-2024-salt")
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	if key := d.Derive(now); key != "e33231f1b24d17c3e6f3b93e3ec88eca" {
		t.Errorf("unexpected key for fixed hour: %s", key)
	}
}

func TestTempKeyDeriver_StableWithinHour(t *testing.T) {
	d := NewTempKeyDeriver("test-salt")
	start := time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 15, 7, 59, 59, 0, time.UTC)

	if d.Derive(start) != d.Derive(end) {
		t.Error("key should be stable across the same hour")
	}
}

func TestTempKeyDeriver_RotatesOnHourBoundary(t *testing.T) {
	d := NewTempKeyDeriver("test-salt")
	before := time.Date(2024, 1, 15, 7, 59, 59, 0, time.UTC)
	after := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

	if d.Derive(before) == d.Derive(after) {
		t.Error("key should change when the hour rolls over")
	}
}

func TestTempKeyDeriver_UsesUTC(t *testing.T) {
	d := NewTempKeyDeriver("test-salt")
	loc := time.FixedZone("UTC+5", 5*3600)
	// 12:30 at UTC+5 is 07:30 UTC, so the key matches the 07 UTC hour.
	local := time.Date(2024, 1, 15, 12, 30, 0, 0, loc)
	utc := time.Date(2024, 1, 15, 7, 30, 0, 0, time.UTC)

	if d.Derive(local) != d.Derive(utc) {
		t.Error("derivation must normalize to UTC before formatting the hour")
	}
}

func TestTempKeyDeriver_SaltChangesKey(t *testing.T) {
	now := time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC)
	a := NewTempKeyDeriver("salt-a").Derive(now)
	b := NewTempKeyDeriver("salt-b").Derive(now)

	if a == b {
		t.Error("different salts must derive different keys")
	}
}

func TestTempKeyDeriver_Verify(t *testing.T) {
	d := NewTempKeyDeriver("test-salt")
	now := time.Date(2024, 1, 15, 7, 30, 0, 0, time.UTC)

	if !d.Verify(d.Derive(now), now) {
		t.Error("current-hour key should verify")
	}
	previous := d.Derive(now.Add(-time.Hour))
	if d.Verify(previous, now) {
		t.Error("previous-hour key must be rejected after rollover")
	}
	if d.Verify("", now) {
		t.Error("empty candidate must be rejected")
	}
}
