package ratelimit

import "testing"

func TestAllowWithinBurst(t *testing.T) {
	krl := New(1, 3)

	for i := range 3 {
		if !krl.Allow("1.2.3.4") {
			t.Fatalf("request %d within burst should be allowed", i)
		}
	}
	if krl.Allow("1.2.3.4") {
		t.Error("request beyond burst should be denied")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	krl := New(1, 1)

	if !krl.Allow("a") {
		t.Fatal("first request for key a should be allowed")
	}
	if krl.Allow("a") {
		t.Error("second request for key a should be denied")
	}
	if !krl.Allow("b") {
		t.Error("first request for key b should be allowed")
	}
}

func TestPerMinute(t *testing.T) {
	krl := PerMinute(60, 5)
	if krl.limit != 1 {
		t.Errorf("60/min should be 1 rps, got %v", krl.limit)
	}
}
