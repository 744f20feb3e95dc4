package registry

import "testing"

func TestSetGetGlobal(t *testing.T) {
	r := &Registry{}
	r.SetGlobal("k", 123)

	v, ok := r.GetGlobal("k")
	if !ok {
		t.Fatal("expected key to exist")
	}
	if v != 123 {
		t.Errorf("got %v, want 123", v)
	}

	if _, ok := r.GetGlobal("missing"); ok {
		t.Error("expected miss for unset key")
	}
}

func TestLockUnlock(t *testing.T) {
	r := &Registry{}
	if r.IsLocked("k") {
		t.Error("fresh key should not be locked")
	}
	r.Lock("k")
	if !r.IsLocked("k") {
		t.Error("key should be locked after Lock")
	}
	if r.IsLocked("other") {
		t.Error("locks are per key")
	}
	r.UnlockForTesting("k")
	if r.IsLocked("k") {
		t.Error("key should be unlocked after UnlockForTesting")
	}
}

func TestLockedKeyStillReadable(t *testing.T) {
	r := &Registry{}
	r.SetGlobal("k", "value")
	r.Lock("k")

	if v, ok := r.GetGlobal("k"); !ok || v != "value" {
		t.Errorf("locked key read = %v, %v", v, ok)
	}
}
