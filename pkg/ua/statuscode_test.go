package ua

import "testing"

func TestStatusCodeSeverity(t *testing.T) {
	if !StatusGood.IsGood() {
		t.Fatal("StatusGood should be Good")
	}
	if !StatusUncertain.IsUncertain() {
		t.Fatal("StatusUncertain should be Uncertain")
	}
	if !StatusBadTimeout.IsBad() {
		t.Fatal("StatusBadTimeout should be Bad")
	}
	if StatusBadTimeout.IsGood() || StatusBadTimeout.IsUncertain() {
		t.Fatal("a Bad status must not also report Good or Uncertain")
	}
}

func TestStatusCodeStringKnownAndUnknown(t *testing.T) {
	if got := StatusBadTooManyOperations.String(); got != "BadTooManyOperations" {
		t.Fatalf("expected BadTooManyOperations, got %q", got)
	}
	unknown := StatusCode(0x80999999)
	if got := unknown.String(); got != "StatusCode(0x80999999)" {
		t.Fatalf("expected fallback hex form, got %q", got)
	}
}

func TestStatusCodeImplementsError(t *testing.T) {
	var err error = StatusBadTimeout
	if err.Error() != "BadTimeout" {
		t.Fatalf("expected StatusCode to satisfy error with its name, got %q", err.Error())
	}
}
