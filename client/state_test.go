package client

import "testing"

func TestSetStateIsNoOpWhenUnchanged(t *testing.T) {
	c := New()
	calls := 0
	c.cfg.StateCallback = func(State) { calls++ }
	c.setState(StateDisconnected) // already Disconnected
	if calls != 0 {
		t.Fatalf("expected no callback for a no-op transition, got %d calls", calls)
	}
}

func TestSetStateFiresCallbackOnActualChange(t *testing.T) {
	c := New()
	var seen []State
	c.cfg.StateCallback = func(s State) { seen = append(seen, s) }
	c.setState(StateConnected)
	c.setState(StateSecureChannel)
	c.setState(StateSecureChannel) // repeat, must not re-fire
	c.setState(StateSession)

	want := []State{StateConnected, StateSecureChannel, StateSession}
	if len(seen) != len(want) {
		t.Fatalf("expected %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, seen)
		}
	}
}

func TestStateStringNames(t *testing.T) {
	cases := map[State]string{
		StateDisconnected:   "Disconnected",
		StateConnected:      "Connected",
		StateSecureChannel:  "SecureChannel",
		StateSession:        "Session",
		StateSessionRenewed: "SessionRenewed",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Fatalf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}
