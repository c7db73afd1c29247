package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInputFramePreservesOrder(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionLeft)
	f.Set(ActionNone)
	f.Set(ActionRotateRight)
	f.Set(ActionLeft)

	want := []Action{ActionLeft, ActionRotateRight, ActionLeft}
	if diff := cmp.Diff(want, f.Actions); diff != "" {
		t.Errorf("frame actions mismatch (-want +got):\n%s", diff)
	}
}

func TestInputFrameClear(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionTick)
	f.Clear()
	f.Set(ActionHardDrop)

	if diff := cmp.Diff([]Action{ActionHardDrop}, f.Actions); diff != "" {
		t.Errorf("frame after Clear+Set mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeDecodeActions(t *testing.T) {
	in := []Action{
		ActionTick, ActionLeft, ActionQuit, ActionRight, ActionSoftDrop,
		ActionRotateLeft, ActionToggleSound, ActionRotateRight, ActionHardDrop,
		ActionPause, ActionReset,
	}

	encoded := EncodeActions(in)
	if encoded != "TLRDZXHPN" {
		t.Fatalf("EncodeActions() = %q", encoded)
	}

	decoded, err := DecodeActions(encoded)
	if err != nil {
		t.Fatalf("DecodeActions() error = %v", err)
	}

	var want []Action
	for _, a := range in {
		if a.Journaled() {
			want = append(want, a)
		}
	}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Errorf("decoded actions mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeActionsRejectsUnknownCode(t *testing.T) {
	if _, err := DecodeActions("TT?"); err == nil {
		t.Error("expected error for unknown code")
	}
}

func TestActionString(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{ActionHardDrop, "HardDrop"},
		{ActionRotateLeft, "RotateLeft"},
		{ActionToggleSound, "ToggleSound"},
		{Action(99), "Unknown"},
	}
	for _, tc := range tests {
		if got := tc.action.String(); got != tc.want {
			t.Errorf("%d.String() = %q, want %q", int(tc.action), got, tc.want)
		}
	}
}
