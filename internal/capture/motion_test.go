package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestNewMotionGate(t *testing.T) {
	tests := []struct {
		name     string
		percent  float64
		hold     int
		wantHold int
	}{
		{name: "defaults", percent: DefaultMotionPercent, hold: DefaultHoldFrames, wantHold: DefaultHoldFrames},
		{name: "no hold", percent: 1, hold: 0, wantHold: 0},
		{name: "negative hold", percent: 1, hold: -3, wantHold: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewMotionGate(tt.percent, tt.hold)
			defer g.Close()

			if g.holdFrames != tt.wantHold {
				t.Errorf("holdFrames = %d, want %d", g.holdFrames, tt.wantHold)
			}
			if g.initialized {
				t.Error("gate should not be initialized initially")
			}
		})
	}
}

func TestMotionGate_StillFramesCloseAfterHold(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	g := NewMotionGate(1.0, 2)
	defer g.Close()

	frame := gocv.NewMatWithSize(DefaultHeight, DefaultWidth, gocv.MatTypeCV8UC3)
	defer frame.Close()

	want := []bool{true, true, true, false, false}
	for i, w := range want {
		open, _ := g.Open(&frame)
		if open != w {
			t.Errorf("frame %d: open = %v, want %v", i, open, w)
		}
	}
}

func TestMotionGate_MotionReopens(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	g := NewMotionGate(1.0, 0)
	defer g.Close()

	black := gocv.NewMatWithSize(DefaultHeight, DefaultWidth, gocv.MatTypeCV8UC3)
	defer black.Close()
	black.SetTo(gocv.NewScalar(0, 0, 0, 0))
	white := gocv.NewMatWithSize(DefaultHeight, DefaultWidth, gocv.MatTypeCV8UC3)
	defer white.Close()
	white.SetTo(gocv.NewScalar(255, 255, 255, 0))

	g.Open(&black)
	if open, _ := g.Open(&black); open {
		t.Error("still frame with no hold should close the gate")
	}

	open, changed := g.Open(&white)
	if !open {
		t.Errorf("black to white should open the gate, changed = %f", changed)
	}
	if changed < 50 {
		t.Errorf("changed = %f, expected > 50%% for black to white", changed)
	}
}

func TestMotionGate_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	g := NewMotionGate(1.0, 0)
	defer g.Close()

	frame := gocv.NewMatWithSize(DefaultHeight, DefaultWidth, gocv.MatTypeCV8UC3)
	defer frame.Close()

	g.Open(&frame)
	g.Open(&frame)
	g.Reset()

	if open, _ := g.Open(&frame); !open {
		t.Error("first frame after Reset should open the gate")
	}
}

func TestMotionGate_NilFrame(t *testing.T) {
	g := NewMotionGate(1.0, 0)
	defer g.Close()

	if open, _ := g.Open(nil); open {
		t.Error("nil frame should not open the gate")
	}
}

func TestMotionGate_CloseMultiple(t *testing.T) {
	g := NewMotionGate(1.0, 0)
	g.Close()
	g.Close()
}
