package main

import (
	"testing"

	"github.com/solumlabs/physbridge/bridge"
	"github.com/solumlabs/physbridge/internal/config"
)

func TestApplyWorldSettingsForwardsSolverIterations(t *testing.T) {
	bridge.Init(nil)
	defer bridge.Teardown()

	cfg := config.Default()
	cfg.World.Gravity = [3]float32{0, -1.62, 0}
	cfg.World.Dt = 0.02
	cfg.World.SolverIterations = 9
	applyWorldSettings(cfg)

	if _, gy, _ := bridge.Gravity(); gy != -1.62 {
		t.Errorf("expected gravity y -1.62, got %f", gy)
	}
	if dt := bridge.TimeStep(); dt != 0.02 {
		t.Errorf("expected dt 0.02, got %f", dt)
	}
	if n := bridge.SolverIterations(); n != 9 {
		t.Errorf("expected 9 solver iterations, got %d", n)
	}
}

func TestSpeedOf(t *testing.T) {
	if s := speedOf(3, 4, 0); s < 4.999 || s > 5.001 {
		t.Errorf("expected speed 5, got %f", s)
	}
	if s := speedOf(0, 0, 0); s != 0 {
		t.Errorf("expected zero speed, got %f", s)
	}
}
