package app

import (
	"testing"
	"time"
)

func TestNormalizeOptionsDefaults(t *testing.T) {
	opts := normalizeOptions(Options{Mode: "  API "})
	if opts.Mode != ModeAPI {
		t.Fatalf("mode want %s got %s", ModeAPI, opts.Mode)
	}
	if opts.ShutdownTimeout != 10*time.Second {
		t.Fatalf("shutdown timeout want 10s got %s", opts.ShutdownTimeout)
	}
	if opts.Logger == nil {
		t.Fatalf("logger should default to the global sugared logger")
	}
	if got := normalizeOptions(Options{}).Mode; got != ModeAll {
		t.Fatalf("empty mode want %s got %s", ModeAll, got)
	}
}
