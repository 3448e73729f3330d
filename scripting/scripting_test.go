package scripting

import (
	"context"
	"testing"
	"time"

	"github.com/wudi/rmrender/ink"
	"github.com/wudi/rmrender/style"
)

func TestExecuteReturnsValue(t *testing.T) {
	e := NewEngine()
	val, err := e.Execute(context.Background(), "6 * 7")
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := val.(int64); !ok || n != 42 {
		t.Fatalf("expected 42, got %v (%T)", val, val)
	}
}

func TestExecuteHonorsCancellation(t *testing.T) {
	e := NewEngine()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := e.Execute(ctx, "for(;;){}")
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestStyleOverrideRecolors(t *testing.T) {
	hook, err := StyleOverride(context.Background(), `
function restyle(tool, version, color, style) {
	if (tool === "ballpoint") {
		style.r = 0; style.g = 0; style.b = 1;
		return style;
	}
	return null;
}`)
	if err != nil {
		t.Fatal(err)
	}

	m := style.NewMapper(0)
	m.SetOverride(hook)

	st, err := m.Resolve(ink.Ballpoint, ink.V5, 0)
	if err != nil {
		t.Fatal(err)
	}
	if st.Color != (style.RGB{B: 1}) {
		t.Fatalf("script recolor not applied: %+v", st.Color)
	}

	// Returning null keeps the table style.
	orig, err := style.NewMapper(0).Resolve(ink.Fineliner, ink.V5, 0)
	if err != nil {
		t.Fatal(err)
	}
	got, err := m.Resolve(ink.Fineliner, ink.V5, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != orig {
		t.Fatalf("null return must keep the resolved style: %+v vs %+v", got, orig)
	}
}

func TestStyleOverrideRejectsBadScripts(t *testing.T) {
	if _, err := StyleOverride(context.Background(), "syntax error ("); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := StyleOverride(context.Background(), "var restyle = 5"); err == nil {
		t.Fatal("expected error when restyle is not a function")
	}
}

func TestStyleOverrideHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := StyleOverride(ctx, "for(;;){}"); err == nil {
		t.Fatal("expected cancellation while compiling the hook")
	}
}
