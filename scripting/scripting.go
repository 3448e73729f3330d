// Package scripting runs user-supplied JavaScript style hooks. A hook
// script defines a restyle(tool, version, color, style) function that may
// return a modified style object; it lets users recolor pens or thin out
// highlighters without rebuilding the engine's style tables.
package scripting

import (
	"context"
	"fmt"

	"github.com/dop251/goja"

	"github.com/wudi/rmrender/ink"
	"github.com/wudi/rmrender/style"
)

// Engine executes scripts with context cancellation.
type Engine interface {
	Execute(ctx context.Context, script string) (interface{}, error)
}

// GojaEngine is the goja-backed Engine.
type GojaEngine struct {
	vm *goja.Runtime
}

// NewEngine constructs a fresh JavaScript runtime.
func NewEngine() *GojaEngine {
	return &GojaEngine{vm: goja.New()}
}

// Execute runs a script, interrupting it when ctx is cancelled.
func (e *GojaEngine) Execute(ctx context.Context, script string) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	defer e.vm.ClearInterrupt()

	go func() {
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := e.vm.RunString(script)
	if err != nil {
		if interrupted, ok := err.(*goja.InterruptedError); ok {
			if cause := interrupted.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, err
	}
	return val.Export(), nil
}

// jsStyle is the script-facing style shape. Field names are the stable
// script API; the Go struct stays free to evolve.
type jsStyle struct {
	R        float64 `json:"r"`
	G        float64 `json:"g"`
	B        float64 `json:"b"`
	Width    float64 `json:"width"`
	Opacity  float64 `json:"opacity"`
	Multiply bool    `json:"multiply"`
}

func toJS(st style.StrokeStyle) jsStyle {
	return jsStyle{
		R: st.Color.R, G: st.Color.G, B: st.Color.B,
		Width:    st.Width,
		Opacity:  st.Opacity,
		Multiply: st.Blend == style.BlendMultiply,
	}
}

func fromJS(js jsStyle, base style.StrokeStyle) style.StrokeStyle {
	out := base
	out.Color = style.RGB{R: js.R, G: js.G, B: js.B}
	out.Width = js.Width
	out.Opacity = js.Opacity
	if js.Multiply {
		out.Blend = style.BlendMultiply
	} else {
		out.Blend = style.BlendNormal
	}
	return out
}

// StyleOverride compiles a hook script on a fresh Engine and returns an
// override function for style.Mapper. The script must define
// restyle(tool, version, color, style); returning null or undefined keeps
// the resolved style. ctx cancels a misbehaving script during compilation.
func StyleOverride(ctx context.Context, script string) (style.OverrideFunc, error) {
	e := NewEngine()
	// Scripts address style fields by their lower-case wire names.
	e.vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	if _, err := e.Execute(ctx, script); err != nil {
		return nil, fmt.Errorf("style script: %w", err)
	}
	var restyle func(string, int, int, jsStyle) (*jsStyle, error)
	if err := e.vm.ExportTo(e.vm.Get("restyle"), &restyle); err != nil {
		return nil, fmt.Errorf("style script: restyle is not a function: %w", err)
	}

	return func(tool ink.Tool, version ink.Version, color ink.ColorIndex, st style.StrokeStyle) (style.StrokeStyle, error) {
		out, err := restyle(tool.String(), int(version), int(color), toJS(st))
		if err != nil {
			return style.StrokeStyle{}, fmt.Errorf("restyle %s: %w", tool, err)
		}
		if out == nil {
			return st, nil
		}
		return fromJS(*out, st), nil
	}, nil
}
