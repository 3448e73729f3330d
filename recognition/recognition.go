// Package recognition defines the abstraction for plugging handwriting
// recognition engines into the rendering pipeline. The device offers
// handwriting-to-text conversion; this package gives hosts the same
// capability over rastered page snapshots they supply themselves — the
// render engine stays vector-only. Interfaces are small and
// transport-agnostic so providers can be native libraries or remote APIs.
package recognition

import (
	"context"
	"fmt"
)

// ImageFormat identifies the content type of a recognition input image.
type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "image/png"
	ImageFormatJPEG ImageFormat = "image/jpeg"
)

// Region is a rectangular area in pixel coordinates, origin top-left.
type Region struct {
	X, Y          float64
	Width, Height float64
}

// IsEmpty reports whether the region has non-positive dimensions.
func (r Region) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Input is one page snapshot submitted for handwriting recognition.
type Input struct {
	// ID is echoed back in the corresponding Result.
	ID string
	// Image is the encoded snapshot in the format declared by Format.
	Image  []byte
	Format ImageFormat
	// PageIndex links the input to the output page it was rastered from.
	PageIndex int
	// DPI of the snapshot; zero means unknown.
	DPI int
	// Languages holds language hints (e.g. "eng", "deu").
	Languages []string
	// Region restricts recognition to part of the page, nil for all of it.
	Region *Region
	// Metadata passes provider-specific knobs through without hard-coding
	// them into the API.
	Metadata map[string]string
}

// Word is one recognized token.
type Word struct {
	Text       string
	Bounds     Region
	Confidence float64
}

// Result is the recognition output for one input.
type Result struct {
	InputID    string
	PlainText  string
	Words      []Word
	Confidence float64
}

// Provider recognizes handwriting in page snapshots.
type Provider interface {
	Name() string
	Recognize(ctx context.Context, in Input) (Result, error)
}

// BatchProvider is implemented by providers that can amortize setup cost
// across inputs.
type BatchProvider interface {
	Provider
	RecognizeBatch(ctx context.Context, inputs []Input) ([]Result, error)
}

// Recognize runs every input through the provider, using batch mode when
// available.
func Recognize(ctx context.Context, p Provider, inputs []Input) ([]Result, error) {
	if b, ok := p.(BatchProvider); ok {
		return b.RecognizeBatch(ctx, inputs)
	}
	results := make([]Result, 0, len(inputs))
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := p.Recognize(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("recognize %s: %w", in.ID, err)
		}
		results = append(results, res)
	}
	return results, nil
}
