// Package tesseract provides the gosseract-backed recognition provider.
// Stock Tesseract models are trained on print; pointing Languages at a
// handwriting-trained model gives usable results on neat handwriting.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"github.com/wudi/rmrender/recognition"
)

// Provider implements recognition.Provider and recognition.BatchProvider
// using the gosseract client.
type Provider struct {
	clientFactory func() *gosseract.Client
}

// New constructs a Tesseract-backed provider.
func New() *Provider {
	return &Provider{clientFactory: gosseract.NewClient}
}

func (p *Provider) Name() string { return "tesseract" }

// Recognize performs recognition on a single page snapshot.
func (p *Provider) Recognize(ctx context.Context, in recognition.Input) (recognition.Result, error) {
	c := p.clientFactory()
	defer c.Close()
	return p.recognizeWithClient(ctx, c, in)
}

// RecognizeBatch processes inputs sequentially, one client per input so a
// failed page cannot poison the next.
func (p *Provider) RecognizeBatch(ctx context.Context, inputs []recognition.Input) ([]recognition.Result, error) {
	results := make([]recognition.Result, 0, len(inputs))
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c := p.clientFactory()
		res, err := p.recognizeWithClient(ctx, c, in)
		c.Close()
		if err != nil {
			return nil, fmt.Errorf("recognize %s: %w", in.ID, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (p *Provider) recognizeWithClient(ctx context.Context, c *gosseract.Client, in recognition.Input) (recognition.Result, error) {
	if err := ctx.Err(); err != nil {
		return recognition.Result{}, err
	}
	img, err := cropImage(in.Image, in.Region)
	if err != nil {
		return recognition.Result{}, err
	}
	if err := c.SetImageFromBytes(img); err != nil {
		return recognition.Result{}, fmt.Errorf("set image: %w", err)
	}
	if len(in.Languages) > 0 {
		if err := c.SetLanguage(in.Languages...); err != nil {
			return recognition.Result{}, fmt.Errorf("set languages: %w", err)
		}
	}
	if in.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(in.DPI)); err != nil {
			return recognition.Result{}, fmt.Errorf("set dpi: %w", err)
		}
	}
	for k, v := range in.Metadata {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return recognition.Result{}, fmt.Errorf("set variable %s: %w", k, err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return recognition.Result{}, fmt.Errorf("recognize text: %w", err)
	}

	words, avgConf := extractWords(c)
	return recognition.Result{
		InputID:    in.ID,
		PlainText:  text,
		Words:      words,
		Confidence: avgConf,
	}, nil
}

func extractWords(c *gosseract.Client) ([]recognition.Word, float64) {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return nil, 0
	}
	words := make([]recognition.Word, 0, len(boxes))
	var sum float64
	for _, b := range boxes {
		conf := b.Confidence / 100.0
		sum += conf
		words = append(words, recognition.Word{
			Text: b.Word,
			Bounds: recognition.Region{
				X:      float64(b.Box.Min.X),
				Y:      float64(b.Box.Min.Y),
				Width:  float64(b.Box.Dx()),
				Height: float64(b.Box.Dy()),
			},
			Confidence: conf,
		})
	}
	return words, sum / float64(len(words))
}

// cropImage cuts the requested region out of a PNG snapshot; a nil region
// passes the snapshot through untouched.
func cropImage(data []byte, region *recognition.Region) ([]byte, error) {
	if region == nil {
		return data, nil
	}
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	r := image.Rect(int(region.X), int(region.Y),
		int(region.X+region.Width), int(region.Y+region.Height))
	r = r.Intersect(src.Bounds())
	if r.Empty() {
		return nil, fmt.Errorf("region outside snapshot bounds")
	}

	type subImager interface {
		SubImage(image.Rectangle) image.Image
	}
	si, ok := src.(subImager)
	if !ok {
		return nil, fmt.Errorf("snapshot image type %T does not support cropping", src)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, si.SubImage(r)); err != nil {
		return nil, fmt.Errorf("encode cropped snapshot: %w", err)
	}
	return buf.Bytes(), nil
}
