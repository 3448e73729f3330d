package tesseract

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/wudi/rmrender/recognition"
)

func snapshot(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestCropImagePassthrough(t *testing.T) {
	data := snapshot(t, 100, 50)
	out, err := cropImage(data, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, data) {
		t.Fatal("nil region must pass the snapshot through unchanged")
	}
}

func TestCropImageRegion(t *testing.T) {
	data := snapshot(t, 100, 50)
	out, err := cropImage(data, &recognition.Region{X: 10, Y: 10, Width: 30, Height: 20})
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 30 || img.Bounds().Dy() != 20 {
		t.Fatalf("unexpected crop size: %v", img.Bounds())
	}
}

func TestCropImageOutsideBounds(t *testing.T) {
	data := snapshot(t, 100, 50)
	if _, err := cropImage(data, &recognition.Region{X: 500, Y: 500, Width: 10, Height: 10}); err == nil {
		t.Fatal("region outside the snapshot must fail")
	}
}
