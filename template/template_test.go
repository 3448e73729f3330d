package template

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestMissingTemplateIsNotAnError(t *testing.T) {
	s := NewFSStore(t.TempDir(), 0.8)
	asset, err := s.Template("P Grid")
	if err != nil {
		t.Fatalf("missing template must not fail: %v", err)
	}
	if asset != nil {
		t.Fatal("missing template must resolve to no background")
	}
}

func TestBlankResolvesToNoBackground(t *testing.T) {
	s := NewFSStore(t.TempDir(), 0.8)
	for _, id := range []string{"", "Blank"} {
		asset, err := s.Template(id)
		if err != nil || asset != nil {
			t.Fatalf("%q: expected no background, got %v, %v", id, asset, err)
		}
	}
}

func TestSVGTemplateLoads(t *testing.T) {
	dir := t.TempDir()
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)
	if err := os.WriteFile(filepath.Join(dir, "P Lines.svg"), svg, 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewFSStore(dir, 0.5)
	asset, err := s.Template("P Lines")
	if err != nil {
		t.Fatal(err)
	}
	if asset.Kind != KindSVG || !bytes.Equal(asset.Data, svg) {
		t.Fatalf("unexpected asset: %+v", asset)
	}
	if asset.Alpha != 0.5 {
		t.Fatalf("expected alpha 0.5, got %g", asset.Alpha)
	}
}

func TestPNGTemplateIsRescaled(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 100, 100))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "P Grid.png"), buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewFSStore(dir, 0)
	asset, err := s.Template("P Grid")
	if err != nil {
		t.Fatal(err)
	}
	if asset.Kind != KindPNG {
		t.Fatalf("expected PNG asset, got %v", asset.Kind)
	}
	img, err := png.Decode(bytes.NewReader(asset.Data))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 1404 || img.Bounds().Dy() != 1872 {
		t.Fatalf("expected device dimensions, got %v", img.Bounds())
	}
	if asset.Alpha != 0.8 {
		t.Fatalf("alpha outside (0,1] must fall back to the default, got %g", asset.Alpha)
	}
}

func TestNameForPageFallsBackToLast(t *testing.T) {
	names := []string{"P Grid", "P Lines"}
	cases := []struct {
		page int
		want string
	}{
		{0, "P Grid"},
		{1, "P Lines"},
		{5, "P Lines"}, // device stopped recording, reuse the last
		{-1, ""},
	}
	for _, c := range cases {
		if got := NameForPage(names, c.page); got != c.want {
			t.Errorf("page %d: expected %q, got %q", c.page, c.want, got)
		}
	}
	if NameForPage(nil, 0) != "" {
		t.Error("no template list means no template")
	}
}
