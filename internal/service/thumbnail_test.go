package service

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func encodePNG(t *testing.T, width, height int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return &buf
}

func TestGenerateThumbnail(t *testing.T) {
	p := NewImagingProcessor()

	t.Run("fits within bounding box preserving aspect", func(t *testing.T) {
		data, err := p.GenerateThumbnail(encodePNG(t, 400, 200), 150, 150)
		if err != nil {
			t.Fatalf("GenerateThumbnail: %v", err)
		}

		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("result must be JPEG: %v", err)
		}

		bounds := img.Bounds()
		if bounds.Dx() != 150 || bounds.Dy() != 75 {
			t.Errorf("thumbnail = %dx%d, want 150x75", bounds.Dx(), bounds.Dy())
		}
	})

	t.Run("smaller source is not upscaled", func(t *testing.T) {
		data, err := p.GenerateThumbnail(encodePNG(t, 100, 80), 300, 300)
		if err != nil {
			t.Fatalf("GenerateThumbnail: %v", err)
		}

		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("result must be JPEG: %v", err)
		}

		bounds := img.Bounds()
		if bounds.Dx() != 100 || bounds.Dy() != 80 {
			t.Errorf("thumbnail = %dx%d, want the untouched 100x80", bounds.Dx(), bounds.Dy())
		}
	})

	t.Run("undecodable input fails", func(t *testing.T) {
		_, err := p.GenerateThumbnail(strings.NewReader("not an image"), 150, 150)
		if err == nil {
			t.Fatal("expected an error for undecodable input")
		}
	})
}
