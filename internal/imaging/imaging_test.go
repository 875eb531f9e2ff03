package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFitWithinBoundsIsNoop(t *testing.T) {
	got, err := Fit(encodePNG(t, 800, 600), MaxWidth, MaxHeight, DefaultQuality)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for an image that already fits, got %dx%d", got.Width, got.Height)
	}
}

func TestFitDownscales(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		wantW       int
		wantH       int
		contentType string
	}{
		{"wide jpeg", encodeJPEG(t, 3840, 1080), 1920, 540, "image/jpeg"},
		{"tall png", encodePNG(t, 1000, 2160), 500, 1080, "image/png"},
		{"4k jpeg", encodeJPEG(t, 3840, 2160), 1920, 1080, "image/jpeg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fit(tt.data, MaxWidth, MaxHeight, 80)
			if err != nil {
				t.Fatalf("Fit: %v", err)
			}
			if got == nil {
				t.Fatal("expected a resized image")
			}
			if got.Width != tt.wantW || got.Height != tt.wantH {
				t.Errorf("size %dx%d, want %dx%d", got.Width, got.Height, tt.wantW, tt.wantH)
			}
			if got.ContentType != tt.contentType {
				t.Errorf("content type %q, want %q", got.ContentType, tt.contentType)
			}
			cfg, _, err := image.DecodeConfig(bytes.NewReader(got.Data))
			if err != nil {
				t.Fatalf("output does not decode: %v", err)
			}
			if cfg.Width != tt.wantW || cfg.Height != tt.wantH {
				t.Errorf("encoded size %dx%d", cfg.Width, cfg.Height)
			}
		})
	}
}

func TestFitRejectsGarbage(t *testing.T) {
	if _, err := Fit([]byte("not an image"), MaxWidth, MaxHeight, 80); err == nil {
		t.Error("expected error for non-image data")
	}
}

func TestFitBox(t *testing.T) {
	tests := []struct {
		srcW, srcH, wantW, wantH int
	}{
		{3840, 2160, 1920, 1080},
		{4000, 1000, 1920, 480},
		{1080, 4000, 291, 1080},
		{100000, 1, 1920, 1},
	}
	for _, tt := range tests {
		w, h := fitBox(tt.srcW, tt.srcH, MaxWidth, MaxHeight)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("fitBox(%d,%d) = %dx%d, want %dx%d", tt.srcW, tt.srcH, w, h, tt.wantW, tt.wantH)
		}
	}
}
