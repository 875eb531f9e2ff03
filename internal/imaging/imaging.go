// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging downsizes uploaded review images so neither side exceeds
// a bounding box. Images that already fit are left untouched and images are
// never upscaled.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Review upload bounds.
const (
	MaxWidth       = 1920
	MaxHeight      = 1080
	DefaultQuality = 85

	// maxPixels rejects decompression bombs before a full decode.
	maxPixels = 50_000_000
)

var ErrTooLarge = errors.New("imaging: image dimensions too large")

// Resized is a re-encoded image ready for upload.
type Resized struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// Fit scales data down to fit within maxW x maxH, keeping aspect ratio.
// It returns (nil, nil) when the image already fits. PNG and GIF sources
// are re-encoded as PNG to keep transparency; everything else as JPEG.
func Fit(data []byte, maxW, maxH, quality int) (*Resized, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode config: %w", err)
	}
	if cfg.Width*cfg.Height > maxPixels {
		return nil, ErrTooLarge
	}
	if cfg.Width <= maxW && cfg.Height <= maxH {
		return nil, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode %s: %w", format, err)
	}

	w, h := fitBox(cfg.Width, cfg.Height, maxW, maxH)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	out := &Resized{Width: w, Height: h}
	switch format {
	case "png", "gif":
		err = png.Encode(&buf, dst)
		out.ContentType = "image/png"
	default:
		if quality <= 0 || quality > 100 {
			quality = DefaultQuality
		}
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality})
		out.ContentType = "image/jpeg"
	}
	if err != nil {
		return nil, fmt.Errorf("imaging: encode: %w", err)
	}
	out.Data = buf.Bytes()
	return out, nil
}

// fitBox returns the largest w x h with the source aspect ratio that fits
// within maxW x maxH. Neither side drops below 1.
func fitBox(srcW, srcH, maxW, maxH int) (int, int) {
	w, h := maxW, srcH*maxW/srcW
	if h > maxH {
		w, h = srcW*maxH/srcH, maxH
	}
	return max(w, 1), max(h, 1)
}
