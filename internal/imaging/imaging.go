// Package imaging turns photos into the base64 JPEG payloads stored in the documents.
package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

const (
	// MaxDimension is the maximum width or height of a stored picture.
	MaxDimension = 800
	// JPEGQuality is the compression quality of the stored pictures.
	JPEGQuality = 80
)

var allowed = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Process validates the picture read from r by sniffing its bytes,
// downscales it to MaxDimension and re-encodes it as JPEG.
func Process(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not read picture")
	}

	if mime := http.DetectContentType(data); !allowed[mime] {
		return nil, errors.Errorf("unsupported picture format: %s (only JPEG and PNG are accepted)", mime)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "could not decode picture")
	}

	var buf bytes.Buffer
	if err = jpeg.Encode(&buf, downscale(img, MaxDimension), &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, errors.Wrap(err, "could not encode picture")
	}
	return buf.Bytes(), nil
}

// Encode processes the picture read from r and returns it as a base64 string.
func Encode(r io.Reader) (string, error) {
	data, err := Process(r)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Decode returns the picture held by a base64 payload.
func Decode(payload string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	return data, errors.Wrap(err, "invalid picture payload")
}

// Config returns the format and the dimensions of a base64 payload.
func Config(payload string) (format string, width, height int, err error) {
	data, err := Decode(payload)
	if err != nil {
		return "", 0, 0, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", 0, 0, errors.Wrap(err, "could not decode picture")
	}
	return format, cfg.Width, cfg.Height, nil
}

// downscale resizes img so neither dimension exceeds limit, keeping the aspect ratio.
func downscale(img image.Image, limit int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= limit && h <= limit {
		return img
	}

	nw, nh := limit, limit
	if w > h {
		nh = h * limit / w
	} else {
		nw = w * limit / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
