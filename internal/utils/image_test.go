package utils

import (
	"bytes"
	"image/png"
	"testing"
)

func TestSniffImageType(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{"png", []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a}, "image/png"},
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0}, "image/jpeg"},
		{"gif", []byte("GIF89a"), "image/gif"},
		{"unknown defaults to png", []byte("RIFF....WEBP"), "image/png"},
		{"empty", nil, "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SniffImageType(tt.data); got != tt.expected {
				t.Errorf("SniffImageType() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestTransparentPNG_Decodes(t *testing.T) {
	img, err := png.Decode(bytes.NewReader(TransparentPNG))
	if err != nil {
		t.Fatalf("placeholder is not a valid PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 1 || b.Dy() != 1 {
		t.Errorf("placeholder is %dx%d, expected 1x1", b.Dx(), b.Dy())
	}
	_, _, _, a := img.At(0, 0).RGBA()
	if a != 0 {
		t.Errorf("placeholder alpha = %d, expected transparent", a)
	}
}
