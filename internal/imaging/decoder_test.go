package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/sdpro1234/skin-disease-ai/internal/apperr"
)

// pngPayload returns a small valid PNG and its data-URI encoding.
func pngPayload(t *testing.T) ([]byte, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	raw := buf.Bytes()
	return raw, "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)
}

func TestDecode_RoundTrip(t *testing.T) {
	raw, payload := pngPayload(t)

	got, err := Decode(payload, 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(got.Bytes, raw) {
		t.Fatal("decoded bytes differ from original")
	}
	if got.Format != "png" {
		t.Fatalf("format = %q, want png", got.Format)
	}
	if got.MIMEHint != "data:image/png;base64" {
		t.Fatalf("mime hint = %q", got.MIMEHint)
	}
	if got.MIMEType() != "image/png" {
		t.Fatalf("mime type = %q", got.MIMEType())
	}
}

func TestDecode_Failures(t *testing.T) {
	_, valid := pngPayload(t)

	tests := []struct {
		name    string
		payload string
		max     int64
	}{
		{"no comma", "not-a-data-uri", 0},
		{"empty string", "", 0},
		{"bad base64", "data:image/png;base64,!!!not-base64!!!", 0},
		{"not an image", "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("hello world")), 0},
		{"empty payload after comma", "data:image/png;base64,", 0},
		{"over size cap", valid, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.payload, tt.max)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, apperr.ErrInvalidImage) {
				t.Fatalf("error %v is not ErrInvalidImage", err)
			}
		})
	}
}

func TestDecode_HeaderNotValidated(t *testing.T) {
	// The header segment is a hint only: a wrong MIME declaration must not
	// fail a payload whose bytes are a real image.
	raw, _ := pngPayload(t)
	payload := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(raw)

	got, err := Decode(payload, 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Format != "png" {
		t.Fatalf("format = %q, want png", got.Format)
	}
}

func TestDecode_ErrorDetailIsReadable(t *testing.T) {
	_, err := Decode("no-comma-here", 0)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "comma") {
		t.Fatalf("error %q carries no useful detail", err.Error())
	}
}
