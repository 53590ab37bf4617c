package ocr

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/factcheck/internal/model"
)

type fakeEngine struct {
	text  string
	err   error
	got   []byte
	langs []string
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Recognize(ctx context.Context, img []byte, languages []string) (string, error) {
	f.got = img
	f.langs = languages
	return f.text, f.err
}

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.Black)
	}
	return img
}

func TestExtractText_PassesPNGAndLanguages(t *testing.T) {
	engine := &fakeEngine{text: "Trời hôm nay màu xanh lá\n\f"}
	ex := NewExtractor(engine, model.OCRConfig{}, nil)

	text, err := ex.ExtractText(context.Background(), testImage(1200, 300))
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if text != "Trời hôm nay màu xanh lá\n\f" {
		t.Errorf("expected engine output unchanged, got %q", text)
	}
	if diff := cmp.Diff([]string{"vie", "eng"}, engine.langs); diff != "" {
		t.Errorf("languages mismatch (-want +got):\n%s", diff)
	}

	decoded, err := png.Decode(bytes.NewReader(engine.got))
	if err != nil {
		t.Fatalf("engine did not receive a PNG: %v", err)
	}
	if decoded.Bounds().Dx() != 1200 {
		t.Errorf("image should not be resized, got width %d", decoded.Bounds().Dx())
	}
}

func TestExtractText_UpscalesNarrowImages(t *testing.T) {
	engine := &fakeEngine{text: "x"}
	ex := NewExtractor(engine, model.OCRConfig{MinWidth: 1000, Languages: []string{"eng"}}, nil)

	if _, err := ex.ExtractText(context.Background(), testImage(500, 120)); err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(engine.got))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := decoded.Bounds(); got.Dx() != 1000 || got.Dy() != 240 {
		t.Errorf("expected 1000x240, got %dx%d", got.Dx(), got.Dy())
	}
}

func TestUpscale_Disabled(t *testing.T) {
	img := testImage(10, 10)
	if upscale(img, 0) != img {
		t.Error("minWidth 0 must leave the image untouched")
	}
	if upscale(img, 5) != img {
		t.Error("wide enough images must be untouched")
	}
}

func TestExtractText_WhitespaceIsNotAnError(t *testing.T) {
	ex := NewExtractor(&fakeEngine{text: "  \n\f"}, model.OCRConfig{}, nil)
	text, err := ex.ExtractText(context.Background(), testImage(10, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(text) != "" {
		t.Errorf("expected blank text, got %q", text)
	}
}

func TestExtractText_Errors(t *testing.T) {
	t.Run("unavailable is kept distinct", func(t *testing.T) {
		ex := NewExtractor(&fakeEngine{err: ErrEngineUnavailable}, model.OCRConfig{}, nil)
		_, err := ex.ExtractText(context.Background(), testImage(10, 10))
		if !errors.Is(err, ErrEngineUnavailable) {
			t.Fatalf("expected ErrEngineUnavailable, got %v", err)
		}
		var perr *ProcessingError
		if errors.As(err, &perr) {
			t.Error("unavailable must not be a ProcessingError")
		}
	})

	t.Run("other failures become ProcessingError", func(t *testing.T) {
		ex := NewExtractor(&fakeEngine{err: errors.New("corrupt image")}, model.OCRConfig{}, nil)
		_, err := ex.ExtractText(context.Background(), testImage(10, 10))
		var perr *ProcessingError
		if !errors.As(err, &perr) {
			t.Fatalf("expected ProcessingError, got %v", err)
		}
		if !strings.Contains(perr.Error(), "corrupt image") {
			t.Errorf("expected underlying message, got %q", perr.Error())
		}
	})

	t.Run("nil image", func(t *testing.T) {
		ex := NewExtractor(&fakeEngine{}, model.OCRConfig{}, nil)
		var perr *ProcessingError
		if _, err := ex.ExtractText(context.Background(), nil); !errors.As(err, &perr) {
			t.Fatalf("expected ProcessingError, got %v", err)
		}
	})
}

func TestDecodeImage(t *testing.T) {
	img := testImage(4, 4)

	var pngBuf, jpegBuf, gifBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(&jpegBuf, img, nil); err != nil {
		t.Fatal(err)
	}
	if err := gif.Encode(&gifBuf, img, nil); err != nil {
		t.Fatal(err)
	}

	for name, data := range map[string][]byte{"png": pngBuf.Bytes(), "jpeg": jpegBuf.Bytes()} {
		if _, err := DecodeImage(bytes.NewReader(data)); err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
		}
	}

	var perr *ProcessingError
	if _, err := DecodeImage(bytes.NewReader(gifBuf.Bytes())); !errors.As(err, &perr) {
		t.Errorf("gif: expected ProcessingError, got %v", err)
	}
	if _, err := DecodeImage(strings.NewReader("not an image")); !errors.As(err, &perr) {
		t.Errorf("garbage: expected ProcessingError, got %v", err)
	}
}

// pngHeader encodes a tiny PNG and rewrites its IHDR to declare w x h
func pngHeader(t *testing.T, w, h uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	// signature(8) length(4) "IHDR"(4) width(4) height(4) ... crc after 13 data bytes
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestDecodeImage_RejectsHugeDimensions(t *testing.T) {
	_, err := DecodeImage(bytes.NewReader(pngHeader(t, 30000, 30000)))

	var perr *ProcessingError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProcessingError, got %v", err)
	}
	if !strings.Contains(err.Error(), "30000x30000") {
		t.Errorf("error should name the dimensions: %v", err)
	}
}

func TestUpscale_FactorIsCapped(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		minWidth     int
		wantW, wantH int
	}{
		{name: "thin strip", w: 1, h: 20000, minWidth: 1000, wantW: 4, wantH: 80000},
		{name: "small", w: 100, h: 50, minWidth: 1000, wantW: 400, wantH: 200},
		{name: "within factor", w: 500, h: 100, minWidth: 1000, wantW: 1000, wantH: 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := upscale(image.NewGray(image.Rect(0, 0, tt.w, tt.h)), tt.minWidth).Bounds()
			if got.Dx() != tt.wantW || got.Dy() != tt.wantH {
				t.Errorf("upscale(%dx%d) = %dx%d, want %dx%d", tt.w, tt.h, got.Dx(), got.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestSupportedFilename(t *testing.T) {
	tests := map[string]bool{
		"shot.png":      true,
		"SHOT.JPG":      true,
		"a.jpeg":        true,
		"a.gif":         false,
		"README":        false,
		"photo.png.exe": false,
	}
	for name, want := range tests {
		if got := SupportedFilename(name); got != want {
			t.Errorf("SupportedFilename(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestNewEngine(t *testing.T) {
	e, err := NewEngine(model.OCRConfig{})
	if err != nil {
		t.Fatalf("default engine: %v", err)
	}
	if e.Name() != "tesseract-cli" {
		t.Errorf("expected cli engine, got %s", e.Name())
	}

	if _, err := NewEngine(model.OCRConfig{Engine: "abbyy"}); err == nil {
		t.Error("expected error for unknown engine")
	}
}

func TestCLIEngine_MissingBinary(t *testing.T) {
	e := NewCLIEngine("factcheck-no-such-tesseract")
	_, err := e.Recognize(context.Background(), []byte("x"), []string{"eng"})
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable, got %v", err)
	}
}

// fakeTesseract writes an executable shell script standing in for tesseract
func fakeTesseract(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	path := filepath.Join(t.TempDir(), "tesseract")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCLIEngine_Arguments(t *testing.T) {
	bin := fakeTesseract(t, `cat >/dev/null; echo "$@"`)
	out, err := NewCLIEngine(bin).Recognize(context.Background(), []byte("img"), []string{"vie", "eng"})
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if out != "stdin stdout -l vie+eng\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestCLIEngine_Failure(t *testing.T) {
	bin := fakeTesseract(t, `cat >/dev/null; echo "Error in pixReadMem" >&2; exit 1`)
	_, err := NewCLIEngine(bin).Recognize(context.Background(), []byte("img"), nil)

	var perr *ProcessingError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProcessingError, got %v", err)
	}
	if !strings.Contains(err.Error(), "Error in pixReadMem") {
		t.Errorf("expected stderr in message, got %q", err.Error())
	}
}

func TestUnavailableEngine(t *testing.T) {
	_, err := NewEngine(model.OCRConfig{Engine: "gosseract"})
	if err == nil {
		t.Skip("gosseract engine compiled in")
	}
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable, got %v", err)
	}

	ex := NewExtractor(UnavailableEngine(err), model.OCRConfig{}, nil)
	if _, err := ex.ExtractText(context.Background(), testImage(10, 10)); !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("expected ErrEngineUnavailable, got %v", err)
	}
}
