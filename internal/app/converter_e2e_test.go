package app

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"picpp/internal/domain"
	"picpp/internal/infra/codec"
	osfs "picpp/internal/infra/fs"
)

func TestConverterEndToEndWEBP(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.jpg")
	writeImage(t, a, "png")
	writeImage(t, b, "jpeg")
	before, _ := os.ReadFile(a)

	c := &Converter{FS: osfs.OSFS{}, Codec: codec.Codec{}}
	job := mustJob(t, []string{a, b}, domain.FormatWEBP, domain.ModeSaveTo, outDir, 80)
	summary, err := c.Run(context.Background(), job, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Succeeded != 2 || summary.Failed != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	for _, name := range []string{"a.webp", "b.webp"} {
		f, err := os.Open(filepath.Join(outDir, name))
		if err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
		_, kind, err := image.Decode(f)
		f.Close()
		if err != nil || kind != "webp" {
			t.Fatalf("%s: expected webp output, got %q (%v)", name, kind, err)
		}
	}

	after, _ := os.ReadFile(a)
	if !bytes.Equal(before, after) {
		t.Fatalf("input changed in save-to mode")
	}
}

func TestConverterEndToEndOverwriteJPEG(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "alpha.png")
	bad := filepath.Join(dir, "broken.png")
	writeImage(t, good, "png")
	if err := os.WriteFile(bad, []byte("not really a png"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c := &Converter{FS: osfs.OSFS{}, Codec: codec.Codec{}}
	job := mustJob(t, []string{bad, good}, domain.FormatJPEG, domain.ModeOverwrite, "", domain.MinQuality)
	summary, err := c.Run(context.Background(), job, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Succeeded != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	if _, err := os.Stat(good); !os.IsNotExist(err) {
		t.Fatalf("expected original png to be removed, stat err=%v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "alpha.jpg")); err != nil {
		t.Fatalf("expected alpha.jpg: %v", err)
	}
	if _, err := os.Stat(bad); err != nil {
		t.Fatalf("failed input must stay in place: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, domain.ErrorDirName, "error_broken.png")); err != nil {
		t.Fatalf("expected backup copy: %v", err)
	}
}

// writeImage writes a small image; PNGs get a transparent half.
func writeImage(t *testing.T, path, kind string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			alpha := uint8(0xff)
			if kind == "png" && x >= 4 {
				alpha = 0
			}
			img.Set(x, y, color.NRGBA{R: uint8(x * 30), G: uint8(y * 30), B: 0x80, A: alpha})
		}
	}

	var buf bytes.Buffer
	var err error
	if kind == "png" {
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}
