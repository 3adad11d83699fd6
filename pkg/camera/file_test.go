package camera

import (
	"context"
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, SolidImage(w, h, color.RGBA{0, 128, 255, 255})); err != nil {
		t.Fatal(err)
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 20, 10)
	writePNG(t, filepath.Join(dir, "a.png"), 40, 30)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewFileSource(dir)
	ctx := context.Background()

	if _, err := src.Sample(ctx); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Sample before Open = %v, want ErrNotOpen", err)
	}

	if err := src.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	wantSizes := [][2]int{{40, 30}, {20, 10}, {40, 30}}
	for i, want := range wantSizes {
		f, err := src.Sample(ctx)
		if err != nil {
			t.Fatalf("Sample %d failed: %v", i, err)
		}
		w, h := f.Size()
		if w != want[0] || h != want[1] {
			t.Errorf("sample %d size = %dx%d, want %dx%d", i, w, h, want[0], want[1])
		}
		if f.Seq != uint64(i+1) {
			t.Errorf("sample %d Seq = %d, want %d", i, f.Seq, i+1)
		}
	}

	src.Close()
	if _, err := src.Sample(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("Sample after Close = %v, want ErrClosed", err)
	}
}

func TestFileSourceOpenErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing directory", func(t *testing.T) {
		err := NewFileSource(filepath.Join(t.TempDir(), "nope")).Open(ctx)
		if !IsMediaAccess(err) {
			t.Errorf("expected MediaAccessError, got %v", err)
		}
	})

	t.Run("no images", func(t *testing.T) {
		err := NewFileSource(t.TempDir()).Open(ctx)
		if !IsMediaAccess(err) || !errors.Is(err, ErrNoImages) {
			t.Errorf("expected MediaAccessError wrapping ErrNoImages, got %v", err)
		}
	})
}
