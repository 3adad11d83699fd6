package camera

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/teslashibe/go-moodcam/pkg/frame"
)

// FileSource replays still images from a directory in name order, looping forever.
// It stands in for a webcam on headless machines.
type FileSource struct {
	dir string

	mu     sync.Mutex
	files  []string
	next   int
	seq    uint64
	closed bool
}

// NewFileSource creates a source reading .jpg, .jpeg and .png files from dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Open lists the directory. A missing directory or one without images is a MediaAccessError.
func (s *FileSource) Open(ctx context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return &MediaAccessError{Device: s.dir, Err: err}
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			files = append(files, filepath.Join(s.dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return &MediaAccessError{Device: s.dir, Err: ErrNoImages}
	}
	sort.Strings(files)

	s.mu.Lock()
	s.files = files
	s.next = 0
	s.closed = false
	s.mu.Unlock()
	return nil
}

// Sample decodes the next image in the directory.
func (s *FileSource) Sample(ctx context.Context) (frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return frame.Frame{}, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return frame.Frame{}, ErrClosed
	}
	if len(s.files) == 0 {
		s.mu.Unlock()
		return frame.Frame{}, ErrNotOpen
	}
	path := s.files[s.next]
	s.next = (s.next + 1) % len(s.files)
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return frame.Frame{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return frame.Frame{}, fmt.Errorf("decode %s: %w", path, err)
	}

	fr := frame.Frame{Image: img, Seq: seq, CapturedAt: time.Now()}
	if fr.Empty() {
		return frame.Frame{}, ErrNotReady
	}
	return fr, nil
}

// Close implements Source.
func (s *FileSource) Close() error {
	s.mu.Lock()
	s.closed = true
	s.files = nil
	s.mu.Unlock()
	return nil
}

var _ Source = (*FileSource)(nil)
