package display

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Terminal prints results to a writer, one block per update.
type Terminal struct {
	w  io.Writer
	mu sync.Mutex

	label *color.Color
	link  *color.Color
	fail  *color.Color
	muted *color.Color
}

// NewTerminal creates a terminal renderer writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{
		w:     w,
		label: color.New(color.FgGreen, color.Bold),
		link:  color.New(color.FgCyan, color.Underline),
		fail:  color.New(color.FgRed, color.Bold),
		muted: color.New(color.FgHiBlack),
	}
}

// RenderEmotion implements Renderer.
func (t *Terminal) RenderEmotion(emotion string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.label.Fprintln(t.w, FormatEmotion(emotion))
}

// RenderPlaylist implements Renderer.
func (t *Terminal) RenderPlaylist(urls []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(urls) == 0 {
		t.muted.Fprintln(t.w, "  (no playlist)")
		return
	}
	for i, u := range urls {
		fmt.Fprintf(t.w, "  %2d. ", i+1)
		t.link.Fprintln(t.w, u)
	}
}

// RenderError implements Renderer.
func (t *Terminal) RenderError(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fail.Fprintln(t.w, "✖ "+msg)
}

var _ Renderer = (*Terminal)(nil)
