// Package display renders detection results: an emotion label and a playlist of links.
package display

import "time"

// LabelPrefix precedes the emotion in the rendered label.
const LabelPrefix = "Detected Emotion: "

// Renderer updates the two display regions. Implementations must be safe for
// concurrent use.
type Renderer interface {
	// RenderEmotion replaces the label with the formatted emotion.
	RenderEmotion(emotion string)

	// RenderPlaylist clears the link list and rebuilds it from urls.
	RenderPlaylist(urls []string)

	// RenderError shows a user-visible problem (e.g. no camera access).
	RenderError(msg string)
}

// PreviewSink is implemented by renderers that can show the live camera picture.
type PreviewSink interface {
	PreviewFrame(jpeg []byte)
}

// State is a snapshot of what a renderer currently shows.
type State struct {
	Emotion   string    `json:"emotion"`
	Label     string    `json:"label"`
	Playlist  []string  `json:"playlist"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FormatEmotion returns the label text for emotion.
func FormatEmotion(emotion string) string {
	return LabelPrefix + emotion
}

// Render applies a full result: label first, then the playlist.
func Render(r Renderer, emotion string, playlist []string) {
	r.RenderEmotion(emotion)
	r.RenderPlaylist(playlist)
}

// CopyPlaylist returns a non-nil copy so callers never share backing arrays.
func CopyPlaylist(urls []string) []string {
	out := make([]string, len(urls))
	copy(out, urls)
	return out
}
