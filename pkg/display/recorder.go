package display

import (
	"sync"
	"time"
)

// Recorder is an in-memory Renderer that keeps the current state and counts updates.
type Recorder struct {
	mu    sync.Mutex
	state State

	emotionRenders  int
	playlistRenders int
	errors          []string
	previews        int
	onUpdate        func(State)
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{state: State{Playlist: []string{}}}
}

// OnUpdate registers a callback invoked with the new state after every update.
func (r *Recorder) OnUpdate(fn func(State)) {
	r.mu.Lock()
	r.onUpdate = fn
	r.mu.Unlock()
}

// RenderEmotion implements Renderer.
func (r *Recorder) RenderEmotion(emotion string) {
	r.update(func(s *State) {
		s.Emotion = emotion
		s.Label = FormatEmotion(emotion)
		r.emotionRenders++
	})
}

// RenderPlaylist implements Renderer.
func (r *Recorder) RenderPlaylist(urls []string) {
	r.update(func(s *State) {
		s.Playlist = CopyPlaylist(urls)
		r.playlistRenders++
	})
}

// RenderError implements Renderer.
func (r *Recorder) RenderError(msg string) {
	r.update(func(s *State) {
		s.Error = msg
		r.errors = append(r.errors, msg)
	})
}

// PreviewFrame implements PreviewSink.
func (r *Recorder) PreviewFrame(jpeg []byte) {
	r.mu.Lock()
	r.previews++
	r.mu.Unlock()
}

// State returns a copy of the current state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.state
	s.Playlist = CopyPlaylist(r.state.Playlist)
	return s
}

// Counts returns how many label, playlist and preview updates were applied.
func (r *Recorder) Counts() (emotions, playlists, previews int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.emotionRenders, r.playlistRenders, r.previews
}

// Errors returns all rendered error messages.
func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.errors))
	copy(out, r.errors)
	return out
}

func (r *Recorder) update(apply func(*State)) {
	r.mu.Lock()
	apply(&r.state)
	r.state.UpdatedAt = time.Now()
	s := r.state
	s.Playlist = CopyPlaylist(r.state.Playlist)
	fn := r.onUpdate
	r.mu.Unlock()

	if fn != nil {
		fn(s)
	}
}

var (
	_ Renderer    = (*Recorder)(nil)
	_ PreviewSink = (*Recorder)(nil)
)
