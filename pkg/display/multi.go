package display

// Multi fans every update out to several renderers in order.
type Multi []Renderer

// RenderEmotion implements Renderer.
func (m Multi) RenderEmotion(emotion string) {
	for _, r := range m {
		r.RenderEmotion(emotion)
	}
}

// RenderPlaylist implements Renderer.
func (m Multi) RenderPlaylist(urls []string) {
	for _, r := range m {
		r.RenderPlaylist(urls)
	}
}

// RenderError implements Renderer.
func (m Multi) RenderError(msg string) {
	for _, r := range m {
		r.RenderError(msg)
	}
}

// PreviewFrame forwards the frame to members that implement PreviewSink.
func (m Multi) PreviewFrame(jpeg []byte) {
	for _, r := range m {
		if p, ok := r.(PreviewSink); ok {
			p.PreviewFrame(jpeg)
		}
	}
}

var (
	_ Renderer    = Multi(nil)
	_ PreviewSink = Multi(nil)
)
