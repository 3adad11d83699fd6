// Package backend talks to the emotion-detection backend: one multipart upload
// per frame, then a playlist lookup for the detected emotion.
package backend

import "context"

// Wire constants of the backend protocol.
const (
	DefaultDetectPath   = "/detect_emotion"
	DefaultPlaylistPath = "/get_playlist"
	FrameField          = "frame"
	FrameFilename       = "frame.jpg"
	EmotionParam        = "emotion"
)

// Provider is the emotion backend as seen by the capture loop.
type Provider interface {
	// DetectEmotion uploads a JPEG frame and returns the detected label.
	DetectEmotion(ctx context.Context, jpeg []byte) (string, error)

	// Playlist returns the ordered playlist URLs for an emotion label.
	Playlist(ctx context.Context, emotion string) ([]string, error)
}

// DetectResponse is the body of a successful detect call.
// Emotion is a pointer so a null or missing field is distinguishable from "".
type DetectResponse struct {
	Emotion *string `json:"emotion"`
}

// PlaylistResponse is the body of a successful playlist call.
type PlaylistResponse struct {
	Playlist []string `json:"playlist"`
}

// ErrorResponse is the error body the backend returns with 4xx statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}
