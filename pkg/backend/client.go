package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 4 * 1024

// Client is the HTTP implementation of Provider.
type Client struct {
	baseURL      string
	detectPath   string
	playlistPath string
	http         *http.Client
	logger       *slog.Logger
}

// Option is a functional option for configuring the client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for every call.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithDetectPath overrides the detect endpoint path.
func WithDetectPath(p string) Option {
	return func(c *Client) { c.detectPath = p }
}

// WithPlaylistPath overrides the playlist endpoint path.
func WithPlaylistPath(p string) Option {
	return func(c *Client) { c.playlistPath = p }
}

// NewClient creates a backend client for baseURL (e.g. "http://localhost:5000").
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("backend: parse base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend: base URL %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		detectPath:   DefaultDetectPath,
		playlistPath: DefaultPlaylistPath,
		http:         &http.Client{},
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "backend.client")
	return c, nil
}

// DetectEmotion posts the frame as multipart field "frame" named "frame.jpg".
func (c *Client) DetectEmotion(ctx context.Context, jpeg []byte) (string, error) {
	if len(jpeg) == 0 {
		return "", &BackendError{Op: OpDetect, Err: ErrEmptyFrame}
	}
	start := time.Now()

	body, contentType, err := buildFrameForm(jpeg)
	if err != nil {
		return "", &BackendError{Op: OpDetect, Err: fmt.Errorf("build form: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.detectPath, body)
	if err != nil {
		return "", &BackendError{Op: OpDetect, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &BackendError{Op: OpDetect, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", parseError(OpDetect, resp)
	}

	var result DetectResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &BackendError{Op: OpDetect, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if result.Emotion == nil {
		return "", &BackendError{Op: OpDetect, StatusCode: resp.StatusCode, Err: ErrNoEmotion}
	}

	c.logger.Debug("emotion detected",
		"emotion", *result.Emotion,
		"frame_bytes", len(jpeg),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return *result.Emotion, nil
}

// Playlist fetches the playlist for emotion. A null playlist is returned as empty.
// An empty emotion is still sent; the backend decides whether it is valid.
func (c *Client) Playlist(ctx context.Context, emotion string) ([]string, error) {
	start := time.Now()

	q := url.Values{}
	q.Set(EmotionParam, emotion)
	endpoint := c.baseURL + c.playlistPath + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &BackendError{Op: OpPlaylist, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &BackendError{Op: OpPlaylist, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseError(OpPlaylist, resp)
	}

	var result PlaylistResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &BackendError{Op: OpPlaylist, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if result.Playlist == nil {
		result.Playlist = []string{}
	}

	c.logger.Debug("playlist fetched",
		"emotion", emotion,
		"entries", len(result.Playlist),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return result.Playlist, nil
}

// Health checks that the backend answers on its root route.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return &BackendError{Op: OpHealth, Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &BackendError{Op: OpHealth, Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &BackendError{Op: OpHealth, StatusCode: resp.StatusCode}
	}
	return nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// buildFrameForm writes the multipart body with an image/jpeg part.
func buildFrameForm(jpeg []byte) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, FrameField, FrameFilename))
	h.Set("Content-Type", "image/jpeg")

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(jpeg); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// parseError reads an error response, preferring the backend's {"error": "..."} body.
func parseError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	message := strings.TrimSpace(string(body))
	var errResp ErrorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		message = errResp.Error
	}

	return &BackendError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Message:    message,
		Err:        fmt.Errorf("unexpected status %s", resp.Status),
	}
}

// Verify Client implements Provider at compile time.
var _ Provider = (*Client)(nil)
