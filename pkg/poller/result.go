package poller

import (
	"sync"
	"sync/atomic"
	"time"
)

// Outcome is how a capture cycle ended.
type Outcome string

const (
	OutcomeRendered       Outcome = "rendered"
	OutcomeNotReady       Outcome = "not_ready"
	OutcomeSampleFailed   Outcome = "sample_failed"
	OutcomeEncodeFailed   Outcome = "encode_failed"
	OutcomeDetectFailed   Outcome = "detect_failed"
	OutcomePlaylistFailed Outcome = "playlist_failed"
	OutcomeSuperseded     Outcome = "superseded"
	OutcomeCancelled      Outcome = "cancelled"
)

// CycleResult describes one sample -> encode -> submit -> fetch -> render pass.
type CycleResult struct {
	ID         string        `json:"id"`
	Generation uint64        `json:"generation"`
	Outcome    Outcome       `json:"outcome"`
	Emotion    string        `json:"emotion,omitempty"`
	Playlist   []string      `json:"playlist,omitempty"`
	FrameBytes int           `json:"frame_bytes,omitempty"`
	Err        error         `json:"-"`
	Duration   time.Duration `json:"duration"`
}

// Stats is a snapshot of poller counters.
type Stats struct {
	CyclesStarted    uint64    `json:"cycles_started"`
	FramesSkipped    uint64    `json:"frames_skipped"`
	FramesSubmitted  uint64    `json:"frames_submitted"`
	SampleFailures   uint64    `json:"sample_failures"`
	DetectFailures   uint64    `json:"detect_failures"`
	PlaylistFailures uint64    `json:"playlist_failures"`
	Renders          uint64    `json:"renders"`
	Superseded       uint64    `json:"superseded"`
	LastEmotion      string    `json:"last_emotion,omitempty"`
	LastOutcome      Outcome   `json:"last_outcome,omitempty"`
	LastCycleAt      time.Time `json:"last_cycle_at,omitempty"`
}

type counters struct {
	cyclesStarted    atomic.Uint64
	framesSkipped    atomic.Uint64
	framesSubmitted  atomic.Uint64
	sampleFailures   atomic.Uint64
	detectFailures   atomic.Uint64
	playlistFailures atomic.Uint64
	renders          atomic.Uint64
	superseded       atomic.Uint64

	mu          sync.Mutex
	lastEmotion string
	lastOutcome Outcome
	lastCycleAt time.Time
}

func (c *counters) finish(res CycleResult) {
	switch res.Outcome {
	case OutcomeNotReady:
		c.framesSkipped.Add(1)
	case OutcomeSampleFailed, OutcomeEncodeFailed:
		c.sampleFailures.Add(1)
	case OutcomeDetectFailed:
		c.detectFailures.Add(1)
	case OutcomePlaylistFailed:
		c.playlistFailures.Add(1)
	case OutcomeRendered:
		c.renders.Add(1)
	case OutcomeSuperseded:
		c.superseded.Add(1)
	}

	c.mu.Lock()
	c.lastOutcome = res.Outcome
	c.lastCycleAt = time.Now()
	if res.Emotion != "" && res.Outcome != OutcomeSuperseded {
		c.lastEmotion = res.Emotion
	}
	c.mu.Unlock()
}

func (c *counters) snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		CyclesStarted:    c.cyclesStarted.Load(),
		FramesSkipped:    c.framesSkipped.Load(),
		FramesSubmitted:  c.framesSubmitted.Load(),
		SampleFailures:   c.sampleFailures.Load(),
		DetectFailures:   c.detectFailures.Load(),
		PlaylistFailures: c.playlistFailures.Load(),
		Renders:          c.renders.Load(),
		Superseded:       c.superseded.Load(),
		LastEmotion:      c.lastEmotion,
		LastOutcome:      c.lastOutcome,
		LastCycleAt:      c.lastCycleAt,
	}
}
