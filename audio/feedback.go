package audio

import (
	"fmt"
	"io"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/sasha-s/go-deadlock"
	"github.com/velutils/climb/locomotion"
)

type cue struct {
	at     int
	sound  beep.Streamer
	volume float64
}

// Feedback is a locomotion.Handler that schedules a touch sound for every touch-enter, at the time
// returned by its clock. The sounds can be mixed into one stream or rendered to a WAV file.
type Feedback struct {
	conf  Config
	clock func() float32

	mu   deadlock.Mutex
	cues []cue
}

// NewFeedback returns a Feedback scheduling sounds at clock(), in seconds. Rig.Now is a suitable
// clock.
func NewFeedback(conf Config, clock func() float32) *Feedback {
	return &Feedback{conf: conf, clock: clock}
}

func (f *Feedback) HandleTouchEnter(e locomotion.TouchEvent) {
	speed := float64(e.Velocity.Len())
	var roughness float64
	if e.HasSurface {
		roughness = float64(e.Surface.Roughness)
	}
	pan := -f.conf.Spread
	if e.Side.IsRight() {
		pan = f.conf.Spread
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	at := f.conf.SampleRate.N(time.Duration(float64(f.clock()) * float64(time.Second)))
	f.cues = append(f.cues, cue{
		at:     at,
		sound:  Click(f.conf, speed, roughness, pan, int64(len(f.cues))+1),
		volume: Gain(f.conf, speed),
	})
}

// HandleTouchExit does nothing: only touching a surface makes a sound.
func (f *Feedback) HandleTouchExit(locomotion.TouchEvent) {}

// Len returns the number of sounds scheduled.
func (f *Feedback) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cues)
}

// Volumes returns the volume of every scheduled sound, in order.
func (f *Feedback) Volumes() []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := make([]float64, len(f.cues))
	for i, c := range f.cues {
		v[i] = c.volume
	}
	return v
}

// Streamer mixes all scheduled sounds into a stream of the length passed. Sounds are consumed:
// each can only be streamed once.
func (f *Feedback) Streamer(length time.Duration) beep.Streamer {
	f.mu.Lock()
	defer f.mu.Unlock()

	mixer := &beep.Mixer{}
	for _, c := range f.cues {
		mixer.Add(beep.Seq(beep.Silence(c.at), c.sound))
	}
	f.cues = nil
	return beep.Take(f.conf.SampleRate.N(length), mixer)
}

// Render writes all scheduled sounds, mixed into a stereo stream of the length passed, to w as a
// 16-bit WAV file.
func (f *Feedback) Render(w io.WriteSeeker, length time.Duration) error {
	format := beep.Format{SampleRate: f.conf.SampleRate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(w, f.Streamer(length), format); err != nil {
		return fmt.Errorf("encode touch sounds: %w", err)
	}
	return nil
}
