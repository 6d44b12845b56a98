package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Config configures the touch sounds.
type Config struct {
	SampleRate beep.SampleRate
	// Duration is the length of a touch sound.
	Duration time.Duration
	// Frequency is the pitch of the tone of a touch sound.
	Frequency float64
	// FullVolumeSpeed is the hand speed at which a touch sound plays at full volume. Slower
	// touches are quieter, down to MinVolume.
	FullVolumeSpeed float64
	MinVolume       float64
	// Spread is how far the sounds of the left and right hand are panned apart, in [0, 1].
	Spread float64
}

// DefaultConfig returns the Config of the default touch sounds.
func DefaultConfig() Config {
	return Config{
		SampleRate:      beep.SampleRate(44100),
		Duration:        80 * time.Millisecond,
		Frequency:       190,
		FullVolumeSpeed: 4,
		MinVolume:       0.05,
		Spread:          0.6,
	}
}

// clickGenerator generates a tap: a short tone mixed with noise, decaying exponentially. The
// noise share follows the roughness of the touched surface.
type clickGenerator struct {
	sr        beep.SampleRate
	pos       int
	freq      float64
	roughness float64
	seed      int64
}

func newClickGenerator(sr beep.SampleRate, freq, roughness float64, seed int64) *clickGenerator {
	return &clickGenerator{sr: sr, freq: freq, roughness: math.Max(0, math.Min(1, roughness)), seed: seed}
}

func (g *clickGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		envelope := math.Exp(-t * 60)

		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1
		tone := math.Sin(2 * math.Pi * g.freq * t)

		sample := envelope * ((1-g.roughness)*tone + g.roughness*noise)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *clickGenerator) Err() error {
	return nil
}

// Click returns the sound of a hand touching a surface of the roughness passed at the speed
// passed, panned by pan in [-1, 1].
func Click(conf Config, speed, roughness, pan float64, seed int64) beep.Streamer {
	s := beep.Take(conf.SampleRate.N(conf.Duration), newClickGenerator(conf.SampleRate, conf.Frequency, roughness, seed))
	return &effects.Pan{Streamer: newVolume(s, Gain(conf, speed)), Pan: pan}
}

// Gain returns the volume of a touch at the speed passed, in [MinVolume, 1].
func Gain(conf Config, speed float64) float64 {
	if !(conf.FullVolumeSpeed > 0) {
		return 1
	}
	return math.Max(conf.MinVolume, math.Min(1, speed/conf.FullVolumeSpeed))
}

// math.Log2(0) is -Inf, so a volume of 0 is made silent instead.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
