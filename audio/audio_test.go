package audio_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/velutils/climb/audio"
	"github.com/velutils/climb/locomotion"
)

func TestGain(t *testing.T) {
	conf := audio.DefaultConfig()
	assert.Equal(t, conf.MinVolume, audio.Gain(conf, 0))
	assert.InDelta(t, 0.5, audio.Gain(conf, conf.FullVolumeSpeed/2), 1e-9)
	assert.Equal(t, 1.0, audio.Gain(conf, 100))

	conf.FullVolumeSpeed = 0
	assert.Equal(t, 1.0, audio.Gain(conf, 0.1))
}

func TestClick(t *testing.T) {
	conf := audio.DefaultConfig()
	samples := make([][2]float64, conf.SampleRate.N(time.Second))

	n, ok := audio.Click(conf, 4, 0.3, -0.6, 1).Stream(samples)
	require.True(t, ok)
	require.Equal(t, conf.SampleRate.N(conf.Duration), n)

	var left, right float64
	for _, s := range samples[:n] {
		require.LessOrEqual(t, math.Abs(s[0]), 1.0)
		left += math.Abs(s[0])
		right += math.Abs(s[1])
	}
	assert.Greater(t, left, 0.0)
	assert.Greater(t, left, right, "left hand sounds are panned left")

	// Slower touches are quieter.
	quiet := make([][2]float64, n)
	audio.Click(conf, 1, 0.3, -0.6, 1).Stream(quiet)
	var quietLeft float64
	for _, s := range quiet {
		quietLeft += math.Abs(s[0])
	}
	assert.InDelta(t, left/4, quietLeft, left*1e-6)
}

func TestFeedbackRender(t *testing.T) {
	conf := audio.DefaultConfig()
	now := float32(0)
	f := audio.NewFeedback(conf, func() float32 { return now })

	now = 0.1
	f.HandleTouchEnter(locomotion.TouchEvent{Side: locomotion.Left, Velocity: mgl32.Vec3{0, -2, 0}})
	f.HandleTouchExit(locomotion.TouchEvent{Side: locomotion.Left})
	now = 0.5
	f.HandleTouchEnter(locomotion.TouchEvent{
		Side:       locomotion.Right,
		Velocity:   mgl32.Vec3{0, -8, 0},
		Surface:    locomotion.Surface{Roughness: 0.9},
		HasSurface: true,
	})
	require.Equal(t, 2, f.Len())
	assert.Equal(t, []float64{0.5, 1}, f.Volumes())

	path := filepath.Join(t.TempDir(), "touch.wav")
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Render(file, time.Second))
	require.NoError(t, file.Close())
	assert.Zero(t, f.Len(), "rendering consumes the sounds")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 44)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, 44+conf.SampleRate.N(time.Second)*4, len(data))
}

func TestFeedbackStreamerTiming(t *testing.T) {
	conf := audio.DefaultConfig()
	f := audio.NewFeedback(conf, func() float32 { return 0.25 })
	f.HandleTouchEnter(locomotion.TouchEvent{Side: locomotion.Right, Velocity: mgl32.Vec3{4, 0, 0}})

	samples := make([][2]float64, conf.SampleRate.N(500*time.Millisecond))
	n, _ := f.Streamer(500 * time.Millisecond).Stream(samples)
	require.Equal(t, len(samples), n)

	start := conf.SampleRate.N(250 * time.Millisecond)
	for i := 0; i < start; i++ {
		require.Zero(t, samples[i][0], "silent before the touch at sample %d", i)
	}
	var after float64
	for _, s := range samples[start : start+100] {
		after += math.Abs(s[1])
	}
	assert.Greater(t, after, 0.0)
}
