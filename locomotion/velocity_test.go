package locomotion

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/velutils/climb/game"
)

func mean(vs []mgl32.Vec3) mgl32.Vec3 {
	var sum mgl32.Vec3
	for _, v := range vs {
		sum = sum.Add(v)
	}
	return sum.Mul(1 / float32(len(vs)))
}

func TestVelocityHistoryAverage(t *testing.T) {
	h := NewVelocityHistory(6)
	var pushed []mgl32.Vec3
	for i := 0; i < 20; i++ {
		v := mgl32.Vec3{float32(i), float32(i%3) - 1, -0.5 * float32(i)}
		h.Push(v)
		pushed = append(pushed, v)

		// The buffer starts zero filled, so until it is full the average includes the zeros.
		window := make([]mgl32.Vec3, 6)
		n := len(pushed)
		for j := 0; j < 6 && j < n; j++ {
			window[5-j] = pushed[n-1-j]
		}
		require.True(t, game.Vec3ApproxEq(mean(window), h.Average(), 1e-3), "push %d: expected %v, got %v", i, mean(window), h.Average())
		assert.Equal(t, window, h.Samples())
		assert.Equal(t, v, h.Samples()[5])
	}
	assert.Equal(t, 6, h.Len())
	assert.Equal(t, 6, h.Capacity())
}

func TestVelocityHistoryRotate(t *testing.T) {
	h := NewVelocityHistory(4)
	h.Push(mgl32.Vec3{1, 0, 0})
	h.Push(mgl32.Vec3{0, 2, 1})
	h.Push(mgl32.Vec3{3, 0, -1})

	q := game.YawRotation(90)
	before := h.Samples()
	avg := h.Average()
	h.Rotate(q)

	for i, s := range h.Samples() {
		assert.True(t, game.Vec3ApproxEq(q.Rotate(before[i]), s, 1e-5))
	}
	assert.True(t, game.Vec3ApproxEq(q.Rotate(avg), h.Average(), 1e-5))
	assert.True(t, game.Vec3ApproxEq(mean(h.Samples()), h.Average(), 1e-5))

	// The average keeps being maintained incrementally after a rotation.
	h.Push(mgl32.Vec3{0, 0, 4})
	assert.True(t, game.Vec3ApproxEq(mean(h.Samples()), h.Average(), 1e-5))
}

func TestVelocityHistoryReset(t *testing.T) {
	h := NewVelocityHistory(3)
	h.Push(mgl32.Vec3{1, 1, 1})
	h.Reset()
	assert.Equal(t, mgl32.Vec3{}, h.Average())
	assert.Equal(t, make([]mgl32.Vec3, 3), h.Samples())
	assert.Equal(t, 0, h.Len())
}

func TestVelocityHistoryAveragesOverCapacity(t *testing.T) {
	h := NewVelocityHistory(6)
	h.Push(mgl32.Vec3{6, 0, 0})
	h.Push(mgl32.Vec3{6, 0, 0})
	assert.Equal(t, 2, h.Len())
	assert.InDelta(t, 2, h.Average().X(), 1e-5, "two samples of 6 over a capacity of 6")
}

func TestVelocityHistoryCapacity(t *testing.T) {
	assert.Panics(t, func() {
		NewVelocityHistory(0)
	})
}
