package locomotion

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/velutils/climb/assert"
)

// VelocityHistory is a fixed-capacity ring buffer of body velocities with a running average.
// The buffer starts zero-filled and Average always divides by the capacity, never by the number
// of samples pushed: after two pushes into a history of six, the average is their sum over six.
// A launch therefore needs the body to keep moving for a few ticks before the average passes the
// velocity limit. The average is maintained by subtracting the evicted sample and adding the new
// one.
type VelocityHistory struct {
	samples []mgl32.Vec3
	index   int
	count   int
	average mgl32.Vec3
}

// NewVelocityHistory returns a zero-filled VelocityHistory holding capacity samples.
func NewVelocityHistory(capacity int) *VelocityHistory {
	assert.IsTrue(capacity > 0, "velocity history capacity must be positive, got %d", capacity)
	return &VelocityHistory{samples: make([]mgl32.Vec3, capacity)}
}

// Push stores v, evicting the oldest sample.
func (h *VelocityHistory) Push(v mgl32.Vec3) {
	h.index = (h.index + 1) % len(h.samples)
	oldest := h.samples[h.index]
	h.average = h.average.Add(v.Sub(oldest).Mul(1 / float32(len(h.samples))))
	h.samples[h.index] = v
	if h.count < len(h.samples) {
		h.count++
	}
}

// Average returns the running average.
func (h *VelocityHistory) Average() mgl32.Vec3 {
	return h.average
}

// Len returns the number of samples pushed, up to the capacity.
func (h *VelocityHistory) Len() int {
	return h.count
}

// Capacity returns the number of samples the history holds.
func (h *VelocityHistory) Capacity() int {
	return len(h.samples)
}

// Samples returns the full buffer, zero-filled slots included, oldest first.
func (h *VelocityHistory) Samples() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(h.samples))
	for i := range out {
		out[i] = h.samples[(h.index+1+i)%len(h.samples)]
	}
	return out
}

// Rotate rotates every sample and the running average by q.
func (h *VelocityHistory) Rotate(q mgl32.Quat) {
	h.average = q.Rotate(h.average)
	for i, v := range h.samples {
		h.samples[i] = q.Rotate(v)
	}
}

// Reset zeroes the buffer and the average.
func (h *VelocityHistory) Reset() {
	clear(h.samples)
	h.index, h.count = 0, 0
	h.average = mgl32.Vec3{}
}
