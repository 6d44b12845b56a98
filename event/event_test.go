package event_test

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/velutils/climb/cerror"
	"github.com/velutils/climb/event"
	"github.com/velutils/climb/locomotion"
)

func sampleEvents() []event.Event {
	reset := event.ResetEvent{Position: mgl32.Vec3{1, 2, 3}, Rotation: mgl32.QuatRotate(0.5, mgl32.Vec3{0, 1, 0})}
	tick := event.TickEvent{DT: 1.0 / 60, Head: locomotion.Pose{Position: mgl32.Vec3{0, 1.5, 0}, Rotation: mgl32.QuatIdent()}}
	tick.Hands[locomotion.Left] = locomotion.Pose{Position: mgl32.Vec3{-0.3, 1, 0.2}, Rotation: mgl32.QuatRotate(1, mgl32.Vec3{1, 0, 0})}
	tick.Hands[locomotion.Right] = locomotion.Pose{Position: mgl32.Vec3{0.3, 1, 0.2}, Rotation: mgl32.QuatIdent()}
	tick.EvTime = 1
	turn := event.TurnEvent{Degrees: -45}
	turn.EvTime = 1
	disable := event.DisableMovementEvent{Disable: true}
	disable.EvTime = 2
	return []event.Event{reset, tick, turn, disable}
}

func TestEncodeDecode(t *testing.T) {
	events := sampleEvents()
	decoded, err := event.DecodeEvents(event.Encode(events))
	require.NoError(t, err)
	assert.Equal(t, events, decoded)

	empty, err := event.DecodeEvents(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDecodeTruncated(t *testing.T) {
	dat := event.Encode(sampleEvents())
	for _, n := range []int{1, 9, 20, len(dat) - 1} {
		events, err := event.DecodeEvents(dat[:n])
		require.Error(t, err, "decoding %d bytes", n)
		assert.ErrorIs(t, err, cerror.ErrCorruptRecording)
		assert.Less(t, len(events), 4)
	}
}

func TestDecodeUnknownEvent(t *testing.T) {
	dat := append(event.Encode(sampleEvents()[:1]), 0xff, 0, 0, 0, 0, 0, 0, 0, 0)
	events, err := event.DecodeEvents(dat)
	assert.ErrorIs(t, err, cerror.ErrCorruptRecording)
	assert.Len(t, events, 1)
}

func TestDecodeTick(t *testing.T) {
	tick := sampleEvents()[1].(event.TickEvent)
	ev, err := event.DecodeEvent(bytes.NewBuffer(tick.Encode()))
	require.NoError(t, err)

	// The decoded fields end up in the returned event, not only in a copy of it.
	got, ok := ev.(event.TickEvent)
	require.True(t, ok, "got %T", ev)
	assert.Equal(t, tick.DT, got.DT)
	assert.Equal(t, tick.Head, got.Head)
	assert.Equal(t, tick.Hands, got.Hands)
	assert.Equal(t, int64(1), got.Time())

	_, err = event.DecodeEvent(bytes.NewBuffer(tick.Encode()[:30]))
	assert.Error(t, err)
}
