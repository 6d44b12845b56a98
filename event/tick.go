package event

import (
	"bytes"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/velutils/climb/internal"
	"github.com/velutils/climb/locomotion"
)

// TickEvent holds the tracked poses a controller was ticked with.
type TickEvent struct {
	NopEvent

	DT    float32
	Head  locomotion.Pose
	Hands [2]locomotion.Pose
}

func (TickEvent) ID() byte {
	return EventIDTick
}

func (ev TickEvent) Encode() []byte {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer internal.BufferPool.Put(buf)

	WriteEventHeader(ev, buf)
	internal.WriteLFloat32(buf, ev.DT)
	for _, p := range [...]locomotion.Pose{ev.Head, ev.Hands[locomotion.Left], ev.Hands[locomotion.Right]} {
		internal.WriteVec3(buf, p.Position)
		internal.WriteQuat(buf, p.Rotation)
	}

	return slices.Clone(buf.Bytes())
}

func (ev *TickEvent) decode(buf *bytes.Buffer) error {
	b, err := internal.Next(buf, 4)
	if err != nil {
		return err
	}
	ev.DT = internal.LFloat32(b)
	for _, p := range [...]*locomotion.Pose{&ev.Head, &ev.Hands[locomotion.Left], &ev.Hands[locomotion.Right]} {
		if p.Position, err = internal.ReadVec3(buf); err != nil {
			return err
		}
		if p.Rotation, err = internal.ReadQuat(buf); err != nil {
			return err
		}
	}
	return nil
}

// TurnEvent is a snap or smooth turn of the rig.
type TurnEvent struct {
	NopEvent

	Degrees float32
}

func (TurnEvent) ID() byte {
	return EventIDTurn
}

func (ev TurnEvent) Encode() []byte {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer internal.BufferPool.Put(buf)

	WriteEventHeader(ev, buf)
	internal.WriteLFloat32(buf, ev.Degrees)
	return slices.Clone(buf.Bytes())
}

// DisableMovementEvent toggles whether launches are applied.
type DisableMovementEvent struct {
	NopEvent

	Disable bool
}

func (DisableMovementEvent) ID() byte {
	return EventIDDisableMovement
}

func (ev DisableMovementEvent) Encode() []byte {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer internal.BufferPool.Put(buf)

	WriteEventHeader(ev, buf)
	if ev.Disable {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	return slices.Clone(buf.Bytes())
}

// ResetEvent teleports the body and resets the controller.
type ResetEvent struct {
	NopEvent

	Position mgl32.Vec3
	Rotation mgl32.Quat
}

func (ResetEvent) ID() byte {
	return EventIDReset
}

func (ev ResetEvent) Encode() []byte {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer internal.BufferPool.Put(buf)

	WriteEventHeader(ev, buf)
	internal.WriteVec3(buf, ev.Position)
	internal.WriteQuat(buf, ev.Rotation)
	return slices.Clone(buf.Bytes())
}
