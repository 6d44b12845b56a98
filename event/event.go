package event

import (
	"bytes"
	"encoding/binary"

	"github.com/velutils/climb/cerror"
	"github.com/velutils/climb/internal"
)

const EventsVersion = "1"

// Event is an input to a controller that is recorded so that a session can be replayed.
type Event interface {
	ID() byte
	Encode() []byte

	// Time returns the tick the event happened in.
	Time() int64
}

type NopEvent struct {
	EvTime int64
}

func (n NopEvent) Time() int64 {
	return n.EvTime
}

func WriteEventHeader(ev Event, buf *bytes.Buffer) {
	buf.WriteByte(ev.ID())
	internal.WriteLInt64(buf, ev.Time())
}

func DecodeEvents(dat []byte) ([]Event, error) {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	buf.Write(dat)
	defer internal.BufferPool.Put(buf)

	events := []Event{}
	for buf.Len() > 0 {
		ev, err := DecodeEvent(buf)
		if err != nil {
			return events, cerror.Kind(cerror.ErrCorruptRecording, "error decoding event %d: %v", len(events), err)
		}

		events = append(events, ev)
	}

	return events, nil
}

func DecodeEvent(buf *bytes.Buffer) (Event, error) {
	header, err := internal.Next(buf, 9)
	if err != nil {
		return nil, err
	}
	id := header[0]
	t := int64(binary.LittleEndian.Uint64(header[1:]))

	switch id {
	case EventIDTick:
		ev := TickEvent{}
		ev.EvTime = t
		if err := ev.decode(buf); err != nil {
			return nil, err
		}
		return ev, nil
	case EventIDTurn:
		ev := TurnEvent{}
		ev.EvTime = t
		b, err := internal.Next(buf, 4)
		if err != nil {
			return nil, err
		}
		ev.Degrees = internal.LFloat32(b)
		return ev, nil
	case EventIDDisableMovement:
		ev := DisableMovementEvent{}
		ev.EvTime = t
		b, err := buf.ReadByte()
		if err != nil {
			return nil, cerror.New("error reading flag from DisableMovementEvent: %v", err)
		}
		ev.Disable = b == 1
		return ev, nil
	case EventIDReset:
		ev := ResetEvent{}
		ev.EvTime = t
		if ev.Position, err = internal.ReadVec3(buf); err != nil {
			return nil, err
		}
		if ev.Rotation, err = internal.ReadQuat(buf); err != nil {
			return nil, err
		}
		return ev, nil
	default:
		return nil, cerror.New("unknown event: %d", id)
	}
}

// Encode concatenates the encoding of every event passed.
func Encode(events []Event) []byte {
	var out []byte
	for _, ev := range events {
		out = append(out, ev.Encode()...)
	}
	return out
}

const (
	_ = iota
	EventIDTick
	EventIDTurn
	EventIDDisableMovement
	EventIDReset
)
