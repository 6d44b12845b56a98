package session

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/velutils/climb/cerror"
	"github.com/velutils/climb/event"
	"github.com/velutils/climb/locomotion"
	"github.com/zeebo/xxh3"
)

const CurrentRecordingVer = "1"

// headerLines is the number of text lines preceding the encoded events of a recording file.
const headerLines = 5

// Recording holds the inputs of a run of a rig, in the order they were passed to it.
type Recording struct {
	Version string
	ID      uuid.UUID
	// Name is the name of the scenario that was recorded.
	Name string

	Events []event.Event
}

// Recorder builds a Recording from the inputs passed to a rig. It implements simulation.Recorder.
type Recorder struct {
	rec *Recording
}

// NewRecorder returns a Recorder writing to a new Recording with a random ID.
func NewRecorder(name string) *Recorder {
	return &Recorder{rec: &Recording{
		Version: CurrentRecordingVer,
		ID:      uuid.New(),
		Name:    name,
	}}
}

// Recording returns the Recording built so far.
func (r *Recorder) Recording() *Recording {
	return r.rec
}

func (r *Recorder) RecordTick(tick int64, dt float32, head, left, right locomotion.Pose) {
	ev := event.TickEvent{DT: dt, Head: head}
	ev.EvTime = tick
	ev.Hands[locomotion.Left] = left
	ev.Hands[locomotion.Right] = right
	r.rec.Events = append(r.rec.Events, ev)
}

func (r *Recorder) RecordTurn(tick int64, degrees float32) {
	ev := event.TurnEvent{Degrees: degrees}
	ev.EvTime = tick
	r.rec.Events = append(r.rec.Events, ev)
}

func (r *Recorder) RecordDisable(tick int64, disable bool) {
	ev := event.DisableMovementEvent{Disable: disable}
	ev.EvTime = tick
	r.rec.Events = append(r.rec.Events, ev)
}

func (r *Recorder) RecordReset(tick int64, pos mgl32.Vec3, rot mgl32.Quat) {
	ev := event.ResetEvent{Position: pos, Rotation: rot}
	ev.EvTime = tick
	r.rec.Events = append(r.rec.Events, ev)
}

// Encode writes the recording to w: a text header holding the recording and event versions, the
// ID, the name and a checksum of the events, followed by the encoded events.
func (rec *Recording) Encode(w io.Writer) error {
	payload := event.Encode(rec.Events)

	buf := bytes.NewBuffer(nil)
	buf.WriteString(rec.Version + "\n")
	buf.WriteString(event.EventsVersion + "\n")
	buf.WriteString(rec.ID.String() + "\n")
	buf.WriteString(strconv.Quote(rec.Name) + "\n")
	buf.WriteString(fmt.Sprintf("%016x\n", xxh3.Hash(payload)))
	buf.Write(payload)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("unable to write recording: %w", err)
	}
	return nil
}

// Save writes the recording to the file at path, replacing it if it exists.
func (rec *Recording) Save(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("unable to open recording file: %w", err)
	}
	if err := rec.Encode(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// DecodeRecording decodes a recording written by Recording.Encode. It returns an error if the
// recording could not be parsed, if its version is not supported or if its checksum does not
// match its events.
func DecodeRecording(r io.Reader) (*Recording, error) {
	br := bufio.NewReader(r)
	lines := make([]string, 0, headerLines)
	for i := 0; i < headerLines; i++ {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, cerror.Kind(cerror.ErrCorruptRecording, "unable to read header line %d: %v", i, err)
		}
		lines = append(lines, strings.TrimSuffix(line, "\n"))
	}

	rec := &Recording{Version: lines[0]}
	if rec.Version != CurrentRecordingVer {
		return nil, cerror.New("unsupported recording version: %s", rec.Version)
	}
	if lines[1] != event.EventsVersion {
		return nil, cerror.New("unsupported events version: %s", lines[1])
	}

	id, err := uuid.Parse(lines[2])
	if err != nil {
		return nil, cerror.Kind(cerror.ErrCorruptRecording, "unable to parse recording id: %v", err)
	}
	rec.ID = id

	if rec.Name, err = strconv.Unquote(lines[3]); err != nil {
		return nil, cerror.Kind(cerror.ErrCorruptRecording, "unable to parse recording name: %v", err)
	}

	sum, err := strconv.ParseUint(lines[4], 16, 64)
	if err != nil {
		return nil, cerror.Kind(cerror.ErrCorruptRecording, "unable to parse checksum: %v", err)
	}

	payload, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("unable to read recording: %w", err)
	}
	if got := xxh3.Hash(payload); got != sum {
		return nil, cerror.Kind(cerror.ErrCorruptRecording, "checksum mismatch: expected %016x, got %016x", sum, got)
	}

	rec.Events, err = event.DecodeEvents(payload)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Load reads the recording file at path.
func Load(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open recording file: %w", err)
	}
	defer f.Close()
	return DecodeRecording(f)
}
