package view

import (
	"context"
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/velutils/climb/locomotion"
	"github.com/velutils/climb/simulation"
	"github.com/velutils/climb/world"
)

// DefaultScale is the number of terminal rows per world unit. Columns are half as tall as they are
// wide, so a unit spans twice as many columns.
const DefaultScale = 4

var (
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSolid    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSlippery = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleBody     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleHead     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleFree     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleTouching = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

// Viewer draws the frames of a run as a side view of the world, looking along the z axis, with the
// camera following the body.
type Viewer struct {
	screen    tcell.Screen
	colliders []*world.Collider
	frames    []simulation.Frame

	index   int
	playing bool
	scale   float32
}

// New returns a Viewer drawing the frames passed to the screen.
func New(screen tcell.Screen, w *world.World, frames []simulation.Frame) *Viewer {
	return &Viewer{screen: screen, colliders: w.Colliders(), frames: frames, scale: DefaultScale}
}

// Index returns the index of the frame shown.
func (v *Viewer) Index() int {
	return v.index
}

// Playing returns true if the viewer advances a frame on every tick of Run.
func (v *Viewer) Playing() bool {
	return v.playing
}

// Draw draws the current frame. Nothing is drawn if there are no frames.
func (v *Viewer) Draw() {
	v.screen.Clear()
	if len(v.frames) == 0 {
		v.text(0, 0, "no frames", styleStatus)
		v.screen.Show()
		return
	}
	f := v.frames[v.index]
	w, h := v.screen.Size()

	for row := 1; row < h; row++ {
		for col := 0; col < w; col++ {
			p := v.world(f, col, row)
			if c, ok := v.colliderAt(p); ok {
				style, r := styleSolid, '#'
				if s, ok := c.Surface(); ok && s.SlipPercentage > 0.5 {
					style, r = styleSlippery, '~'
				}
				v.screen.SetContent(col, row, r, nil, style)
			}
		}
	}
	for _, side := range [...]locomotion.Side{locomotion.Left, locomotion.Right} {
		style, r := styleFree, 'l'
		if f.Touching[side] {
			style, r = styleTouching, 'L'
		}
		if side == locomotion.Right {
			r += 'R' - 'L'
		}
		v.plot(f, f.Hands[side], r, style)
	}
	v.plot(f, f.Head, 'o', styleHead)
	v.plot(f, f.Body, '@', styleBody)

	v.text(0, 0, fmt.Sprintf("tick %d  t=%.2fs  body=(%.2f, %.2f, %.2f)  speed=%.2f  [%d/%d]",
		f.Tick, f.Time, f.Body.X(), f.Body.Y(), f.Body.Z(), f.Velocity.Len(), v.index+1, len(v.frames)), styleStatus)
	v.screen.Show()
}

// cell returns the screen cell the world position p is drawn in.
func (v *Viewer) cell(f simulation.Frame, p mgl32.Vec3) (col, row int) {
	w, h := v.screen.Size()
	col = w/2 + int(math32.Round((p.X()-f.Body.X())*v.scale*2))
	row = h/2 - int(math32.Round((p.Y()-f.Body.Y())*v.scale))
	return col, row
}

// world returns the world position at the centre of a screen cell, in the plane of the body.
func (v *Viewer) world(f simulation.Frame, col, row int) mgl32.Vec3 {
	w, h := v.screen.Size()
	x := f.Body.X() + float32(col-w/2)/(v.scale*2)
	y := f.Body.Y() + float32(h/2-row)/v.scale
	return mgl32.Vec3{x, y, f.Body.Z()}
}

func (v *Viewer) colliderAt(p mgl32.Vec3) (*world.Collider, bool) {
	for _, c := range v.colliders {
		if p.Sub(c.Shape.ClosestPoint(p)).LenSqr() < 1e-8 {
			return c, true
		}
	}
	return nil, false
}

func (v *Viewer) plot(f simulation.Frame, p mgl32.Vec3, r rune, style tcell.Style) {
	col, row := v.cell(f, p)
	w, h := v.screen.Size()
	if col < 0 || col >= w || row < 1 || row >= h {
		return
	}
	v.screen.SetContent(col, row, r, nil, style)
}

func (v *Viewer) text(col, row int, s string, style tcell.Style) {
	for _, r := range s {
		v.screen.SetContent(col, row, r, nil, style)
		col++
	}
}

// Handle handles a terminal event and returns true if the viewer should quit. The arrow keys step
// through the frames, space toggles playback and q or escape quits.
func (v *Viewer) Handle(ev tcell.Event) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRight:
			v.seek(1)
		case tcell.KeyLeft:
			v.seek(-1)
		case tcell.KeyHome:
			v.index = 0
		case tcell.KeyEnd:
			v.index = max(0, len(v.frames)-1)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return true
			case ' ':
				v.playing = !v.playing
			case '+':
				v.scale *= 2
			case '-':
				v.scale = math32.Max(0.25, v.scale/2)
			}
		}
	case *tcell.EventInterrupt:
		if v.playing {
			v.seek(1)
			if v.index == len(v.frames)-1 {
				v.playing = false
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return false
}

func (v *Viewer) seek(n int) {
	v.index = max(0, min(len(v.frames)-1, v.index+n))
}

// Run draws frames and handles events until the viewer is quit or the context is cancelled.
// While playing, a frame is advanced every step.
func (v *Viewer) Run(ctx context.Context, step time.Duration) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		t := time.NewTicker(step)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				_ = v.screen.PostEvent(tcell.NewEventInterrupt(ctx.Err()))
				return
			case <-t.C:
				_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	v.Draw()
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if ie, ok := ev.(*tcell.EventInterrupt); ok {
			if err, ok := ie.Data().(error); ok {
				return err
			}
		}
		if v.Handle(ev) {
			return nil
		}
		v.Draw()
	}
}
