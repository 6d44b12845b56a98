package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/sirupsen/logrus"
	"github.com/velutils/climb/audio"
	"github.com/velutils/climb/locomotion"
	"github.com/velutils/climb/session"
	"github.com/velutils/climb/settings"
	"github.com/velutils/climb/simulation"
)

var (
	settingsPath = flag.String("settings", "climb.toml", "path of the settings file, created if missing")
	replayPath   = flag.String("replay", "", "replay a recording instead of running the demo scenario")
	wavPath      = flag.String("wav", "", "write the touch sounds of the run to this WAV file")
	stats        = flag.Bool("stats", false, "serve runtime statistics on localhost:8080")
)

// The following program runs the demo scenario, or replays a recording of it, and reports where
// the hands touched the world.
func main() {
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})

	s, err := settings.Load(*settingsPath)
	if err != nil {
		log.Fatalf("error loading settings: %v", err)
	}
	lvl, err := s.LogLevel()
	if err != nil {
		log.Fatalf("error reading settings: %v", err)
	}
	log.SetLevel(lvl)

	if s.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         s.Sentry.DSN,
			Environment: s.Sentry.Environment,
			Debug:       s.Sentry.Debug,
		}); err != nil {
			log.Fatalf("error initializing sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}
	if *stats {
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))

		mgr := statsview.New()
		go mgr.Start()
	}

	conf, err := s.LocomotionConfig(log)
	if err != nil {
		log.Fatalf("error reading settings: %v", err)
	}
	bodyConf, err := s.BodyConfig()
	if err != nil {
		log.Fatalf("error reading settings: %v", err)
	}
	step, err := s.TickDuration()
	if err != nil {
		log.Fatalf("error reading settings: %v", err)
	}
	w, err := simulation.DemoWorld(log)
	if err != nil {
		log.Fatalf("error building world: %v", err)
	}

	if *replayPath != "" {
		rec, err := session.Load(*replayPath)
		if err != nil {
			log.Fatalf("error loading recording: %v", err)
		}
		res, err := session.Replay(rec, w, conf, bodyConf)
		if err != nil {
			log.Fatalf("error replaying %s: %v", rec.ID, err)
		}
		report(log.WithField("recording", rec.ID), res)
		return
	}

	sc := simulation.DemoScenario()
	sc.DT = float32(step.Seconds())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	rec := session.NewRecorder(sc.Name)
	clk := &clock{Recorder: rec}
	feedback := audio.NewFeedback(audio.DefaultConfig(), clk.Now)
	res, err := simulation.Run(ctx, w, conf, bodyConf, sc, clk, feedback)
	if err != nil {
		log.Fatalf("error running scenario %q: %v", sc.Name, err)
	}
	report(log.WithField("scenario", sc.Name), res)

	if s.Recording.Enabled {
		path := filepath.Join(s.Recording.Directory, rec.Recording().ID.String()+".rec")
		if err := os.MkdirAll(s.Recording.Directory, 0755); err != nil {
			log.Fatalf("error creating recording directory: %v", err)
		}
		if err := rec.Recording().Save(path); err != nil {
			log.Fatalf("error saving recording: %v", err)
		}
		replayed, err := session.Replay(rec.Recording(), w, conf, bodyConf)
		if err != nil {
			log.Fatalf("error replaying recording: %v", err)
		}
		if !slices.Equal(res.Frames, replayed.Frames) {
			log.Warnf("replay of %s diverged from the recorded run", path)
		}
		log.Infof("saved recording to %s", path)
	}

	if *wavPath != "" {
		f, err := os.Create(*wavPath)
		if err != nil {
			log.Fatalf("error creating %s: %v", *wavPath, err)
		}
		length := time.Duration(float64(sc.Script.Duration()) * float64(time.Second))
		if err := feedback.Render(f, length); err != nil {
			log.Fatalf("error rendering touch sounds: %v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("error closing %s: %v", *wavPath, err)
		}
		log.Infof("wrote touch sounds to %s", *wavPath)
	}
}

// clock keeps the time of the tick being stepped, so that touch sounds are scheduled when the
// hand touched.
type clock struct {
	simulation.Recorder
	tick int64
	dt   float32
}

func (c *clock) RecordTick(tick int64, dt float32, head, left, right locomotion.Pose) {
	c.tick, c.dt = tick, dt
	c.Recorder.RecordTick(tick, dt, head, left, right)
}

func (c *clock) Now() float32 {
	return float32(c.tick) * c.dt
}

func report(log logrus.FieldLogger, res simulation.Result) {
	if len(res.Frames) == 0 {
		log.Warn("no frames")
		return
	}
	last := res.Frames[len(res.Frames)-1]
	log.WithFields(logrus.Fields{
		"ticks":   len(res.Frames),
		"touches": len(res.Touches),
		"peak":    res.MaxHeight(),
	}).Infof("finished at %v", last.Body)
	for _, t := range res.Touches {
		kind := "exit"
		if t.Enter {
			kind = "enter"
		}
		log.Debugf("tick %d: %s hand %s %v", t.Tick, t.Event.Side, kind, t.Event.Position)
	}
}
