package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"github.com/velutils/climb/session"
	"github.com/velutils/climb/settings"
	"github.com/velutils/climb/simulation"
	"github.com/velutils/climb/view"
)

var settingsPath = flag.String("settings", "climb.toml", "path of the settings file, created if missing")

// The following program replays a recording of the demo scenario in the terminal.
func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Println("Usage: ./climbview [-settings file] <recording>")
		return
	}

	// The terminal belongs to the viewer, so only problems are logged.
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:     false,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	log.SetLevel(logrus.WarnLevel)

	s, err := settings.Load(*settingsPath)
	if err != nil {
		log.Fatalf("error loading settings: %v", err)
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

	rec, err := session.Load(flag.Arg(0))
	if err != nil {
		log.Fatalf("error loading recording: %v", err)
	}
	res, err := session.Replay(rec, w, conf, bodyConf)
	if err != nil {
		log.Fatalf("error replaying %s: %v", rec.ID, err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("error opening terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("error opening terminal: %v", err)
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err = view.New(screen, w, res.Frames).Run(ctx, step)
	screen.Fini()
	if err != nil && ctx.Err() == nil {
		log.Fatalf("error viewing %s: %v", rec.ID, err)
	}
}
