// Headless voxel collision simulation: loads a scenario, ticks its
// entities against the block grid, and logs what they hit.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"voxsim/internal/config"
	"voxsim/internal/entity"
	"voxsim/internal/world"
)

func main() {
	configPath := flag.String("config", "scenario.yaml", "scenario file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log, err := buildLogger(*debug)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	scenario, err := config.LoadFile(*configPath)
	if err != nil {
		log.Fatal("load scenario", zap.Error(err))
	}

	w := world.New(log.Named("world"))
	if err := scenario.BuildWorld(w); err != nil {
		log.Fatal("build world", zap.Error(err))
	}

	entities := make([]*entity.Entity, 0, len(scenario.Entities))
	for _, def := range scenario.Entities {
		e := entity.New(def.EntityDefinition(), def.PositionVec(), def.AnglesVec(), log.Named("entity"))
		e.Motion = def.MotionVec()
		entities = append(entities, e)
	}

	log.Info("scenario loaded",
		zap.String("path", *configPath),
		zap.Int("blocks", w.BlockCount()),
		zap.Int("entities", len(entities)),
		zap.Int("tick_rate", scenario.TickRate),
	)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	dt := 1.0 / float64(scenario.TickRate)
	ticker := time.NewTicker(time.Second / time.Duration(scenario.TickRate))
	defer ticker.Stop()

	tick := 0
	for {
		select {
		case <-stop:
			log.Info("interrupted", zap.Int("ticks", tick))
			return
		case <-ticker.C:
		}

		for _, e := range entities {
			e.Tick(w, dt)
			for _, box := range e.CollisionBoxes {
				if len(box.CollidingBlocks) > 0 {
					log.Info("entity colliding",
						zap.String("entity", e.Name),
						zap.String("id", e.ID.String()),
						zap.Int("blocks", len(box.CollidingBlocks)),
					)
				}
			}
		}

		tick++
		if scenario.Ticks > 0 && tick >= scenario.Ticks {
			log.Info("scenario complete", zap.Int("ticks", tick))
			return
		}
	}
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
