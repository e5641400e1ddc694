package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/df-mc/safeport/server"
	"github.com/df-mc/safeport/server/world"
)

func main() {
	var (
		confPath = flag.String("config", "safeport.toml", "path of the configuration file")
		snapPath = flag.String("snapshot", "snapshot.nbt", "path of the block snapshot")
		demo     = flag.Bool("demo", false, "write a demo snapshot to the snapshot path and exit")
		debug    = flag.Bool("debug", false, "log search decisions")
		x        = flag.Float64("x", 0.5, "x coordinate to probe")
		y        = flag.Float64("y", 64, "y coordinate to probe")
		z        = flag.Float64("z", 0.5, "z coordinate to probe")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *demo {
		if err := writeSnapshot(*snapPath, demoSnapshot("world")); err != nil {
			log.Error("write demo snapshot", "err", err)
			os.Exit(1)
		}
		log.Info("wrote demo snapshot", "path", *snapPath)
		return
	}
	if err := run(log, *confPath, *snapPath, *x, *y, *z); err != nil {
		log.Error("probe failed", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, confPath, snapPath string, x, y, z float64) error {
	uc, err := server.LoadUserConfig(confPath)
	if err != nil {
		return err
	}
	mem, name, err := readSnapshot(snapPath)
	if err != nil {
		return err
	}
	conf, err := uc.Config(log, mem)
	if err != nil {
		return err
	}
	if conf.Journal != nil {
		defer conf.Journal.Close()
	}
	c := conf.New()
	e := c.Evaluator()
	p := world.PointOf(name, x, y, z)

	fmt.Printf("point:    %v\n", p)
	fmt.Printf("verdict:  %v\n", c.Check(p))
	if safe, ok := c.FindSafeLocation(p); ok {
		fmt.Printf("safe:     %v\n", safe)
	} else {
		fmt.Println("safe:     none")
	}
	if top, ok := e.TopBlock(p); ok {
		fmt.Printf("top:      %v\n", top)
	}
	if bottom, ok := e.BottomBlock(p); ok {
		fmt.Printf("bottom:   %v\n", bottom)
	}
	if portal, ok := c.NearestPortalAdjacent(p); ok {
		fmt.Printf("portal:   %v\n", portal)
	}
	return nil
}
