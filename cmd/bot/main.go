package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"

	persistlog "spiritgrid.ai/internal/persistence/log"
	"spiritgrid.ai/internal/persistence/matchdb"
	"spiritgrid.ai/internal/sim/economy"
	"spiritgrid.ai/internal/sim/gateway"
	"spiritgrid.ai/internal/sim/memory"
	"spiritgrid.ai/internal/sim/snapshot"
	"spiritgrid.ai/internal/sim/tuning"
	"spiritgrid.ai/internal/transport/ws"
)

func main() {
	var (
		url        = flag.String("url", "ws://localhost:8080/v1/ws", "host ws url")
		name       = flag.String("name", "bot", "player name")
		tuningPath = flag.String("tuning", "", "tuning yaml (defaults to built-in constants)")
		recordDir  = flag.String("record-dir", "", "tick record directory (disabled when empty)")
		matchDB    = flag.String("match-db", "", "sqlite match index path (disabled when empty)")
	)
	flag.Parse()

	logger := stdlog()

	tun := tuning.Default()
	if *tuningPath != "" {
		var err error
		tun, err = tuning.Load(*tuningPath)
		if err != nil {
			logger.Fatalf("load tuning: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, err := ws.Dial(ctx, *url, *name, logger)
	if err != nil {
		logger.Fatalf("connect: %v", err)
	}
	defer client.Close()
	logger.Printf("connected as %s (tick %dms)", client.PlayerID(), client.Params().TickMs)

	var recorder *persistlog.TickRecorder
	if *recordDir != "" {
		recorder = persistlog.NewTickRecorder(*recordDir)
		defer recorder.Close()
	}
	var db *matchdb.DB
	if *matchDB != "" {
		db, err = matchdb.Open(*matchDB)
		if err != nil {
			logger.Fatalf("open match db: %v", err)
		}
		defer db.Close()
		_ = db.SetMeta("player_id", client.PlayerID())
		_ = db.SetMeta("tick_ms", strconv.Itoa(client.Params().TickMs))
	}

	clock := &snapshot.Clock{}
	eco := economy.New(tun)
	gw := gateway.New(client, logger)
	mem := memory.NewStore()
	pol := &policy{eco: eco, mem: mem, tun: tun}

	for {
		select {
		case <-ctx.Done():
			logger.Printf("shutting down")
			return
		default:
		}

		tick, err := client.ReadTick()
		if err != nil {
			logger.Printf("read tick: %v", err)
			return
		}

		clock.Set(tick.Tick)
		world, err := snapshot.Build(clock, client.PlayerID(), tick.Payload)
		if err != nil {
			logger.Printf("tick %d: build snapshot: %v", tick.Tick, err)
			continue
		}
		for _, d := range world.Diagnostics() {
			logger.Printf("tick %d: %v", tick.Tick, d)
		}

		gw.BeginTick(world)
		pol.run(world, gw, logger)
		if err := client.Flush(tick.Tick); err != nil {
			logger.Printf("tick %d: flush: %v", tick.Tick, err)
			return
		}

		record(world, gw, recorder, db, logger)
	}
}

func stdlog() *log.Logger {
	return log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
}

func record(world *snapshot.WorldState, gw *gateway.Gateway, recorder *persistlog.TickRecorder, db *matchdb.DB, logger *log.Logger) {
	if recorder == nil && db == nil {
		return
	}

	own, err := world.OwnSpirits()
	if err != nil {
		return
	}
	all, err := world.Spirits()
	if err != nil {
		return
	}
	ownEnergy := 0
	for _, sp := range own {
		ownEnergy += sp.Energy
	}
	stats := gw.Stats()

	if recorder != nil {
		entry := persistlog.TickEntry{
			Tick:       stats.Tick,
			OwnSpirits: len(own),
			OwnEnergy:  ownEnergy,
			EnemyCount: len(all) - len(own),
			Commands:   stats.Issued,
			Rejections: stats.Rejected,
		}
		for _, d := range world.Diagnostics() {
			entry.Diagnostics = append(entry.Diagnostics, d.Error())
		}
		if err := recorder.WriteTick(entry); err != nil {
			logger.Printf("record tick %d: %v", stats.Tick, err)
		}
	}
	if db != nil {
		db.RecordTick(matchdb.TickRow{
			Tick:       stats.Tick,
			OwnSpirits: len(own),
			OwnEnergy:  ownEnergy,
			EnemyCount: len(all) - len(own),
			Commands:   len(stats.Issued),
			Rejections: stats.Rejected,
		})
	}
}
