package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	persistlog "spiritgrid.ai/internal/persistence/log"
	"spiritgrid.ai/internal/persistence/matchdb"
)

func main() {
	var (
		recordDir = flag.String("record-dir", "", "directory of ticks-*.jsonl.zst recordings")
		matchPath = flag.String("match-db", "", "path of the match sqlite db")
		verbose   = flag.Bool("v", false, "print every recorded tick, not just the summary")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "[replay] ", log.LstdFlags)
	if *recordDir == "" && *matchPath == "" {
		logger.Fatal("need -record-dir or -match-db")
	}

	if *recordDir != "" {
		if err := replayRecords(*recordDir, *verbose); err != nil {
			logger.Fatalf("records: %v", err)
		}
	}
	if *matchPath != "" {
		if err := printMatch(*matchPath); err != nil {
			logger.Fatalf("match db: %v", err)
		}
	}
}

func replayRecords(dir string, verbose bool) error {
	entries, err := persistlog.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no recorded ticks")
		return nil
	}

	var commands int
	rejections := map[string]int{}
	for _, e := range entries {
		commands += len(e.Commands)
		for code, n := range e.Rejections {
			rejections[code] += n
		}
		if verbose {
			fmt.Printf("tick %d: spirits=%d energy=%d enemies=%d commands=%d\n",
				e.Tick, e.OwnSpirits, e.OwnEnergy, e.EnemyCount, len(e.Commands))
			for _, d := range e.Diagnostics {
				fmt.Printf("  diag: %s\n", d)
			}
		}
	}

	first, last := entries[0], entries[len(entries)-1]
	fmt.Printf("recording: ticks %d..%d (%d entries), %d commands issued\n",
		first.Tick, last.Tick, len(entries), commands)
	fmt.Printf("  spirits %d -> %d, energy %d -> %d\n",
		first.OwnSpirits, last.OwnSpirits, first.OwnEnergy, last.OwnEnergy)
	printRejections(rejections)
	return nil
}

func printMatch(path string) error {
	db, err := matchdb.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	player, err := db.GetMeta("player_id")
	if err != nil {
		return err
	}
	sum, err := db.Summary()
	if err != nil {
		return err
	}
	fmt.Printf("match db: player=%s ticks=%d (%d..%d) commands=%d\n",
		player, sum.Ticks, sum.FirstTick, sum.LastTick, sum.Commands)
	printRejections(sum.Rejections)
	return nil
}

func printRejections(rej map[string]int) {
	if len(rej) == 0 {
		return
	}
	codes := make([]string, 0, len(rej))
	for c := range rej {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	for _, c := range codes {
		fmt.Printf("  rejected %s: %d\n", c, rej[c])
	}
}
