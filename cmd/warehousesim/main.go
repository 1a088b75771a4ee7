// Command warehousesim runs one warehouse episode from a scenario file and
// reports its outcome.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/elektrokombinacija/warehouse-sim/internal/config"
	"github.com/elektrokombinacija/warehouse-sim/internal/runlog"
	"github.com/elektrokombinacija/warehouse-sim/internal/sim"
)

func main() {
	var (
		scenarioPath = flag.String("scenario", "", "scenario file (.yaml or .json)")
		eventsPath   = flag.String("events", "", "write the event log to this .jsonl.zst file")
		snapshotPath = flag.String("snapshot", "", "write the final state to this .json.zst file")
		algorithm    = flag.String("algorithm", "", "override the scenario's planner (astar | bfs)")
		seed         = flag.Int64("seed", -1, "override the scenario's random seed")
		verbose      = flag.Bool("v", false, "print every event")
	)
	flag.Parse()

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "usage: warehousesim -scenario <file> [-events out.jsonl.zst]")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if err := run(*scenarioPath, *eventsPath, *snapshotPath, *algorithm, *seed, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "warehousesim: %v\n", err)
		os.Exit(1)
	}
}

func run(scenarioPath, eventsPath, snapshotPath, algorithm string, seed int64, verbose bool) error {
	scn, err := loadScenario(scenarioPath)
	if err != nil {
		return err
	}
	if algorithm != "" {
		scn.Algorithm = algorithm
		if err := scn.Validate(); err != nil {
			return err
		}
	}
	if seed >= 0 {
		scn.Seed = seed
	}

	engine, err := sim.New(scn)
	if err != nil {
		return err
	}

	var log *runlog.EventWriter
	if eventsPath != "" {
		log, err = runlog.NewEventWriter(eventsPath)
		if err != nil {
			return err
		}
		defer log.Close()
	}

	g := engine.Grid()
	fmt.Printf("scenario %s: %dx%d grid, %d agents, %d tasks, %d storage cells, %d chargers, planner %s, seed %d\n",
		scn.Name, scn.Width, scn.Height, len(scn.Agents), len(scn.Tasks),
		len(g.StorageCells()), len(g.ChargingStations()), scn.Algorithm, scn.Seed)

	for !engine.IsDone() {
		events, err := engine.Step()
		if err != nil {
			return fmt.Errorf("tick %d: %w", engine.Tick(), err)
		}
		if log != nil {
			if err := log.WriteAll(events); err != nil {
				return err
			}
		}
		if verbose {
			for _, ev := range events {
				fmt.Printf("  t=%-4d %-10s agent=%d %v -> %v battery=%.1f\n",
					ev.Tick, ev.Kind, ev.Agent, ev.From, ev.To, ev.Battery)
			}
		}
	}

	m := engine.Metrics()
	fmt.Printf("done after %d ticks: %d deliveries, %d returns, %d moves, %d conflicts, %d charge ticks\n",
		engine.Tick(), m.Deliveries, m.Returns, m.Moves, m.Conflicts, m.ChargeTicks)
	if m.TasksStalled > 0 || m.StrandedAgents > 0 {
		fmt.Printf("degraded: %d stalled tasks, %d stranded agents\n", m.TasksStalled, m.StrandedAgents)
	}

	if snapshotPath != "" {
		if err := runlog.WriteSnapshot(snapshotPath, engine.Snapshot()); err != nil {
			return err
		}
	}
	return nil
}

func loadScenario(path string) (*config.Scenario, error) {
	if strings.HasSuffix(path, ".json") {
		return config.LoadJSON(path)
	}
	return config.Load(path)
}
