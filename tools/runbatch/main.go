// Package main runs a batch of warehouse scenarios, writes per-episode event
// logs, and indexes the outcomes in SQLite for later comparison.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/elektrokombinacija/warehouse-sim/internal/config"
	"github.com/elektrokombinacija/warehouse-sim/internal/results"
	"github.com/elektrokombinacija/warehouse-sim/internal/runlog"
	"github.com/elektrokombinacija/warehouse-sim/internal/sim"
)

func main() {
	var (
		scenarioDir = flag.String("scenarios", "scenarios", "directory of scenario files (.json or .yaml)")
		algorithms  = flag.String("algorithms", "astar,bfs", "comma-separated planners to run per scenario")
		dbPath      = flag.String("db", "results/runs.db", "SQLite results database")
		eventsDir   = flag.String("events", "", "write per-episode event logs into this directory")
	)
	flag.Parse()

	if err := run(*scenarioDir, *algorithms, *dbPath, *eventsDir); err != nil {
		fmt.Fprintf(os.Stderr, "runbatch: %v\n", err)
		os.Exit(1)
	}
}

func run(scenarioDir, algorithms, dbPath, eventsDir string) error {
	paths, err := scenarioFiles(scenarioDir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no scenario files under %s", scenarioDir)
	}

	store, err := results.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	algos := strings.Split(algorithms, ",")
	for _, path := range paths {
		for _, alg := range algos {
			alg = strings.TrimSpace(alg)
			ep, err := runEpisode(path, alg, eventsDir)
			if err != nil {
				return fmt.Errorf("%s [%s]: %w", path, alg, err)
			}
			if _, err := store.Insert(ep); err != nil {
				return err
			}
			fmt.Printf("%-40s %-6s ticks=%-5d deliveries=%-3d conflicts=%-4d stalled=%d\n",
				filepath.Base(path), alg, ep.Ticks, ep.Metrics.Deliveries, ep.Metrics.Conflicts, ep.Metrics.TasksStalled)
		}
	}
	return nil
}

func runEpisode(path, algorithm, eventsDir string) (results.Episode, error) {
	var ep results.Episode
	scn, err := loadScenario(path)
	if err != nil {
		return ep, err
	}
	scn.Algorithm = algorithm
	if err := scn.Validate(); err != nil {
		return ep, err
	}

	engine, err := sim.New(scn)
	if err != nil {
		return ep, err
	}

	var log *runlog.EventWriter
	if eventsDir != "" {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		log, err = runlog.NewEventWriter(filepath.Join(eventsDir, fmt.Sprintf("%s-%s.jsonl.zst", name, algorithm)))
		if err != nil {
			return ep, err
		}
		defer log.Close()
	}

	for !engine.IsDone() {
		events, err := engine.Step()
		if err != nil {
			return ep, err
		}
		if log != nil {
			if err := log.WriteAll(events); err != nil {
				return ep, err
			}
		}
	}

	name := scn.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return results.Episode{
		Scenario:  name,
		Algorithm: algorithm,
		Seed:      scn.Seed,
		Ticks:     engine.Tick(),
		Done:      true,
		Metrics:   engine.Metrics(),
	}, nil
}

func scenarioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".json", ".yaml", ".yml":
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

func loadScenario(path string) (*config.Scenario, error) {
	if filepath.Ext(path) == ".json" {
		return config.LoadJSON(path)
	}
	return config.Load(path)
}
