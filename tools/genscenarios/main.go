// Package main generates deterministic random warehouse scenarios for
// benchmarking. Every placement is drawn from the given seed, so the same
// parameters always produce the same files.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/elektrokombinacija/warehouse-sim/internal/config"
	"github.com/elektrokombinacija/warehouse-sim/internal/core"
)

type params struct {
	seed      int64
	count     int
	width     int
	height    int
	agents    int
	shelves   int
	tasks     int
	obstacles int
	chargers  int
	algorithm string
	outDir    string
}

func main() {
	var p params
	flag.Int64Var(&p.seed, "seed", 42, "base random seed; scenario i uses seed+i")
	flag.IntVar(&p.count, "count", 5, "number of scenarios to generate")
	flag.IntVar(&p.width, "width", 12, "grid width")
	flag.IntVar(&p.height, "height", 12, "grid height")
	flag.IntVar(&p.agents, "agents", 4, "number of agents")
	flag.IntVar(&p.shelves, "shelves", 6, "number of shelves")
	flag.IntVar(&p.tasks, "tasks", 6, "number of delivery tasks")
	flag.IntVar(&p.obstacles, "obstacles", 10, "number of obstacle cells")
	flag.IntVar(&p.chargers, "chargers", 2, "number of charging stations")
	flag.StringVar(&p.algorithm, "algorithm", "astar", "planner (astar | bfs)")
	flag.StringVar(&p.outDir, "out", "scenarios", "output directory")
	printSchema := flag.Bool("schema", false, "print the scenario JSON schema and exit")
	flag.Parse()

	if *printSchema {
		fmt.Print(config.SchemaJSON())
		return
	}

	if err := os.MkdirAll(p.outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "genscenarios: %v\n", err)
		os.Exit(1)
	}
	for i := 0; i < p.count; i++ {
		scn, err := generate(p, p.seed+int64(i))
		if err != nil {
			fmt.Fprintf(os.Stderr, "genscenarios: seed %d: %v\n", p.seed+int64(i), err)
			os.Exit(1)
		}
		path := filepath.Join(p.outDir, fmt.Sprintf("%s.json", scn.Name))
		if err := writeJSON(path, scn); err != nil {
			fmt.Fprintf(os.Stderr, "genscenarios: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s (%dx%d, %d agents, %d tasks)\n",
			path, scn.Width, scn.Height, len(scn.Agents), len(scn.Tasks))
	}
}

// generate draws a scenario with pairwise disjoint cell roles and verifies
// it against the same validation the engine runs at reset.
func generate(p params, seed int64) (*config.Scenario, error) {
	rng := rand.New(rand.NewSource(seed))
	scn := &config.Scenario{
		Name:      fmt.Sprintf("gen-%dx%d-a%d-t%d-s%d", p.width, p.height, p.agents, p.tasks, seed),
		Width:     p.width,
		Height:    p.height,
		Algorithm: p.algorithm,
		Seed:      seed,
	}

	used := make(map[core.Cell]bool)
	draw := func() (config.CellSpec, error) {
		for attempt := 0; attempt < 10000; attempt++ {
			c := core.Cell{Row: rng.Intn(p.height), Col: rng.Intn(p.width)}
			if !used[c] {
				used[c] = true
				return config.CellSpec{Row: c.Row, Col: c.Col}, nil
			}
		}
		return config.CellSpec{}, fmt.Errorf("grid too small for requested cell count")
	}

	for i := 0; i < p.obstacles; i++ {
		c, err := draw()
		if err != nil {
			return nil, err
		}
		scn.Obstacles = append(scn.Obstacles, c)
	}
	for i := 0; i < p.chargers; i++ {
		c, err := draw()
		if err != nil {
			return nil, err
		}
		scn.Chargers = append(scn.Chargers, c)
	}
	for i := 0; i < p.shelves; i++ {
		c, err := draw()
		if err != nil {
			return nil, err
		}
		scn.Shelves = append(scn.Shelves, config.ShelfSpec{
			ID: i, Cell: c, Weight: 1 + rng.Float64()*8,
		})
	}
	for i := 0; i < p.agents; i++ {
		c, err := draw()
		if err != nil {
			return nil, err
		}
		scn.Agents = append(scn.Agents, config.AgentSpec{ID: i, Start: c})
	}
	for i := 0; i < p.tasks; i++ {
		c, err := draw()
		if err != nil {
			return nil, err
		}
		scn.Tasks = append(scn.Tasks, config.TaskSpec{
			Shelf: rng.Intn(p.shelves), Dest: c,
		})
	}

	scn.ApplyDefaults()
	if err := scn.Validate(); err != nil {
		return nil, err
	}
	return scn, nil
}

func writeJSON(path string, scn *config.Scenario) error {
	b, err := json.MarshalIndent(scn, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
