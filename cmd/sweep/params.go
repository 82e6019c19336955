package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pthm-cable/lightlag/config"
)

// ParamSpec defines one swept detection setting.
type ParamSpec struct {
	Name   string // Human-readable name
	Path   string // Config path for logging
	Values []int  // Values tried
}

// ParamGrid is the cartesian product of every spec's values.
type ParamGrid struct {
	Specs []ParamSpec
}

// NewParamGrid creates the standard grid of detection settings.
func NewParamGrid() *ParamGrid {
	return &ParamGrid{
		Specs: []ParamSpec{
			{Name: "grid_cell_size", Path: "simulation.grid_cell_size", Values: []int{0, 8, 32, 128}},
			{Name: "workers", Path: "simulation.workers", Values: []int{1, 2, 4, 0}},
			{Name: "parallel_threshold", Path: "simulation.parallel_threshold", Values: []int{1, 4, 16}},
		},
	}
}

// Override replaces the values of the named spec.
func (pg *ParamGrid) Override(name string, values []int) error {
	for i := range pg.Specs {
		if pg.Specs[i].Name == name {
			pg.Specs[i].Values = values
			return nil
		}
	}
	return fmt.Errorf("unknown parameter %q", name)
}

// Size returns the number of points in the grid.
func (pg *ParamGrid) Size() int {
	n := 1
	for _, spec := range pg.Specs {
		n *= len(spec.Values)
	}
	return n
}

// Point returns the i-th grid point, varying the last spec fastest.
func (pg *ParamGrid) Point(i int) []int {
	p := make([]int, len(pg.Specs))
	for j := len(pg.Specs) - 1; j >= 0; j-- {
		vals := pg.Specs[j].Values
		p[j] = vals[i%len(vals)]
		i /= len(vals)
	}
	return p
}

// ApplyToConfig writes a grid point into cfg.
func (pg *ParamGrid) ApplyToConfig(cfg *config.Config, p []int) {
	for j, spec := range pg.Specs {
		switch spec.Name {
		case "grid_cell_size":
			cfg.Simulation.GridCellSize = p[j]
		case "workers":
			cfg.Simulation.Workers = p[j]
		case "parallel_threshold":
			cfg.Simulation.ParallelThreshold = p[j]
		}
	}
}

// Describe formats a grid point as name=value pairs.
func (pg *ParamGrid) Describe(p []int) string {
	parts := make([]string, len(p))
	for j, spec := range pg.Specs {
		parts[j] = spec.Name + "=" + strconv.Itoa(p[j])
	}
	return strings.Join(parts, " ")
}

// parseValues parses a comma-separated list of integers.
func parseValues(s string) ([]int, error) {
	var out []int
	for _, f := range strings.Split(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", f, err)
		}
		out = append(out, v)
	}
	return out, nil
}
