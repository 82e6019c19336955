package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/lightlag/components"
)

// DefaultParallelThreshold is the minimum sensor count for a parallel pass.
// Below it, goroutine overhead outweighs the gain.
const DefaultParallelThreshold = 4

// sensorSnapshot captures the read-only state of one sensor for a pass.
type sensorSnapshot struct {
	Entity   ecs.Entity
	Pos      components.Position
	MaxRange uint32
	HasLog   bool
}

// ghostSnapshot captures one ghost record.
type ghostSnapshot struct {
	Pos   components.Position
	Ghost components.Ghost
}

// DetectionResult summarises one detection pass.
type DetectionResult struct {
	Sensors int // sensors evaluated
	Ghosts  int // ghost records scanned per sensor
	Matches int // ghosts whose light arrived this turn
	Logged  int // matches appended to a sensor log
}

// DetectionSystem decides which ghosts each sensor perceives this turn.
//
// A pass runs in three phases: snapshot sensors and ghosts single-threaded,
// evaluate sensors in parallel into per-sensor match buffers, then append the
// matches to the sensor logs single-threaded.
type DetectionSystem struct {
	sensors ecs.Filter2[components.Position, components.Sensor]
	ghosts  ecs.Filter2[components.Position, components.Ghost]
	logMap  *ecs.Map[components.SensorLog]

	lightspeed uint32
	threshold  int
	pool       *workerPool

	sensorSnaps []sensorSnapshot
	ghostSnaps  []ghostSnapshot
	matches     [][]components.DetectionInfo

	grid       *GhostGrid // nil scans every ghost for every sensor
	candidates [][]int32  // per-worker grid query buffers
}

// NewDetectionSystem creates a detection system. workers <= 0 uses GOMAXPROCS;
// threshold <= 0 uses DefaultParallelThreshold.
func NewDetectionSystem(w *ecs.World, lightspeed uint32, workers, threshold int) *DetectionSystem {
	if lightspeed == 0 {
		panic("systems: lightspeed must be positive")
	}
	if threshold <= 0 {
		threshold = DefaultParallelThreshold
	}
	return &DetectionSystem{
		sensors:     *ecs.NewFilter2[components.Position, components.Sensor](w),
		ghosts:      *ecs.NewFilter2[components.Position, components.Ghost](w),
		logMap:      ecs.NewMap[components.SensorLog](w),
		lightspeed:  lightspeed,
		threshold:   threshold,
		pool:        newWorkerPool(workers),
		sensorSnaps: make([]sensorSnapshot, 0, 16),
		ghostSnaps:  make([]ghostSnapshot, 0, 1024),
	}
}

// SetGridCellSize indexes ghosts in a grid with the given cell size so each
// sensor only scans nearby ghosts. cellSize <= 0 disables the index.
func (s *DetectionSystem) SetGridCellSize(cellSize int) {
	if cellSize <= 0 {
		s.grid = nil
		s.candidates = nil
		return
	}
	s.grid = NewGhostGrid(cellSize)
	s.candidates = make([][]int32, s.pool.numWorkers)
}

// Lightspeed returns the distance light covers per turn.
func (s *DetectionSystem) Lightspeed() uint32 {
	return s.lightspeed
}

// Update runs a detection pass for turn now.
func (s *DetectionSystem) Update(now uint64) DetectionResult {
	// Phase A: snapshots
	s.sensorSnaps = s.sensorSnaps[:0]
	query := s.sensors.Query()
	for query.Next() {
		e := query.Entity()
		pos, sensor := query.Get()
		s.sensorSnaps = append(s.sensorSnaps, sensorSnapshot{
			Entity:   e,
			Pos:      *pos,
			MaxRange: sensor.MaxRange,
			HasLog:   s.logMap.Has(e),
		})
	}

	s.ghostSnaps = s.ghostSnaps[:0]
	gq := s.ghosts.Query()
	for gq.Next() {
		pos, g := gq.Get()
		s.ghostSnaps = append(s.ghostSnaps, ghostSnapshot{Pos: *pos, Ghost: *g})
	}
	if s.grid != nil {
		s.grid.Clear()
		for j := range s.ghostSnaps {
			s.grid.Insert(j, s.ghostSnaps[j].Pos)
		}
	}

	n := len(s.sensorSnaps)
	res := DetectionResult{Sensors: n, Ghosts: len(s.ghostSnaps)}
	if n == 0 {
		return res
	}

	if cap(s.matches) < n {
		grown := make([][]components.DetectionInfo, n)
		copy(grown, s.matches)
		s.matches = grown
	}
	s.matches = s.matches[:n]

	// Phase B: evaluate
	if n < s.threshold {
		s.evaluate(0, n, 0, now)
	} else {
		s.pool.run(n, func(start, end, worker int) {
			s.evaluate(start, end, worker, now)
		})
	}

	// Phase C: apply
	for i, snap := range s.sensorSnaps {
		found := s.matches[i]
		res.Matches += len(found)
		if len(found) == 0 || !snap.HasLog {
			continue
		}
		log := s.logMap.Get(snap.Entity)
		for _, d := range found {
			log.Append(d)
		}
		res.Logged += len(found)
	}

	return res
}

// evaluate fills s.matches for sensors in [i0, i1). Each index is written by
// exactly one caller; worker selects the candidate buffer.
func (s *DetectionSystem) evaluate(i0, i1, worker int, now uint64) {
	for i := i0; i < i1; i++ {
		snap := &s.sensorSnaps[i]
		found := s.matches[i][:0]
		if s.grid == nil {
			for j := range s.ghostSnaps {
				found = s.observe(found, snap, j, now)
			}
		} else {
			cand := s.grid.QueryRadiusInto(s.candidates[worker][:0], snap.Pos, snap.MaxRange)
			for _, j := range cand {
				found = s.observe(found, snap, int(j), now)
			}
			s.candidates[worker] = cand
		}
		s.matches[i] = found
	}
}

func (s *DetectionSystem) observe(found []components.DetectionInfo, snap *sensorSnapshot, j int, now uint64) []components.DetectionInfo {
	g := &s.ghostSnaps[j]
	if Observe(snap.Entity, snap.Pos, snap.MaxRange, g.Ghost, g.Pos, now, s.lightspeed) {
		found = append(found, components.DetectionInfo{Position: g.Pos, Turn: now})
	}
	return found
}

// Close stops the worker pool.
func (s *DetectionSystem) Close() {
	s.pool.stop()
}

// MatchCounts appends the per-sensor match counts of the last pass to dst,
// in sensor query order.
func (s *DetectionSystem) MatchCounts(dst []int) []int {
	for i := range s.sensorSnaps {
		dst = append(dst, len(s.matches[i]))
	}
	return dst
}
