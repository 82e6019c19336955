package systems

// System IDs, in turn order. They double as perf phase names.
const (
	IDEmission  = "emission"
	IDSync      = "sync"
	IDMovement  = "movement"
	IDDetection = "detection"
	IDRetention = "retention"
	IDTelemetry = "telemetry"
)

// SystemInfo describes a simulation system for display and perf tracking.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this system does
	Category    string // Grouping (e.g., "core", "extension")
}

// SystemRegistry holds metadata about all systems.
// This centralizes system naming so the status line and perf logs stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known systems.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all known systems in the order a turn runs them.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: IDEmission, Name: "Emission", Description: "Leaves a ghost behind every detectable entity", Category: "core"})
	r.Register(SystemInfo{ID: IDSync, Name: "Sync", Description: "Commits deferred registry commands", Category: "core"})
	r.Register(SystemInfo{ID: IDMovement, Name: "Movement", Description: "Applies velocity to position", Category: "core"})
	r.Register(SystemInfo{ID: IDDetection, Name: "Detection", Description: "Matches ghost age against light travel time", Category: "core"})
	r.Register(SystemInfo{ID: IDRetention, Name: "Retention", Description: "Applies the ghost retention policy", Category: "extension"})
	r.Register(SystemInfo{ID: IDTelemetry, Name: "Telemetry", Description: "Flushes stats, metrics and CSV output", Category: "internal"})
}

// Register adds a system to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns system info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a system ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// IDs returns all system IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}

// ByCategory returns systems filtered by category.
func (r *SystemRegistry) ByCategory(category string) []SystemInfo {
	var result []SystemInfo
	for _, info := range r.systems {
		if info.Category == category {
			result = append(result, info)
		}
	}
	return result
}
