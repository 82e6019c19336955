package telemetry

import (
	"fmt"
	"log/slog"
	"math"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFirstContact   BookmarkType = "first_contact"
	BookmarkContactLost    BookmarkType = "contact_lost"
	BookmarkDetectionSpike BookmarkType = "detection_spike"
	BookmarkSteadySky      BookmarkType = "steady_sky"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Turn        uint64       `csv:"turn" json:"turn"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"turn", b.Turn,
		"description", b.Description,
	)
}

// steadyWindows is how many consecutive windows a steady sky needs.
const steadyWindows = 5

// BookmarkDetector flags windows where what the sensors see changes in a
// notable way.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	seenContact  bool // any window so far had a detection
	steadyCount  int  // consecutive windows near the rolling mean
	steadyMarked bool // steady_sky already reported for this run of windows
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < steadyWindows {
		historySize = steadyWindows
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkFirstContact(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkContactLost(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkDetectionSpike(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkSteadySky(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	if stats.Detections > 0 {
		bd.seenContact = true
	}
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// previous returns the most recent window in history.
func (bd *BookmarkDetector) previous() (WindowStats, bool) {
	if !bd.historyFull && bd.historyIdx == 0 {
		return WindowStats{}, false
	}
	i := (bd.historyIdx - 1 + bd.historySize) % bd.historySize
	return bd.history[i], true
}

func (bd *BookmarkDetector) checkFirstContact(stats WindowStats) *Bookmark {
	if bd.seenContact || stats.Detections == 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkFirstContact,
		Turn:        stats.WindowEndTurn,
		Description: fmt.Sprintf("first light reached a sensor: %d detections", stats.Detections),
	}
}

func (bd *BookmarkDetector) checkContactLost(stats WindowStats) *Bookmark {
	prev, ok := bd.previous()
	if !ok || prev.Detections == 0 || stats.Detections > 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkContactLost,
		Turn:        stats.WindowEndTurn,
		Description: fmt.Sprintf("detections fell from %d to 0", prev.Detections),
	}
}

// checkDetectionSpike fires when detections exceed twice the rolling average.
func (bd *BookmarkDetector) checkDetectionSpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}
	avg := meanDetections(history)
	if avg <= 0 || float64(stats.Detections) <= 2*avg {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkDetectionSpike,
		Turn:        stats.WindowEndTurn,
		Description: fmt.Sprintf("%d detections vs %.1f rolling average", stats.Detections, avg),
	}
}

// checkSteadySky fires once per streak of windows whose detection count
// stays within 10% of the rolling average.
func (bd *BookmarkDetector) checkSteadySky(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	avg := meanDetections(history)
	if len(history) == 0 || avg <= 0 || math.Abs(float64(stats.Detections)-avg) > 0.1*avg {
		bd.steadyCount = 0
		bd.steadyMarked = false
		return nil
	}
	bd.steadyCount++
	if bd.steadyCount < steadyWindows || bd.steadyMarked {
		return nil
	}
	bd.steadyMarked = true
	return &Bookmark{
		Type:        BookmarkSteadySky,
		Turn:        stats.WindowEndTurn,
		Description: fmt.Sprintf("detections steady around %.1f per window", avg),
	}
}

func meanDetections(history []WindowStats) float64 {
	if len(history) == 0 {
		return 0
	}
	total := 0
	for _, h := range history {
		total += h.Detections
	}
	return float64(total) / float64(len(history))
}
