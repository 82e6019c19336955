package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_FirstContact(t *testing.T) {
	bd := NewBookmarkDetector(10)

	if got := bd.Check(WindowStats{WindowEndTurn: 10}); len(got) != 0 {
		t.Errorf("empty window produced %v", got)
	}
	got := bd.Check(WindowStats{WindowEndTurn: 20, Detections: 3})
	if !hasBookmark(got, BookmarkFirstContact) {
		t.Fatalf("expected first_contact, got %v", got)
	}
	if got[0].Turn != 20 {
		t.Errorf("bookmark turn = %d, want 20", got[0].Turn)
	}
	if got := bd.Check(WindowStats{WindowEndTurn: 30, Detections: 4}); hasBookmark(got, BookmarkFirstContact) {
		t.Error("first_contact reported twice")
	}
}

func TestBookmarkDetector_ContactLost(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(WindowStats{WindowEndTurn: 10, Detections: 5})

	got := bd.Check(WindowStats{WindowEndTurn: 20})
	if !hasBookmark(got, BookmarkContactLost) {
		t.Errorf("expected contact_lost, got %v", got)
	}
	if got := bd.Check(WindowStats{WindowEndTurn: 30}); hasBookmark(got, BookmarkContactLost) {
		t.Error("contact_lost reported for a second quiet window")
	}
}

func TestBookmarkDetector_DetectionSpike(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := 1; i <= 5; i++ {
		bd.Check(WindowStats{WindowEndTurn: uint64(i * 10), Detections: 10})
	}

	got := bd.Check(WindowStats{WindowEndTurn: 60, Detections: 25})
	if !hasBookmark(got, BookmarkDetectionSpike) {
		t.Errorf("expected detection_spike, got %v", got)
	}
	if got := bd.Check(WindowStats{WindowEndTurn: 70, Detections: 15}); hasBookmark(got, BookmarkDetectionSpike) {
		t.Error("detection_spike for a window below twice the average")
	}
}

func TestBookmarkDetector_SteadySky(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(WindowStats{WindowEndTurn: 10, Detections: 100})

	var fired []uint64
	for i := 2; i <= 12; i++ {
		turn := uint64(i * 10)
		if hasBookmark(bd.Check(WindowStats{WindowEndTurn: turn, Detections: 100 + i%2}), BookmarkSteadySky) {
			fired = append(fired, turn)
		}
	}
	if len(fired) != 1 || fired[0] != 60 {
		t.Errorf("steady_sky fired at %v, want [60]", fired)
	}
}
