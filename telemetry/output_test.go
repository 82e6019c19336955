package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/lightlag/config"
)

func TestOutputManager_Disabled(t *testing.T) {
	om, err := NewOutputManager("", true)
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}

	// Every method is safe on nil.
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteDetections([]DetectionRecord{{Turn: 1}}); err != nil {
		t.Error(err)
	}
	if om.LogsDetections() {
		t.Error("nil manager reports detection logging")
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManager_WritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir, true)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for end := uint64(10); end <= 30; end += 10 {
		if err := om.WriteTelemetry(WindowStats{WindowEndTurn: end, Ghosts: int(end) * 100}); err != nil {
			t.Fatal(err)
		}
		if err := om.WritePerf(PerfStats{PhasePct: map[string]float64{PhaseDetection: 50}}, end); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteDetections([]DetectionRecord{{Turn: 8, Sensor: 3, X: 21, Y: 28}}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkFirstContact, Turn: 8, Description: "first"}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(config.Defaults()); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	tel := readLines(t, filepath.Join(dir, "telemetry.csv"))
	if len(tel) != 4 {
		t.Fatalf("telemetry.csv has %d lines, want header + 3", len(tel))
	}
	if !strings.HasPrefix(tel[0], "window_end,") {
		t.Errorf("telemetry header = %q", tel[0])
	}
	if strings.Contains(tel[0], "WindowStartTurn") {
		t.Error("skipped column leaked into header")
	}

	perf := readLines(t, filepath.Join(dir, "perf.csv"))
	if len(perf) != 4 || !strings.Contains(perf[0], "detection_pct") {
		t.Errorf("perf.csv = %v", perf)
	}

	det := readLines(t, filepath.Join(dir, "detections.csv"))
	if len(det) != 2 || det[0] != "turn,sensor,x,y" || det[1] != "8,3,21,28" {
		t.Errorf("detections.csv = %q", det)
	}

	bm := readLines(t, filepath.Join(dir, "bookmarks.csv"))
	if len(bm) != 2 || bm[0] != "type,turn,description" || bm[1] != "first_contact,8,first" {
		t.Errorf("bookmarks.csv = %q", bm)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
}

func TestOutputManager_NoDetectionFile(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	if om.LogsDetections() {
		t.Error("detections enabled without request")
	}
	if _, err := os.Stat(filepath.Join(dir, "detections.csv")); !os.IsNotExist(err) {
		t.Errorf("detections.csv exists: %v", err)
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}
