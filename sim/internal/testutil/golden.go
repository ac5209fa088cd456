// Package testutil provides shared test infrastructure for the erqsim engine.
// It holds the golden dataset types and assertion helpers used by the sim
// package tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenClass is one priority class of a golden case.
type GoldenClass struct {
	Name     string  `json:"name"`
	Priority int     `json:"priority"`
	Weight   float64 `json:"weight"`
}

// GoldenArrival is one scripted arrival of a golden case.
type GoldenArrival struct {
	Time    float64  `json:"time"`
	Class   string   `json:"class"`
	Service *float64 `json:"service,omitempty"` // nil draws from the case's service time
}

// GoldenTestCase represents a single scripted run with hand-checked results.
type GoldenTestCase struct {
	Name        string          `json:"name"`
	Servers     int             `json:"servers"`
	ServiceTime float64         `json:"service_time"`
	Horizon     float64         `json:"horizon"`
	Classes     []GoldenClass   `json:"classes"`
	Arrivals    []GoldenArrival `json:"arrivals"`
	Metrics     GoldenMetrics   `json:"metrics"`
}

// GoldenMetrics represents the expected result of a golden test case.
type GoldenMetrics struct {
	// Exact match metrics
	Arrivals   int                  `json:"arrivals"`
	Departures int                  `json:"departures"`
	Waits      map[string][]float64 `json:"waits"`

	// Floating-point metrics derived from the simulation clock
	BusyTime float64 `json:"busy_time"`
	EndTime  float64 `json:"end_time"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	if len(dataset.Tests) == 0 {
		t.Fatal("Golden dataset has no test cases")
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertFloat64SliceEqual compares two slices element-wise with relative tolerance.
func AssertFloat64SliceEqual(t *testing.T, name string, want, got []float64, relTol float64) {
	t.Helper()
	if len(want) != len(got) {
		t.Errorf("%s: got %d values %v, want %d values %v", name, len(got), got, len(want), want)
		return
	}
	for i := range want {
		AssertFloat64Equal(t, name, want[i], got[i], relTol)
	}
}
