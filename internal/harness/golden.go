package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/sqlquest/internal/session"
)

// Snapshot is the golden-file form of a scenario run.
type Snapshot struct {
	ScenarioName string            `json:"scenario_name"`
	Attempts     []session.Attempt `json:"attempts"`
}

// MarshalSnapshot renders the run history as indented JSON with a trailing
// newline. HTML characters are not escaped, so queries stay readable.
func MarshalSnapshot(name string, result *Result) ([]byte, error) {
	attempts := result.Attempts
	if attempts == nil {
		attempts = []session.Attempt{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Snapshot{ScenarioName: name, Attempts: attempts}); err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// GoldenPath returns where the golden file of a scenario file lives:
// a golden/ directory next to it, named after the file.
func GoldenPath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

// WriteGolden stores the snapshot of result as the scenario file's golden
// file.
func WriteGolden(scenarioFile string, scenario *Scenario, result *Result) error {
	data, err := MarshalSnapshot(scenario.Name, result)
	if err != nil {
		return err
	}

	path := GoldenPath(scenarioFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// CompareGolden reports whether result matches the scenario file's golden
// file. The error is os.ErrNotExist-wrapped when there is none.
func CompareGolden(scenarioFile string, scenario *Scenario, result *Result) (bool, error) {
	want, err := os.ReadFile(GoldenPath(scenarioFile))
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	got, err := MarshalSnapshot(scenario.Name, result)
	if err != nil {
		return false, err
	}
	return bytes.Equal(want, got), nil
}

// AssertGolden compares result against dir/<name>.golden. Run the tests
// with -update to regenerate.
func AssertGolden(t *testing.T, dir, name string, result *Result) {
	t.Helper()

	data, err := MarshalSnapshot(name, result)
	if err != nil {
		t.Fatalf("snapshot %s: %v", name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(dir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
