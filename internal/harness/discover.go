package harness

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindScenarioFiles returns the .yaml and .yml files under dir, sorted.
// A non-empty filter is a glob matched against the file name without its
// extension.
func FindScenarioFiles(dir, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			if matched, _ := filepath.Match(filter, name); !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	sort.Strings(files)
	return files, err
}

// GoldenPath returns the golden file for a scenario file: a golden/
// directory next to the scenarios directory, keyed by scenario name.
//
//	testdata/scenarios/vote_once.yaml -> testdata/golden/vote_once.golden
func GoldenPath(scenarioFile, scenarioName string) string {
	dir := filepath.Dir(filepath.Dir(scenarioFile))
	return filepath.Join(dir, "golden", scenarioName+".golden")
}

// WriteGolden renders result and writes it to path, creating the
// directory when needed.
func WriteGolden(path, scenarioName string, result *Result) error {
	data, err := MarshalSnapshot(scenarioName, result)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// GoldenNotFoundError is returned by CompareGolden when the scenario has
// no golden file yet.
type GoldenNotFoundError struct {
	Scenario string
	Path     string
}

// Error implements the error interface.
func (e *GoldenNotFoundError) Error() string {
	return fmt.Sprintf("scenario %q has no golden file (expected at %s)", e.Scenario, e.Path)
}

// CompareGolden reports whether result renders byte-identical to the
// golden file at path.
func CompareGolden(path, scenarioName string, result *Result) (bool, error) {
	want, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, &GoldenNotFoundError{Scenario: scenarioName, Path: path}
	}
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	got, err := MarshalSnapshot(scenarioName, result)
	if err != nil {
		return false, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return bytes.Equal(want, got), nil
}
