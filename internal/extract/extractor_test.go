package extract_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"go.uber.org/zap"

	"github.com/promptpack/promptpack/internal/budget"
	"github.com/promptpack/promptpack/internal/extract"
	"github.com/promptpack/promptpack/internal/load"
	"github.com/promptpack/promptpack/internal/types"
)

// writeCandidates materializes file contents and returns candidates sorted by
// display path, mirroring the resolver's output order.
func writeCandidates(t *testing.T, contents map[string][]byte) []types.Candidate {
	t.Helper()
	rootDirectory := t.TempDir()
	candidates := make([]types.Candidate, 0, len(contents))
	for fileName, content := range contents {
		absolutePath := filepath.Join(rootDirectory, fileName)
		if writeError := os.WriteFile(absolutePath, content, 0o644); writeError != nil {
			t.Fatalf("write %s: %v", fileName, writeError)
		}
		candidates = append(candidates, types.Candidate{
			AbsolutePath: absolutePath,
			DisplayPath:  fileName,
			Reason:       types.AdmissionFilter,
		})
	}
	sort.Slice(candidates, func(firstIndex, secondIndex int) bool {
		return candidates[firstIndex].DisplayPath < candidates[secondIndex].DisplayPath
	})
	return candidates
}

func admittedPaths(result extract.Result) []string {
	paths := make([]string, 0, len(result.Files))
	for _, admittedFile := range result.Files {
		paths = append(paths, admittedFile.Path)
	}
	return paths
}

func TestRunAdmitsInPathOrderUnderBudget(t *testing.T) {
	t.Parallel()

	candidates := writeCandidates(t, map[string][]byte{
		"a.txt": []byte("0123456789"),
		"b.png": append([]byte("PNG"), 0x00, 0x01),
		"c.txt": []byte("0123456789"),
	})
	tracker := budget.NewTracker(budget.Limits{MaxBytes: 15})

	result, runError := extract.Run(context.Background(), candidates, tracker, extract.Options{Workers: 4}, zap.NewNop())
	if runError != nil {
		t.Fatalf("run: %v", runError)
	}

	paths := admittedPaths(result)
	if len(paths) != 1 || paths[0] != "a.txt" {
		t.Fatalf("expected only a.txt admitted, got %v", paths)
	}
	if result.FilesProcessed != 3 {
		t.Fatalf("expected 3 processed, got %d", result.FilesProcessed)
	}
	if result.BudgetRejected != 1 {
		t.Fatalf("expected one budget rejection, got %d", result.BudgetRejected)
	}
	if result.SkipCounts[load.ReasonBinary] != 1 {
		t.Fatalf("expected one binary skip, got %v", result.SkipCounts)
	}
	if result.TotalBytes != 10 {
		t.Fatalf("expected 10 consumed bytes, got %d", result.TotalBytes)
	}
}

func TestRunSequentialAndParallelAdmitIdenticalSets(t *testing.T) {
	t.Parallel()

	contents := make(map[string][]byte)
	for fileIndex := 0; fileIndex < 40; fileIndex++ {
		name := string(rune('a'+fileIndex%26)) + "_" + string(rune('0'+fileIndex/26)) + ".txt"
		contents[name] = []byte("payload for " + name + "\n")
	}
	candidates := writeCandidates(t, contents)

	sequentialTracker := budget.NewTracker(budget.Limits{MaxBytes: 300})
	sequentialResult, sequentialError := extract.Run(context.Background(), candidates, sequentialTracker, extract.Options{Workers: 1}, zap.NewNop())
	if sequentialError != nil {
		t.Fatalf("sequential run: %v", sequentialError)
	}

	parallelTracker := budget.NewTracker(budget.Limits{MaxBytes: 300})
	parallelResult, parallelError := extract.Run(context.Background(), candidates, parallelTracker, extract.Options{Workers: 8}, zap.NewNop())
	if parallelError != nil {
		t.Fatalf("parallel run: %v", parallelError)
	}

	sequentialPaths := admittedPaths(sequentialResult)
	parallelPaths := admittedPaths(parallelResult)
	if len(sequentialPaths) != len(parallelPaths) {
		t.Fatalf("admitted set size differs: %d vs %d", len(sequentialPaths), len(parallelPaths))
	}
	for pathIndex := range sequentialPaths {
		if sequentialPaths[pathIndex] != parallelPaths[pathIndex] {
			t.Fatalf("admitted sets diverge at %d: %s vs %s", pathIndex, sequentialPaths[pathIndex], parallelPaths[pathIndex])
		}
	}
}

func TestRunSkipsSelfReference(t *testing.T) {
	t.Parallel()

	candidates := writeCandidates(t, map[string][]byte{
		"input.txt":  []byte("input\n"),
		"output.txt": []byte("previous artifact\n"),
	})

	var selfReferencePath string
	for _, candidate := range candidates {
		if candidate.DisplayPath == "output.txt" {
			selfReferencePath = candidate.AbsolutePath
		}
	}

	tracker := budget.NewTracker(budget.Limits{})
	result, runError := extract.Run(context.Background(), candidates, tracker, extract.Options{
		SelfReferencePath: selfReferencePath,
	}, zap.NewNop())
	if runError != nil {
		t.Fatalf("run: %v", runError)
	}

	paths := admittedPaths(result)
	if len(paths) != 1 || paths[0] != "input.txt" {
		t.Fatalf("expected self reference skipped, got %v", paths)
	}
	if result.FilesProcessed != 1 {
		t.Fatalf("self reference must not count as processed, got %d", result.FilesProcessed)
	}
}

func TestRunUnreadableFileDoesNotAbort(t *testing.T) {
	t.Parallel()

	candidates := writeCandidates(t, map[string][]byte{
		"readable.txt": []byte("content\n"),
	})
	candidates = append(candidates, types.Candidate{
		AbsolutePath: filepath.Join(t.TempDir(), "ghost.txt"),
		DisplayPath:  "zz_ghost.txt",
	})

	tracker := budget.NewTracker(budget.Limits{})
	result, runError := extract.Run(context.Background(), candidates, tracker, extract.Options{}, zap.NewNop())
	if runError != nil {
		t.Fatalf("run: %v", runError)
	}

	paths := admittedPaths(result)
	if len(paths) != 1 || paths[0] != "readable.txt" {
		t.Fatalf("expected readable file admitted despite unreadable sibling, got %v", paths)
	}
	if result.FilesProcessed != 2 {
		t.Fatalf("expected 2 processed, got %d", result.FilesProcessed)
	}
}

func TestRunEmptyCandidateList(t *testing.T) {
	t.Parallel()

	tracker := budget.NewTracker(budget.Limits{})
	result, runError := extract.Run(context.Background(), nil, tracker, extract.Options{}, zap.NewNop())
	if runError != nil {
		t.Fatalf("run: %v", runError)
	}
	if len(result.Files) != 0 || result.FilesProcessed != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}
