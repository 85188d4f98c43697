// Package extract drives loading and budget admission over the candidate
// list, optionally fanning file reads across a worker pool.
package extract

import (
	"context"
	"errors"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/promptpack/promptpack/internal/budget"
	"github.com/promptpack/promptpack/internal/load"
	"github.com/promptpack/promptpack/internal/types"
)

// Options configures one extraction run.
type Options struct {
	// Workers bounds concurrent file loads; zero or negative selects
	// GOMAXPROCS.
	Workers int
	// Load carries per-file loading options.
	Load load.Options
	// SelfReferencePath is the absolute path of the output destination, if
	// any. A candidate identical to it is silently skipped so the run never
	// reads a file while writing it.
	SelfReferencePath string
}

// Result is the ordered admitted set together with final totals.
type Result struct {
	Files          []types.LoadedFile
	FilesProcessed int
	BudgetRejected int
	SkipCounts     map[load.SkipReason]int
	TotalBytes     int64
	TotalTokens    int
}

// Run loads every candidate and admits files against the budget tracker.
//
// Loading fans out across the worker pool because it shares no state. Budget
// admission then runs as a single sequential pass in candidate order, which
// is the final lexicographic path order: sequential and parallel executions
// of the same input therefore admit the identical file set, not merely an
// identically ordered one.
func Run(ctx context.Context, candidates []types.Candidate, tracker *budget.Tracker, options Options, logger *zap.Logger) (Result, error) {
	workerCount := options.Workers
	if workerCount <= 0 {
		workerCount = runtime.GOMAXPROCS(0)
	}

	loadedFiles := make([]*types.LoadedFile, len(candidates))
	loadErrors := make([]error, len(candidates))

	group, groupContext := errgroup.WithContext(ctx)
	group.SetLimit(workerCount)
	for candidateIndex, candidate := range candidates {
		candidateIndex, candidate := candidateIndex, candidate
		if options.SelfReferencePath != "" && candidate.AbsolutePath == options.SelfReferencePath {
			continue
		}
		group.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}
			loadedFile, loadError := load.LoadFile(candidate, options.Load)
			if loadError != nil {
				loadErrors[candidateIndex] = loadError
				return nil
			}
			loadedFiles[candidateIndex] = &loadedFile
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return Result{}, waitError
	}

	result := Result{SkipCounts: make(map[load.SkipReason]int)}
	for candidateIndex, candidate := range candidates {
		if options.SelfReferencePath != "" && candidate.AbsolutePath == options.SelfReferencePath {
			continue
		}
		result.FilesProcessed++

		if loadError := loadErrors[candidateIndex]; loadError != nil {
			recordLoadError(candidate, loadError, &result, logger)
			continue
		}
		loadedFile := loadedFiles[candidateIndex]
		if loadedFile == nil {
			continue
		}

		if !tracker.TryReserve(loadedFile.SizeBytes, loadedFile.Tokens) {
			result.BudgetRejected++
			logger.Warn("budget exceeded, skipping file",
				zap.String("path", candidate.DisplayPath),
				zap.Int64("bytes", loadedFile.SizeBytes),
				zap.Int("tokens", loadedFile.Tokens))
			continue
		}
		result.Files = append(result.Files, *loadedFile)
	}

	result.TotalBytes, result.TotalTokens = tracker.Consumed()
	return result, nil
}

func recordLoadError(candidate types.Candidate, loadError error, result *Result, logger *zap.Logger) {
	var skipError *load.SkipError
	if errors.As(loadError, &skipError) {
		result.SkipCounts[skipError.Reason]++
		switch skipError.Reason {
		case load.ReasonEncoding:
			logger.Warn("skipping non-UTF8 file", zap.String("path", candidate.DisplayPath))
		default:
			logger.Debug("skipping file", zap.String("path", candidate.DisplayPath), zap.String("reason", string(skipError.Reason)))
		}
		return
	}
	logger.Warn("skipping unreadable file", zap.String("path", candidate.DisplayPath), zap.Error(loadError))
}
