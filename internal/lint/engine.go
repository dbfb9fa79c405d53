package lint

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/ailint/internal/cache"
	"github.com/dshills/ailint/internal/rules"
)

// Judge is the client surface the engine drives. Per-job failures come back
// as Results; only run-dooming failures (bad credentials) come back as
// errors.
type Judge interface {
	Lint(ctx context.Context, job Job) (Result, error)
}

// Reporter consumes the final result list and summary. The engine calls it
// once, at the end of a run.
type Reporter interface {
	Report(results []Result, summary Summary)
}

// Engine coordinates one lint run: expand files into jobs, partition against
// the cache, execute misses under a concurrency cap, merge, persist the
// cache once, summarize, and report.
type Engine struct {
	Matcher     *rules.Matcher
	Cache       *cache.Cache
	Judge       Judge
	Reporter    Reporter
	Concurrency int

	// Stderr receives non-fatal warnings; nil means os.Stderr.
	Stderr io.Writer
}

// RunResult is the outcome of one run.
type RunResult struct {
	Results  []Result
	Summary  Summary
	ExitCode int
}

// Run lints the given files against every matching rule. Files matching no
// rule are dropped entirely. The returned error is non-nil only when the
// whole run must abort (authentication failure); everything else degrades
// to per-job Results.
func (e *Engine) Run(ctx context.Context, files []string) (RunResult, error) {
	start := time.Now()

	if err := e.Cache.Load(); err != nil {
		e.warnf("warning: ignoring cache: %v\n", err)
	}

	jobs := e.expand(files)
	hits, misses := e.partition(jobs)

	missResults, err := e.execute(ctx, misses)
	if err != nil {
		return RunResult{}, err
	}

	results := make([]Result, 0, len(hits)+len(missResults))
	results = append(results, hits...)
	results = append(results, missResults...)

	if err := e.Cache.Save(); err != nil {
		e.warnf("warning: saving cache: %v\n", err)
	}

	summary := ComputeSummary(results, time.Since(start).Milliseconds())
	out := RunResult{
		Results:  results,
		Summary:  summary,
		ExitCode: ExitCode(results),
	}

	if e.Reporter != nil {
		e.Reporter.Report(out.Results, out.Summary)
	}

	return out, nil
}

// expand builds the (file x matching rule) job list. Each file is read once
// and hashed once; each matching rule contributes one job. An unreadable
// file is skipped with a warning and contributes nothing to any count.
func (e *Engine) expand(files []string) []Job {
	var jobs []Job
	for _, path := range files {
		matched := e.Matcher.Match(path)
		if len(matched) == 0 {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			e.warnf("warning: skipping %s: %v\n", path, err)
			continue
		}
		content := string(data)
		fileHash := cache.Hash(content)
		for _, r := range matched {
			jobs = append(jobs, Job{
				Rule:       r,
				File:       path,
				Content:    content,
				FileHash:   fileHash,
				PromptHash: cache.Hash(r.Prompt),
			})
		}
	}
	return jobs
}

// partition splits jobs into cache-hit Results and miss Jobs, both in input
// order. Hit Results are clones of the stored Result with Cached forced on.
func (e *Engine) partition(jobs []Job) ([]Result, []Job) {
	var hits []Result
	var misses []Job
	for _, job := range jobs {
		raw, ok := e.Cache.Lookup(job.Rule.ID, job.File, job.FileHash, job.PromptHash)
		if !ok {
			misses = append(misses, job)
			continue
		}
		var res Result
		if err := json.Unmarshal(raw, &res); err != nil {
			// An undecodable entry is just a miss.
			misses = append(misses, job)
			continue
		}
		res.Cached = true
		hits = append(hits, res)
	}
	return hits, misses
}

// execute runs cache misses through the judge with at most Concurrency
// calls in flight. Each completed job is stored into the cache immediately,
// success and api-error outcomes alike. An authentication failure cancels
// the remaining jobs and aborts the run.
func (e *Engine) execute(ctx context.Context, misses []Job) ([]Result, error) {
	if len(misses) == 0 {
		return nil, nil
	}

	concurrency := e.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]Result, len(misses))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, job := range misses {
		i, job := i, job
		g.Go(func() error {
			res, err := e.Judge.Lint(gctx, job)
			if err != nil {
				return err
			}
			results[i] = res
			if err := e.Cache.Store(job.Rule.ID, job.File, job.FileHash, job.PromptHash, res); err != nil {
				e.warnf("warning: caching result for %s: %v\n", cache.Key(job.Rule.ID, job.File), err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("lint run aborted: %w", err)
	}
	return results, nil
}

func (e *Engine) warnf(format string, args ...any) {
	w := e.Stderr
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, format, args...)
}
