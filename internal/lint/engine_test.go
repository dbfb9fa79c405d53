package lint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dshills/ailint/internal/cache"
	"github.com/dshills/ailint/internal/rules"
)

// fakeJudge records call counts and concurrency high-water marks.
type fakeJudge struct {
	mu          sync.Mutex
	calls       int
	inFlight    int
	maxInFlight int
	delay       time.Duration
	fn          func(job Job) (Result, error)
}

func (f *fakeJudge) Lint(ctx context.Context, job Job) (Result, error) {
	f.mu.Lock()
	f.calls++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.fn != nil {
		return f.fn(job)
	}
	return passResult(job), nil
}

func (f *fakeJudge) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func passResult(job Job) Result {
	return Result{
		RuleID:   job.Rule.ID,
		RuleName: job.Rule.DisplayName(),
		File:     job.File,
		Severity: job.Rule.Severity,
		Pass:     true,
		Message:  "complies",
	}
}

func failResult(job Job) Result {
	r := passResult(job)
	r.Pass = false
	r.Message = "violation found"
	return r
}

type fakeReporter struct {
	results []Result
	summary Summary
	called  bool
}

func (f *fakeReporter) Report(results []Result, summary Summary) {
	f.results = results
	f.summary = summary
	f.called = true
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	return path
}

func newEngine(judge Judge, rs []rules.Rule, c *cache.Cache) (*Engine, *bytes.Buffer) {
	var stderr bytes.Buffer
	return &Engine{
		Matcher:     rules.NewMatcher(rs),
		Cache:       c,
		Judge:       judge,
		Concurrency: 4,
		Stderr:      &stderr,
	}, &stderr
}

func TestEngine_FanOut(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.ts", "console.log('x')\n")
	b := writeFile(t, dir, "b.go", "package b\n")
	readme := writeFile(t, dir, "README.md", "# hi\n")

	rs := []rules.Rule{
		{ID: "no_console", Severity: rules.SeverityError, Files: "*.ts", Prompt: "No console.log"},
		{ID: "max_length", Severity: rules.SeverityWarning, Files: "*.ts", Prompt: "Short functions"},
		{ID: "go_errors", Severity: rules.SeverityError, Files: "*.go", Prompt: "Wrap errors"},
	}

	judge := &fakeJudge{}
	eng, _ := newEngine(judge, rs, cache.New(true, filepath.Join(dir, "cachedir")))
	rep := &fakeReporter{}
	eng.Reporter = rep

	res, err := eng.Run(context.Background(), []string{a, b, readme})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	// a.ts matches two rules, b.go one, README.md none.
	if judge.callCount() != 3 {
		t.Errorf("Judge calls = %d, want 3", judge.callCount())
	}
	if res.Summary.TotalRulesApplied != 3 {
		t.Errorf("TotalRulesApplied = %d, want 3", res.Summary.TotalRulesApplied)
	}
	if res.Summary.TotalFiles != 2 {
		t.Errorf("TotalFiles = %d, want 2 (unmatched files do not count)", res.Summary.TotalFiles)
	}
	if res.Summary.Passed != 3 {
		t.Errorf("Passed = %d, want 3", res.Summary.Passed)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if !rep.called {
		t.Error("Reporter should be called")
	}
	if len(rep.results) != 3 {
		t.Errorf("Reporter got %d results, want 3", len(rep.results))
	}
}

func TestEngine_SecondRunServedFromCache(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.ts", "console.log('debug')\n")
	cacheDir := filepath.Join(dir, "cachedir")

	rs := []rules.Rule{
		{ID: "no_console", Severity: rules.SeverityError, Files: "*.ts", Prompt: "No console.log"},
		{ID: "max_length", Severity: rules.SeverityWarning, Files: "*.ts", Prompt: "Short functions"},
	}

	judge1 := &fakeJudge{fn: func(job Job) (Result, error) {
		if job.Rule.ID == "no_console" {
			return failResult(job), nil
		}
		return passResult(job), nil
	}}
	eng1, _ := newEngine(judge1, rs, cache.New(true, cacheDir))

	res1, err := eng1.Run(context.Background(), []string{a})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if judge1.callCount() != 2 {
		t.Errorf("First run judge calls = %d, want 2", judge1.callCount())
	}
	if res1.Summary.Errors != 1 || res1.Summary.Passed != 1 {
		t.Errorf("First run summary = %+v, want 1 error and 1 pass", res1.Summary)
	}
	if res1.ExitCode != 1 {
		t.Errorf("First run ExitCode = %d, want 1", res1.ExitCode)
	}

	// Second run with an unchanged file: all results come from the cache
	// and the verdicts (including the failure) survive.
	judge2 := &fakeJudge{}
	eng2, _ := newEngine(judge2, rs, cache.New(true, cacheDir))

	res2, err := eng2.Run(context.Background(), []string{a})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if judge2.callCount() != 0 {
		t.Errorf("Second run judge calls = %d, want 0", judge2.callCount())
	}
	if res2.Summary.Cached != 2 {
		t.Errorf("Second run Cached = %d, want 2", res2.Summary.Cached)
	}
	if res2.ExitCode != 1 {
		t.Errorf("Second run ExitCode = %d, want 1 (cached failure)", res2.ExitCode)
	}
	for _, r := range res2.Results {
		if !r.Cached {
			t.Errorf("Result %s should be marked cached", r.RuleID)
		}
	}
}

func TestEngine_FileChangeInvalidatesCache(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.ts", "const x = 1\n")
	cacheDir := filepath.Join(dir, "cachedir")

	rs := []rules.Rule{
		{ID: "no_console", Severity: rules.SeverityError, Files: "*.ts", Prompt: "No console.log"},
	}

	judge1 := &fakeJudge{}
	eng1, _ := newEngine(judge1, rs, cache.New(true, cacheDir))
	if _, err := eng1.Run(context.Background(), []string{a}); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	writeFile(t, dir, "a.ts", "const x = 2\n")

	judge2 := &fakeJudge{}
	eng2, _ := newEngine(judge2, rs, cache.New(true, cacheDir))
	res, err := eng2.Run(context.Background(), []string{a})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if judge2.callCount() != 1 {
		t.Errorf("Judge calls after edit = %d, want 1", judge2.callCount())
	}
	if res.Summary.Cached != 0 {
		t.Errorf("Cached = %d, want 0 after file edit", res.Summary.Cached)
	}
}

func TestEngine_PromptChangeInvalidatesOnlyThatRule(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.ts", "const x = 1\n")
	cacheDir := filepath.Join(dir, "cachedir")

	rule1 := rules.Rule{ID: "no_console", Severity: rules.SeverityError, Files: "*.ts", Prompt: "No console.log"}
	rule2 := rules.Rule{ID: "max_length", Severity: rules.SeverityWarning, Files: "*.ts", Prompt: "Short functions"}

	judge1 := &fakeJudge{}
	eng1, _ := newEngine(judge1, []rules.Rule{rule1, rule2}, cache.New(true, cacheDir))
	if _, err := eng1.Run(context.Background(), []string{a}); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	rule1.Prompt = "No console.log or console.debug"

	judge2 := &fakeJudge{}
	eng2, _ := newEngine(judge2, []rules.Rule{rule1, rule2}, cache.New(true, cacheDir))
	res, err := eng2.Run(context.Background(), []string{a})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if judge2.callCount() != 1 {
		t.Errorf("Judge calls = %d, want 1 (only the edited rule re-runs)", judge2.callCount())
	}
	if res.Summary.Cached != 1 {
		t.Errorf("Cached = %d, want 1", res.Summary.Cached)
	}
}

func TestEngine_DisabledCacheAlwaysJudges(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.ts", "const x = 1\n")

	rs := []rules.Rule{
		{ID: "no_console", Severity: rules.SeverityError, Files: "*.ts", Prompt: "No console.log"},
	}

	judge := &fakeJudge{}
	eng, _ := newEngine(judge, rs, cache.New(false, filepath.Join(dir, "cachedir")))

	for i := 0; i < 2; i++ {
		if _, err := eng.Run(context.Background(), []string{a}); err != nil {
			t.Fatalf("Run error: %v", err)
		}
	}
	if judge.callCount() != 2 {
		t.Errorf("Judge calls = %d, want 2 with caching disabled", judge.callCount())
	}
}

func TestEngine_ConcurrencyBound(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i := 0; i < 12; i++ {
		files = append(files, writeFile(t, dir, fmt.Sprintf("f%d.ts", i), "x\n"))
	}

	rs := []rules.Rule{
		{ID: "no_console", Severity: rules.SeverityError, Files: "*.ts", Prompt: "No console.log"},
	}

	judge := &fakeJudge{delay: 10 * time.Millisecond}
	eng, _ := newEngine(judge, rs, cache.New(true, filepath.Join(dir, "cachedir")))
	eng.Concurrency = 3

	if _, err := eng.Run(context.Background(), files); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if judge.callCount() != 12 {
		t.Errorf("Judge calls = %d, want 12", judge.callCount())
	}
	if judge.maxInFlight > 3 {
		t.Errorf("Max in-flight calls = %d, want <= 3", judge.maxInFlight)
	}
}

func TestEngine_ResultOrderStable(t *testing.T) {
	dir := t.TempDir()
	delays := map[string]time.Duration{}
	var files []string
	for i := 0; i < 5; i++ {
		name := string(rune('a'+i)) + ".ts"
		path := writeFile(t, dir, name, "x\n")
		files = append(files, path)
		// Earlier jobs finish later.
		delays[path] = time.Duration(5-i) * 5 * time.Millisecond
	}

	rs := []rules.Rule{
		{ID: "no_console", Severity: rules.SeverityError, Files: "*.ts", Prompt: "No console.log"},
	}

	judge := &fakeJudge{fn: func(job Job) (Result, error) {
		time.Sleep(delays[job.File])
		return passResult(job), nil
	}}
	eng, _ := newEngine(judge, rs, cache.New(true, filepath.Join(dir, "cachedir")))

	res, err := eng.Run(context.Background(), files)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(res.Results) != len(files) {
		t.Fatalf("Results = %d, want %d", len(res.Results), len(files))
	}
	for i, r := range res.Results {
		if r.File != files[i] {
			t.Errorf("Results[%d].File = %s, want %s (input order)", i, r.File, files[i])
		}
	}
}

func TestEngine_AuthFailureAbortsRun(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.ts", "x\n")

	rs := []rules.Rule{
		{ID: "no_console", Severity: rules.SeverityError, Files: "*.ts", Prompt: "No console.log"},
	}

	judge := &fakeJudge{fn: func(job Job) (Result, error) {
		return Result{}, errors.New("authentication error (anthropic): invalid key")
	}}
	eng, _ := newEngine(judge, rs, cache.New(true, filepath.Join(dir, "cachedir")))
	rep := &fakeReporter{}
	eng.Reporter = rep

	_, err := eng.Run(context.Background(), []string{a})
	if err == nil {
		t.Fatal("Expected run to abort")
	}
	if !strings.Contains(err.Error(), "lint run aborted") {
		t.Errorf("Error = %v, want abort wrapper", err)
	}
	if rep.called {
		t.Error("Reporter should not run after an abort")
	}
}

func TestEngine_APIErrorResultCachedAndFailsRun(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.ts", "x\n")
	cacheDir := filepath.Join(dir, "cachedir")

	rs := []rules.Rule{
		{ID: "no_console", Severity: rules.SeverityWarning, Files: "*.ts", Prompt: "No console.log"},
	}

	judge1 := &fakeJudge{fn: func(job Job) (Result, error) {
		r := passResult(job)
		r.Pass = false
		r.Message = "API error: server error"
		r.APIError = true
		return r, nil
	}}
	eng1, _ := newEngine(judge1, rs, cache.New(true, cacheDir))

	res1, err := eng1.Run(context.Background(), []string{a})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res1.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1 for an API failure even on a warning rule", res1.ExitCode)
	}

	// The degraded result is cached; the second run serves it without a call.
	judge2 := &fakeJudge{}
	eng2, _ := newEngine(judge2, rs, cache.New(true, cacheDir))
	res2, err := eng2.Run(context.Background(), []string{a})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if judge2.callCount() != 0 {
		t.Errorf("Judge calls = %d, want 0", judge2.callCount())
	}
	if len(res2.Results) != 1 || !res2.Results[0].APIError {
		t.Errorf("Expected cached API-error result, got %+v", res2.Results)
	}
	if res2.ExitCode != 1 {
		t.Errorf("Second run ExitCode = %d, want 1", res2.ExitCode)
	}
}

func TestEngine_UnreadableFileSkippedWithWarning(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.ts")

	rs := []rules.Rule{
		{ID: "no_console", Severity: rules.SeverityError, Files: "*.ts", Prompt: "No console.log"},
	}

	judge := &fakeJudge{}
	eng, stderr := newEngine(judge, rs, cache.New(true, filepath.Join(dir, "cachedir")))

	res, err := eng.Run(context.Background(), []string{missing})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if judge.callCount() != 0 {
		t.Errorf("Judge calls = %d, want 0", judge.callCount())
	}
	if res.Summary.TotalFiles != 0 || res.ExitCode != 0 {
		t.Errorf("Summary = %+v exit %d, want empty run with exit 0", res.Summary, res.ExitCode)
	}
	if !strings.Contains(stderr.String(), "skipping") {
		t.Errorf("Stderr = %q, want a skip warning", stderr.String())
	}
}

func TestEngine_NoFiles(t *testing.T) {
	dir := t.TempDir()
	rs := []rules.Rule{
		{ID: "no_console", Severity: rules.SeverityError, Files: "*.ts", Prompt: "No console.log"},
	}

	judge := &fakeJudge{}
	eng, _ := newEngine(judge, rs, cache.New(true, filepath.Join(dir, "cachedir")))
	rep := &fakeReporter{}
	eng.Reporter = rep

	res, err := eng.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if !rep.called {
		t.Error("Reporter should run even for an empty job list")
	}
}

func TestEngine_CorruptCacheWarnsAndRuns(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.ts", "x\n")
	cacheDir := filepath.Join(dir, "cachedir")
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		t.Fatalf("MkdirAll error: %v", err)
	}
	writeFile(t, cacheDir, "cache.json", "{broken")

	rs := []rules.Rule{
		{ID: "no_console", Severity: rules.SeverityError, Files: "*.ts", Prompt: "No console.log"},
	}

	judge := &fakeJudge{}
	eng, stderr := newEngine(judge, rs, cache.New(true, cacheDir))

	res, err := eng.Run(context.Background(), []string{a})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if judge.callCount() != 1 {
		t.Errorf("Judge calls = %d, want 1", judge.callCount())
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if !strings.Contains(stderr.String(), "ignoring cache") {
		t.Errorf("Stderr = %q, want a cache warning", stderr.String())
	}
}
