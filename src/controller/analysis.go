package controller

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"review-bot/src/config"
	"review-bot/src/model"
	"review-bot/src/service/analyzer"
	"review-bot/src/service/cache"
	"review-bot/src/service/changeset"
	"review-bot/src/util"
)

// SourceFile is one file handed to the analysis engine
type SourceFile struct {
	Filename string
	Content  string
	Patch    string
}

// AnalysisController orchestrates batch analysis
type AnalysisController struct {
	cfg    *config.Config
	runner *analyzer.Runner
	policy *util.PathPolicy
	cache  *cache.Cache
}

// NewAnalysisController creates a new analysis controller
func NewAnalysisController(cfg *config.Config) (*AnalysisController, error) {
	resultCache, err := cache.New(cfg.Cache, cfg.Analysis, cfg.Severity.MinSeverity)
	if err != nil {
		return nil, fmt.Errorf("initializing cache: %w", err)
	}
	util.Debug("Result cache initialized (enabled: %v, dir: %q)", cfg.Cache.Enabled, cfg.Cache.Dir)

	return &AnalysisController{
		cfg:    cfg,
		runner: analyzer.NewRunner(cfg),
		policy: util.NewPathPolicy(cfg.Analysis.Extensions, cfg.Exclusions),
		cache:  resultCache,
	}, nil
}

// Runner returns the analyzer runner
func (c *AnalysisController) Runner() *analyzer.Runner {
	return c.runner
}

// AnalyzePaths analyzes files and directory trees on disk. Files named
// explicitly are always reported; files found by walking a directory are
// skipped unless the path policy accepts them.
func (c *AnalysisController) AnalyzePaths(ctx context.Context, name string, paths []string) (*model.BatchReport, error) {
	files, err := c.collectFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	util.Info("Collected %d files from %d paths", len(files), len(paths))
	return c.Analyze(ctx, name, files)
}

// AnalyzeChangeSet analyzes the files of a change set. Removed files are
// skipped; files without content are skipped with a warning.
func (c *AnalysisController) AnalyzeChangeSet(ctx context.Context, cs *changeset.ChangeSet) (*model.BatchReport, error) {
	changed, empty := cs.Analyzable()
	for _, name := range empty {
		util.Warn("Skipping %s: empty content", name)
	}

	files := make([]SourceFile, len(changed))
	for i, f := range changed {
		files[i] = SourceFile{Filename: f.Filename, Content: f.Content, Patch: f.Patch}
	}
	return c.Analyze(ctx, cs.Title, files)
}

// Analyze runs the engine over files concurrently. Results keep the input
// order.
func (c *AnalysisController) Analyze(ctx context.Context, name string, files []SourceFile) (*model.BatchReport, error) {
	startTime := time.Now()
	util.Info("Starting analysis of %s (%d files)", name, len(files))

	results := make([]model.FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, c.cfg.Concurrency.MaxParallelFiles))

	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.analyzeFile(f)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		util.Error("Analysis of %s interrupted: %v", name, err)
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}

	report := &model.BatchReport{
		Name:        name,
		GeneratedAt: time.Now().UTC(),
		Summary:     analyzer.Reduce(results),
		Files:       results,
	}

	stats := c.cache.Stats()
	util.Debug("Cache: %d hits, %d misses, %d entries", stats.Hits, stats.Misses, stats.Entries)
	util.Info("Analysis complete: %d findings in %d files, %d critical (took %v)",
		report.Summary.TotalFindings, report.Summary.TotalFiles, report.Summary.CriticalFindings, time.Since(startTime))

	return report, nil
}

func (c *AnalysisController) analyzeFile(f SourceFile) model.FileResult {
	if !c.runner.Accepts(f.Filename) {
		return c.runner.AnalyzeFile(f.Filename, f.Content, f.Patch)
	}

	key := c.cache.Key(f.Filename, f.Content)
	if findings, ok := c.cache.Get(key); ok {
		util.Debug("Cache hit for %s", f.Filename)
		return model.FileResult{Filename: f.Filename, Findings: findings, Patch: f.Patch}
	}

	result := c.runner.AnalyzeFile(f.Filename, f.Content, f.Patch)
	c.cache.Put(key, result.Findings)
	return result
}

func (c *AnalysisController) collectFiles(ctx context.Context, paths []string) ([]SourceFile, error) {
	var files []SourceFile

	readFile := func(path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		files = append(files, SourceFile{Filename: filepath.ToSlash(path), Content: string(data)})
		return nil
	}

	for _, root := range paths {
		root = filepath.Clean(root)
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", root, err)
		}
		if !info.IsDir() {
			if err := readFile(root); err != nil {
				return nil, err
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && c.policy.Excluded(filepath.ToSlash(path)+"/") {
					util.Debug("Skipping excluded directory %s", path)
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || !c.policy.Accept(path) {
				return nil
			}
			return readFile(path)
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}

	return files, nil
}
