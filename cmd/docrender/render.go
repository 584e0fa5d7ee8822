package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/VamsiKurapati/docrender"
	"github.com/VamsiKurapati/docrender/internal/fileutil"
	"github.com/VamsiKurapati/docrender/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput          = errors.New("no input specified")
	ErrReadDocument     = errors.New("failed to read document file")
	ErrWritePDF         = errors.New("failed to write PDF file")
	ErrWriteHTML        = errors.New("failed to write HTML file")
	ErrInvalidExtension = errors.New("file must have .json, .yaml or .yml extension")
)

// documentExtensions are the inputs discovered in directories.
var documentExtensions = map[string]bool{".json": true, ".yaml": true, ".yml": true}

// DocumentRenderer is the part of the renderer the CLI uses.
type DocumentRenderer interface {
	Render(ctx context.Context, doc *docrender.Document) (*docrender.Result, error)
	Markup(ctx context.Context, doc *docrender.Document) (*docrender.Result, error)
}

// Compile-time interface implementation check.
var _ DocumentRenderer = (*docrender.Renderer)(nil)

// FileToRender represents a single document to process.
type FileToRender struct {
	InputPath  string
	OutputPath string
}

// RenderResult holds the outcome of a single render.
type RenderResult struct {
	InputPath  string
	OutputPath string
	Pages      int
	Degraded   []docrender.Degradation
	Err        error
	Duration   time.Duration
}

// renderParams holds per-batch settings.
type renderParams struct {
	html     bool
	htmlOnly bool
}

// runRenderCmd parses flags, loads config and renders every input.
func runRenderCmd(ctx context.Context, args []string, env *Environment) error {
	flags, inputs, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	if err := applyEngineFlags(flags.engine, cfg); err != nil {
		return err
	}
	if flags.keep {
		cfg.Render.KeepMarkup = true
	}
	env.Config = cfg

	logger := newLogger(env.Stderr, cfg.Log, flags.common)
	renderer := newRenderer(cfg, logger)
	limiter := docrender.NewLimiter(docrender.ResolveLimit(cfg.Server.Workers))
	logger.Debug("render limiter sized", "workers", limiter.Size())

	return runRender(ctx, inputs, flags, renderer, limiter, env)
}

// runRender discovers the documents, renders them and prints the results.
func runRender(ctx context.Context, inputs []string, flags *renderFlags, r DocumentRenderer, limiter *docrender.Limiter, env *Environment) error {
	if len(inputs) == 0 {
		return ErrNoInput
	}

	files, err := discoverFiles(inputs, flags.output)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no .json or .yaml documents in %s", ErrNoInput, strings.Join(inputs, ", "))
	}

	params := renderParams{html: flags.html, htmlOnly: flags.htmlOnly}
	results := renderBatch(ctx, r, limiter, files, params)

	if failedCount := printResults(results, flags.common.quiet, flags.common.verbose, env); failedCount > 0 {
		return newBatchError(results)
	}
	return nil
}

// batchError summarizes failed renders. The causes stay reachable through
// errors.Is so the exit code reflects them.
type batchError struct {
	errs []error
}

func newBatchError(results []RenderResult) *batchError {
	e := &batchError{}
	for _, r := range results {
		if r.Err != nil {
			e.errs = append(e.errs, r.Err)
		}
	}
	return e
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d render(s) failed", len(e.errs))
}

func (e *batchError) Unwrap() []error { return e.errs }

// discoverFiles expands inputs into documents. Directories are walked for
// document extensions; files must carry one.
func discoverFiles(inputs []string, output string) ([]FileToRender, error) {
	var files []FileToRender
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if err := validateDocumentExtension(input); err != nil {
				return nil, err
			}
			files = append(files, FileToRender{InputPath: input, OutputPath: resolveOutputPath(input, output, "")})
			continue
		}

		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() || !documentExtensions[strings.ToLower(filepath.Ext(path))] {
				return nil
			}
			files = append(files, FileToRender{InputPath: path, OutputPath: resolveOutputPath(path, output, input)})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(files) > 1 && strings.EqualFold(filepath.Ext(output), ".pdf") {
		return nil, fmt.Errorf("%w: -o %s names one file but %d documents were found", errUsage, output, len(files))
	}
	return files, nil
}

// resolveOutputPath determines the PDF output path for a document.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	if outputDir == "" {
		return fileutil.SwapExtension(inputPath, "", ".pdf")
	}

	if strings.EqualFold(filepath.Ext(outputDir), ".pdf") {
		return outputDir
	}

	if baseInputDir != "" {
		if relPath, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return fileutil.SwapExtension(relPath, filepath.Join(outputDir, filepath.Dir(relPath)), ".pdf")
		}
	}

	return fileutil.SwapExtension(inputPath, outputDir, ".pdf")
}

// validateDocumentExtension checks that the file is JSON or YAML.
func validateDocumentExtension(path string) error {
	ext := filepath.Ext(path)
	if !documentExtensions[strings.ToLower(ext)] {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}

// htmlOutputPath returns the HTML path corresponding to a PDF path.
func htmlOutputPath(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".html"
}

// renderBatch renders files concurrently; the limiter bounds how many
// renders run at once.
func renderBatch(ctx context.Context, r DocumentRenderer, limiter *docrender.Limiter, files []FileToRender, params renderParams) []RenderResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(limiter.Size(), len(files))

	results := make([]RenderResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = RenderResult{InputPath: files[idx].InputPath, Err: ctx.Err()}
					continue
				}
				if err := limiter.Acquire(ctx); err != nil {
					results[idx] = RenderResult{InputPath: files[idx].InputPath, Err: err}
					continue
				}
				results[idx] = renderFile(ctx, r, files[idx], params)
				limiter.Release()
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// renderFile processes a single document and returns the result.
func renderFile(ctx context.Context, r DocumentRenderer, f FileToRender, params renderParams) RenderResult {
	start := time.Now()
	result := RenderResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) RenderResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	data, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrReadDocument, err))
	}
	doc, err := docrender.Parse(data)
	if err != nil {
		return fail(err)
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return fail(fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory()))
	}

	var res *docrender.Result
	if params.htmlOnly {
		res, err = r.Markup(ctx, doc)
	} else {
		res, err = r.Render(ctx, doc)
	}
	if err != nil {
		return fail(err)
	}
	result.Pages = res.Pages
	result.Degraded = res.Degraded

	if params.html || params.htmlOnly {
		htmlPath := htmlOutputPath(f.OutputPath)
		// #nosec G306 -- HTML files are meant to be readable
		if err := os.WriteFile(htmlPath, res.HTML, filePermissions); err != nil {
			return fail(fmt.Errorf("%w: %v", ErrWriteHTML, err))
		}
		if params.htmlOnly {
			result.OutputPath = htmlPath
			result.Duration = time.Since(start)
			return result
		}
	}

	// #nosec G306 -- PDFs are meant to be readable
	if err := os.WriteFile(f.OutputPath, res.PDF, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrWritePDF, err))
	}

	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds the count of succeeded and failed renders.
type ResultSummary struct {
	Succeeded int
	Failed    int
	Degraded  int
}

// countResults tallies succeeded and failed renders.
func countResults(results []RenderResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		summary.Degraded += len(r.Degraded)
	}
	return summary
}

// printResults outputs render results and returns the failure count.
func printResults(results []RenderResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)
	missingEndpoint := false

	for _, r := range results {
		if r.Err != nil {
			hint := ""
			if errors.Is(r.Err, docrender.ErrTierTimeout) {
				hint = hints.ForTimeout()
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s%s\n", r.InputPath, r.Err, hint, engineHint(r.Err, env))
			continue
		}

		for _, d := range r.Degraded {
			fmt.Fprintf(env.Stderr, "WARN %s: page %d %s: %s\n", r.InputPath, d.Page, degradedTarget(d), d.Message)
			if strings.Contains(d.Message, "no endpoint configured") {
				missingEndpoint = true
			}
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d pages, %v)\n", r.InputPath, r.OutputPath, r.Pages, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if missingEndpoint {
		fmt.Fprintln(env.Stderr, strings.TrimPrefix(hints.ForAssetEndpoints(), "\n"))
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

// engineHint suggests engine settings for an exhausted render chain, leaving
// out whatever the loaded configuration already sets.
func engineHint(err error, env *Environment) string {
	var exhausted *docrender.ExhaustedError
	if !errors.As(err, &exhausted) {
		return ""
	}
	settings := hints.EngineSettings{
		InContainer: exhausted.Environment.Container,
		InCI:        exhausted.Environment.CI,
	}
	if env.Config != nil {
		settings.NoSandbox = env.Config.Render.NoSandbox
		settings.BrowserBin = env.Config.Render.BrowserBin
	}
	return hints.ForRenderEngine(settings)
}

// degradedTarget names what degraded: a page background or an element.
func degradedTarget(d docrender.Degradation) string {
	if d.Index < 0 {
		return "background"
	}
	return fmt.Sprintf("element %d", d.Index)
}
