package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"codeberg.org/snonux/tabtrans/internal/batch"
	"codeberg.org/snonux/tabtrans/internal/config"
	"codeberg.org/snonux/tabtrans/internal/sheet"
	"codeberg.org/snonux/tabtrans/internal/translation"
)

// OutputSuffix is inserted before the extension of the saved copy
const OutputSuffix = "_translate"

// Job describes one column translation run
type Job struct {
	Path       string
	Column     int // 1-based
	SourceLang string
	TargetLang string
	BatchSize  int
}

// Options configures a Processor
type Options struct {
	Delay    time.Duration // pause after every batch
	Output   io.Writer     // status lines; os.Stdout when nil
	Progress io.Writer     // progress bar; os.Stderr when nil
}

// Processor runs column translation jobs
type Processor struct {
	translator translation.BatchTranslator
	delay      time.Duration
	out        io.Writer
	progress   io.Writer
	sleep      func(ctx context.Context, d time.Duration)
}

// NewProcessor creates a processor that translates through the given translator
func NewProcessor(translator translation.BatchTranslator, opts Options) *Processor {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	progress := opts.Progress
	if progress == nil {
		progress = os.Stderr
	}
	return &Processor{
		translator: translator,
		delay:      opts.Delay,
		out:        out,
		progress:   progress,
		sleep:      sleep,
	}
}

// NewProcessorFromConfig builds the translator described by cfg and wraps
// it in a processor paced by cfg's api_delay
func NewProcessorFromConfig(ctx context.Context, cfg *config.Config) (*Processor, error) {
	tr, err := translation.NewTranslator(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create translator: %w", err)
	}
	return NewProcessor(tr, Options{Delay: cfg.BatchDelay()}), nil
}

// OutputPath returns path with OutputSuffix inserted before its extension
func OutputPath(path string) string {
	dir, file := filepath.Split(path)
	ext := filepath.Ext(file)
	return dir + strings.TrimSuffix(file, ext) + OutputSuffix + ext
}

// ProcessFile translates job.Column of job.Path and saves the result next
// to the input. Only file level problems are returned as errors; a batch
// that cannot be translated leaves sentinel text in its own cells.
func (p *Processor) ProcessFile(ctx context.Context, job Job) (string, error) {
	if job.Column < 1 {
		return "", fmt.Errorf("invalid column %d: columns start at 1", job.Column)
	}
	if job.BatchSize < 1 {
		return "", fmt.Errorf("invalid batch size %d", job.BatchSize)
	}
	if _, err := sheet.DetectFormat(job.Path); err != nil {
		return "", err
	}

	table, err := sheet.Open(job.Path)
	if err != nil {
		return "", err
	}
	defer table.Close()

	values, err := table.Column(job.Column)
	if err != nil {
		return "", fmt.Errorf("failed to read column %d: %w", job.Column, err)
	}

	targetCol, err := table.InsertTranslationColumn(job.Column, job.SourceLang, job.TargetLang)
	if err != nil {
		return "", err
	}

	entries := batch.Collect(values, table.FirstDataRow())
	chunks := batch.Chunk(entries, job.BatchSize)
	fmt.Fprintf(p.out, "%d cells to translate in %d batches\n", len(entries), len(chunks))

	if err := p.translateChunks(ctx, table, targetCol, chunks, job); err != nil {
		return "", err
	}

	outPath := OutputPath(job.Path)
	if err := table.Save(outPath); err != nil {
		return "", err
	}

	fmt.Fprintf(p.out, "saved: %s\n", outPath)
	return outPath, nil
}

func (p *Processor) translateChunks(ctx context.Context, table sheet.Table, col int, chunks [][]batch.Entry, job Job) error {
	if len(chunks) == 0 {
		return nil
	}

	bar := progressbar.NewOptions(len(chunks),
		progressbar.OptionSetWriter(p.progress),
		progressbar.OptionSetDescription("translating"),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(p.progress)
		}),
	)

	for _, chunk := range chunks {
		results := p.translator.TranslateBatch(ctx, batch.Texts(chunk), job.SourceLang, job.TargetLang)
		if len(results) != len(chunk) {
			fmt.Fprintf(os.Stderr, "Warning: translator returned %d results for %d cells\n", len(results), len(chunk))
		}

		for j, entry := range chunk {
			if j >= len(results) {
				break
			}
			if err := table.SetCell(entry.Row, col, results[j]); err != nil {
				return fmt.Errorf("failed to write row %d: %w", entry.Row, err)
			}
		}

		_ = bar.Add(1)
		p.sleep(ctx, p.delay)
	}

	return bar.Finish()
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
