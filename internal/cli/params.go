package cli

import (
	"errors"
	"fmt"
	"strings"

	"codeberg.org/snonux/tabtrans/internal"
	"codeberg.org/snonux/tabtrans/internal/config"
)

// ErrInvalidParams is returned when the effective parameters cannot be used
var ErrInvalidParams = errors.New("invalid parameters")

// Params are the effective settings of one run
type Params struct {
	File       string
	Column     int
	SourceLang string
	TargetLang string
	BatchSize  int
	MaxRetries int
}

// Resolve merges flags with the config defaults. A flag given on the
// command line wins over the matching default_* key.
func Resolve(flags *Flags, cfg *config.Config) (Params, error) {
	p := Params{
		File:       cfg.DefaultFile,
		Column:     cfg.DefaultColumn,
		SourceLang: cfg.DefaultSourceLang,
		TargetLang: cfg.DefaultTargetLang,
		BatchSize:  cfg.DefaultBatchSize,
		MaxRetries: cfg.MaxRetries,
	}

	if flags.Changed(flagFile) {
		p.File = flags.File
	}
	if flags.Changed(flagColumn) {
		p.Column = flags.Column
	}
	if flags.Changed(flagSource) {
		p.SourceLang = flags.SourceLang
	}
	if flags.Changed(flagTarget) {
		p.TargetLang = flags.TargetLang
	}
	if flags.Changed(flagBatch) {
		p.BatchSize = flags.BatchSize
	}
	if flags.Changed(flagRetries) {
		p.MaxRetries = flags.Retries
	}

	if err := p.validate(cfg.MaxBatchSize); err != nil {
		return Params{}, err
	}
	return p, nil
}

func (p Params) validate(maxBatch int) error {
	var problems []string

	if internal.IsBlank(p.File) {
		problems = append(problems, "no input file given")
	}
	if p.Column < 1 {
		problems = append(problems, fmt.Sprintf("column must be at least 1, got %d", p.Column))
	}
	if internal.IsBlank(p.SourceLang) {
		problems = append(problems, "source language is blank")
	}
	if internal.IsBlank(p.TargetLang) {
		problems = append(problems, "target language is blank")
	}
	if p.BatchSize < 1 || p.BatchSize > maxBatch {
		problems = append(problems, fmt.Sprintf("batch size must be between 1 and %d, got %d", maxBatch, p.BatchSize))
	}
	if p.MaxRetries < 0 {
		problems = append(problems, fmt.Sprintf("retries must not be negative, got %d", p.MaxRetries))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidParams, strings.Join(problems, "; "))
	}
	return nil
}
