package cli

import (
	"errors"
	"reflect"
	"testing"

	"codeberg.org/snonux/tabtrans/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		MaxBatchSize:      10,
		MaxRetries:        3,
		DefaultFile:       "input.xlsx",
		DefaultColumn:     2,
		DefaultSourceLang: "English",
		DefaultTargetLang: "French",
		DefaultBatchSize:  5,
	}
}

func changedFlags(set func(f *Flags), names ...string) *Flags {
	f := NewFlags()
	set(f)
	for _, n := range names {
		f.changed[n] = true
	}
	return f
}

func TestResolve_Defaults(t *testing.T) {
	got, err := Resolve(NewFlags(), testConfig())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	want := Params{
		File:       "input.xlsx",
		Column:     2,
		SourceLang: "English",
		TargetLang: "French",
		BatchSize:  5,
		MaxRetries: 3,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestResolve_FlagsOverride(t *testing.T) {
	flags := changedFlags(func(f *Flags) {
		f.File = "other.csv"
		f.Column = 7
		f.SourceLang = "de"
		f.TargetLang = "ja"
		f.BatchSize = 10
		f.Retries = 0
	}, flagFile, flagColumn, flagSource, flagTarget, flagBatch, flagRetries)

	got, err := Resolve(flags, testConfig())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	want := Params{File: "other.csv", Column: 7, SourceLang: "de", TargetLang: "ja", BatchSize: 10, MaxRetries: 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestResolve_UnchangedFlagValuesIgnored(t *testing.T) {
	// Values present on the struct but not given on the command line
	flags := NewFlags()
	flags.BatchSize = 99
	flags.Column = 9

	got, err := Resolve(flags, testConfig())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got.BatchSize != 5 || got.Column != 2 {
		t.Errorf("Resolve() used unchanged flag values: %+v", got)
	}
}

func TestResolve_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		flags *Flags
	}{
		{"batch size zero", changedFlags(func(f *Flags) { f.BatchSize = 0 }, flagBatch)},
		{"batch size above max", changedFlags(func(f *Flags) { f.BatchSize = 11 }, flagBatch)},
		{"column zero", changedFlags(func(f *Flags) { f.Column = 0 }, flagColumn)},
		{"negative retries", changedFlags(func(f *Flags) { f.Retries = -1 }, flagRetries)},
		{"blank file", changedFlags(func(f *Flags) { f.File = "  " }, flagFile)},
		{"blank target", changedFlags(func(f *Flags) { f.TargetLang = "" }, flagTarget)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.flags, testConfig())
			if !errors.Is(err, ErrInvalidParams) {
				t.Errorf("Resolve() error = %v, want ErrInvalidParams", err)
			}
		})
	}
}

func TestResolve_BatchSizeBounds(t *testing.T) {
	for _, size := range []int{1, 10} {
		flags := changedFlags(func(f *Flags) { f.BatchSize = size }, flagBatch)
		if _, err := Resolve(flags, testConfig()); err != nil {
			t.Errorf("batch size %d rejected: %v", size, err)
		}
	}
}
