package cli

import (
	"github.com/spf13/pflag"

	"codeberg.org/snonux/tabtrans/internal/config"
)

// Flag names shared by the command setup and Resolve
const (
	flagFile    = "file"
	flagColumn  = "col"
	flagSource  = "source"
	flagTarget  = "target"
	flagConfig  = "config"
	flagBatch   = "batch"
	flagRetries = "retries"
)

// Flags holds all command-line flag values
type Flags struct {
	CfgFile    string
	File       string
	Column     int
	SourceLang string
	TargetLang string
	BatchSize  int
	Retries    int
	ListModels bool

	// names of the flags given on the command line
	changed map[string]bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		CfgFile: config.DefaultPath,
		changed: map[string]bool{},
	}
}

// MarkChanged records which flags of fs were set explicitly. Only those
// take precedence over the config defaults.
func (f *Flags) MarkChanged(fs *pflag.FlagSet) {
	if f.changed == nil {
		f.changed = map[string]bool{}
	}
	fs.Visit(func(fl *pflag.Flag) {
		f.changed[fl.Name] = true
	})
}

// Changed reports whether the named flag was set explicitly
func (f *Flags) Changed(name string) bool {
	return f.changed[name]
}
