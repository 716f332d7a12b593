// Package batch carries the ordered (row, text) pairs collected from a
// source column and splits them into fixed-size translation batches. Each
// batch keeps its own rows, so results are scattered back without a
// second list kept in step by convention.
package batch

import (
	"strings"
)

// Entry is one non-blank source cell awaiting translation
type Entry struct {
	Row  int    // row number in the sheet, or record index in a CSV
	Text string // cell text as read, untrimmed
}

// Collect returns an entry for every non-blank value. The i-th value is
// assigned row firstRow+i; blank and whitespace-only values are skipped
// so they never reach the translator.
func Collect(values []string, firstRow int) []Entry {
	var entries []Entry
	for i, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		entries = append(entries, Entry{Row: firstRow + i, Text: v})
	}
	return entries
}

// Chunk splits entries into consecutive batches of at most size entries.
// Order is preserved; only the last batch may be shorter.
func Chunk(entries []Entry, size int) [][]Entry {
	if len(entries) == 0 {
		return nil
	}
	if size <= 0 || size >= len(entries) {
		return [][]Entry{entries}
	}

	chunks := make([][]Entry, 0, (len(entries)+size-1)/size)
	for i := 0; i < len(entries); i += size {
		end := i + size
		if end > len(entries) {
			end = len(entries)
		}
		chunks = append(chunks, entries[i:end])
	}
	return chunks
}

// Texts returns the text of each entry in order
func Texts(entries []Entry) []string {
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Text
	}
	return texts
}
