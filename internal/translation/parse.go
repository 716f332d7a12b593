package translation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"codeberg.org/snonux/tabtrans/internal"
)

var (
	// ErrUnparsable means the reply holds no usable JSON array
	ErrUnparsable = errors.New("response content is not valid JSON")
	// ErrShape means the reply is JSON but not a usable list
	ErrShape = errors.New("response has unexpected shape")
)

// ParseKind tells how a reply was turned into translations
type ParseKind int

const (
	// ParseFailure means nothing usable was found; the attempt is retried
	ParseFailure ParseKind = iota
	// ParseStrict means the whole reply was a list of the expected length
	ParseStrict
	// ParsePartial means the reply was a shorter list; the tail was padded
	ParsePartial
	// ParseSalvaged means a list was cut out of surrounding non-JSON text
	ParseSalvaged
)

func (k ParseKind) String() string {
	switch k {
	case ParseStrict:
		return "strict"
	case ParsePartial:
		return "partial"
	case ParseSalvaged:
		return "salvaged"
	default:
		return "failure"
	}
}

// ParseResult is the outcome of ParseResponse. Values has len(texts)
// entries unless Kind is ParseFailure, in which case Err is set.
type ParseResult struct {
	Kind   ParseKind
	Values []string
	Padded int // entries filled with partial sentinels
	Err    error
}

// ParseResponse turns model output into one translation per source text.
// Checks run in order: strict list of the right length, strict shorter
// list padded with partial sentinels, then a [...] substring cut out of
// non-JSON text, which must have the right length.
func ParseResponse(content string, texts []string) ParseResult {
	content = strings.TrimSpace(content)
	expected := len(texts)

	if json.Valid([]byte(content)) {
		values, isList, err := decodeList(content)
		if err != nil {
			return ParseResult{Kind: ParseFailure, Err: fmt.Errorf("%w: %v", ErrUnparsable, err)}
		}
		if !isList {
			return ParseResult{Kind: ParseFailure, Err: fmt.Errorf("%w: not a JSON array: %s", ErrShape, snippet(content))}
		}
		switch {
		case len(values) == expected:
			return ParseResult{Kind: ParseStrict, Values: values}
		case len(values) > 0 && len(values) < expected:
			return ParseResult{Kind: ParsePartial, Values: padPartial(values, texts), Padded: expected - len(values)}
		default:
			return ParseResult{Kind: ParseFailure, Err: fmt.Errorf("%w: expected %d translations, got %d", ErrShape, expected, len(values))}
		}
	}

	if values, ok := salvageList(content, expected); ok {
		return ParseResult{Kind: ParseSalvaged, Values: values}
	}

	return ParseResult{Kind: ParseFailure, Err: fmt.Errorf("%w: %s", ErrUnparsable, snippet(content))}
}

// salvageList parses the span from the first '[' to the last ']'
func salvageList(content string, expected int) ([]string, bool) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return nil, false
	}

	candidate := content[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return nil, false
	}

	values, isList, err := decodeList(candidate)
	if err != nil || !isList || len(values) != expected {
		return nil, false
	}
	return values, true
}

// decodeList decodes valid JSON and, when it is an array, stringifies its elements
func decodeList(content string) ([]string, bool, error) {
	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, false, err
	}

	items, ok := v.([]interface{})
	if !ok {
		return nil, false, nil
	}

	values := make([]string, len(items))
	for i, item := range items {
		values[i] = stringify(item)
	}
	return values, true, nil
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}

func padPartial(values []string, texts []string) []string {
	out := make([]string, len(texts))
	copy(out, values)
	for i := len(values); i < len(texts); i++ {
		out[i] = PartialPrefix + " " + texts[i]
	}
	return out
}

func snippet(content string) string {
	return internal.Truncate(content, 200) + "..."
}
