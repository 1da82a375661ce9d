package ingest

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Record is one loosely-typed provider payload: a string-keyed bag of
// unknown values, exactly as a JSON decoder produces it. Every coercion in
// this package degrades to a documented default instead of failing, so a
// malformed record can never break normalization.
type Record = map[string]any

// pickValue probes keys in order and returns the first one present in the
// record, regardless of the value's type. Which keys exist decides the
// winner; whether the value is usable is the coercer's problem.
func pickValue(record Record, keys []string) (any, bool) {
	for _, key := range keys {
		if value, ok := record[key]; ok {
			return value, true
		}
	}
	return nil, false
}

// toNumber coerces any value to a finite float64. Numbers pass through,
// numeric strings parse with locale-agnostic decimal parsing, and anything
// else (including NaN and infinities) collapses to 0. It is the single
// numeric primitive shared by bet and stats normalization.
func toNumber(value any) float64 {
	parsed, ok := parseNumber(value)
	if !ok {
		return 0
	}
	return parsed
}

// parseNumber is toNumber with an explicit "was this actually numeric"
// signal for fields where absence means null rather than zero.
func parseNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return finite(parsed)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return finite(parsed)
	default:
		return 0, false
	}
}

func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// toNumberPtr returns nil for anything parseNumber rejects, keeping the
// unknown-vs-zero distinction for optional numeric fields.
func toNumberPtr(value any) *float64 {
	parsed, ok := parseNumber(value)
	if !ok {
		return nil
	}
	return &parsed
}

func toInt64Ptr(value any) *int64 {
	parsed, ok := parseNumber(value)
	if !ok {
		return nil
	}
	truncated := int64(parsed)
	return &truncated
}

// toString accepts only exact string values; everything else is empty.
func toString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

func toStringPtr(value any) *string {
	s, ok := value.(string)
	if !ok {
		return nil
	}
	return &s
}

func toBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true") || strings.TrimSpace(v) == "1"
	default:
		return false
	}
}

func asRecord(value any) (Record, bool) {
	record, ok := value.(map[string]any)
	return record, ok
}

func asList(value any) ([]any, bool) {
	list, ok := value.([]any)
	return list, ok
}

// envelopeKeys are the wrapper keys providers put a single logical payload
// under. unwrapEnvelope descends through them a bounded number of times so
// a self-referencing envelope cannot loop forever.
var envelopeKeys = []string{"data", "result", "results", "items", "value", "payload"}

const maxEnvelopeDepth = 4

func unwrapEnvelope(value any) any {
	for depth := 0; depth < maxEnvelopeDepth; depth++ {
		record, ok := asRecord(value)
		if !ok {
			return value
		}

		inner, found := pickValue(record, envelopeKeys)
		if !found {
			return value
		}
		if _, isRecord := asRecord(inner); !isRecord {
			return value
		}
		value = inner
	}

	return value
}
