package ingest

import "github.com/riskibarqy/bet-tracker/internal/domain/bet"

// betListKeys are probed in order when a list payload arrives wrapped in an
// object instead of as a bare array.
var betListKeys = []string{"bets", "items", "results", "data"}

// ParseBetList extracts and normalizes every bet record from an arbitrarily
// shaped list payload. Unrecognizable payloads yield an empty slice, never
// an error.
func ParseBetList(payload any) []bet.Bet {
	if list, ok := asList(payload); ok {
		return normalizeAll(list)
	}

	if record, ok := asRecord(payload); ok {
		if value, found := pickValue(record, betListKeys); found {
			if list, isList := asList(value); isList {
				return normalizeAll(list)
			}
		}
	}

	return []bet.Bet{}
}

func normalizeAll(list []any) []bet.Bet {
	out := make([]bet.Bet, 0, len(list))
	for _, element := range list {
		record, ok := asRecord(element)
		if !ok {
			record = Record{}
		}
		out = append(out, NormalizeBet(record))
	}

	return out
}

// PaginatedBets is one page of bets plus the envelope metadata that came
// with it (or was synthesized for a plain list).
type PaginatedBets struct {
	Items      []bet.Bet
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// ParsePaginatedBets recognizes an explicit paginated envelope (an object
// with an "items" array) and extracts its metadata, defaulting each missing
// numeric field. Anything else is treated as a plain list and gets
// single-page metadata synthesized around it.
func ParsePaginatedBets(payload any) PaginatedBets {
	if record, ok := asRecord(payload); ok {
		if itemsValue, found := record["items"]; found {
			if list, isList := asList(itemsValue); isList {
				return PaginatedBets{
					Items:      normalizeAll(list),
					Total:      pickCount(record, "total", 0),
					Page:       pickCount(record, "page", 1),
					Limit:      pickCount(record, "limit", 20),
					TotalPages: pickCount(record, "total_pages", 1),
				}
			}
		}
	}

	items := ParseBetList(payload)
	limit := len(items)
	if limit == 0 {
		limit = 20
	}

	return PaginatedBets{
		Items:      items,
		Total:      len(items),
		Page:       1,
		Limit:      limit,
		TotalPages: 1,
	}
}

func pickCount(record Record, key string, fallback int) int {
	value, ok := record[key]
	if !ok {
		return fallback
	}
	parsed, numeric := parseNumber(value)
	if !numeric {
		return fallback
	}
	return int(parsed)
}

// ParseBet normalizes a single-entity payload, unwrapping one level of
// {bet: {...}} envelope or taking the first element of a one-element array.
func ParseBet(payload any) bet.Bet {
	if list, ok := asList(payload); ok {
		if len(list) == 0 {
			return NormalizeBet(Record{})
		}
		payload = list[0]
	}

	record, ok := asRecord(payload)
	if !ok {
		return NormalizeBet(Record{})
	}

	if inner, found := record["bet"]; found {
		if innerRecord, isRecord := asRecord(inner); isRecord {
			record = innerRecord
		}
	}

	return NormalizeBet(record)
}
