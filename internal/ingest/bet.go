package ingest

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/riskibarqy/bet-tracker/internal/domain/bet"
)

// Alias tables for bet fields. Providers disagree on casing and language
// (the legacy order API speaks Portuguese), so each logical field probes an
// ordered candidate list and the first key present wins.
var (
	betIDAliases       = []string{"ordem_id", "id", "bet_id", "betId", "order_id", "reference", "uuid", "external_id"}
	betUserIDAliases   = []string{"user_id", "userId", "uid", "owner_id", "usuario_id"}
	betFixtureAliases  = []string{"fixture_id", "fixtureId", "match_id", "event_id", "jogo_id"}
	betHomeTeamAliases = []string{"home_team", "homeTeam", "home", "team_home", "mandante"}
	betAwayTeamAliases = []string{"away_team", "awayTeam", "away", "team_away", "visitante"}
	betEventAliases    = []string{"event", "event_name", "match", "game", "partida"}
	betMarketAliases   = []string{"market", "market_name", "bet_type", "betType", "mercado"}
	betOddAliases      = []string{"odd", "odds", "price", "cotacao", "decimal_odds"}
	betStakeAliases    = []string{"stake", "amount", "valor", "wager", "stake_value"}
	betPayoutAliases   = []string{"payout_value", "payout", "return_value", "retorno"}
	betProfitAliases   = []string{"profit", "profit_value", "net_profit", "lucro"}
	betResultAliases   = []string{"result", "status", "outcome", "resultado"}
	betIsLiveAliases   = []string{"is_live", "isLive", "live", "ao_vivo"}
	betSourceAliases   = []string{"source", "origin", "bookmaker", "casa"}
	betImageAliases    = []string{"image_url", "imageUrl", "image", "screenshot_url"}
	betCreatedAliases  = []string{"created_at", "createdAt", "date", "placed_at", "data"}
	betUpdatedAliases  = []string{"updated_at", "updatedAt"}
)

// NormalizeBet converts one raw provider record into a canonical bet. It
// never fails: a missing or malformed field resolves to that field's
// default, so the worst possible input yields a zeroed pending bet with a
// synthesized id and the current timestamp.
func NormalizeBet(record Record) bet.Bet {
	out := bet.Bet{
		ID:        resolveBetID(record),
		UserID:    pickString(record, betUserIDAliases),
		FixtureID: pickInt64Ptr(record, betFixtureAliases),
		HomeTeam:  pickStringPtr(record, betHomeTeamAliases),
		AwayTeam:  pickStringPtr(record, betAwayTeamAliases),
		Event:     pickString(record, betEventAliases),
		Market:    pickString(record, betMarketAliases),
		Odd:       pickAmount(record, betOddAliases),
		Stake:     pickAmount(record, betStakeAliases),
		Result:    bet.NormalizeResult(pickString(record, betResultAliases)),
		IsLive:    pickBool(record, betIsLiveAliases),
		Source:    pickStringPtr(record, betSourceAliases),
		ImageURL:  pickStringPtr(record, betImageAliases),
		CreatedAt: resolveCreatedAt(record),
		UpdatedAt: pickStringPtr(record, betUpdatedAliases),
	}

	if value, ok := pickValue(record, betPayoutAliases); ok {
		out.PayoutValue = toNumberPtr(value)
	}
	if value, ok := pickValue(record, betProfitAliases); ok {
		out.Profit = toNumberPtr(value)
	}

	if out.Event == "" && out.HomeTeam != nil && out.AwayTeam != nil {
		out.Event = fmt.Sprintf("%s vs %s", *out.HomeTeam, *out.AwayTeam)
	}

	return out
}

func resolveBetID(record Record) string {
	value, ok := pickValue(record, betIDAliases)
	if ok {
		switch id := value.(type) {
		case string:
			if strings.TrimSpace(id) != "" {
				return id
			}
		default:
			if parsed, numeric := parseNumber(value); numeric {
				return formatNumericID(parsed)
			}
		}
	}

	return newLocalID()
}

func formatNumericID(value float64) string {
	if value == float64(int64(value)) {
		return fmt.Sprintf("%d", int64(value))
	}
	return fmt.Sprintf("%v", value)
}

func resolveCreatedAt(record Record) string {
	raw := pickString(record, betCreatedAliases)
	if _, ok := bet.ParseCreatedAt(raw); ok {
		return raw
	}
	return time.Now().UTC().Format(time.RFC3339)
}

// pickAmount resolves a required non-negative monetary field. Unparsable
// and negative values both collapse to 0 to keep the odd/stake invariant.
func pickAmount(record Record, keys []string) float64 {
	value, ok := pickValue(record, keys)
	if !ok {
		return 0
	}
	amount := toNumber(value)
	if amount < 0 {
		return 0
	}
	return amount
}

func pickString(record Record, keys []string) string {
	value, ok := pickValue(record, keys)
	if !ok {
		return ""
	}
	return toString(value)
}

func pickStringPtr(record Record, keys []string) *string {
	value, ok := pickValue(record, keys)
	if !ok {
		return nil
	}
	return toStringPtr(value)
}

func pickInt64Ptr(record Record, keys []string) *int64 {
	value, ok := pickValue(record, keys)
	if !ok {
		return nil
	}
	return toInt64Ptr(value)
}

func pickBool(record Record, keys []string) bool {
	value, ok := pickValue(record, keys)
	if !ok {
		return false
	}
	return toBool(value)
}

// newLocalID synthesizes a random identifier for records that arrive
// without one. 96 random bits keep collisions negligible at UI scale; this
// is deliberately not a cryptographic identifier.
func newLocalID() string {
	return fmt.Sprintf("%08x%016x", rand.Uint32(), rand.Uint64())
}
