package httpapi

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/bet-tracker/internal/domain/bet"
	"github.com/riskibarqy/bet-tracker/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/bet-tracker/internal/platform/id"
	"github.com/riskibarqy/bet-tracker/internal/usecase"
)

type staticBetProvider struct {
	bets []bet.Bet
}

func (p *staticBetProvider) FetchBets(context.Context, string) ([]bet.Bet, error) {
	return p.bets, nil
}

func newTestRouter(t *testing.T, seed []bet.Bet, provider usecase.BetProvider, jobToken string) http.Handler {
	t.Helper()

	repo := memory.NewBetRepository(seed)
	allTimeStart := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	betSvc := usecase.NewBetService(repo, idgen.NewRandomGenerator(), nil, logger)
	statsSvc := usecase.NewStatsService(repo, nil, nil, allTimeStart, logger)
	importSvc := usecase.NewImportService(repo, nil, 2, logger)
	syncSvc := usecase.NewSyncService(repo, provider, nil, logger)

	handler := NewHandler(betSvc, statsSvc, importSvc, syncSvc, logger)
	return NewRouter(handler, logger, []string{"*"}, jobToken)
}

func decodeData(t *testing.T, body []byte) map[string]any {
	t.Helper()

	var envelope map[string]any
	if err := sonic.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	data, ok := envelope["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %s", body)
	}
	return data
}

func seedBetsForUser(userID string, count int) []bet.Bet {
	out := make([]bet.Bet, 0, count)
	markets := []string{"Match Winner", "Over/Under 2.5"}
	for i := 0; i < count; i++ {
		out = append(out, bet.Bet{
			ID:        "seed-" + string(rune('a'+i)),
			UserID:    userID,
			Market:    markets[i%len(markets)],
			Odd:       1.5,
			Stake:     100,
			Result:    bet.ResultWin,
			CreatedAt: "2026-07-01T10:00:00Z",
		})
	}
	return out
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, nil, nil, "")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	data := decodeData(t, rec.Body.Bytes())
	if data["status"] != "ok" {
		t.Fatalf("unexpected health payload: %v", data)
	}
}

func TestListBets_Pagination(t *testing.T) {
	router := newTestRouter(t, seedBetsForUser(demoUserID, 3), nil, "")

	req := httptest.NewRequest(http.MethodGet, "/api/bets?page=1&limit=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec.Body.Bytes())

	items, _ := data["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if data["total"] != float64(3) || data["total_pages"] != float64(2) {
		t.Fatalf("unexpected pagination metadata: %v", data)
	}
	if data["page"] != float64(1) || data["limit"] != float64(2) {
		t.Fatalf("unexpected page/limit: %v", data)
	}
}

func TestListBets_EmptyDefaults(t *testing.T) {
	router := newTestRouter(t, nil, nil, "")

	req := httptest.NewRequest(http.MethodGet, "/api/bets", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	data := decodeData(t, rec.Body.Bytes())
	if data["total"] != float64(0) || data["page"] != float64(1) ||
		data["limit"] != float64(20) || data["total_pages"] != float64(1) {
		t.Fatalf("unexpected empty-list metadata: %v", data)
	}
}

func TestCreateBet(t *testing.T) {
	router := newTestRouter(t, nil, nil, "")

	payload := `{"market":"Match Winner","odd":1.9,"stake":100,"result":"won","home_team":"Flamengo","away_team":"Palmeiras"}`
	req := httptest.NewRequest(http.MethodPost, "/api/bets", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec.Body.Bytes())
	if data["result"] != "win" {
		t.Fatalf("result = %v, want win", data["result"])
	}
	if data["event"] != "Flamengo vs Palmeiras" {
		t.Fatalf("event = %v, want synthesized matchup", data["event"])
	}
	if data["user_id"] != demoUserID {
		t.Fatalf("user_id = %v, want demo fallback", data["user_id"])
	}
	if id, _ := data["id"].(string); id == "" {
		t.Fatalf("expected generated id")
	}
}

func TestCreateBet_RejectsUnknownFields(t *testing.T) {
	router := newTestRouter(t, nil, nil, "")

	req := httptest.NewRequest(http.MethodPost, "/api/bets", strings.NewReader(`{"market":"A","bogus":1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestCreateBet_RequiresMarket(t *testing.T) {
	router := newTestRouter(t, nil, nil, "")

	req := httptest.NewRequest(http.MethodPost, "/api/bets", strings.NewReader(`{"odd":1.5,"stake":10}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestGetBet(t *testing.T) {
	seed := seedBetsForUser(demoUserID, 1)
	router := newTestRouter(t, seed, nil, "")

	req := httptest.NewRequest(http.MethodGet, "/api/bets/"+seed[0].ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	data := decodeData(t, rec.Body.Bytes())
	if data["id"] != seed[0].ID {
		t.Fatalf("id = %v, want %s", data["id"], seed[0].ID)
	}

	missing := httptest.NewRequest(http.MethodGet, "/api/bets/missing", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, missing)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestUpdateBet(t *testing.T) {
	seed := seedBetsForUser(demoUserID, 1)
	router := newTestRouter(t, seed, nil, "")

	payload := `{"market":"Match Winner","odd":2.2,"stake":100,"result":"lost"}`
	req := httptest.NewRequest(http.MethodPut, "/api/bets/"+seed[0].ID, strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec.Body.Bytes())
	if data["result"] != "loss" {
		t.Fatalf("result = %v, want loss", data["result"])
	}
	if data["created_at"] != seed[0].CreatedAt {
		t.Fatalf("created_at changed on update: %v", data["created_at"])
	}
	if data["updated_at"] == nil {
		t.Fatalf("updated_at not set")
	}
}

func TestDeleteBet(t *testing.T) {
	seed := seedBetsForUser(demoUserID, 1)
	router := newTestRouter(t, seed, nil, "")

	req := httptest.NewRequest(http.MethodDelete, "/api/bets/"+seed[0].ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	data := decodeData(t, rec.Body.Bytes())
	if data["deleted"] != seed[0].ID {
		t.Fatalf("unexpected delete payload: %v", data)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/bets/"+seed[0].ID, nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 on double delete, got %d", rec.Code)
	}
}

func TestGetStats_ByMarketKeepsInsertionOrder(t *testing.T) {
	profit := 50.0
	loss := -100.0
	seed := []bet.Bet{
		{ID: "1", UserID: demoUserID, Market: "Match Winner", Stake: 100, Profit: &profit, Result: bet.ResultWin, CreatedAt: "2026-07-01"},
		{ID: "2", UserID: demoUserID, Market: "Over/Under 2.5", Stake: 100, Profit: &loss, Result: bet.ResultLoss, CreatedAt: "2026-07-02"},
	}
	router := newTestRouter(t, seed, nil, "")

	req := httptest.NewRequest(http.MethodGet, "/api/stats?from=2026-01-01&to=2026-12-31", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := rec.Body.String()
	first := strings.Index(body, `"Match Winner"`)
	second := strings.Index(body, `"Over/Under 2.5"`)
	if first == -1 || second == -1 || first > second {
		t.Fatalf("by_market order lost: %s", body)
	}

	data := decodeData(t, rec.Body.Bytes())
	if data["total_bets"] != float64(2) {
		t.Fatalf("total_bets = %v, want 2", data["total_bets"])
	}
	if data["best_market"] != "Match Winner" || data["worst_market"] != "Over/Under 2.5" {
		t.Fatalf("unexpected best/worst: %v / %v", data["best_market"], data["worst_market"])
	}
	byMarket, ok := data["by_market"].(map[string]any)
	if !ok || len(byMarket) != 2 {
		t.Fatalf("unexpected by_market: %v", data["by_market"])
	}
}

func TestGetStats_InvalidRangeParam(t *testing.T) {
	router := newTestRouter(t, nil, nil, "")

	req := httptest.NewRequest(http.MethodGet, "/api/stats?from=garbage", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestImportBets_RawBody(t *testing.T) {
	router := newTestRouter(t, nil, nil, "")

	csv := "id,market,odd,stake,result\nb1,Match Winner,1.9,100,won\nb2,Corners,2.5,50,lost\n"
	req := httptest.NewRequest(http.MethodPost, "/api/bets/import", strings.NewReader(csv))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec.Body.Bytes())
	if data["imported"] != float64(2) || data["skipped"] != float64(0) {
		t.Fatalf("unexpected import result: %v", data)
	}
}

func TestImportBets_Multipart(t *testing.T) {
	router := newTestRouter(t, nil, nil, "")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "bets.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = io.WriteString(part, "id,market\nb1,Match Winner\n")
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/bets/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec.Body.Bytes())
	if data["imported"] != float64(1) {
		t.Fatalf("unexpected import result: %v", data)
	}
}

func TestRunSync_RequiresJobToken(t *testing.T) {
	provider := &staticBetProvider{bets: []bet.Bet{
		{ID: "r1", Market: "Match Winner", Result: bet.ResultWin},
	}}
	router := newTestRouter(t, nil, provider, "job-secret")

	t.Run("authorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/internal/sync", nil)
		req.Header.Set("X-Internal-Job-Token", "job-secret")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		data := decodeData(t, rec.Body.Bytes())
		if data["synced"] != float64(1) {
			t.Fatalf("unexpected sync result: %v", data)
		}
	})

	t.Run("wrong token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/internal/sync", nil)
		req.Header.Set("X-Internal-Job-Token", "nope")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", rec.Code)
		}
	})
}
