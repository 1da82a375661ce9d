package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/bet-tracker/internal/domain/bet"
	"github.com/riskibarqy/bet-tracker/internal/usecase"
)

// Single-tenant deployment: requests without an explicit user_id act on
// behalf of the demo account, the same way a self-hosted tracker would.
const demoUserID = "demo-user"

const (
	defaultPageLimit = 20
	maxPageLimit     = 200
)

type Handler struct {
	betService    *usecase.BetService
	statsService  *usecase.StatsService
	importService *usecase.ImportService
	syncService   *usecase.SyncService
	logger        *slog.Logger
	validator     *validator.Validate
}

func NewHandler(
	betService *usecase.BetService,
	statsService *usecase.StatsService,
	importService *usecase.ImportService,
	syncService *usecase.SyncService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		betService:    betService,
		statsService:  statsService,
		importService: importService,
		syncService:   syncService,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListBets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBets")
	defer span.End()

	userID := requestUserID(r)
	bets, err := h.betService.ListBets(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "list bets failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	page, limit := parsePagination(r)
	writeSuccess(ctx, w, http.StatusOK, paginateBets(ctx, bets, page, limit))
}

func (h *Handler) GetBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBet")
	defer span.End()

	betID := r.PathValue("betID")
	item, err := h.betService.GetBet(ctx, betID)
	if err != nil {
		h.logger.WarnContext(ctx, "get bet failed", "bet_id", betID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, betToDTO(ctx, item))
}

func (h *Handler) CreateBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateBet")
	defer span.End()

	req, err := h.decodeUpsertBetRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.betService.CreateBet(ctx, upsertRequestToInput(r, req))
	if err != nil {
		h.logger.WarnContext(ctx, "create bet failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, betToDTO(ctx, item))
}

func (h *Handler) UpdateBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateBet")
	defer span.End()

	betID := r.PathValue("betID")
	req, err := h.decodeUpsertBetRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.betService.UpdateBet(ctx, betID, upsertRequestToInput(r, req))
	if err != nil {
		h.logger.WarnContext(ctx, "update bet failed", "bet_id", betID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, betToDTO(ctx, item))
}

func (h *Handler) DeleteBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteBet")
	defer span.End()

	betID := r.PathValue("betID")
	if err := h.betService.DeleteBet(ctx, betID); err != nil {
		h.logger.WarnContext(ctx, "delete bet failed", "bet_id", betID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"deleted": betID})
}

func (h *Handler) RunSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSync")
	defer span.End()

	userID := requestUserID(r)
	result, err := h.syncService.Sync(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "provider sync failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) decodeUpsertBetRequest(ctx context.Context, r *http.Request) (upsertBetRequest, error) {
	ctx, span := startSpan(ctx, "httpapi.Handler.decodeUpsertBetRequest")
	defer span.End()

	var req upsertBetRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return upsertBetRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validateRequest(ctx, req); err != nil {
		return upsertBetRequest{}, err
	}

	return req, nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func requestUserID(r *http.Request) string {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		return demoUserID
	}
	return userID
}

func parsePagination(r *http.Request) (page, limit int) {
	page = 1
	limit = defaultPageLimit

	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
			if limit > maxPageLimit {
				limit = maxPageLimit
			}
		}
	}

	return page, limit
}

type upsertBetRequest struct {
	UserID      string   `json:"user_id"`
	FixtureID   *int64   `json:"fixture_id"`
	HomeTeam    *string  `json:"home_team"`
	AwayTeam    *string  `json:"away_team"`
	Event       string   `json:"event"`
	Market      string   `json:"market" validate:"required,max=120"`
	Odd         float64  `json:"odd" validate:"gte=0"`
	Stake       float64  `json:"stake" validate:"gte=0"`
	PayoutValue *float64 `json:"payout_value"`
	Profit      *float64 `json:"profit"`
	Result      string   `json:"result"`
	IsLive      bool     `json:"is_live"`
	Source      *string  `json:"source"`
	ImageURL    *string  `json:"image_url"`
}

func upsertRequestToInput(r *http.Request, req upsertBetRequest) usecase.UpsertBetInput {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = requestUserID(r)
	}

	return usecase.UpsertBetInput{
		UserID:      userID,
		FixtureID:   req.FixtureID,
		HomeTeam:    req.HomeTeam,
		AwayTeam:    req.AwayTeam,
		Event:       req.Event,
		Market:      req.Market,
		Odd:         req.Odd,
		Stake:       req.Stake,
		PayoutValue: req.PayoutValue,
		Profit:      req.Profit,
		Result:      req.Result,
		IsLive:      req.IsLive,
		Source:      req.Source,
		ImageURL:    req.ImageURL,
	}
}

type betDTO struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	FixtureID   *int64   `json:"fixture_id"`
	HomeTeam    *string  `json:"home_team"`
	AwayTeam    *string  `json:"away_team"`
	Event       string   `json:"event"`
	Market      string   `json:"market"`
	Odd         float64  `json:"odd"`
	Stake       float64  `json:"stake"`
	PayoutValue *float64 `json:"payout_value"`
	Profit      *float64 `json:"profit"`
	Result      string   `json:"result"`
	IsLive      bool     `json:"is_live"`
	Source      *string  `json:"source"`
	ImageURL    *string  `json:"image_url"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   *string  `json:"updated_at"`
}

type paginatedBetsDTO struct {
	Items      []betDTO `json:"items"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalPages int      `json:"total_pages"`
}

func betToDTO(ctx context.Context, v bet.Bet) betDTO {
	ctx, span := startSpan(ctx, "httpapi.betToDTO")
	defer span.End()

	return betDTO{
		ID:          v.ID,
		UserID:      v.UserID,
		FixtureID:   v.FixtureID,
		HomeTeam:    v.HomeTeam,
		AwayTeam:    v.AwayTeam,
		Event:       v.Event,
		Market:      v.Market,
		Odd:         v.Odd,
		Stake:       v.Stake,
		PayoutValue: v.PayoutValue,
		Profit:      v.Profit,
		Result:      string(v.Result),
		IsLive:      v.IsLive,
		Source:      v.Source,
		ImageURL:    v.ImageURL,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func paginateBets(ctx context.Context, bets []bet.Bet, page, limit int) paginatedBetsDTO {
	ctx, span := startSpan(ctx, "httpapi.paginateBets")
	defer span.End()

	total := len(bets)
	totalPages := 1
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	items := make([]betDTO, 0, end-start)
	for _, item := range bets[start:end] {
		items = append(items, betToDTO(ctx, item))
	}

	return paginatedBetsDTO{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
