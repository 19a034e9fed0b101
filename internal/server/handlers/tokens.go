package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/iudanet/tokenkeeper/internal/models"
	"github.com/iudanet/tokenkeeper/internal/status"
	"github.com/iudanet/tokenkeeper/internal/validation"
	"github.com/iudanet/tokenkeeper/pkg/api"
)

// TokenHandler обрабатывает запросы к токенам доступа
type TokenHandler struct {
	logger *slog.Logger
	tokens TokenService
}

// NewTokenHandler создает новый handler для токенов доступа
func NewTokenHandler(logger *slog.Logger, tokens TokenService) *TokenHandler {
	return &TokenHandler{
		logger: logger,
		tokens: tokens,
	}
}

// List обрабатывает GET /api/v1/access-tokens?pageNo=&pageSize=&searchVal=
func (h *TokenHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()

	pageNo, err := intParam(query.Get("pageNo"), 1)
	if err != nil {
		writeInvalid(w, h.logger, "pageNo: "+err.Error())
		return
	}
	pageSize, err := intParam(query.Get("pageSize"), validation.DefaultPageSize)
	if err != nil {
		writeInvalid(w, h.logger, "pageSize: "+err.Error())
		return
	}
	if err := validation.ValidatePaging(pageNo, pageSize); err != nil {
		writeInvalid(w, h.logger, err.Error())
		return
	}

	res := h.tokens.ListTokens(r.Context(), caller, query.Get("searchVal"), pageNo, pageSize)
	if !res.OK() {
		WriteStatus(w, h.logger, res.Status, nil)
		return
	}

	page := res.Data
	items := make([]api.AccessToken, 0, len(page.TotalList))
	for _, t := range page.TotalList {
		items = append(items, toAPIToken(t))
	}

	WriteStatus(w, h.logger, status.Success, api.TokenPage{
		TotalList:   items,
		Total:       page.Total,
		TotalPage:   page.TotalPage,
		PageSize:    page.PageSize,
		CurrentPage: page.CurrentPage,
	})
}

// Generate обрабатывает POST /api/v1/access-tokens/generate
// Строка токена возвращается, но не сохраняется
func (h *TokenHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.caller(w, r); !ok {
		return
	}

	var req api.GenerateTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalid(w, h.logger, "invalid request body")
		return
	}

	if req.UserID < 1 {
		writeInvalid(w, h.logger, "user_id must be positive")
		return
	}

	expire, err := api.ParseDateTime(req.ExpireTime)
	if err != nil {
		writeInvalid(w, h.logger, err.Error())
		return
	}

	res := h.tokens.GenerateToken(r.Context(), req.UserID, expire)
	if !res.OK() {
		WriteStatus(w, h.logger, res.Status, nil)
		return
	}

	WriteStatus(w, h.logger, status.Success, res.Data)
}

// Create обрабатывает POST /api/v1/access-tokens
func (h *TokenHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.caller(w, r); !ok {
		return
	}

	req, expire, ok := h.decodeTokenRequest(w, r)
	if !ok {
		return
	}

	res := h.tokens.CreateToken(r.Context(), req.UserID, expire, req.Token)
	if !res.OK() {
		WriteStatus(w, h.logger, res.Status, nil)
		return
	}

	WriteResponse(w, h.logger, http.StatusCreated, status.Success, toAPIToken(res.Data))
}

// Get обрабатывает GET /api/v1/access-tokens/{id}
func (h *TokenHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	res := h.tokens.GetToken(r.Context(), caller, id)
	if !res.OK() {
		WriteStatus(w, h.logger, res.Status, nil)
		return
	}

	WriteStatus(w, h.logger, status.Success, toAPIToken(res.Data))
}

// Update обрабатывает PUT /api/v1/access-tokens/{id}
// Полная замена владельца, срока и строки токена
func (h *TokenHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.caller(w, r); !ok {
		return
	}

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	req, expire, ok := h.decodeTokenRequest(w, r)
	if !ok {
		return
	}

	res := h.tokens.UpdateToken(r.Context(), id, req.UserID, expire, req.Token)
	WriteStatus(w, h.logger, res.Status, nil)
}

// Delete обрабатывает DELETE /api/v1/access-tokens/{id}
func (h *TokenHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	res := h.tokens.DeleteToken(r.Context(), caller, id)
	WriteStatus(w, h.logger, res.Status, nil)
}

// caller извлекает пользователя из контекста, установленного AuthMiddleware
func (h *TokenHandler) caller(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	caller, ok := GetCaller(r.Context())
	if !ok {
		h.logger.ErrorContext(r.Context(), "caller not found in context")
		WriteStatus(w, h.logger, status.Unauthenticated, nil)
		return nil, false
	}
	return caller, true
}

func (h *TokenHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeInvalid(w, h.logger, fmt.Sprintf("invalid id %q", r.PathValue("id")))
		return 0, false
	}
	return id, true
}

// decodeTokenRequest разбирает тело create/update и проверяет поля
func (h *TokenHandler) decodeTokenRequest(w http.ResponseWriter, r *http.Request) (api.TokenRequest, time.Time, bool) {
	var req api.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalid(w, h.logger, "invalid request body")
		return req, time.Time{}, false
	}

	if req.UserID < 1 {
		writeInvalid(w, h.logger, "user_id must be positive")
		return req, time.Time{}, false
	}
	if err := validation.ValidateToken(req.Token); err != nil {
		writeInvalid(w, h.logger, err.Error())
		return req, time.Time{}, false
	}

	expire, err := api.ParseDateTime(req.ExpireTime)
	if err != nil {
		writeInvalid(w, h.logger, err.Error())
		return req, time.Time{}, false
	}

	return req, expire, true
}

// intParam разбирает целый query параметр, пустое значение дает def
func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func toAPIToken(t *models.AccessToken) api.AccessToken {
	return api.AccessToken{
		ID:         t.ID,
		UserID:     t.UserID,
		UserName:   t.UserName,
		Token:      t.Token,
		ExpireTime: api.FormatDateTime(t.ExpireTime),
		CreateTime: api.FormatDateTime(t.CreateTime),
		UpdateTime: api.FormatDateTime(t.UpdateTime),
	}
}
