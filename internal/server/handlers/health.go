package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/tokenkeeper/pkg/api"
)

// pingTimeout ограничивает проверку хранилища в health check
const pingTimeout = 2 * time.Second

// StorageGauge получает результат последней проверки хранилища
type StorageGauge interface {
	SetStorageUp(up bool)
}

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger  *slog.Logger
	storage Pinger
	gauge   StorageGauge
	version string
}

// NewHealthHandler создает новый handler для health check.
// gauge может быть nil.
func NewHealthHandler(logger *slog.Logger, storage Pinger, gauge StorageGauge, version string) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		storage: storage,
		gauge:   gauge,
		version: version,
	}
}

// Health обрабатывает GET /api/v1/health
// Health check endpoint для мониторинга
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	resp := api.HealthResponse{
		Status:  "ok",
		Storage: "ok",
		Version: h.version,
	}
	code := http.StatusOK

	if err := h.storage.Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "storage ping failed", slog.Any("error", err))
		resp.Status = "degraded"
		resp.Storage = "unavailable"
		code = http.StatusServiceUnavailable
	}
	if h.gauge != nil {
		h.gauge.SetStorageUp(code == http.StatusOK)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode health response", slog.Any("error", err))
	}
}
