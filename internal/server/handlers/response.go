package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/tokenkeeper/internal/status"
	"github.com/iudanet/tokenkeeper/pkg/api"
)

// httpStatus maps a result status onto the HTTP response code.
func httpStatus(st status.Status) int {
	switch st {
	case status.Success:
		return http.StatusOK
	case status.RequestParamsNotValid:
		return http.StatusBadRequest
	case status.UserNamePasswdError, status.Unauthenticated:
		return http.StatusUnauthorized
	case status.UserNoOperationPerm:
		return http.StatusForbidden
	case status.ResourceNotFound:
		return http.StatusNotFound
	case status.UserNameExist:
		return http.StatusConflict
	case status.TooManyRequests:
		return http.StatusTooManyRequests
	case status.StorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteResponse пишет JSON-конверт api.Response с заданным HTTP кодом
func WriteResponse(w http.ResponseWriter, logger *slog.Logger, code int, st status.Status, data any) {
	resp := api.Response{
		Code: st.Code(),
		Msg:  st.Msg(),
	}
	if st.OK() {
		resp.Data = data
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// WriteStatus пишет ответ, выбирая HTTP код по статусу
func WriteStatus(w http.ResponseWriter, logger *slog.Logger, st status.Status, data any) {
	WriteResponse(w, logger, httpStatus(st), st, data)
}

// writeInvalid отвечает RequestParamsNotValid с пояснением причины
func writeInvalid(w http.ResponseWriter, logger *slog.Logger, reason string) {
	resp := api.Response{
		Code: status.RequestParamsNotValid.Code(),
		Msg:  status.RequestParamsNotValid.Msg() + ": " + reason,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// invalidReason returns the cause carried by a status error without the
// status message prefix.
func invalidReason(err error) string {
	var se *status.Error
	if errors.As(err, &se) && se.Err != nil {
		return se.Err.Error()
	}
	return err.Error()
}
