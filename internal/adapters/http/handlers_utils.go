package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/meridianbank/auth-service/internal/domain"
)

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

func readIP(r *http.Request) string {
	if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host := strings.TrimSpace(r.RemoteAddr)
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		return host[:idx]
	}
	return host
}

func mapDomainError(err error) (int, string, string) {
	switch domain.KindOf(err) {
	case domain.KindInvalidInput:
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	case domain.KindInvalidCredentials:
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password"
	case domain.KindAccountLocked:
		return http.StatusLocked, "ACCOUNT_LOCKED", "account temporarily locked"
	case domain.KindInvalidToken:
		return http.StatusUnauthorized, "INVALID_TOKEN", "invalid or expired token"
	case domain.KindConcurrentUpdate:
		return http.StatusConflict, "CONCURRENT_UPDATE", "concurrent update, retry the request"
	case domain.KindConflict:
		return http.StatusConflict, "CONFLICT", err.Error()
	case domain.KindNotFound:
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
}

func writeMappedError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	status, code, msg := mapDomainError(err)
	logHTTPOperationError(ctx, operation, status, code, msg, err)
	writeError(w, status, code, msg)
}

func writeValidationError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	code := "VALIDATION_ERROR"
	msg := err.Error()
	logHTTPOperationError(ctx, operation, http.StatusBadRequest, code, msg, err)
	writeError(w, http.StatusBadRequest, code, msg)
}

func writeMissingBearerError(ctx context.Context, w http.ResponseWriter, operation string) {
	code := "INVALID_TOKEN"
	msg := "missing or invalid bearer token"
	logHTTPOperationError(ctx, operation, http.StatusUnauthorized, code, msg, nil)
	writeError(w, http.StatusUnauthorized, code, msg)
}
