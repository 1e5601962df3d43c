package http

import (
	"net/http"

	"github.com/meridianbank/auth-service/internal/application"
)

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) readyz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ready")
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req application.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "register", err)
		return
	}

	res, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "register", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "login", err)
		return
	}
	if req.IPAddress == "" {
		req.IPAddress = readIP(r)
	}

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "login", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req application.RefreshRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "refresh", err)
		return
	}

	res, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeMappedError(r.Context(), w, "refresh", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

// logout reads the bearer token straight from the Authorization header
// rather than from the request context: revoking an already-expired token
// must surface an error to the caller, not silently pass as anonymous.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	token, err := bearerTokenFromHeader(r.Header.Get("Authorization"))
	if err != nil {
		writeMissingBearerError(r.Context(), w, "logout")
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		writeMappedError(r.Context(), w, "logout", err)
		return
	}
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "me")
		return
	}

	res, err := h.service.Profile(r.Context(), claims.IdentityID)
	if err != nil {
		writeMappedError(r.Context(), w, "me", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}
