package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"store-nav/internal/domain/navigation"
	"store-nav/internal/domain/product"
	"store-nav/internal/domain/robot"
	"store-nav/internal/domain/user"
	"store-nav/internal/general/jwt"
	"store-nav/internal/general/logger"
	"store-nav/internal/general/websocket"
	"store-nav/internal/ports"
)

// NavigationHTTPHandler adapts HTTP requests to the NavigationService.
type NavigationHTTPHandler struct {
	svc       ports.NavigationService
	logger    *logger.Logger
	auth      *jwt.Manager
	websocket *websocket.WebSocket
}

// NewNavigationHTTPHandler wires an HTTP handler around the NavigationService.
func NewNavigationHTTPHandler(
	svc ports.NavigationService,
	logger *logger.Logger,
	auth *jwt.Manager,
	ws *websocket.WebSocket,
) *NavigationHTTPHandler {
	return &NavigationHTTPHandler{svc: svc, logger: logger, auth: auth, websocket: ws}
}

// RegisterRoutes mounts navigation endpoints on the provided mux.
func (handler *NavigationHTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /navigation/guide",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleCustomer, user.RoleAdmin)(handler.handleGuide),
	)
	mux.HandleFunc("POST /navigation/path",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleCustomer, user.RoleRobot, user.RoleAdmin)(handler.handlePlanPath),
	)
	mux.HandleFunc("GET /navigation/status/{session_id}",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleCustomer, user.RoleRobot, user.RoleAdmin)(handler.handleSessionStatus),
	)
	mux.HandleFunc("POST /navigation/status/{session_id}/progress",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleRobot, user.RoleAdmin)(handler.handleReportProgress),
	)

	mux.HandleFunc("POST /robots/move",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleAdmin)(handler.handleMoveRobot),
	)
	mux.HandleFunc("POST /robots/stop",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleAdmin)(handler.handleStopRobot),
	)
	mux.HandleFunc("POST /robots/speak",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleAdmin)(handler.handleSpeak),
	)

	mux.HandleFunc("POST /navigation/nearby",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleCustomer, user.RoleAdmin)(handler.handleNearby),
	)
	mux.HandleFunc("GET /navigation/layout", handler.handleFloorPlan)
	mux.HandleFunc("GET /navigation/locations",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleCustomer, user.RoleAdmin)(handler.handleLocations),
	)

	// WebSocket endpoints do their own first-frame authentication
	mux.HandleFunc("GET /ws/robot/{robot_id}", handler.websocket.ConnectRobot)
	mux.HandleFunc("GET /ws/customer/{customer_id}", handler.websocket.ConnectCustomer)

	mux.HandleFunc("GET /navigation/health", handler.handleHealth)
	mux.HandleFunc("POST /tokens", handler.handleCreateToken)
}

func (handler *NavigationHTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	handler.jsonResponse(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

// ----- token endpoint -----

type TokenRequest struct {
	UserID string    `json:"user_id"`
	Role   user.Role `json:"role"`
}

// TokenResponse represents the response for token generation
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
	Role      user.Role `json:"role"`
}

func (handler *NavigationHTTPHandler) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if strings.TrimSpace(req.UserID) == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "user_id is required", nil)
		return
	}

	tokenString, claims, err := handler.auth.IssueUserToken(req.UserID, req.Role)
	if err != nil {
		handler.httpError(ctx, w, http.StatusInternalServerError, "Failed to generate token", err)
		return
	}

	response := TokenResponse{
		Token:     tokenString,
		ExpiresAt: claims.ExpiresAt.Time,
		UserID:    req.UserID,
		Role:      req.Role,
	}

	handler.logger.Info(ctx, "token_generated", "JWT token generated successfully",
		map[string]any{"user_id": req.UserID, "role": req.Role.String()})

	handler.jsonResponse(ctx, w, http.StatusCreated, response)
}

// ----- general helpers -----

// decodeJSON decodes a request body strictly, with a 1 MiB cap.
func (handler *NavigationHTTPHandler) decodeJSON(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) bool {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		handler.httpError(ctx, w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil)
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			handler.httpError(ctx, w, http.StatusRequestEntityTooLarge, "request body too large", err)
			return false
		}
		handler.httpError(ctx, w, http.StatusBadRequest, "invalid JSON: "+err.Error(), err)
		return false
	}
	return true
}

// serviceError maps domain errors onto HTTP statuses.
func (handler *NavigationHTTPHandler) serviceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, navigation.ErrSessionNotFound):
		handler.httpError(ctx, w, http.StatusNotFound, "navigation session not found", err)
	case errors.Is(err, product.ErrProductNotFound):
		handler.httpError(ctx, w, http.StatusNotFound, "product not found", err)
	case errors.Is(err, robot.ErrRobotNotFound):
		handler.httpError(ctx, w, http.StatusNotFound, "robot not found", err)
	case errors.Is(err, ports.ErrNoRoute):
		handler.httpError(ctx, w, http.StatusUnprocessableEntity, "no feasible route", err)
	case errors.Is(err, navigation.ErrVersionConflict):
		handler.httpError(ctx, w, http.StatusConflict, "concurrent session update, retry", err)
	case errors.Is(err, navigation.ErrRobotRequired):
		handler.httpError(ctx, w, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, context.DeadlineExceeded):
		handler.httpError(ctx, w, http.StatusGatewayTimeout, "request timed out", err)
	default:
		handler.httpError(ctx, w, http.StatusInternalServerError, "internal error", err)
	}
}

func (handler *NavigationHTTPHandler) jsonResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
	// encode to buffer first so we can control status on failure
	var buf []byte
	var err error

	if data != nil {
		buf, err = json.Marshal(data)
		if err != nil {
			handler.logger.Error(ctx, "response_encode_failed", "Failed to encode response", err, nil)
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
			return
		}
	} else {
		buf = []byte("{}")
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}

// httpError sends a JSON error response with a message.
func (handler *NavigationHTTPHandler) httpError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
	action := "request_failed"
	if status >= 500 {
		action = "http_internal_error"
	} else if status == http.StatusBadRequest {
		action = "validation_failed"
	} else if status == http.StatusUnsupportedMediaType {
		action = "unsupported_media_type"
	}
	handler.logger.Error(ctx, action, msg, err, nil)

	type errBody struct {
		Error string `json:"error"`
	}
	handler.jsonResponse(ctx, w, status, errBody{Error: msg})
}

// withReqID extracts or generates a request ID and adds it to the context.
func (handler *NavigationHTTPHandler) withReqID(ctx context.Context, r *http.Request) context.Context {
	reqID := r.Header.Get("X-Request-ID")
	if strings.TrimSpace(reqID) == "" {
		reqID = randID()
	}
	return handler.logger.WithRequestID(ctx, reqID)
}

// randID generates a random 24-char hex string suitable for request IDs.
func randID() string {
	var b [12]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
