package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"store-nav/internal/domain/geo"
	"store-nav/internal/ports"
)

type reportProgressRequest struct {
	Location geo.Coordinate `json:"location"`
	Status   string         `json:"status,omitempty"`
}

// ----- Handler: GET /navigation/status/{session_id} -----

func (handler *NavigationHTTPHandler) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	sessionID := strings.TrimSpace(r.PathValue("session_id"))
	if sessionID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "session_id is required", nil)
		return
	}
	ctx = handler.logger.WithSessionID(ctx, sessionID)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	snapshot, err := handler.svc.GetSessionStatus(ctxWithTimeout, sessionID)
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, snapshot)
}

// ----- Handler: POST /navigation/status/{session_id}/progress -----

func (handler *NavigationHTTPHandler) handleReportProgress(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	sessionID := strings.TrimSpace(r.PathValue("session_id"))
	if sessionID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "session_id is required", nil)
		return
	}
	ctx = handler.logger.WithSessionID(ctx, sessionID)

	var req reportProgressRequest
	if !handler.decodeJSON(ctx, w, r, &req) {
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	snapshot, err := handler.svc.ReportProgress(ctxWithTimeout, ports.ReportProgressInput{
		SessionID:   sessionID,
		Location:    req.Location,
		StatusToken: req.Status,
	})
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, snapshot)
}
