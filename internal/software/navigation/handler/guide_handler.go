package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"store-nav/internal/domain/geo"
	"store-nav/internal/general/jwt"
	"store-nav/internal/ports"
)

// --- Request DTO (HTTP boundary) ---

type guideRequest struct {
	ProductID  string          `json:"product_id"`
	RobotID    string          `json:"robot_id"`
	CustomerID string          `json:"customer_id"`
	Start      *geo.Coordinate `json:"start,omitempty"`
}

// ----- Handler: POST /navigation/guide -----

func (handler *NavigationHTTPHandler) handleGuide(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	var req guideRequest
	if !handler.decodeJSON(ctx, w, r, &req) {
		return
	}

	if strings.TrimSpace(req.ProductID) == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "product_id is required", nil)
		return
	}

	claims := jwt.RequireClaims(r)
	if claims == nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", errors.New("no claims"))
		return
	}

	// fill or verify customer_id; admins may guide on behalf of anyone
	sub := strings.TrimSpace(claims.Subject)
	if strings.TrimSpace(req.CustomerID) == "" {
		req.CustomerID = sub
	} else if req.CustomerID != sub && !claims.Role.IsAdmin() {
		handler.httpError(ctx, w, http.StatusForbidden, "customer_id does not match token subject", errors.New("customer/token mismatch"))
		return
	}

	in := ports.GuideInput{
		ProductID:  strings.TrimSpace(req.ProductID),
		RobotID:    strings.TrimSpace(req.RobotID),
		CustomerID: strings.TrimSpace(req.CustomerID),
		Start:      req.Start,
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.Guide(ctxWithTimeout, in)
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}
	ctxWithTimeout = handler.logger.WithSessionID(ctxWithTimeout, res.SessionID)

	handler.jsonResponse(ctxWithTimeout, w, http.StatusCreated, res)
}
