package handler

import (
	"context"
	"net/http"
	"time"

	"store-nav/internal/domain/geo"
	"store-nav/internal/ports"
)

type nearbyRequest struct {
	Center  geo.Coordinate `json:"center"`
	RadiusM float64        `json:"radius_m,omitempty"`
	Limit   int            `json:"limit,omitempty"`
}

// ----- Handler: POST /navigation/nearby -----

func (handler *NavigationHTTPHandler) handleNearby(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	var req nearbyRequest
	if !handler.decodeJSON(ctx, w, r, &req) {
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.Nearby(ctxWithTimeout, ports.NearbyInput{
		Center:  req.Center,
		RadiusM: req.RadiusM,
		Limit:   req.Limit,
	})
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}

// ----- Handler: GET /navigation/layout -----

func (handler *NavigationHTTPHandler) handleFloorPlan(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	plan, err := handler.svc.GetFloorPlan(ctx)
	if err != nil {
		handler.serviceError(ctx, w, err)
		return
	}

	handler.jsonResponse(ctx, w, http.StatusOK, plan)
}

// ----- Handler: GET /navigation/locations -----

func (handler *NavigationHTTPHandler) handleLocations(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.Locations(ctxWithTimeout)
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}
