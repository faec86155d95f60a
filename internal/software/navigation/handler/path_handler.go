package handler

import (
	"context"
	"net/http"
	"time"

	"store-nav/internal/domain/geo"
	"store-nav/internal/ports"
)

type planPathRequest struct {
	Start   geo.Coordinate `json:"start"`
	End     geo.Coordinate `json:"end"`
	SpeedMS float64        `json:"speed_ms"`
}

// ----- Handler: POST /navigation/path -----

func (handler *NavigationHTTPHandler) handlePlanPath(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	var req planPathRequest
	if !handler.decodeJSON(ctx, w, r, &req) {
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.PlanPath(ctxWithTimeout, ports.PlanPathInput{
		Start:   req.Start,
		End:     req.End,
		SpeedMS: req.SpeedMS,
	})
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}
