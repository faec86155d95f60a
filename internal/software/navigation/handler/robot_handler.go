package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"store-nav/internal/domain/geo"
	"store-nav/internal/ports"
)

type moveRobotRequest struct {
	RobotID     string         `json:"robot_id"`
	Destination geo.Coordinate `json:"destination"`
	SpeedMS     float64        `json:"speed_ms,omitempty"`
	VoiceGuide  bool           `json:"voice_guide,omitempty"`
	Message     string         `json:"message,omitempty"`
}

type stopRobotRequest struct {
	RobotID string `json:"robot_id"`
	Reason  string `json:"reason,omitempty"`
}

type speakRequest struct {
	RobotID      string `json:"robot_id"`
	Text         string `json:"text"`
	LanguageCode string `json:"language_code,omitempty"`
}

// ----- Handler: POST /robots/move -----

func (handler *NavigationHTTPHandler) handleMoveRobot(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	var req moveRobotRequest
	if !handler.decodeJSON(ctx, w, r, &req) {
		return
	}

	if strings.TrimSpace(req.RobotID) == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "robot_id is required", nil)
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.MoveRobot(ctxWithTimeout, ports.MoveRobotInput{
		RobotID:     strings.TrimSpace(req.RobotID),
		Destination: req.Destination,
		SpeedMS:     req.SpeedMS,
		VoiceGuide:  req.VoiceGuide,
		Message:     strings.TrimSpace(req.Message),
	})
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusAccepted, res)
}

// ----- Handler: POST /robots/stop -----

func (handler *NavigationHTTPHandler) handleStopRobot(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	var req stopRobotRequest
	if !handler.decodeJSON(ctx, w, r, &req) {
		return
	}

	if strings.TrimSpace(req.RobotID) == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "robot_id is required", nil)
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ack, err := handler.svc.StopRobot(ctxWithTimeout, ports.StopRobotInput{
		RobotID: strings.TrimSpace(req.RobotID),
		Reason:  strings.TrimSpace(req.Reason),
	})
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusAccepted, ack)
}

// ----- Handler: POST /robots/speak -----

func (handler *NavigationHTTPHandler) handleSpeak(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	var req speakRequest
	if !handler.decodeJSON(ctx, w, r, &req) {
		return
	}

	if strings.TrimSpace(req.RobotID) == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "robot_id is required", nil)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "text is required", nil)
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ack, err := handler.svc.Speak(ctxWithTimeout, ports.SpeakInput{
		RobotID:      strings.TrimSpace(req.RobotID),
		Text:         req.Text,
		LanguageCode: strings.TrimSpace(req.LanguageCode),
	})
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusAccepted, ack)
}
