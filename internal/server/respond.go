package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/hyperjump/dishmatch/internal/search"
)

// statusFor maps engine errors onto HTTP status codes.
func statusFor(err error) int {
	var invalid *search.InvalidInputError
	var stage *search.StageError
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.Is(err, search.ErrNothingRecognized):
		return http.StatusUnprocessableEntity
	case errors.As(err, &stage) && stage.Timeout():
		return http.StatusGatewayTimeout
	case errors.As(err, &stage) && stage.Stage == search.StageRecognize:
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondEngineError(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(msg, zap.Error(err), zap.Int("status", status))
	} else {
		s.logger.Debug(msg, zap.Error(err), zap.Int("status", status))
	}
	s.respondError(w, status, err.Error())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
