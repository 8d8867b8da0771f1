package handlers

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/agentflow/agentflow-api/internal/apperror"
	"github.com/agentflow/agentflow-api/internal/logger"
)

// ErrorEnvelope is the one JSON shape every failed request receives.
type ErrorEnvelope struct {
	Status  string         `json:"status"`
	Code    apperror.Code  `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Stack   string         `json:"stack,omitempty"`
}

// Responder is the terminal write path shared by every handler: successes as
// plain JSON, failures serialized into the uniform envelope exactly once.
type Responder struct {
	log        *logger.Logger
	production bool
}

func NewResponder(log *logger.Logger, production bool) *Responder {
	return &Responder{log: log.Child("http", nil), production: production}
}

func (r *Responder) JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error maps any error to the envelope. AppErrors keep their status and code;
// anything else is a 500 whose message is masked in production. The
// Operational flag picks warn vs error log severity, nothing else.
func (r *Responder) Error(w http.ResponseWriter, err error) {
	envelope := ErrorEnvelope{Status: "error"}
	status := http.StatusInternalServerError

	if appErr, ok := err.(*apperror.AppError); ok {
		status = appErr.StatusCode
		envelope.Code = appErr.Code
		envelope.Message = appErr.Message
		envelope.Details = appErr.Details

		if appErr.Operational {
			r.log.Warn("request failed", map[string]any{
				"code":  appErr.Code,
				"error": appErr.Error(),
			})
		} else {
			r.log.Error("request failed", appErr, map[string]any{"code": appErr.Code})
		}
	} else {
		envelope.Code = apperror.CodeInternal
		if r.production {
			envelope.Message = "internal server error"
		} else {
			envelope.Message = err.Error()
			envelope.Stack = string(debug.Stack())
		}
		r.log.Error("unhandled error", err)
	}

	r.JSON(w, status, envelope)
}

// Recoverer converts a handler panic into the same envelope, so even
// programming errors produce exactly one structured response.
func (r *Responder) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				r.log.Error("panic recovered", nil, map[string]any{
					"panic": rec,
					"path":  req.URL.Path,
					"stack": string(debug.Stack()),
				})

				envelope := ErrorEnvelope{
					Status:  "error",
					Code:    apperror.CodeInternal,
					Message: "internal server error",
				}
				if !r.production {
					envelope.Stack = string(debug.Stack())
				}
				r.JSON(w, http.StatusInternalServerError, envelope)
			}
		}()
		next.ServeHTTP(w, req)
	})
}
