package main

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dmitrymomot/localemux/pkg/i18n"
	"github.com/dmitrymomot/localemux/pkg/logger"
	"github.com/dmitrymomot/localemux/pkg/validation"
)

const maxBodySize = 1 << 20

type weatherResponse struct {
	Language string `json:"language"`
	Locale   string `json:"locale"`
}

type subscriptionRequest struct {
	Email string `json:"email" validate:"required,email"`
	City  string `json:"city" validate:"required,min=2,max=64"`
	Units string `json:"units" validate:"omitempty,oneof=metric imperial"`
	Days  int    `json:"days" validate:"gte=1,lte=14"`
}

type subscriptionResponse struct {
	Email  string `json:"email"`
	City   string `json:"city"`
	Units  string `json:"units"`
	Days   int    `json:"days"`
	Locale string `json:"locale"`
}

// errorResponse carries a machine readable code and, for 422, the localized violations.
type errorResponse struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Violations []validation.Violation `json:"violations,omitempty"`
}

// weather reports the locale resolved for the request path.
func (a *app) weather(w http.ResponseWriter, r *http.Request) {
	tag := i18n.GetLocale(r.Context())
	base, _ := tag.Base()
	a.writeJSON(w, r, http.StatusOK, weatherResponse{
		Language: base.String(),
		Locale:   tag.String(),
	})
}

func (a *app) subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		a.writeJSON(w, r, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: "invalid request body"})
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.City = strings.TrimSpace(req.City)

	if err := a.validator.Validate(r.Context(), &req); err != nil {
		if violations := validation.ExtractViolations(err); len(violations) > 0 {
			a.writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{
				Code:       "validation_error",
				Message:    "validation failed",
				Violations: violations,
			})
			return
		}
		a.log.ErrorContext(r.Context(), "validate subscription", logger.Error(err))
		a.writeJSON(w, r, http.StatusInternalServerError, errorResponse{
			Code:    "internal_server_error",
			Message: http.StatusText(http.StatusInternalServerError),
		})
		return
	}

	units := req.Units
	if units == "" {
		units = "metric"
	}
	a.writeJSON(w, r, http.StatusCreated, subscriptionResponse{
		Email:  req.Email,
		City:   req.City,
		Units:  units,
		Days:   req.Days,
		Locale: i18n.GetLocale(r.Context()).String(),
	})
}

func (a *app) listResolvers(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, r, http.StatusOK, map[string]any{
		"default":   a.registry.Default().Pattern(),
		"resolvers": a.registry.Entries(),
		"plugins":   a.plugins.Running(),
	})
}

func (a *app) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.WarnContext(r.Context(), "write response", logger.Error(err))
	}
}
