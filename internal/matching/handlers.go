package matching

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-b2b/internal/common"
)

// Handler exposes the product matching endpoint.
type Handler struct {
	service  *Service
	validate *validator.Validate
	logger   zerolog.Logger
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service   *Service
	Validator *validator.Validate
	Logger    *zerolog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	svc := cfg.Service
	if svc == nil {
		svc = NewService(ServiceConfig{Logger: cfg.Logger})
	}
	v := cfg.Validator
	if v == nil {
		v = common.NewValidator()
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Handler{service: svc, validate: v, logger: logger}
}

// Match handles POST /api/products/match.
func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error().Interface("panic", rec).Msg("product match panicked")
			common.Fail(w, http.StatusInternalServerError, fmt.Sprint(rec))
		}
	}()

	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, decodeError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.Fail(w, http.StatusBadRequest, common.ValidationMessage(err))
		return
	}

	out, err := h.service.Match(r.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Int("products", len(req.Products)).Msg("product match failed")
		common.WriteError(w, err)
		return
	}
	common.OK(w, out)
}

func decodeError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return common.TooLarge(err)
	}
	return common.BadRequest("invalid request body", err)
}
