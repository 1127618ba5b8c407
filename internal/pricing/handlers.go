package pricing

import (
	"encoding/json"
	"errors"
	"net/http"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-b2b/internal/common"
	"github.com/noah-isme/backend-b2b/internal/obs"
)

// Handler exposes the price calculator over HTTP.
type Handler struct {
	validate *validator.Validate
	metrics  *obs.DomainMetrics
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Validator *validator.Validate
	Metrics   *obs.DomainMetrics
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	v := cfg.Validator
	if v == nil {
		v = common.NewValidator()
	}
	return &Handler{validate: v, metrics: cfg.Metrics}
}

type quoteRequest struct {
	Lines []Line `json:"lines" validate:"required,min=1,dive"`
}

// Calculate handles POST /api/pricing/calculate.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var line Line
	if !h.decode(w, r, &line) {
		return
	}
	res := Calculate(line.BasePrice, line.Quantity, line.Discounts, line.ProductDiscountConfig)
	h.metrics.ObservePricing(res.TotalSavings > 0)
	common.OK(w, res)
}

// Quote handles POST /api/pricing/quote.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if !h.decode(w, r, &req) {
		return
	}
	out := Quote(req.Lines)
	for _, res := range out.Lines {
		h.metrics.ObservePricing(res.TotalSavings > 0)
	}
	common.OK(w, out)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			common.WriteError(w, common.TooLarge(err))
			return false
		}
		common.WriteError(w, common.BadRequest("invalid request body", err))
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		common.Fail(w, http.StatusBadRequest, common.ValidationMessage(err))
		return false
	}
	return true
}
