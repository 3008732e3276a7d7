package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// PurchaseHandler handles checkout and the payment provider's confirmation
// webhook.
type PurchaseHandler struct {
	purchaseService service.PurchaseService
	validate        *validator.Validate
	logger          zerolog.Logger
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseService service.PurchaseService, validate *validator.Validate, logger zerolog.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
		validate:        validate,
		logger:          logger.With().Str("handler", "PurchaseHandler").Logger(),
	}
}

// RegisterRoutes mounts purchase routes. The webhook is unauthenticated; the
// payload signature is its authenticity check.
func (h *PurchaseHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/purchases/checkout", authMw(http.HandlerFunc(h.checkout)))
	mux.Handle("/purchases/webhook", http.HandlerFunc(h.webhook))
}

func (h *PurchaseHandler) checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	var req dto.CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Course id is required")
		return
	}
	redirectURL, err := h.purchaseService.InitiateCheckout(r.Context(), req.CourseID, principal.UserID)
	if err != nil {
		h.logger.Error().Err(err).Str("course_id", req.CourseID).Msg("Checkout failed")
		writeError(w, err, "Failed to create checkout session")
		return
	}
	writeJSON(w, http.StatusOK, dto.CheckoutResponseDTO{RedirectURL: redirectURL})
}

func (h *PurchaseHandler) webhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Failed to read payload")
		return
	}
	signature := r.Header.Get("Stripe-Signature")
	if err := h.purchaseService.ConfirmPurchase(r.Context(), payload, signature); err != nil {
		h.logger.Error().Err(err).Msg("Webhook processing failed")
		writeError(w, err, "Failed to process notification")
		return
	}
	w.WriteHeader(http.StatusOK)
}
