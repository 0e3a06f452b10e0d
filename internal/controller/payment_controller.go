package controller

import (
	"net/http"

	"github.com/cassiomorais/connectors/internal/domain/payment"
	"github.com/cassiomorais/connectors/internal/service"
	"github.com/go-chi/chi/v5"
)

// PaymentController handles payment-related HTTP requests.
type PaymentController struct {
	paymentService *service.PaymentService
}

// NewPaymentController creates a new PaymentController.
func NewPaymentController(paymentService *service.PaymentService) *PaymentController {
	return &PaymentController{paymentService: paymentService}
}

// Authorize handles POST /api/v1/payments
func (h *PaymentController) Authorize(w http.ResponseWriter, r *http.Request) {
	var req AuthorizePaymentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	svcReq, err := req.toService(merchantID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.paymentService.Authorize(r.Context(), svcReq)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, resultStatus(result.Error, http.StatusCreated), toPaymentResponse(result))
}

// Sync handles GET /api/v1/payments/{connector}/{transaction_id}
func (h *PaymentController) Sync(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.paymentService.Sync(r.Context(), service.SyncRequest{
		MerchantID:             merchantID(r),
		Connector:              chi.URLParam(r, "connector"),
		PaymentID:              q.Get("payment_id"),
		ConnectorTransactionID: chi.URLParam(r, "transaction_id"),
		CaptureMethod:          payment.CaptureMethod(q.Get("capture_method")),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPaymentResponse(result))
}

// Capture handles POST /api/v1/payments/{connector}/{transaction_id}/capture
func (h *PaymentController) Capture(w http.ResponseWriter, r *http.Request) {
	var req CapturePaymentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	amount, err := toAmount(req.Amount, req.Currency)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.paymentService.Capture(r.Context(), service.CaptureRequest{
		MerchantID:             merchantID(r),
		Connector:              chi.URLParam(r, "connector"),
		PaymentID:              req.PaymentID,
		ConnectorTransactionID: chi.URLParam(r, "transaction_id"),
		Amount:                 amount,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPaymentResponse(result))
}

// Void handles POST /api/v1/payments/{connector}/{transaction_id}/void
func (h *PaymentController) Void(w http.ResponseWriter, r *http.Request) {
	var req VoidPaymentRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.paymentService.Void(r.Context(), service.VoidRequest{
		MerchantID:             merchantID(r),
		Connector:              chi.URLParam(r, "connector"),
		PaymentID:              req.PaymentID,
		ConnectorTransactionID: chi.URLParam(r, "transaction_id"),
		CancellationReason:     req.CancellationReason,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPaymentResponse(result))
}

// resultStatus keeps processor-reported failures at 200: the reply was
// understood and the body carries the error.
func resultStatus(errRes *payment.ErrorResponse, success int) int {
	if errRes != nil {
		return http.StatusOK
	}
	return success
}
