package controller

import (
	"net/http"

	"github.com/cassiomorais/connectors/internal/service"
	"github.com/go-chi/chi/v5"
)

type RefundController struct {
	paymentService *service.PaymentService
}

func NewRefundController(paymentService *service.PaymentService) *RefundController {
	return &RefundController{paymentService: paymentService}
}

// Create handles POST /api/v1/refunds
func (h *RefundController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRefundRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	svcReq, err := req.toService(merchantID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.paymentService.Refund(r.Context(), svcReq)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, resultStatus(result.Error, http.StatusCreated), toRefundResponse(result))
}

// Sync handles GET /api/v1/refunds/{connector}/{refund_id}
func (h *RefundController) Sync(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.paymentService.RefundSync(r.Context(), service.RefundSyncRequest{
		MerchantID:             merchantID(r),
		Connector:              chi.URLParam(r, "connector"),
		RefundID:               q.Get("refund_id"),
		ConnectorTransactionID: q.Get("connector_transaction_id"),
		ConnectorRefundID:      chi.URLParam(r, "refund_id"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRefundResponse(result))
}
