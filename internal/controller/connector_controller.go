package controller

import (
	"net/http"

	"github.com/cassiomorais/connectors/internal/service"
)

type ConnectorController struct {
	paymentService *service.PaymentService
}

func NewConnectorController(paymentService *service.PaymentService) *ConnectorController {
	return &ConnectorController{paymentService: paymentService}
}

// List handles GET /api/v1/connectors
func (h *ConnectorController) List(w http.ResponseWriter, r *http.Request) {
	infos := h.paymentService.Connectors()
	resp := make([]ConnectorResponse, 0, len(infos))
	for _, info := range infos {
		resp = append(resp, ConnectorResponse{ID: info.ID, Flows: info.Flows})
	}
	writeJSON(w, http.StatusOK, resp)
}
