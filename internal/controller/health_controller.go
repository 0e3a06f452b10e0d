package controller

import (
	"net/http"

	"github.com/cassiomorais/connectors/internal/service"
)

type HealthController struct {
	paymentService *service.PaymentService
}

func NewHealthController(paymentService *service.PaymentService) *HealthController {
	return &HealthController{paymentService: paymentService}
}

func (h *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthController) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness reports ready once at least one connector is registered.
func (h *HealthController) Readiness(w http.ResponseWriter, r *http.Request) {
	if len(h.paymentService.Connectors()) == 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "no connectors registered",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
