package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltcert/voltcert-backend/internal/services"
)

type CircuitHandler struct {
	circuitService services.CircuitService
}

func NewCircuitHandler(circuitService services.CircuitService) *CircuitHandler {
	return &CircuitHandler{circuitService: circuitService}
}

// RecordMeasurements accepts a batch of readings for one circuit and returns
// the re-validated circuit with per-reading validation results. Out-of-limit
// readings are stored and reported, never rejected.
func (ch *CircuitHandler) RecordMeasurements(c *gin.Context) {
	id, err := pathID(c, "circuit_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	var in services.ApplyMeasurementsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	circuit, results, err := ch.circuitService.ApplyMeasurements(c.Request.Context(), id, in)
	if err != nil {
		RespondFault(c, err)
		return
	}
	RespondOK(c, gin.H{"circuit": circuit, "results": results})
}
