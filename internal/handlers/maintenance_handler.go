package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rentgrid/car-rental-backend/internal/models"
	"github.com/rentgrid/car-rental-backend/internal/services"
)

// MaintenanceHandler handles maintenance lifecycle endpoints. All routes
// are admin only.
type MaintenanceHandler struct {
	maintenance *services.MaintenanceService
	logger      *logrus.Logger
}

// NewMaintenanceHandler creates a new MaintenanceHandler
func NewMaintenanceHandler(maintenance *services.MaintenanceService, logger *logrus.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenance: maintenance,
		logger:      logger,
	}
}

// Create schedules a maintenance window.
// POST /api/v1/maintenance
func (h *MaintenanceHandler) Create(c *gin.Context) {
	var req models.CreateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	start, end, err := req.ParseDates()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.maintenance.Create(req.VehicleID, start, end, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, m)
}

// Complete marks a maintenance window as completed.
// PATCH /api/v1/maintenance/:id/complete
func (h *MaintenanceHandler) Complete(c *gin.Context) {
	m, err := h.maintenance.Complete(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}

// Delete removes a maintenance record regardless of status.
// DELETE /api/v1/maintenance/:id
func (h *MaintenanceHandler) Delete(c *gin.Context) {
	if err := h.maintenance.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetAll lists every maintenance record with vehicle details.
// GET /api/v1/maintenance
func (h *MaintenanceHandler) GetAll(c *gin.Context) {
	records, err := h.maintenance.ListAll()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}
