package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rentgrid/car-rental-backend/internal/database"
	"github.com/rentgrid/car-rental-backend/internal/models"
	"github.com/rentgrid/car-rental-backend/internal/schedule"
	"github.com/rentgrid/car-rental-backend/internal/services"
)

// VehicleHandler handles vehicle administration and the public
// availability search
type VehicleHandler struct {
	vehicles     *database.VehicleRepository
	availability *services.AvailabilityService
	logger       *logrus.Logger
}

// NewVehicleHandler creates a new VehicleHandler
func NewVehicleHandler(
	vehicles *database.VehicleRepository,
	availability *services.AvailabilityService,
	logger *logrus.Logger,
) *VehicleHandler {
	return &VehicleHandler{
		vehicles:     vehicles,
		availability: availability,
		logger:       logger,
	}
}

// GetAvailable searches vehicles free to rent over a requested range.
// Public endpoint.
// GET /api/v1/vehicles/available?start=...&end=...&category=...
func (h *VehicleHandler) GetAvailable(c *gin.Context) {
	start, err := schedule.ParseTimestamp(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start: " + err.Error()})
		return
	}
	end, err := schedule.ParseTimestamp(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end: " + err.Error()})
		return
	}

	vehicles, err := h.availability.GetAvailable(start, end, c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, vehicles)
}

// Create registers a new vehicle. Admin only.
// POST /api/v1/vehicles
func (h *VehicleHandler) Create(c *gin.Context) {
	var req models.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicle := &models.Vehicle{
		Make:     req.Make,
		Model:    req.Model,
		Year:     req.Year,
		Category: req.Category,
		Color:    req.Color,
		Seats:    req.Seats,
		Mileage:  req.Mileage,
		Status:   models.VehicleStatusAvailable,
	}
	if err := h.vehicles.Create(vehicle); err != nil {
		respondError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"vehicle_id": vehicle.ID,
		"make":       vehicle.Make,
		"model":      vehicle.Model,
	}).Info("Vehicle registered")

	c.JSON(http.StatusCreated, vehicle)
}

// GetAll lists every vehicle. Admin only.
// GET /api/v1/vehicles
func (h *VehicleHandler) GetAll(c *gin.Context) {
	vehicles, err := h.vehicles.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, vehicles)
}

// GetByID retrieves a single vehicle. Admin only.
// GET /api/v1/vehicles/:id
func (h *VehicleHandler) GetByID(c *gin.Context) {
	vehicle, err := h.vehicles.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, vehicle)
}
