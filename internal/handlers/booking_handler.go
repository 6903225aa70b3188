package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rentgrid/car-rental-backend/internal/middleware"
	"github.com/rentgrid/car-rental-backend/internal/models"
	"github.com/rentgrid/car-rental-backend/internal/services"
)

// BookingHandler handles booking lifecycle endpoints
type BookingHandler struct {
	bookings *services.BookingService
	logger   *logrus.Logger
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookings *services.BookingService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		logger:   logger,
	}
}

// Create creates a new booking for the authenticated requester.
// POST /api/v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	start, end, err := req.ParseDates()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookings.Create(req.VehicleID, userCtx.UserID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// Cancel cancels a booking owned by the authenticated requester.
// PATCH /api/v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	booking, err := h.bookings.Cancel(c.Param("id"), userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// Complete marks a booking as completed. Admin only.
// PATCH /api/v1/bookings/:id/complete
func (h *BookingHandler) Complete(c *gin.Context) {
	booking, err := h.bookings.Complete(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// MyBookings lists the authenticated requester's bookings with vehicle
// details, newest rental period first.
// GET /api/v1/bookings/my
func (h *BookingHandler) MyBookings(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bookings, err := h.bookings.ListForRequester(userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     gin.H{"id": userCtx.UserID, "email": userCtx.Email},
		"bookings": bookings,
	})
}

// GetAll lists every booking with vehicle details, optionally filtered by
// status. Admin only.
// GET /api/v1/bookings?status=active|cancelled|completed
func (h *BookingHandler) GetAll(c *gin.Context) {
	var status models.BookingStatus
	if raw := c.Query("status"); raw != "" {
		parsed, err := models.ParseBookingStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		status = parsed
	}

	bookings, err := h.bookings.ListAll(status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}
