package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/pkg/utils"
	"github.com/Vishrutha-23/SafeWalk/internal/usecase/dto"
)

// EmergencyService - emergency session operations
type EmergencyService interface {
	Start(ctx context.Context, req dto.EmergencyStartRequest) (*dto.EmergencyStartResponse, error)
	Acknowledge(ctx context.Context, id, sourceAddress string) (*dto.AckResponse, error)
	Status(ctx context.Context, id string) (*dto.EmergencyStatusResponse, error)
}

type EmergencyHandler struct {
	emergency EmergencyService
	logger    *zap.Logger
}

func NewEmergencyHandler(emergency EmergencyService, logger *zap.Logger) *EmergencyHandler {
	return &EmergencyHandler{
		emergency: emergency,
		logger:    logger,
	}
}

// Start godoc
// @Summary Start an emergency session
// @Description Creates a session and returns a tracking link plus a shareable maps link for contacts.
// @Tags Emergency
// @Accept json
// @Produce json
// @Param request body dto.EmergencyStartRequest true "Origin and contacts"
// @Success 200 {object} dto.EmergencyStartResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /emergency/start [post]
func (h *EmergencyHandler) Start(c *fiber.Ctx) error {
	var req dto.EmergencyStartRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, invalidBody(err))
	}

	result, err := h.emergency.Start(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result)
}

// Acknowledge godoc
// @Summary Acknowledge an emergency alert
// @Tags Emergency
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.AckResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /emergency/ack/{id} [post]
func (h *EmergencyHandler) Acknowledge(c *fiber.Ctx) error {
	result, err := h.emergency.Acknowledge(c.Context(), c.Params("id"), c.IP())
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result)
}

// Status godoc
// @Summary Emergency session status
// @Tags Emergency
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.EmergencyStatusResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /emergency/status/{id} [get]
func (h *EmergencyHandler) Status(c *fiber.Ctx) error {
	result, err := h.emergency.Status(c.Context(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result)
}
