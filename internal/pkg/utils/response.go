package utils

import (
	stderrors "errors"

	"github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
	"github.com/gofiber/fiber/v2"
)

type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
}

// SendSuccess writes data as the response body. Payloads are returned
// unwrapped so clients read {fastest, safest}, {traffic, crime}, etc. directly.
func SendSuccess(c *fiber.Ctx, data interface{}) error {
	return c.JSON(data)
}

// SendCreated is SendSuccess with 201.
func SendCreated(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

func SendError(c *fiber.Ctx, err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{
			Error: appErr,
		})
	}

	// Unknown error - return 500
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error: errors.ErrInternalServer,
	})
}
