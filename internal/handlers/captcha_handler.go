package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lenbersih/lenbersih-api/internal/captcha"
	"github.com/lenbersih/lenbersih-api/internal/dto"
	"github.com/lenbersih/lenbersih-api/internal/metrics"
	"github.com/lenbersih/lenbersih-api/internal/validation"
)

type CaptchaHandler struct {
	validator captcha.Validator
}

func NewCaptchaHandler(validator captcha.Validator) *CaptchaHandler {
	return &CaptchaHandler{validator: validator}
}

// New handles GET /api/captcha/new: issues a fresh challenge.
func (h *CaptchaHandler) New(c *fiber.Ctx) error {
	token, image, err := h.validator.Generate()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to generate CAPTCHA")
	}
	return c.JSON(dto.CaptchaChallengeResponse{Token: token, Image: image})
}

// Validate handles POST /api/captcha/validate.
func (h *CaptchaHandler) Validate(c *fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Request payload is required.",
		})
	}

	var req dto.CaptchaValidationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if fields := validation.Struct(&req); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{
			Error: true, Message: "One or more fields failed validation", Fields: fields,
		})
	}

	isValid := h.validator.Verify(req.Token, req.Input)

	message := "CAPTCHA verification failed."
	result := "invalid"
	if isValid {
		message = "CAPTCHA verification successful."
		result = "valid"
	}
	metrics.CaptchaValidations.WithLabelValues(result).Inc()

	return c.JSON(dto.CaptchaValidationResponse{IsValid: isValid, Message: message})
}
