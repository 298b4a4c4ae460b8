package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/lenbersih/lenbersih-api/internal/dto"
	"github.com/lenbersih/lenbersih-api/internal/metrics"
	"github.com/lenbersih/lenbersih-api/internal/services"
	"github.com/lenbersih/lenbersih-api/internal/validation"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Create handles POST /api/reports.
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	if len(c.Body()) == 0 {
		metrics.ReportsRejected.WithLabelValues("missing_payload").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Report payload is required.",
		})
	}

	var req dto.Report
	if err := c.BodyParser(&req); err != nil {
		metrics.ReportsRejected.WithLabelValues("bad_payload").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if fields := validation.Struct(&req); fields != nil {
		metrics.ReportsRejected.WithLabelValues("validation").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{
			Error: true, Message: "One or more fields failed validation", Fields: fields,
		})
	}

	report, err := h.reportService.Create(&req)
	if err != nil {
		if errors.Is(err, services.ErrEvidenceType) ||
			errors.Is(err, services.ErrEvidenceSize) ||
			errors.Is(err, services.ErrCategory) {
			metrics.ReportsRejected.WithLabelValues("evidence").Inc()
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create report")
	}

	metrics.ReportsSubmitted.Inc()
	c.Set(fiber.HeaderLocation, "/api/reports")
	return c.Status(fiber.StatusCreated).JSON(report)
}

// List handles GET /api/reports.
func (h *ReportHandler) List(c *fiber.Ctx) error {
	reports, err := h.reportService.List()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch reports")
	}
	return c.JSON(reports)
}

// Track handles GET /api/reports/track/:code.
func (h *ReportHandler) Track(c *fiber.Ctx) error {
	resp, err := h.reportService.Track(c.Params("code"))
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Laporan tidak ditemukan",
			})
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to track report")
	}
	return c.JSON(resp)
}

// Statuses handles GET /api/statuses.
func (h *ReportHandler) Statuses(c *fiber.Ctx) error {
	statuses, err := h.reportService.Statuses()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch statuses")
	}
	return c.JSON(statuses)
}

// AdminList handles GET /api/admin/reports.
func (h *ReportHandler) AdminList(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	reports, total, err := h.reportService.AdminList(limit, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch reports")
	}

	return c.JSON(fiber.Map{
		"reports": reports,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// AdminGet handles GET /api/admin/reports/:id.
func (h *ReportHandler) AdminGet(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report ID",
		})
	}

	report, err := h.reportService.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch report")
	}
	return c.JSON(report)
}

// UpdateStatus handles PUT /api/admin/reports/:id/status.
func (h *ReportHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report ID",
		})
	}

	var req dto.UpdateStatusRequest
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

	if err := h.reportService.UpdateStatus(id, &req); err != nil {
		switch {
		case errors.Is(err, services.ErrReportNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrStatusNotFound):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update status")
		}
	}

	return c.JSON(fiber.Map{"message": "Status updated successfully"})
}

// Approve handles PUT /api/admin/reports/:id/approve.
func (h *ReportHandler) Approve(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report ID",
		})
	}

	if err := h.reportService.Approve(id); err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to approve report")
	}

	return c.JSON(fiber.Map{"message": "Report approved successfully"})
}

// Delete handles DELETE /api/admin/reports/:id.
func (h *ReportHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report ID",
		})
	}

	if err := h.reportService.Delete(id); err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete report")
	}

	return c.JSON(fiber.Map{"message": "Report deleted successfully"})
}
