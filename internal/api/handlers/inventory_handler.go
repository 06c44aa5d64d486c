package handlers

import (
	"errors"
	"lixozero/domain"
	"lixozero/internal/api/presenters"
	"lixozero/pkg/inventory"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	InventoryHandler interface {
		RegisterAcquisitionText(c *fiber.Ctx) error
		RegisterAcquisitionPhoto(c *fiber.Ctx) error
		ConsumeFood(c *fiber.Ctx) error
		MarkAsSpoiled(c *fiber.Ctx) error
		GetFoodItems(c *fiber.Ctx) error
		GetFoodItemDetails(c *fiber.Ctx) error
		GetWasteReport(c *fiber.Ctx) error
	}

	inventoryHandler struct {
		inventoryService inventory.InventoryService
		validator        *validator.Validate
	}
)

func NewInventoryHandler(inventoryService inventory.InventoryService, validator *validator.Validate) InventoryHandler {
	return &inventoryHandler{
		inventoryService: inventoryService,
		validator:        validator,
	}
}

func (h *inventoryHandler) RegisterAcquisitionText(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.RegisterAcquisitionTextRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRegisterAcquisition, err)
	}

	items, err := h.inventoryService.RegisterAcquisitionText(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, extractionErrorStatus(err), domain.MessageFailedRegisterAcquisition, err)
	}

	return presenters.SuccessResponse(c, items, fiber.StatusCreated, domain.MessageSuccessRegisterAcquisition)
}

func (h *inventoryHandler) RegisterAcquisitionPhoto(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.RegisterAcquisitionPhotoRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	req.Photo = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRegisterAcquisition, err)
	}

	items, err := h.inventoryService.RegisterAcquisitionPhoto(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, extractionErrorStatus(err), domain.MessageFailedRegisterAcquisition, err)
	}

	return presenters.SuccessResponse(c, items, fiber.StatusCreated, domain.MessageSuccessRegisterAcquisition)
}

func (h *inventoryHandler) ConsumeFood(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.ConsumeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedConsumeFood, err)
	}

	res, err := h.inventoryService.ConsumeFood(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, extractionErrorStatus(err), domain.MessageFailedConsumeFood, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessConsumeFood)
}

func (h *inventoryHandler) MarkAsSpoiled(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.MarkAsSpoiledRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedMarkAsSpoiled, err)
	}

	if err := h.inventoryService.MarkAsSpoiled(c.Context(), *req, userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedMarkAsSpoiled, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessMarkAsSpoiled)
}

func (h *inventoryHandler) GetFoodItems(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	status := c.Query("status", "all")

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	items, count, err := h.inventoryService.GetFoodItems(c.Context(), userID, status, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetFoodItems, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"items": items,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetFoodItems)
}

func (h *inventoryHandler) GetFoodItemDetails(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")

	item, err := h.inventoryService.GetFoodItemByID(c.Context(), itemID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrFoodItemNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetFoodItems, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetFoodItems, err)
	}

	return presenters.SuccessResponse(c, item, fiber.StatusOK, domain.MessageSuccessGetFoodItems)
}

func (h *inventoryHandler) GetWasteReport(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	report, err := h.inventoryService.GetWasteReport(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetWasteReport, err)
	}

	return presenters.SuccessResponse(c, report, fiber.StatusOK, domain.MessageSuccessGetWasteReport)
}

func extractionErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrExtractionInProgress):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrGatewayUnavailable), errors.Is(err, domain.ErrGatewayMalformed):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusBadRequest
	}
}
