package handlers

import (
	"errors"
	"strconv"

	"refshare/internal/models"
	"refshare/internal/repositories"
	"refshare/internal/services/affiliate"
	"refshare/internal/utils/pagination"
	"refshare/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type AffiliateHandler struct {
	service affiliate.Service
}

func NewAffiliateHandler(service affiliate.Service) *AffiliateHandler {
	return &AffiliateHandler{
		service: service,
	}
}

func (h *AffiliateHandler) Create(c *fiber.Ctx) error {
	var input affiliate.CreateInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	created, err := h.service.Create(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, affiliate.ErrMissingEmail),
			errors.Is(err, affiliate.ErrMissingName),
			errors.Is(err, affiliate.ErrInvalidRate):
			return response.ValidationError(c, err.Error())
		case errors.Is(err, repositories.ErrAffiliateEmailTaken):
			return response.Conflict(c, "Email already registered")
		default:
			return response.ServerError(c, "Failed to create affiliate")
		}
	}

	return response.Created(c, "Affiliate created", created)
}

func (h *AffiliateHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid affiliate ID")
	}

	found, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrAffiliateNotFound) {
			return response.NotFound(c, "Affiliate not found")
		}
		return response.ServerError(c, "Failed to load affiliate")
	}

	return response.Success(c, "Affiliate retrieved", found)
}

func (h *AffiliateHandler) GetByCode(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return response.BadRequest(c, "Referral code is required")
	}

	found, err := h.service.GetByReferralCode(c.Context(), code)
	if err != nil {
		if errors.Is(err, repositories.ErrAffiliateNotFound) {
			return response.NotFound(c, "Affiliate not found")
		}
		return response.ServerError(c, "Failed to load affiliate")
	}

	return response.Success(c, "Affiliate retrieved", found)
}

func (h *AffiliateHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid affiliate ID")
	}

	var input affiliate.UpdateInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	updated, err := h.service.Update(c.Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrAffiliateNotFound):
			return response.NotFound(c, "Affiliate not found")
		case errors.Is(err, affiliate.ErrInvalidRate):
			return response.ValidationError(c, err.Error())
		default:
			return response.ServerError(c, "Failed to update affiliate")
		}
	}

	return response.Success(c, "Affiliate updated", updated)
}

func (h *AffiliateHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid affiliate ID")
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	claims, _ := c.Locals("claims").(*models.UserClaims)
	var changedBy uint
	if claims != nil {
		changedBy = claims.UserID
	}

	if err := h.service.UpdateStatus(c.Context(), id, input.Status, changedBy); err != nil {
		switch {
		case errors.Is(err, repositories.ErrAffiliateNotFound):
			return response.NotFound(c, "Affiliate not found")
		case errors.Is(err, affiliate.ErrInvalidStatus):
			return response.ValidationError(c, err.Error())
		default:
			return response.ServerError(c, "Failed to update status")
		}
	}

	return response.Success(c, "Status updated", fiber.Map{"status": input.Status})
}

func (h *AffiliateHandler) List(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	filter := repositories.AffiliateFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}

	items, total, err := h.service.List(c.Context(), filter, p.Offset, p.Limit)
	if err != nil {
		return response.ServerError(c, "Failed to list affiliates")
	}

	p.Total = total
	return c.JSON(pagination.Response(p, items))
}

func (h *AffiliateHandler) Stats(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid affiliate ID")
	}

	stats, err := h.service.Stats(c.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrAffiliateNotFound) {
			return response.NotFound(c, "Affiliate not found")
		}
		return response.ServerError(c, "Failed to load stats")
	}

	return response.Success(c, "Stats retrieved", stats)
}

func (h *AffiliateHandler) LifetimeValue(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid affiliate ID")
	}

	report, err := h.service.LifetimeValue(c.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrAffiliateNotFound) {
			return response.NotFound(c, "Affiliate not found")
		}
		return response.ServerError(c, "Failed to build report")
	}

	return response.Success(c, "Lifetime value calculated", report)
}

func (h *AffiliateHandler) Activity(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid affiliate ID")
	}

	p := pagination.ParseFromRequest(c)
	items, total, err := h.service.ActivityFeed(c.Context(), id, p.Offset, p.Limit)
	if err != nil {
		return response.ServerError(c, "Failed to load activity")
	}

	p.Total = total
	return c.JSON(pagination.Response(p, items))
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
