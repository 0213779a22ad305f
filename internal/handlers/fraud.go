package handlers

import (
	"errors"

	"refshare/internal/models"
	"refshare/internal/repositories"
	"refshare/internal/services/fraud"
	"refshare/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type FraudHandler struct {
	service fraud.Service
}

func NewFraudHandler(service fraud.Service) *FraudHandler {
	return &FraudHandler{
		service: service,
	}
}

// Analyze scores an affiliate's recent referral activity
func (h *FraudHandler) Analyze(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid affiliate ID")
	}

	analysis, err := h.service.Analyze(c.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrAffiliateNotFound) {
			return response.NotFound(c, "Affiliate not found")
		}
		return response.ServerError(c, "Fraud analysis failed")
	}

	return response.Success(c, "Analysis completed", analysis)
}

// Flag raises a manual review flag against an affiliate
func (h *FraudHandler) Flag(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid affiliate ID")
	}

	var input struct {
		Reason  string `json:"reason"`
		Suspend bool   `json:"suspend"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return response.Unauthorized(c)
	}

	flag, err := h.service.FlagSuspicious(c.Context(), id, input.Reason, claims.UserID, input.Suspend)
	if err != nil {
		switch {
		case errors.Is(err, fraud.ErrMissingReason):
			return response.ValidationError(c, err.Error())
		case errors.Is(err, repositories.ErrAffiliateNotFound):
			return response.NotFound(c, "Affiliate not found")
		default:
			return response.ServerError(c, "Failed to flag affiliate")
		}
	}

	return response.Created(c, "Affiliate flagged", flag)
}

// ListFlags returns an affiliate's review flags, newest first
func (h *FraudHandler) ListFlags(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid affiliate ID")
	}

	flags, err := h.service.ListFlags(c.Context(), id)
	if err != nil {
		return response.ServerError(c, "Failed to list flags")
	}

	return response.Success(c, "Flags retrieved", flags)
}

// ResolveFlag clears an active flag
func (h *FraudHandler) ResolveFlag(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid flag ID")
	}

	if err := h.service.ResolveFlag(c.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrFraudFlagNotFound) {
			return response.NotFound(c, "Active flag not found")
		}
		return response.ServerError(c, "Failed to resolve flag")
	}

	return response.Success(c, "Flag resolved", fiber.Map{"flag_id": id})
}
