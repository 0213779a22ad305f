package handlers

import (
	"errors"
	"strconv"
	"time"

	"refshare/internal/repositories"
	"refshare/internal/services/commission"
	"refshare/internal/services/referral"
	"refshare/internal/utils/pagination"
	"refshare/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type ReferralHandler struct {
	service referral.Service
}

func NewReferralHandler(service referral.Service) *ReferralHandler {
	return &ReferralHandler{
		service: service,
	}
}

func (h *ReferralHandler) Create(c *fiber.Ctx) error {
	var input referral.CreateInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Capture request metadata when the caller did not supply it.
	if input.IPAddress == "" {
		input.IPAddress = c.IP()
	}
	if input.UserAgent == "" {
		input.UserAgent = c.Get("User-Agent")
	}

	created, err := h.service.Create(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, referral.ErrMissingUser),
			errors.Is(err, referral.ErrMissingAffiliate),
			errors.Is(err, referral.ErrAffiliateInactive):
			return response.ValidationError(c, err.Error())
		case errors.Is(err, repositories.ErrAffiliateNotFound):
			return response.NotFound(c, "Affiliate not found")
		case errors.Is(err, repositories.ErrDuplicateReferral):
			return response.Conflict(c, "User already has a referral")
		default:
			return response.ServerError(c, "Failed to create referral")
		}
	}

	return response.Created(c, "Referral created", created)
}

func (h *ReferralHandler) Convert(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid referral ID")
	}

	var input referral.ConvertInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	input.ReferralID = id

	result, err := h.service.Convert(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrReferralNotFound):
			return response.NotFound(c, "Referral not found")
		case errors.Is(err, commission.ErrAlreadyConverted):
			return response.Conflict(c, "Referral already converted")
		default:
			return response.ServerError(c, "Failed to convert referral")
		}
	}

	return response.Success(c, "Referral converted", result)
}

func (h *ReferralHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid referral ID")
	}

	found, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrReferralNotFound) {
			return response.NotFound(c, "Referral not found")
		}
		return response.ServerError(c, "Failed to load referral")
	}

	return response.Success(c, "Referral retrieved", found)
}

func (h *ReferralHandler) GetByUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("userId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	found, err := h.service.GetByReferredUser(c.Context(), uint(userID))
	if err != nil {
		if errors.Is(err, repositories.ErrReferralNotFound) {
			return response.NotFound(c, "Referral not found")
		}
		return response.ServerError(c, "Failed to load referral")
	}

	return response.Success(c, "Referral retrieved", found)
}

// Stats reports program-wide referral totals, optionally for one affiliate
func (h *ReferralHandler) Stats(c *fiber.Ctx) error {
	var affiliateID uint
	if id, err := strconv.ParseUint(c.Query("affiliate_id"), 10, 32); err == nil {
		affiliateID = uint(id)
	}

	stats, err := h.service.Stats(c.Context(), affiliateID)
	if err != nil {
		return response.ServerError(c, "Failed to load referral stats")
	}

	return response.Success(c, "Referral stats retrieved", stats)
}

func (h *ReferralHandler) List(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	filter := repositories.ReferralFilter{
		Status: c.Query("status"),
	}
	if affiliateID, err := strconv.ParseUint(c.Query("affiliate_id"), 10, 32); err == nil {
		filter.AffiliateID = uint(affiliateID)
	}
	if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		filter.To = &to
	}

	items, total, err := h.service.List(c.Context(), filter, p.Offset, p.Limit)
	if err != nil {
		return response.ServerError(c, "Failed to list referrals")
	}

	p.Total = total
	return c.JSON(pagination.Response(p, items))
}
