package handlers

import (
	"errors"
	"strconv"
	"time"

	"refshare/internal/repositories"
	"refshare/internal/services/payout"
	"refshare/internal/utils/pagination"
	"refshare/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type PayoutHandler struct {
	service payout.Service
}

func NewPayoutHandler(service payout.Service) *PayoutHandler {
	return &PayoutHandler{
		service: service,
	}
}

// GenerateMonthly runs the monthly payout batch for the requested period
func (h *PayoutHandler) GenerateMonthly(c *fiber.Ctx) error {
	var input struct {
		Year  int `json:"year"`
		Month int `json:"month"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Default to the previous calendar month.
	if input.Year == 0 && input.Month == 0 {
		prev := time.Now().UTC().AddDate(0, -1, 0)
		input.Year = prev.Year()
		input.Month = int(prev.Month())
	}

	result, err := h.service.Generate(c.Context(), input.Year, time.Month(input.Month))
	if err != nil {
		if errors.Is(err, payout.ErrInvalidPeriod) {
			return response.ValidationError(c, err.Error())
		}
		return response.ServerError(c, "Payout generation failed")
	}

	return response.Success(c, "Payout batch generated", result)
}

// Create builds a payout for one affiliate over an arbitrary period
func (h *PayoutHandler) Create(c *fiber.Ctx) error {
	var input struct {
		AffiliateID uint   `json:"affiliate_id"`
		PeriodStart string `json:"period_start"`
		PeriodEnd   string `json:"period_end"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.AffiliateID == 0 {
		return response.ValidationError(c, "affiliate_id is required")
	}

	periodStart, err := time.Parse(time.RFC3339, input.PeriodStart)
	if err != nil {
		return response.ValidationError(c, "period_start must be an RFC3339 timestamp")
	}
	periodEnd, err := time.Parse(time.RFC3339, input.PeriodEnd)
	if err != nil {
		return response.ValidationError(c, "period_end must be an RFC3339 timestamp")
	}

	created, err := h.service.CreateForAffiliate(c.Context(), input.AffiliateID, periodStart, periodEnd)
	if err != nil {
		switch {
		case errors.Is(err, payout.ErrInvalidPeriod),
			errors.Is(err, payout.ErrNoApprovedCommissions):
			return response.ValidationError(c, err.Error())
		case errors.Is(err, repositories.ErrAffiliateNotFound):
			return response.NotFound(c, "Affiliate not found")
		case errors.Is(err, repositories.ErrDuplicatePayout):
			return response.Conflict(c, "Payout already exists for period")
		default:
			return response.ServerError(c, "Failed to create payout")
		}
	}

	return response.Created(c, "Payout created", created)
}

func (h *PayoutHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid payout ID")
	}

	found, err := h.service.GetPayout(c.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrPayoutNotFound) {
			return response.NotFound(c, "Payout not found")
		}
		return response.ServerError(c, "Failed to load payout")
	}

	return response.Success(c, "Payout retrieved", found)
}

func (h *PayoutHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid payout ID")
	}

	var input struct {
		Status        string `json:"status"`
		Reference     string `json:"reference"`
		FailureReason string `json:"failure_reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.service.UpdateStatus(c.Context(), id, input.Status, input.Reference, input.FailureReason); err != nil {
		switch {
		case errors.Is(err, payout.ErrInvalidStatus):
			return response.ValidationError(c, err.Error())
		case errors.Is(err, repositories.ErrPayoutNotFound):
			return response.NotFound(c, "Payout not found")
		default:
			return response.ServerError(c, "Failed to update payout")
		}
	}

	return response.Success(c, "Payout updated", fiber.Map{"status": input.Status})
}

func (h *PayoutHandler) List(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	filter := repositories.PayoutFilter{
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
		return response.ServerError(c, "Failed to list payouts")
	}

	p.Total = total
	return c.JSON(pagination.Response(p, items))
}

func (h *PayoutHandler) Stats(c *fiber.Ctx) error {
	var affiliateID uint
	if id, err := strconv.ParseUint(c.Query("affiliate_id"), 10, 32); err == nil {
		affiliateID = uint(id)
	}

	stats, err := h.service.Stats(c.Context(), affiliateID)
	if err != nil {
		return response.ServerError(c, "Failed to load payout stats")
	}

	return response.Success(c, "Payout stats retrieved", stats)
}
