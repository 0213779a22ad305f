package handlers

import (
	"errors"
	"strconv"
	"time"

	"refshare/internal/models"
	"refshare/internal/repositories"
	"refshare/internal/services/approval"
	"refshare/internal/services/commission"
	"refshare/internal/utils/pagination"
	"refshare/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type CommissionHandler struct {
	commissions    commission.Service
	approvals      approval.Service
	commissionRepo repositories.CommissionRepository
}

func NewCommissionHandler(commissions commission.Service, approvals approval.Service, commissionRepo repositories.CommissionRepository) *CommissionHandler {
	return &CommissionHandler{
		commissions:    commissions,
		approvals:      approvals,
		commissionRepo: commissionRepo,
	}
}

func (h *CommissionHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid commission ID")
	}

	found, adjustments, err := h.commissions.GetCommission(c.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrCommissionNotFound) {
			return response.NotFound(c, "Commission not found")
		}
		return response.ServerError(c, "Failed to load commission")
	}

	return response.Success(c, "Commission retrieved", fiber.Map{
		"commission":  found,
		"adjustments": adjustments,
	})
}

func (h *CommissionHandler) List(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	filter := repositories.CommissionFilter{
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

	items, total, err := h.commissionRepo.List(filter, p.Offset, p.Limit)
	if err != nil {
		return response.ServerError(c, "Failed to list commissions")
	}

	p.Total = total
	return c.JSON(pagination.Response(p, items))
}

func (h *CommissionHandler) Approve(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid commission ID")
	}

	var input struct {
		Notes string `json:"notes"`
	}
	_ = c.BodyParser(&input)

	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return response.Unauthorized(c)
	}

	if err := h.approvals.Approve(c.Context(), id, claims.UserID, input.Notes); err != nil {
		return h.approvalError(c, err)
	}

	return response.Success(c, "Commission approved", fiber.Map{"commission_id": id})
}

func (h *CommissionHandler) Reject(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid commission ID")
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return response.Unauthorized(c)
	}

	if err := h.approvals.Reject(c.Context(), id, claims.UserID, input.Reason); err != nil {
		if errors.Is(err, approval.ErrMissingReason) {
			return response.ValidationError(c, err.Error())
		}
		return h.approvalError(c, err)
	}

	return response.Success(c, "Commission rejected", fiber.Map{"commission_id": id})
}

func (h *CommissionHandler) BulkApprove(c *fiber.Ctx) error {
	var input struct {
		CommissionIDs []uint `json:"commission_ids"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return response.Unauthorized(c)
	}

	result, err := h.approvals.BulkApprove(c.Context(), input.CommissionIDs, claims.UserID)
	if err != nil {
		if errors.Is(err, approval.ErrNoCommissionIDs) {
			return response.ValidationError(c, err.Error())
		}
		return response.ServerError(c, "Bulk approval failed")
	}

	return response.Success(c, "Bulk approval completed", result)
}

func (h *CommissionHandler) ListPending(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	items, total, err := h.approvals.ListPending(c.Context(), p.Offset, p.Limit)
	if err != nil {
		return response.ServerError(c, "Failed to list pending commissions")
	}

	p.Total = total
	return c.JSON(pagination.Response(p, items))
}

func (h *CommissionHandler) approvalError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repositories.ErrCommissionNotFound):
		return response.NotFound(c, "Commission not found")
	case errors.Is(err, repositories.ErrCommissionNotPending):
		return response.Conflict(c, "Commission is not pending")
	default:
		return response.ServerError(c, "Approval operation failed")
	}
}
