package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"

	"refshare/internal/repositories"
	"refshare/internal/services/commission"
	"refshare/internal/services/referral"
	"refshare/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v72/webhook"
)

// WebhookHandler receives billing platform events. When a signing secret is
// configured, Stripe signatures are verified before any payload is trusted.
type WebhookHandler struct {
	payments      commission.Service
	referrals     referral.Service
	signingSecret string
}

func NewWebhookHandler(payments commission.Service, referrals referral.Service, signingSecret string) *WebhookHandler {
	return &WebhookHandler{
		payments:      payments,
		referrals:     referrals,
		signingSecret: signingSecret,
	}
}

// PaymentSuccess processes a payment-succeeded event into a commission
func (h *WebhookHandler) PaymentSuccess(c *fiber.Ctx) error {
	var event commission.PaymentEvent
	if err := h.parsePayload(c, &event); err != nil {
		return response.BadRequest(c, err.Error())
	}

	return h.handlePayment(c, event)
}

// PayPalPaymentSuccess maps a PayPal capture event onto the same commission
// path as the Stripe webhook. Only completed captures are processed; other
// event types acknowledge without side effects
func (h *WebhookHandler) PayPalPaymentSuccess(c *fiber.Ctx) error {
	var event struct {
		EventType string `json:"event_type"`
		Resource  struct {
			ID     string `json:"id"`
			Amount struct {
				Value        string `json:"value"`
				CurrencyCode string `json:"currency_code"`
			} `json:"amount"`
			CustomID string `json:"custom_id"`
		} `json:"resource"`
	}
	if err := c.BodyParser(&event); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if event.EventType != "PAYMENT.CAPTURE.COMPLETED" {
		return response.Success(c, "Event type not handled", nil)
	}

	// custom_id carries the referred user's ID, set at checkout.
	userID, err := strconv.ParseUint(event.Resource.CustomID, 10, 32)
	if err != nil {
		return response.BadRequest(c, "custom_id must carry the referred user ID")
	}

	amount, err := strconv.ParseFloat(event.Resource.Amount.Value, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid capture amount")
	}

	return h.handlePayment(c, commission.PaymentEvent{
		PaymentID: event.Resource.ID,
		Amount:    amount,
		Currency:  event.Resource.Amount.CurrencyCode,
		UserID:    uint(userID),
	})
}

func (h *WebhookHandler) handlePayment(c *fiber.Ctx, event commission.PaymentEvent) error {
	result, err := h.payments.ProcessPayment(c.Context(), event)
	if err != nil {
		switch {
		case errors.Is(err, commission.ErrMissingPaymentID):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, commission.ErrAlreadyConverted),
			errors.Is(err, repositories.ErrDuplicateCommission):
			return response.Conflict(c, err.Error())
		default:
			log.Printf("payment webhook failed: %v", err)
			return response.ServerError(c, "Failed to process payment event")
		}
	}

	return response.Success(c, "Payment processed", result)
}

// PaymentRefunded applies a refund adjustment to the payment's commission
func (h *WebhookHandler) PaymentRefunded(c *fiber.Ctx) error {
	var event commission.RefundEvent
	if err := h.parsePayload(c, &event); err != nil {
		return response.BadRequest(c, err.Error())
	}

	result, err := h.payments.ProcessRefund(c.Context(), event)
	if err != nil {
		switch {
		case errors.Is(err, commission.ErrMissingPaymentID),
			errors.Is(err, commission.ErrInvalidRefundAmount),
			errors.Is(err, commission.ErrZeroPaymentAmount):
			return response.BadRequest(c, err.Error())
		default:
			log.Printf("refund webhook failed: %v", err)
			return response.ServerError(c, "Failed to process refund event")
		}
	}

	return response.Success(c, "Refund processed", result)
}

// UserRegistered attributes a fresh signup to an affiliate by referral code
func (h *WebhookHandler) UserRegistered(c *fiber.Ctx) error {
	var input referral.CreateInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Signup events without an attribution code are fine; there is simply
	// nothing to record.
	if input.ReferralCode == "" && input.AffiliateID == 0 {
		return response.Success(c, "No referral attribution", nil)
	}

	created, err := h.referrals.Create(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, referral.ErrMissingUser):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, repositories.ErrAffiliateNotFound):
			return response.NotFound(c, "Affiliate not found")
		case errors.Is(err, repositories.ErrDuplicateReferral):
			return response.Conflict(c, "User already has a referral")
		case errors.Is(err, referral.ErrAffiliateInactive):
			return response.BadRequest(c, err.Error())
		default:
			log.Printf("registration webhook failed: %v", err)
			return response.ServerError(c, "Failed to record referral")
		}
	}

	return response.Created(c, "Referral recorded", created)
}

// parsePayload verifies the Stripe signature when a signing secret is
// configured, then decodes the event payload into dest.
func (h *WebhookHandler) parsePayload(c *fiber.Ctx, dest interface{}) error {
	body := c.Body()

	if h.signingSecret != "" {
		event, err := webhook.ConstructEvent(body, c.Get("Stripe-Signature"), h.signingSecret)
		if err != nil {
			return errors.New("invalid webhook signature")
		}
		body = event.Data.Raw
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return errors.New("invalid event payload")
	}
	return nil
}
