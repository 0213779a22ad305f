package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"refshare/internal/models"
	"refshare/internal/services/commission"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) ProcessPayment(ctx context.Context, event commission.PaymentEvent) (*commission.PaymentResult, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.PaymentResult), args.Error(1)
}

func (m *MockPaymentService) ProcessRefund(ctx context.Context, event commission.RefundEvent) (*commission.RefundResult, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.RefundResult), args.Error(1)
}

func (m *MockPaymentService) GetCommission(ctx context.Context, id uint) (*models.Commission, []*models.CommissionAdjustment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Commission), args.Get(1).([]*models.CommissionAdjustment), args.Error(2)
}

func paypalApp(payments commission.Service) *fiber.App {
	app := fiber.New()
	h := NewWebhookHandler(payments, nil, "")
	app.Post("/api/webhooks/paypal/payment-success", h.PayPalPaymentSuccess)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	assert.NoError(t, err)
	return resp.StatusCode
}

func TestWebhookHandler_PayPalPaymentSuccess(t *testing.T) {
	t.Run("completed capture feeds payment processing", func(t *testing.T) {
		payments := new(MockPaymentService)
		payments.On("ProcessPayment", mock.Anything, mock.MatchedBy(func(e commission.PaymentEvent) bool {
			return e.PaymentID == "5O190127TN364715T" &&
				e.Amount == 49.99 &&
				e.Currency == "USD" &&
				e.UserID == 42
		})).Return(&commission.PaymentResult{Success: true, CommissionCreated: true}, nil)

		status := postJSON(t, paypalApp(payments), "/api/webhooks/paypal/payment-success", `{
			"event_type": "PAYMENT.CAPTURE.COMPLETED",
			"resource": {
				"id": "5O190127TN364715T",
				"amount": {"value": "49.99", "currency_code": "USD"},
				"custom_id": "42"
			}
		}`)

		assert.Equal(t, fiber.StatusOK, status)
		payments.AssertExpectations(t)
	})

	t.Run("other event types acknowledge without processing", func(t *testing.T) {
		payments := new(MockPaymentService)

		status := postJSON(t, paypalApp(payments), "/api/webhooks/paypal/payment-success", `{
			"event_type": "PAYMENT.CAPTURE.DENIED",
			"resource": {"id": "x"}
		}`)

		assert.Equal(t, fiber.StatusOK, status)
		payments.AssertNotCalled(t, "ProcessPayment", mock.Anything, mock.Anything)
	})

	t.Run("missing custom_id is rejected", func(t *testing.T) {
		payments := new(MockPaymentService)

		status := postJSON(t, paypalApp(payments), "/api/webhooks/paypal/payment-success", `{
			"event_type": "PAYMENT.CAPTURE.COMPLETED",
			"resource": {
				"id": "5O190127TN364715T",
				"amount": {"value": "49.99", "currency_code": "USD"}
			}
		}`)

		assert.Equal(t, fiber.StatusBadRequest, status)
		payments.AssertNotCalled(t, "ProcessPayment", mock.Anything, mock.Anything)
	})

	t.Run("unparseable amount is rejected", func(t *testing.T) {
		payments := new(MockPaymentService)

		status := postJSON(t, paypalApp(payments), "/api/webhooks/paypal/payment-success", `{
			"event_type": "PAYMENT.CAPTURE.COMPLETED",
			"resource": {
				"id": "5O190127TN364715T",
				"amount": {"value": "forty-nine", "currency_code": "USD"},
				"custom_id": "42"
			}
		}`)

		assert.Equal(t, fiber.StatusBadRequest, status)
		payments.AssertNotCalled(t, "ProcessPayment", mock.Anything, mock.Anything)
	})
}
