// Package mailer formats customer notifications. Actual SMTP delivery lives
// behind the Mailer interface; the default implementation only logs, which
// keeps checkout working without mail credentials.
package mailer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"storefront/models"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Default is swapped at startup when a real transport is configured.
var Default Mailer = LogMailer{}

type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, body string) error {
	logrus.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("mail (log only)")
	return nil
}

func SendOrderConfirmation(ctx context.Context, order *models.Order) {
	if order.Email == "" {
		return
	}
	subject := fmt.Sprintf("Order %s received", order.ID.Hex())
	body := fmt.Sprintf(
		"Thanks for your order!\n\nItems: %d\nShipping: %.2f\nTotal: %.2f\nPayment: %s\n",
		len(order.Items), order.ShippingPrice, order.TotalPrice, order.PaymentMethod)
	if err := Default.Send(ctx, order.Email, subject, body); err != nil {
		logrus.WithError(err).WithField("order", order.ID.Hex()).Error("failed to send confirmation mail")
	}
}

func SendOrderCancelled(ctx context.Context, order *models.Order) {
	if order.Email == "" {
		return
	}
	subject := fmt.Sprintf("Order %s cancelled", order.ID.Hex())
	body := fmt.Sprintf("Your order has been cancelled. Payment status: %s.\n", order.PaymentStatus)
	if err := Default.Send(ctx, order.Email, subject, body); err != nil {
		logrus.WithError(err).WithField("order", order.ID.Hex()).Error("failed to send cancellation mail")
	}
}

func SendOtp(ctx context.Context, email, code string) {
	body := fmt.Sprintf("Your login code is %s. It expires in a few minutes.\n", code)
	if err := Default.Send(ctx, email, "Your login code", body); err != nil {
		logrus.WithError(err).WithField("email", email).Error("failed to send otp mail")
	}
}
