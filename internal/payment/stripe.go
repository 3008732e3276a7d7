// Package payment is the adapter for the checkout provider. Gateway hides the
// Stripe API behind the two calls the purchase workflow needs: opening a
// checkout session and authenticating the asynchronous confirmation callback.
package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"app/internal/apperr"
	"app/internal/model"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

// CheckoutSession is a created checkout session: the provider's session id and
// the URL the buyer is redirected to.
type CheckoutSession struct {
	ID          string
	RedirectURL string
}

// Notification is an authenticated confirmation callback. Completed is false
// when the provider reports the session as failed or expired.
type Notification struct {
	SessionID string
	Completed bool
}

// Gateway creates checkout sessions and verifies confirmation callbacks.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, course *model.Course, userID string) (*CheckoutSession, error)
	// VerifyNotification checks the callback's signature and extracts the
	// session outcome. It returns (nil, nil) for event types the purchase
	// workflow does not care about.
	VerifyNotification(payload []byte, signature string) (*Notification, error)
}

// StripeGateway is the Stripe implementation of Gateway.
type StripeGateway struct {
	webhookSecret string
	successURL    string
	cancelURL     string
	logger        zerolog.Logger
}

// NewStripeGateway sets the global Stripe key and returns the gateway.
func NewStripeGateway(secretKey, webhookSecret, successURL, cancelURL string, logger zerolog.Logger) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{
		webhookSecret: webhookSecret,
		successURL:    successURL,
		cancelURL:     cancelURL,
		logger:        logger.With().Str("adapter", "StripeGateway").Logger(),
	}
}

// CreateCheckoutSession opens a one-time payment session for the course.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, course *model.Course, userID string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(string(stripe.CurrencyUSD)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(course.Title),
				},
				UnitAmount: stripe.Int64(course.PriceCents),
			},
			Quantity: stripe.Int64(1),
		}},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(g.successURL),
		CancelURL:  stripe.String(g.cancelURL),
		Metadata: map[string]string{
			"course_id": course.CourseID,
			"user_id":   userID,
		},
	}
	params.Context = ctx

	sess, err := checkoutsession.New(params)
	if err != nil {
		g.logger.Error().Err(err).Str("course_id", course.CourseID).Msg("Failed to create checkout session")
		return nil, fmt.Errorf("%w: create checkout session: %v", apperr.ErrPaymentSession, err)
	}
	return &CheckoutSession{ID: sess.ID, RedirectURL: sess.URL}, nil
}

// VerifyNotification authenticates a webhook payload against the endpoint
// secret and maps the relevant event types onto a session outcome.
func (g *StripeGateway) VerifyNotification(payload []byte, signature string) (*Notification, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		g.logger.Error().Err(err).Msg("Webhook signature verification failed")
		return nil, fmt.Errorf("%w: %v", apperr.ErrAuthenticity, err)
	}

	switch event.Type {
	case "checkout.session.completed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return nil, fmt.Errorf("%w: invalid checkout session payload: %v", apperr.ErrAuthenticity, err)
		}
		return &Notification{SessionID: cs.ID, Completed: true}, nil
	case "checkout.session.async_payment_failed", "checkout.session.expired":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return nil, fmt.Errorf("%w: invalid checkout session payload: %v", apperr.ErrAuthenticity, err)
		}
		return &Notification{SessionID: cs.ID, Completed: false}, nil
	default:
		g.logger.Warn().Str("event_type", string(event.Type)).Msg("Unhandled payment webhook event")
		return nil, nil
	}
}
