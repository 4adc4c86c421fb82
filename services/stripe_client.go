package services

import (
	"context"
	"errors"
	"time"

	"pawperfection/apperrors"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
	"github.com/stripe/stripe-go/v80/webhook"
)

// CheckoutLineItem describes the single purchasable line of a session.
type CheckoutLineItem struct {
	Name        string
	Description string
	Currency    string // lower-case ISO code
	UnitAmount  int64  // minor currency unit
}

// CreateSessionParams carries everything the provider needs to host a
// checkout page.
type CreateSessionParams struct {
	LineItem       CheckoutLineItem
	SuccessURL     string
	CancelURL      string
	Metadata       map[string]string
	CustomerEmail  string
	ExpiresAt      time.Time
	IdempotencyKey string
}

// CheckoutSession is the provider-neutral projection of a session the
// core works with.
type CheckoutSession struct {
	ID                 string
	URL                string
	PaymentStatus      string
	PaymentMethodTypes []string
	Currency           string
	AmountTotal        int64
}

// ErrSessionNotFound reports that the provider has no record of the
// requested session, as opposed to a transient provider failure.
var ErrSessionNotFound = errors.New("checkout session not found")

// CheckoutGateway wraps the payment provider's session API. The core
// never builds provider-specific payloads outside this boundary.
type CheckoutGateway interface {
	CreateSession(ctx context.Context, p CreateSessionParams) (*CheckoutSession, error)
	RetrieveSession(ctx context.Context, id string) (*CheckoutSession, error)
	VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error)
}

// StripeService implements CheckoutGateway against Stripe. The API
// client is constructed here and injected into the services, rather than
// configured through the package-global stripe.Key.
type StripeService struct {
	client        *client.API
	webhookSecret string
}

func NewStripeService(secretKey, webhookSecret string) *StripeService {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeService{client: api, webhookSecret: webhookSecret}
}

func (s *StripeService) CreateSession(ctx context.Context, p CreateSessionParams) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(p.LineItem.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(p.LineItem.Name),
					Description: stripe.String(p.LineItem.Description),
				},
				UnitAmount: stripe.Int64(p.LineItem.UnitAmount),
			},
			Quantity: stripe.Int64(1),
		}},
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:               stripe.String(p.SuccessURL),
		CancelURL:                stripe.String(p.CancelURL),
		CustomerEmail:            stripe.String(p.CustomerEmail),
		ExpiresAt:                stripe.Int64(p.ExpiresAt.Unix()),
		AllowPromotionCodes:      stripe.Bool(true),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionAuto)),
	}
	params.Context = ctx
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}
	if p.IdempotencyKey != "" {
		// Provider-side retries dedupe on the same key as ours.
		params.SetIdempotencyKey(p.IdempotencyKey)
	}

	sess, err := s.client.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}
	return fromStripeSession(sess), nil
}

func (s *StripeService) RetrieveSession(ctx context.Context, id string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := s.client.CheckoutSessions.Get(id, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return fromStripeSession(sess), nil
}

// VerifyWebhook validates the provider signature against the raw request
// body and returns the parsed event. The raw bytes must not have been
// touched by any body-parsing middleware.
func (s *StripeService) VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.webhookSecret)
	if err != nil {
		return event, &apperrors.SignatureVerificationError{Err: err}
	}
	return event, nil
}

func fromStripeSession(sess *stripe.CheckoutSession) *CheckoutSession {
	return &CheckoutSession{
		ID:                 sess.ID,
		URL:                sess.URL,
		PaymentStatus:      string(sess.PaymentStatus),
		PaymentMethodTypes: sess.PaymentMethodTypes,
		Currency:           string(sess.Currency),
		AmountTotal:        sess.AmountTotal,
	}
}
