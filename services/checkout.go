package services

import (
	"context"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// CheckoutRequest describes a priority-fee checkout for one report.
type CheckoutRequest struct {
	ReportID   string
	Name       string
	Email      string
	Amount     int64
	Currency   string
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is the provider's view of a checkout.
type CheckoutSession struct {
	ID            string
	URL           string
	PaymentStatus string
	TransactionID string
	ReportID      string
	Name          string
	Email         string
	Amount        int64
	Currency      string
}

func (s *CheckoutSession) Paid() bool {
	return s.PaymentStatus == string(stripe.CheckoutSessionPaymentStatusPaid)
}

type CheckoutProvider interface {
	CreateSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}

type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(secretKey string) *StripeProvider {
	return &StripeProvider{api: client.New(secretKey, nil)}
}

func (p *StripeProvider) CreateSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(req.Currency),
					UnitAmount: stripe.Int64(req.Amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Name),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.AddMetadata("reportId", req.ReportID)
	params.AddMetadata("name", req.Name)
	params.Context = ctx

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}
	return fromStripeSession(sess), nil
}

func (p *StripeProvider) GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := p.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, err
	}
	return fromStripeSession(sess), nil
}

func fromStripeSession(sess *stripe.CheckoutSession) *CheckoutSession {
	out := &CheckoutSession{
		ID:            sess.ID,
		URL:           sess.URL,
		PaymentStatus: string(sess.PaymentStatus),
		ReportID:      sess.Metadata["reportId"],
		Name:          sess.Metadata["name"],
		Email:         sess.CustomerEmail,
		Amount:        sess.AmountTotal,
		Currency:      string(sess.Currency),
	}
	if sess.PaymentIntent != nil {
		out.TransactionID = sess.PaymentIntent.ID
	}
	if out.Email == "" && sess.CustomerDetails != nil {
		out.Email = sess.CustomerDetails.Email
	}
	return out
}
