package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"civicreport/model"
	"civicreport/pkg/retry"
	"civicreport/repository"
)

const (
	markPaidAttempts = 4
	markPaidBackoff  = 100 * time.Millisecond
	// reconcileTimeout bounds a shared reconciliation, which outlives any one
	// caller's context.
	reconcileTimeout = 30 * time.Second
)

type PaymentService struct {
	Payments   repository.PaymentRepository
	Reports    repository.ReportRepository
	Provider   CheckoutProvider
	Now        func() time.Time
	Fee        int64
	Currency   string
	SiteDomain string

	group singleflight.Group
}

func NewPaymentService(store *repository.Store, provider CheckoutProvider, fee int64, currency, siteDomain string) *PaymentService {
	return &PaymentService{
		Payments:   store.Payments,
		Reports:    store.Reports,
		Provider:   provider,
		Now:        time.Now,
		Fee:        fee,
		Currency:   currency,
		SiteDomain: siteDomain,
	}
}

// CreateCheckout starts a priority-fee checkout for an unpaid report and
// returns the provider's redirect URL.
func (s *PaymentService) CreateCheckout(ctx context.Context, reportID, issue, email string) (string, error) {
	report, err := s.Reports.Get(ctx, reportID)
	if err != nil {
		return "", storeErr(err, "report")
	}
	if report.PaymentStatus == model.PaymentPaid {
		return "", newError(ErrConflict, "report %s is already paid", reportID)
	}
	if issue == "" {
		issue = report.Issue
	}
	if email == "" {
		email = report.Email
	}

	sess, err := s.Provider.CreateSession(ctx, CheckoutRequest{
		ReportID:   reportID,
		Name:       issue,
		Email:      email,
		Amount:     s.Fee,
		Currency:   s.Currency,
		SuccessURL: s.SiteDomain + "/dashboard/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.SiteDomain + "/dashboard/payment-cancelled",
	})
	if err != nil {
		return "", upstream(err, "checkout session creation")
	}
	return sess.URL, nil
}

type ReconcileResult struct {
	Success          bool   `json:"success"`
	Message          string `json:"message,omitempty"`
	TransactionID    string `json:"transactionId,omitempty"`
	TrackingID       string `json:"trackingId,omitempty"`
	AlreadyProcessed bool   `json:"alreadyProcessed,omitempty"`
	// ReportTrackingID is set when the report already carried the tracking ID
	// of an earlier payment, so TrackingID never reached it.
	ReportTrackingID string `json:"reportTrackingId,omitempty"`
}

// Reconcile turns a checkout confirmation into at most one ledger row and
// one report upgrade. It is safe to call any number of times for the same
// session, from any number of processes. Concurrent calls for one session
// share a single run that keeps going when any one caller gives up.
func (s *PaymentService) Reconcile(ctx context.Context, sessionID string) (*ReconcileResult, error) {
	if sessionID == "" {
		return nil, newError(ErrValidation, "session_id is required")
	}
	ch := s.group.DoChan(sessionID, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reconcileTimeout)
		defer cancel()
		return s.reconcile(fctx, sessionID)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		res := *r.Val.(*ReconcileResult)
		return &res, nil
	}
}

func (s *PaymentService) reconcile(ctx context.Context, sessionID string) (*ReconcileResult, error) {
	sess, err := s.Provider.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, upstream(err, "checkout session lookup")
	}
	if !sess.Paid() {
		return &ReconcileResult{Success: false}, nil
	}
	if sess.TransactionID == "" || sess.ReportID == "" {
		return nil, newError(ErrValidation, "checkout session %s has no payment reference or report", sessionID)
	}

	candidate, err := NewTrackingID(s.Now())
	if err != nil {
		return nil, err
	}
	stored, created, err := s.Payments.CreateIfAbsent(ctx, &model.Payment{
		TransactionID: sess.TransactionID,
		ReportID:      sess.ReportID,
		Name:          sess.Name,
		Email:         sess.Email,
		Amount:        sess.Amount,
		Currency:      sess.Currency,
		PaymentStatus: model.PaymentPaid,
		TrackingID:    candidate,
		PaidAt:        s.Now().UTC(),
	})
	if err != nil {
		return nil, storeErr(err, "payment")
	}

	if !created {
		s.repair(ctx, stored)
		return &ReconcileResult{
			Success:          true,
			Message:          "Payment already processed",
			TransactionID:    stored.TransactionID,
			TrackingID:       stored.TrackingID,
			AlreadyProcessed: true,
		}, nil
	}

	if err := s.markPaid(ctx, stored); err != nil {
		return nil, storeErr(err, "report payment")
	}
	res := &ReconcileResult{
		Success:       true,
		TransactionID: stored.TransactionID,
		TrackingID:    stored.TrackingID,
	}
	// a second paid checkout for the same report is recorded but leaves the
	// report on the first payment's tracking ID
	if report, err := s.Reports.Get(ctx, stored.ReportID); err == nil &&
		report.TrackingID != nil && *report.TrackingID != stored.TrackingID {
		res.ReportTrackingID = *report.TrackingID
		slog.Warn("report already paid by another transaction",
			"report_id", stored.ReportID,
			"transaction_id", stored.TransactionID,
			"report_tracking_id", *report.TrackingID)
	}
	return res, nil
}

// markPaid upgrades the linked report. A report deleted since checkout is
// logged and skipped; the ledger row stands.
func (s *PaymentService) markPaid(ctx context.Context, p *model.Payment) error {
	err := retry.Do(ctx, markPaidAttempts, markPaidBackoff, func(ctx context.Context) error {
		err := s.Reports.MarkPaid(ctx, p.ReportID, p.TrackingID)
		if errors.Is(err, repository.ErrNotFound) {
			return retry.Permanent(err)
		}
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		slog.Warn("paid report no longer exists", "report_id", p.ReportID, "transaction_id", p.TransactionID)
		return nil
	}
	return err
}

// repair finishes a recorded payment whose report upgrade never landed.
func (s *PaymentService) repair(ctx context.Context, p *model.Payment) {
	report, err := s.Reports.Get(ctx, p.ReportID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			slog.Warn("payment repair lookup failed", "report_id", p.ReportID, "error", err)
		}
		return
	}
	if report.PaymentStatus == model.PaymentPaid {
		return
	}
	if err := s.markPaid(ctx, p); err != nil {
		slog.Warn("payment repair failed", "report_id", p.ReportID, "transaction_id", p.TransactionID, "error", err)
		return
	}
	slog.Info("repaired report payment", "report_id", p.ReportID, "transaction_id", p.TransactionID)
}

// History lists the payments of email, which must be the caller's own.
// An empty email means the caller.
func (s *PaymentService) History(ctx context.Context, callerEmail, email string) ([]model.Payment, error) {
	if email == "" {
		email = callerEmail
	}
	if email != callerEmail {
		return nil, newError(ErrForbidden, "forbidden access")
	}
	payments, err := s.Payments.ListByEmail(ctx, email)
	if err != nil {
		return nil, storeErr(err, "payments")
	}
	return payments, nil
}
