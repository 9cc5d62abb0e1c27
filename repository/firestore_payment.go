package repository

import (
	"context"

	"civicreport/model"

	"cloud.google.com/go/firestore"
)

type FirestorePaymentRepository struct {
	Client *firestore.Client
}

// CreateIfAbsent keys the document by transaction id. Create fails with
// AlreadyExists for every caller but the first.
func (r *FirestorePaymentRepository) CreateIfAbsent(ctx context.Context, payment *model.Payment) (*model.Payment, bool, error) {
	ref := r.Client.Collection(paymentsCollection).Doc(docKey(payment.TransactionID))

	candidate := *payment
	_, err := ref.Create(ctx, &candidate)
	if err == nil {
		candidate.ID = ref.ID
		return &candidate, true, nil
	}
	if fsErr(err) != ErrDuplicate {
		return nil, false, err
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, false, fsErr(err)
	}
	var existing model.Payment
	if err := snap.DataTo(&existing); err != nil {
		return nil, false, err
	}
	existing.ID = ref.ID
	return &existing, false, nil
}

func (r *FirestorePaymentRepository) ListByEmail(ctx context.Context, email string) ([]model.Payment, error) {
	docs, err := r.Client.Collection(paymentsCollection).
		Where("email", "==", email).
		OrderBy("paidAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	payments := make([]model.Payment, 0, len(docs))
	for _, doc := range docs {
		var p model.Payment
		if err := doc.DataTo(&p); err != nil {
			return nil, err
		}
		p.ID = doc.Ref.ID
		payments = append(payments, p)
	}
	return payments, nil
}
