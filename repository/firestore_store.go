package repository

import (
	"context"
	"net/url"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	reportsCollection  = "reports"
	staffCollection    = "staff"
	paymentsCollection = "payments"
	usersCollection    = "users"
)

// NewFirestoreStore returns repositories backed by Firestore collections.
// Payments and users use their natural keys as document ids so that
// DocumentRef.Create enforces uniqueness.
func NewFirestoreStore(client *firestore.Client) *Store {
	return &Store{
		Reports:  &FirestoreReportRepository{Client: client},
		Staff:    &FirestoreStaffRepository{Client: client},
		Payments: &FirestorePaymentRepository{Client: client},
		Users:    &FirestoreUserRepository{Client: client},
		close: func(context.Context) error {
			return client.Close()
		},
	}
}

func fsErr(err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrDuplicate
	}
	return err
}

// docKey makes a natural key safe to use as a document id.
func docKey(key string) string {
	return url.PathEscape(key)
}
