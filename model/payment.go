// model/payment.go
package model

import (
	"time"
)

// Payment is an append-only ledger row. TransactionID is the provider's
// payment reference and is unique across the ledger.
type Payment struct {
	ID            string        `json:"_id" firestore:"-" bson:"_id" gorm:"column:id;primaryKey;type:varchar(64)"`
	TransactionID string        `json:"transactionId" firestore:"transactionId" bson:"transactionId" gorm:"column:transaction_id;type:varchar(255);uniqueIndex;not null"`
	ReportID      string        `json:"reportId" firestore:"reportId" bson:"reportId" gorm:"column:report_id;type:varchar(64);index;not null"`
	Name          string        `json:"name,omitempty" firestore:"name" bson:"name,omitempty" gorm:"column:name;type:varchar(255)"`
	Email         string        `json:"email" firestore:"email" bson:"email" gorm:"column:email;type:varchar(255);index"`
	Amount        int64         `json:"amount" firestore:"amount" bson:"amount" gorm:"column:amount;not null"`
	Currency      string        `json:"currency" firestore:"currency" bson:"currency" gorm:"column:currency;type:varchar(8)"`
	PaymentStatus PaymentStatus `json:"paymentStatus" firestore:"paymentStatus" bson:"paymentStatus" gorm:"column:payment_status;type:varchar(32)"`
	TrackingID    string        `json:"trackingId" firestore:"trackingId" bson:"trackingId" gorm:"column:tracking_id;type:varchar(32);not null"`
	PaidAt        time.Time     `json:"paidAt" firestore:"paidAt" bson:"paidAt" gorm:"column:paid_at;index;not null"`
}

func (Payment) TableName() string {
	return "payments"
}
