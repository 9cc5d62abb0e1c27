// model/report.go
package model

import (
	"time"
)

type ReportStatus string

const (
	ReportSubmitted  ReportStatus = "Submitted"
	ReportPending    ReportStatus = "Pending"
	ReportInProgress ReportStatus = "In-Progress"
	ReportSolved     ReportStatus = "Solved"
)

// Rank orders statuses along the forward lifecycle. Unknown statuses rank -1.
func (s ReportStatus) Rank() int {
	switch s {
	case ReportSubmitted:
		return 0
	case ReportPending:
		return 1
	case ReportInProgress:
		return 2
	case ReportSolved:
		return 3
	default:
		return -1
	}
}

func (s ReportStatus) Valid() bool {
	return s.Rank() >= 0
}

// HoldsStaff reports whether a report in this status names its staff.
func (s ReportStatus) HoldsStaff() bool {
	return s == ReportInProgress || s == ReportSolved
}

type Priority string

const (
	PriorityNormal Priority = "Normal"
	PriorityHigh   Priority = "High-Priority"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// Report is a citizen-submitted civic issue. StaffID is set exactly while the
// report is In-Progress or Solved, TrackingID exactly once it is paid.
type Report struct {
	ID            string        `json:"_id" firestore:"-" bson:"_id" gorm:"column:id;primaryKey;type:varchar(64)"`
	Email         string        `json:"email" firestore:"email" bson:"email" gorm:"column:email;type:varchar(255);index;not null"`
	Issue         string        `json:"issue" firestore:"issue" bson:"issue" gorm:"column:issue;type:text"`
	Category      string        `json:"category" firestore:"category" bson:"category" gorm:"column:category;type:varchar(100);index"`
	Location      string        `json:"location" firestore:"location" bson:"location" gorm:"column:location;type:varchar(255)"`
	Description   string        `json:"description,omitempty" firestore:"description" bson:"description,omitempty" gorm:"column:description;type:text"`
	Image         string        `json:"image,omitempty" firestore:"image" bson:"image,omitempty" gorm:"column:image;type:text"`
	Priority      Priority      `json:"priority" firestore:"priority" bson:"priority" gorm:"column:priority;type:varchar(32);not null"`
	ReportStatus  ReportStatus  `json:"reportStatus" firestore:"reportStatus" bson:"reportStatus" gorm:"column:report_status;type:varchar(32);index;not null"`
	PaymentStatus PaymentStatus `json:"paymentStatus" firestore:"paymentStatus" bson:"paymentStatus" gorm:"column:payment_status;type:varchar(32);not null"`
	StaffID       *string       `json:"staffId" firestore:"staffId" bson:"staffId" gorm:"column:staff_id;type:varchar(64);index"`
	StaffName     *string       `json:"staffName" firestore:"staffName" bson:"staffName" gorm:"column:staff_name;type:varchar(255)"`
	StaffEmail    *string       `json:"staffEmail" firestore:"staffEmail" bson:"staffEmail" gorm:"column:staff_email;type:varchar(255);index"`
	TrackingID    *string       `json:"trackingId" firestore:"trackingId" bson:"trackingId" gorm:"column:tracking_id;type:varchar(32)"`
	CreatedAt     time.Time     `json:"createdAt" firestore:"createdAt" bson:"createdAt" gorm:"column:created_at;index;not null"`
}

func (Report) TableName() string {
	return "reports"
}

// StaffRef is the snapshot of a staff member stamped onto a report on assignment.
type StaffRef struct {
	ID    string
	Name  string
	Email string
}
