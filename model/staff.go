// model/staff.go
package model

import (
	"time"
)

type StaffStatus string

const (
	StaffPending  StaffStatus = "pending"
	StaffApproved StaffStatus = "approved"
	StaffRejected StaffStatus = "rejected"
)

type WorkStatus string

const (
	WorkAvailable WorkStatus = "available"
	WorkWorking   WorkStatus = "working"
)

type Staff struct {
	ID         string      `json:"_id" firestore:"-" bson:"_id" gorm:"column:id;primaryKey;type:varchar(64)"`
	Name       string      `json:"name" firestore:"name" bson:"name" gorm:"column:name;type:varchar(255)"`
	Email      string      `json:"email" firestore:"email" bson:"email" gorm:"column:email;type:varchar(255);index;not null"`
	Phone      string      `json:"phone,omitempty" firestore:"phone" bson:"phone,omitempty" gorm:"column:phone;type:varchar(32)"`
	Address    string      `json:"address,omitempty" firestore:"address" bson:"address,omitempty" gorm:"column:address;type:varchar(255)"`
	Status     StaffStatus `json:"status" firestore:"status" bson:"status" gorm:"column:status;type:varchar(32);index;not null"`
	WorkStatus WorkStatus  `json:"workStatus,omitempty" firestore:"workStatus" bson:"workStatus,omitempty" gorm:"column:work_status;type:varchar(32);index"`
	CreatedAt  time.Time   `json:"createdAt" firestore:"createdAt" bson:"createdAt" gorm:"column:created_at;not null"`
}

func (Staff) TableName() string {
	return "staff"
}
