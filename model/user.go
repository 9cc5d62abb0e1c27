// model/user.go
package model

import (
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID          string    `json:"_id" firestore:"-" bson:"_id" gorm:"column:id;primaryKey;type:varchar(64)"`
	Email       string    `json:"email" firestore:"email" bson:"email" gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	DisplayName string    `json:"displayName" firestore:"displayName" bson:"displayName" gorm:"column:display_name;type:varchar(255)"`
	PhotoURL    string    `json:"photoURL" firestore:"photoURL" bson:"photoURL" gorm:"column:photo_url;type:text"`
	Role        Role      `json:"role" firestore:"role" bson:"role" gorm:"column:role;type:varchar(16);not null"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt" bson:"createdAt" gorm:"column:created_at;index;not null"`
}

func (User) TableName() string {
	return "users"
}
