package model

import "time"

// UserModel is a read-only view of the users table owned by the auth service.
type UserModel struct {
	ID        string     `gorm:"column:id;type:uuid;primaryKey"`
	Username  string     `gorm:"column:username;type:varchar(255);not null"`
	Role      string     `gorm:"column:role;type:varchar(20);not null"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	DeletedAt *time.Time `gorm:"column:deleted_at;index"`
}

func (UserModel) TableName() string {
	return "users"
}
