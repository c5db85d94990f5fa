package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel is a staff account (admin, manager, cashier). Students live in their own table.
type UserModel struct {
	UserID       uuid.UUID  `json:"user_id" gorm:"type:char(36);primaryKey;column:user_id"`
	UserName     string     `json:"user_name" gorm:"type:varchar(150);not null;column:user_name"`
	UserEmail    string     `json:"user_email" gorm:"type:varchar(190);not null;uniqueIndex:uq_users_email;column:user_email"`
	UserPassword string     `json:"-" gorm:"type:varchar(100);not null;column:user_password"`
	UserRole     string     `json:"user_role" gorm:"type:varchar(20);not null;index:idx_users_role;column:user_role"`
	UserIsActive bool       `json:"user_is_active" gorm:"not null;default:true;column:user_is_active"`
	UserTenantID *uuid.UUID `json:"user_tenant_id,omitempty" gorm:"type:char(36);index:idx_users_tenant;column:user_tenant_id"`

	UserCreatedAt time.Time `json:"user_created_at" gorm:"column:user_created_at;autoCreateTime"`
	UserUpdatedAt time.Time `json:"user_updated_at" gorm:"column:user_updated_at;autoUpdateTime"`
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) BeforeCreate(tx *gorm.DB) error {
	if m.UserID == uuid.Nil {
		m.UserID = uuid.New()
	}
	return nil
}
