package repository

import (
	"context"
	"time"

	"dormku_backend/internals/constants"
	studentModel "dormku_backend/internals/features/dormitory/students/model"
	authModel "dormku_backend/internals/features/users/auth/model"
	userModel "dormku_backend/internals/features/users/users/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

/* ====================== USER ====================== */

func FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).Where("user_email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).Where("user_id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func AdminExists(ctx context.Context, db *gorm.DB) (bool, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("user_role = ?", constants.RoleAdmin).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func CreateUser(ctx context.Context, db *gorm.DB, user *userModel.UserModel) error {
	return db.WithContext(ctx).Create(user).Error
}

/* ====================== STUDENT ====================== */

// FindStudentByEmail only sees active (non-archived) students.
func FindStudentByEmail(ctx context.Context, db *gorm.DB, email string) (*studentModel.StudentModel, error) {
	var st studentModel.StudentModel
	if err := db.WithContext(ctx).Where("student_email = ?", email).First(&st).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

func FindStudentByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*studentModel.StudentModel, error) {
	var st studentModel.StudentModel
	if err := db.WithContext(ctx).Where("student_id = ?", id).First(&st).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

/* ====================== TOKEN BLACKLIST ====================== */

// BlacklistToken is idempotent: logging out twice keeps one row.
func BlacklistToken(ctx context.Context, db *gorm.DB, fingerprint string, expiredAt time.Time) error {
	row := authModel.TokenBlacklist{Token: fingerprint, ExpiredAt: expiredAt}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "token"}}, DoNothing: true}).
		Create(&row).Error
}

func IsBlacklisted(ctx context.Context, db *gorm.DB, fingerprint string) (bool, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&authModel.TokenBlacklist{}).
		Where("token = ?", fingerprint).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteExpiredBlacklist removes rows whose token expired before the cutoff.
func DeleteExpiredBlacklist(ctx context.Context, db *gorm.DB, before time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expired_at < ?", before).Delete(&authModel.TokenBlacklist{})
	return res.RowsAffected, res.Error
}
