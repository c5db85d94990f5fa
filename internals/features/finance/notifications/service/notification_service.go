package service

import (
	"context"
	"time"

	"dormku_backend/internals/features/finance/notifications/dto"
	"dormku_backend/internals/features/finance/notifications/model"
	helper "dormku_backend/internals/helpers"
	"dormku_backend/internals/helpers/apperror"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationService reads the checkout notices written by the booking archive.
type NotificationService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db, Now: time.Now}
}

func (s *NotificationService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// List puts unread notices first, newest first within each group.
func (s *NotificationService) List(ctx context.Context, p helperAuth.Principal, q dto.ListNotificationsQuery) ([]model.CashierNotificationModel, error) {
	tenantID, err := p.FinanceTenant()
	if err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx).Where("cashier_notification_tenant_id = ?", tenantID)
	if q.Unread {
		db = db.Where("cashier_notification_read_at IS NULL")
	}
	var rows []model.CashierNotificationModel
	if err := db.
		Order("CASE WHEN cashier_notification_read_at IS NULL THEN 0 ELSE 1 END").
		Order("cashier_notification_created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, apperror.Infra("list cashier notifications", err)
	}
	return rows, nil
}

func (s *NotificationService) CountUnread(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&model.CashierNotificationModel{}).
		Where("cashier_notification_tenant_id = ? AND cashier_notification_read_at IS NULL", tenantID).
		Count(&n).Error; err != nil {
		return 0, apperror.Infra("count unread notifications", err)
	}
	return n, nil
}

// MarkRead is idempotent: the first read time is kept.
func (s *NotificationService) MarkRead(ctx context.Context, p helperAuth.Principal, id uuid.UUID) (*model.CashierNotificationModel, error) {
	var m model.CashierNotificationModel
	if err := s.DB.WithContext(ctx).Where("cashier_notification_id = ?", id).First(&m).Error; err != nil {
		return nil, helper.WrapDBError(err, "notification")
	}
	if err := p.RequireFinanceOf(m.CashierNotificationTenantID); err != nil {
		return nil, err
	}
	if m.CashierNotificationReadAt != nil {
		return &m, nil
	}
	now := s.now()
	if err := s.DB.WithContext(ctx).Model(&model.CashierNotificationModel{}).
		Where("cashier_notification_id = ? AND cashier_notification_read_at IS NULL", id).
		Update("cashier_notification_read_at", now).Error; err != nil {
		return nil, apperror.Infra("mark notification read", err)
	}
	if err := s.DB.WithContext(ctx).Where("cashier_notification_id = ?", id).First(&m).Error; err != nil {
		return nil, apperror.Infra("reload notification", err)
	}
	return &m, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, p helperAuth.Principal) (*dto.MarkAllReadResponse, error) {
	tenantID, err := p.FinanceTenant()
	if err != nil {
		return nil, err
	}
	res := s.DB.WithContext(ctx).Model(&model.CashierNotificationModel{}).
		Where("cashier_notification_tenant_id = ? AND cashier_notification_read_at IS NULL", tenantID).
		Update("cashier_notification_read_at", s.now())
	if res.Error != nil {
		return nil, apperror.Infra("mark notifications read", res.Error)
	}
	return &dto.MarkAllReadResponse{Updated: res.RowsAffected}, nil
}
