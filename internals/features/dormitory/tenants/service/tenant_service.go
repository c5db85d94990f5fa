package service

import (
	"context"
	"strings"
	"time"

	"dormku_backend/internals/features/dormitory/tenants/dto"
	"dormku_backend/internals/features/dormitory/tenants/model"
	helper "dormku_backend/internals/helpers"
	"dormku_backend/internals/helpers/apperror"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const slugMaxLen = 160

type TenantService struct {
	DB             *gorm.DB
	DefaultAddress string
	DefaultContact string
	Now            func() time.Time
}

func NewTenantService(db *gorm.DB, defaultAddress, defaultContact string) *TenantService {
	return &TenantService{DB: db, DefaultAddress: defaultAddress, DefaultContact: defaultContact, Now: time.Now}
}

func (s *TenantService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// tenantRefs keep a dormitory from being deleted permanently. Staff can be moved to another dormitory,
// the rest can be archived and force-deleted.
var tenantRefs = []helper.Ref{
	{Table: "rooms", Column: "room_tenant_id"},
	{Table: "students", Column: "student_tenant_id"},
	{Table: "users", Column: "user_tenant_id"},
	{Table: "bookings", Column: "booking_tenant_id"},
	{Table: "payment_records", Column: "payment_record_tenant_id"},
}

// purgeTenantHistory drops the rows that only make sense inside the dormitory being deleted.
var purgeTenantHistory = []string{
	`DELETE FROM cleaning_schedule_students WHERE cleaning_schedule_student_schedule_id IN
	   (SELECT cleaning_schedule_id FROM cleaning_schedules WHERE cleaning_schedule_tenant_id = ?)`,
	`DELETE FROM cleaning_reports WHERE cleaning_report_tenant_id = ?`,
	`DELETE FROM cleaning_schedules WHERE cleaning_schedule_tenant_id = ?`,
	`DELETE FROM applications WHERE application_tenant_id = ?`,
	`DELETE FROM cashier_notifications WHERE cashier_notification_tenant_id = ?`,
	`UPDATE payment_gateway_events SET gateway_event_tenant_id = NULL WHERE gateway_event_tenant_id = ?`,
}

func (s *TenantService) Create(ctx context.Context, p helperAuth.Principal, in dto.CreateTenantRequest) (*model.TenantModel, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	in.Normalize()

	slug, err := helper.EnsureUniqueSlugCI(ctx, s.DB, "tenants", "tenant_slug", helper.Slugify(in.TenantName, slugMaxLen), slugMaxLen)
	if err != nil {
		return nil, apperror.Infra("generate tenant slug", err)
	}
	m := model.TenantModel{
		TenantName:          in.TenantName,
		TenantSlug:          slug,
		TenantAddress:       s.DefaultAddress,
		TenantContactNumber: s.DefaultContact,
	}
	if in.TenantAddress != nil {
		m.TenantAddress = *in.TenantAddress
	}
	if in.TenantContactNumber != nil {
		m.TenantContactNumber = *in.TenantContactNumber
	}
	if err := s.DB.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, helper.WrapDBError(err, "dormitory")
	}
	return &m, nil
}

func (s *TenantService) List(ctx context.Context, p helperAuth.Principal) ([]model.TenantModel, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.active(ctx)
}

// PublicList backs the application form; no authentication.
func (s *TenantService) PublicList(ctx context.Context) ([]dto.PublicTenant, error) {
	rows, err := s.active(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ToPublicTenants(rows), nil
}

func (s *TenantService) active(ctx context.Context) ([]model.TenantModel, error) {
	var rows []model.TenantModel
	if err := s.DB.WithContext(ctx).Order("tenant_name ASC").Find(&rows).Error; err != nil {
		return nil, apperror.Infra("list dormitories", err)
	}
	return rows, nil
}

func (s *TenantService) Get(ctx context.Context, p helperAuth.Principal, id uuid.UUID) (*model.TenantModel, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	var m model.TenantModel
	if err := s.DB.WithContext(ctx).Where("tenant_id = ?", id).First(&m).Error; err != nil {
		return nil, helper.WrapDBError(err, "dormitory")
	}
	return &m, nil
}

// Update keeps the slug stable so links stay valid.
func (s *TenantService) Update(ctx context.Context, p helperAuth.Principal, id uuid.UUID, in dto.UpdateTenantRequest) (*model.TenantModel, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if in.TenantName != nil {
		name := strings.TrimSpace(*in.TenantName)
		if name == "" {
			return nil, apperror.Field("tenant_name", "tenant_name is a required field")
		}
		updates["tenant_name"] = name
	}
	if in.TenantAddress != nil {
		updates["tenant_address"] = strings.TrimSpace(*in.TenantAddress)
	}
	if in.TenantContactNumber != nil {
		updates["tenant_contact_number"] = strings.TrimSpace(*in.TenantContactNumber)
	}

	var m model.TenantModel
	if err := s.DB.WithContext(ctx).Where("tenant_id = ?", id).First(&m).Error; err != nil {
		return nil, helper.WrapDBError(err, "dormitory")
	}
	if len(updates) > 0 {
		if err := s.DB.WithContext(ctx).Model(&m).Updates(updates).Error; err != nil {
			return nil, helper.WrapDBError(err, "dormitory")
		}
		if err := s.DB.WithContext(ctx).Where("tenant_id = ?", id).First(&m).Error; err != nil {
			return nil, apperror.Infra("reload dormitory", err)
		}
	}
	return &m, nil
}

// RequireActive is used by the public application form.
func (s *TenantService) RequireActive(ctx context.Context, id uuid.UUID) (*model.TenantModel, error) {
	var m model.TenantModel
	if err := s.DB.WithContext(ctx).Where("tenant_id = ?", id).First(&m).Error; err != nil {
		return nil, helper.WrapDBError(err, "dormitory")
	}
	return &m, nil
}

/* =========================
   Archive surface (admin)
   ========================= */

func (s *TenantService) ListArchived(ctx context.Context, p helperAuth.Principal) ([]model.TenantModel, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	var rows []model.TenantModel
	if err := s.DB.WithContext(ctx).Unscoped().
		Where("tenant_archived_at IS NOT NULL").
		Order("tenant_archived_at DESC").
		Find(&rows).Error; err != nil {
		return nil, apperror.Infra("list archived dormitories", err)
	}
	return rows, nil
}

func (s *TenantService) Archive(ctx context.Context, p helperAuth.Principal, id uuid.UUID) error {
	if err := p.RequireAdmin(); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Unscoped().Model(&model.TenantModel{}).Where("tenant_id = ?", id).Count(&n).Error; err != nil {
			return apperror.Infra("load dormitory", err)
		}
		if n == 0 {
			return apperror.NotFound("dormitory not found")
		}
		ok, err := helper.ArchiveRow(tx, &model.TenantModel{}, "tenant_id", id, "tenant_archived_at", s.now())
		if err != nil {
			return apperror.Infra("archive dormitory", err)
		}
		if !ok {
			return apperror.Conflict("dormitory is already archived")
		}
		return nil
	})
}

func (s *TenantService) Restore(ctx context.Context, p helperAuth.Principal, id uuid.UUID) error {
	if err := p.RequireAdmin(); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := helper.RestoreRow(tx, &model.TenantModel{}, "tenant_id", id, "tenant_archived_at")
		if err != nil {
			return apperror.Infra("restore dormitory", err)
		}
		if !ok {
			return s.missingOrActive(tx, id)
		}
		return nil
	})
}

func (s *TenantService) ForceDelete(ctx context.Context, p helperAuth.Principal, id uuid.UUID) error {
	if err := p.RequireAdmin(); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.TenantModel
		if err := tx.Unscoped().Where("tenant_id = ?", id).First(&m).Error; err != nil {
			return helper.WrapDBError(err, "dormitory")
		}
		if !m.TenantArchivedAt.Valid {
			return apperror.Conflict("only archived dormitories can be deleted permanently")
		}
		used, err := helper.Referenced(tx, id, tenantRefs...)
		if err != nil {
			return apperror.Infra("check dormitory references", err)
		}
		if used {
			return apperror.Conflict("dormitory still has rooms, students, staff or records")
		}
		for _, stmt := range purgeTenantHistory {
			if err := tx.Exec(stmt, id).Error; err != nil {
				return apperror.Infra("purge dormitory history", err)
			}
		}
		if _, err := helper.ForceDeleteRow(tx, &model.TenantModel{}, "tenant_id", id, "tenant_archived_at"); err != nil {
			return apperror.Infra("delete dormitory", err)
		}
		return nil
	})
}

func (s *TenantService) missingOrActive(tx *gorm.DB, id uuid.UUID) error {
	var m model.TenantModel
	if err := tx.Unscoped().Where("tenant_id = ?", id).First(&m).Error; err != nil {
		return helper.WrapDBError(err, "dormitory")
	}
	return apperror.Conflict("dormitory is not archived")
}
