package service

import (
	"context"
	"strings"
	"time"

	bookingService "dormku_backend/internals/features/dormitory/bookings/service"
	"dormku_backend/internals/features/dormitory/students/dto"
	"dormku_backend/internals/features/dormitory/students/model"
	helper "dormku_backend/internals/helpers"
	"dormku_backend/internals/helpers/apperror"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewStudentService(db *gorm.DB) *StudentService {
	return &StudentService{DB: db, Now: time.Now}
}

func (s *StudentService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// studentRefs are the rows that keep a student from being deleted permanently.
// Both can be archived and force-deleted themselves.
var studentRefs = []helper.Ref{
	{Table: "bookings", Column: "booking_student_id"},
	{Table: "payment_records", Column: "payment_record_student_id"},
}

// detachStudent runs inside ForceDelete. Cashier notifications and cleaning reports keep
// their copy of the student id; they already carry the name and room they need.
func detachStudent(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Exec(`UPDATE applications SET application_student_id = NULL WHERE application_student_id = ?`, id).Error; err != nil {
		return err
	}
	return tx.Exec(`DELETE FROM cleaning_schedule_students WHERE cleaning_schedule_student_student_id = ?`, id).Error
}

/* =========================
   Manager
   ========================= */

func (s *StudentService) Create(ctx context.Context, p helperAuth.Principal, in dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	tenantID, err := p.ManagerTenant()
	if err != nil {
		return nil, err
	}
	in.Normalize()

	m := model.StudentModel{
		StudentTenantID:       tenantID,
		StudentName:           in.StudentName,
		StudentEmail:          in.StudentEmail,
		StudentPhone:          in.StudentPhone,
		StudentPresenceStatus: model.PresenceIn,
		StudentPaymentStatus:  model.PaymentUnpaid,
	}
	if in.StudentPassword != nil && *in.StudentPassword != "" {
		hash, err := helperAuth.HashPassword(*in.StudentPassword)
		if err != nil {
			return nil, apperror.Field("student_password", "student_password must be at least 8 characters")
		}
		m.StudentPasswordHash = &hash
	}
	if err := s.DB.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, helper.WrapDBError(err, "student email")
	}
	out := dto.ToStudentResponse(m, nil)
	return &out, nil
}

func (s *StudentService) List(ctx context.Context, p helperAuth.Principal) ([]dto.StudentResponse, error) {
	tenantID, err := p.ManagerTenant()
	if err != nil {
		return nil, err
	}
	var rows []model.StudentModel
	if err := s.DB.WithContext(ctx).
		Where("student_tenant_id = ?", tenantID).
		Order("student_name ASC").
		Find(&rows).Error; err != nil {
		return nil, apperror.Infra("list students", err)
	}
	active, err := bookingService.ActiveBookingsByStudent(ctx, s.DB, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StudentResponse, 0, len(rows))
	for _, m := range rows {
		var cur *bookingService.ActiveBooking
		if b, ok := active[m.StudentID]; ok {
			cur = &b
		}
		out = append(out, dto.ToStudentResponse(m, cur))
	}
	return out, nil
}

func (s *StudentService) Get(ctx context.Context, p helperAuth.Principal, id uuid.UUID) (*dto.StudentResponse, error) {
	var m model.StudentModel
	if err := s.DB.WithContext(ctx).Where("student_id = ?", id).First(&m).Error; err != nil {
		return nil, helper.WrapDBError(err, "student")
	}
	if err := p.RequireManagerOf(m.StudentTenantID); err != nil {
		return nil, err
	}
	return s.withBooking(ctx, m)
}

func (s *StudentService) Update(ctx context.Context, p helperAuth.Principal, id uuid.UUID, in dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	var m model.StudentModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", id).First(&m).Error; err != nil {
			return helper.WrapDBError(err, "student")
		}
		if err := p.RequireManagerOf(m.StudentTenantID); err != nil {
			return err
		}
		updates := map[string]any{}
		if in.StudentName != nil {
			name := strings.TrimSpace(*in.StudentName)
			if name == "" {
				return apperror.Field("student_name", "student_name is a required field")
			}
			updates["student_name"] = name
		}
		if in.StudentEmail != nil {
			updates["student_email"] = strings.ToLower(strings.TrimSpace(*in.StudentEmail))
		}
		if in.StudentPhone != nil {
			updates["student_phone"] = strings.TrimSpace(*in.StudentPhone)
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&m).Updates(updates).Error; err != nil {
			return helper.WrapDBError(err, "student email")
		}
		return tx.Where("student_id = ?", id).First(&m).Error
	})
	if err != nil {
		return nil, helper.WrapDBError(err, "student")
	}
	return s.withBooking(ctx, m)
}

// SetPassword gives a student (typically an approved applicant) a login credential.
func (s *StudentService) SetPassword(ctx context.Context, p helperAuth.Principal, id uuid.UUID, password string) error {
	var m model.StudentModel
	if err := s.DB.WithContext(ctx).Where("student_id = ?", id).First(&m).Error; err != nil {
		return helper.WrapDBError(err, "student")
	}
	if err := p.RequireManagerOf(m.StudentTenantID); err != nil {
		return err
	}
	hash, err := helperAuth.HashPassword(password)
	if err != nil {
		return apperror.Field("password", "password must be at least 8 characters")
	}
	if err := s.DB.WithContext(ctx).Model(&m).Update("student_password_hash", hash).Error; err != nil {
		return apperror.Infra("set student password", err)
	}
	return nil
}

/* =========================
   Student (self)
   ========================= */

func (s *StudentService) Me(ctx context.Context, p helperAuth.Principal) (*dto.StudentResponse, error) {
	if !p.IsStudent() {
		return nil, apperror.Forbidden("only students have a profile")
	}
	var m model.StudentModel
	if err := s.DB.WithContext(ctx).Where("student_id = ?", p.UserID).First(&m).Error; err != nil {
		return nil, helper.WrapDBError(err, "student")
	}
	return s.withBooking(ctx, m)
}

// UpdatePresence: on_leave needs a reason, returning "in" clears it.
func (s *StudentService) UpdatePresence(ctx context.Context, p helperAuth.Principal, in dto.UpdatePresenceRequest) (*dto.StudentResponse, error) {
	if !p.IsStudent() {
		return nil, apperror.Forbidden("only students can update their presence")
	}
	status := model.PresenceStatus(in.Status)
	updates := map[string]any{
		"student_presence_status":   status,
		"student_status_changed_at": s.now(),
	}
	switch status {
	case model.PresenceOnLeave:
		if in.Reason == nil || strings.TrimSpace(*in.Reason) == "" {
			return nil, apperror.Field("reason", "reason is required when going on leave")
		}
		updates["student_leave_reason"] = strings.TrimSpace(*in.Reason)
	case model.PresenceIn:
		updates["student_leave_reason"] = nil
	default:
		return nil, apperror.Field("status", "status must be one of [in on_leave]")
	}

	res := s.DB.WithContext(ctx).Model(&model.StudentModel{}).Where("student_id = ?", p.UserID).Updates(updates)
	if res.Error != nil {
		return nil, apperror.Infra("update presence", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperror.NotFound("student not found")
	}
	return s.Me(ctx, p)
}

func (s *StudentService) withBooking(ctx context.Context, m model.StudentModel) (*dto.StudentResponse, error) {
	active, err := bookingService.ActiveBookingsByStudent(ctx, s.DB, m.StudentTenantID, m.StudentID)
	if err != nil {
		return nil, err
	}
	var cur *bookingService.ActiveBooking
	if b, ok := active[m.StudentID]; ok {
		cur = &b
	}
	out := dto.ToStudentResponse(m, cur)
	return &out, nil
}

/* =========================
   Archive surface
   ========================= */

func (s *StudentService) ListArchived(ctx context.Context, tenantID uuid.UUID) ([]dto.StudentResponse, error) {
	var rows []model.StudentModel
	if err := s.DB.WithContext(ctx).Unscoped().
		Where("student_tenant_id = ? AND student_archived_at IS NOT NULL", tenantID).
		Order("student_archived_at DESC").
		Find(&rows).Error; err != nil {
		return nil, apperror.Infra("list archived students", err)
	}
	out := make([]dto.StudentResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, dto.ToStudentResponse(m, nil))
	}
	return out, nil
}

func (s *StudentService) loadAny(tx *gorm.DB, p helperAuth.Principal, id uuid.UUID) (*model.StudentModel, error) {
	var m model.StudentModel
	if err := tx.Unscoped().Where("student_id = ?", id).First(&m).Error; err != nil {
		return nil, helper.WrapDBError(err, "student")
	}
	if err := p.RequireManagerOf(m.StudentTenantID); err != nil {
		return nil, err
	}
	return &m, nil
}

// Archive is refused while the student holds an active booking; check out first.
func (s *StudentService) Archive(ctx context.Context, p helperAuth.Principal, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.loadAny(tx, p, id); err != nil {
			return err
		}
		var active int64
		if err := tx.Table("bookings").
			Where("booking_student_id = ? AND booking_archived_at IS NULL", id).
			Count(&active).Error; err != nil {
			return apperror.Infra("count active bookings", err)
		}
		if active > 0 {
			return apperror.Conflict("student has an active booking")
		}
		ok, err := helper.ArchiveRow(tx, &model.StudentModel{}, "student_id", id, "student_archived_at", s.now())
		if err != nil {
			return apperror.Infra("archive student", err)
		}
		if !ok {
			return apperror.Conflict("student is already archived")
		}
		return nil
	})
}

func (s *StudentService) Restore(ctx context.Context, p helperAuth.Principal, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.loadAny(tx, p, id); err != nil {
			return err
		}
		ok, err := helper.RestoreRow(tx, &model.StudentModel{}, "student_id", id, "student_archived_at")
		if err != nil {
			return helper.WrapDBError(err, "student")
		}
		if !ok {
			return apperror.Conflict("student is not archived")
		}
		return nil
	})
}

func (s *StudentService) ForceDelete(ctx context.Context, p helperAuth.Principal, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := s.loadAny(tx, p, id)
		if err != nil {
			return err
		}
		if !m.StudentArchivedAt.Valid {
			return apperror.Conflict("only archived students can be deleted permanently")
		}
		used, err := helper.Referenced(tx, id, studentRefs...)
		if err != nil {
			return apperror.Infra("check student references", err)
		}
		if used {
			return apperror.Conflict("student still has bookings or payment records; delete those first")
		}
		if err := detachStudent(tx, id); err != nil {
			return apperror.Infra("detach student", err)
		}
		if _, err := helper.ForceDeleteRow(tx, &model.StudentModel{}, "student_id", id, "student_archived_at"); err != nil {
			return helper.WrapDBError(err, "student")
		}
		return nil
	})
}
