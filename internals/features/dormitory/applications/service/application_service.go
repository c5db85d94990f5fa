package service

import (
	"context"
	"strings"
	"time"

	"dormku_backend/internals/features/dormitory/applications/dto"
	"dormku_backend/internals/features/dormitory/applications/model"
	studentModel "dormku_backend/internals/features/dormitory/students/model"
	tenantModel "dormku_backend/internals/features/dormitory/tenants/model"
	helper "dormku_backend/internals/helpers"
	"dormku_backend/internals/helpers/apperror"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationService: an application leaves pending exactly once, to approved or rejected.
type ApplicationService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewApplicationService(db *gorm.DB) *ApplicationService {
	return &ApplicationService{DB: db, Now: time.Now}
}

func (s *ApplicationService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

var errAlreadyProcessed = apperror.Conflict("application already processed")

// Submit is public: anyone may apply to an active dormitory.
func (s *ApplicationService) Submit(ctx context.Context, in dto.SubmitApplicationRequest) (*model.ApplicationModel, error) {
	in.Normalize()
	if in.Message == "" {
		return nil, apperror.Field("message", "message is a required field")
	}

	var tenant tenantModel.TenantModel
	if err := s.DB.WithContext(ctx).Where("tenant_id = ?", in.TenantID).First(&tenant).Error; err != nil {
		return nil, helper.WrapDBError(err, "dormitory")
	}

	m := model.ApplicationModel{
		ApplicationTenantID: tenant.TenantID,
		ApplicationName:     in.Name,
		ApplicationEmail:    in.Email,
		ApplicationPhone:    in.Phone,
		ApplicationMessage:  in.Message,
		ApplicationStatus:   model.ApplicationPending,
	}
	if err := s.DB.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, apperror.Infra("create application", err)
	}
	return &m, nil
}

func (s *ApplicationService) List(ctx context.Context, p helperAuth.Principal, q dto.ListApplicationsQuery) ([]model.ApplicationModel, error) {
	tenantID, err := p.ManagerTenant()
	if err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx).Where("application_tenant_id = ?", tenantID)
	if st := strings.TrimSpace(q.Status); st != "" {
		db = db.Where("application_status = ?", st)
	}
	var rows []model.ApplicationModel
	if err := db.Order("application_created_at DESC").Find(&rows).Error; err != nil {
		return nil, apperror.Infra("list applications", err)
	}
	return rows, nil
}

func (s *ApplicationService) Get(ctx context.Context, p helperAuth.Principal, id uuid.UUID) (*model.ApplicationModel, error) {
	return s.load(s.DB.WithContext(ctx), p, id)
}

func (s *ApplicationService) load(tx *gorm.DB, p helperAuth.Principal, id uuid.UUID) (*model.ApplicationModel, error) {
	var m model.ApplicationModel
	if err := tx.Where("application_id = ?", id).First(&m).Error; err != nil {
		return nil, helper.WrapDBError(err, "application")
	}
	if err := p.RequireManagerOf(m.ApplicationTenantID); err != nil {
		return nil, err
	}
	return &m, nil
}

// Approve turns a pending application into exactly one passwordless student.
func (s *ApplicationService) Approve(ctx context.Context, p helperAuth.Principal, id uuid.UUID) (*model.ApplicationModel, error) {
	var app *model.ApplicationModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if app, err = s.load(tx, p, id); err != nil {
			return err
		}
		if app.ApplicationStatus != model.ApplicationPending {
			return errAlreadyProcessed
		}

		now := s.now()
		res := tx.Model(&model.ApplicationModel{}).
			Where("application_id = ? AND application_status = ?", id, model.ApplicationPending).
			Updates(map[string]any{
				"application_status":       model.ApplicationApproved,
				"application_processed_by": p.UserID,
				"application_processed_at": now,
			})
		if res.Error != nil {
			return apperror.Infra("approve application", res.Error)
		}
		if res.RowsAffected == 0 {
			return errAlreadyProcessed
		}

		student := studentModel.StudentModel{
			StudentTenantID:       app.ApplicationTenantID,
			StudentName:           app.ApplicationName,
			StudentEmail:          app.ApplicationEmail,
			StudentPhone:          app.ApplicationPhone,
			StudentPresenceStatus: studentModel.PresenceIn,
			StudentPaymentStatus:  studentModel.PaymentUnpaid,
		}
		if err := tx.Create(&student).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return apperror.Conflict("a student with this email already exists")
			}
			return apperror.Infra("create student", err)
		}
		if err := tx.Model(&model.ApplicationModel{}).
			Where("application_id = ?", id).
			Update("application_student_id", student.StudentID).Error; err != nil {
			return apperror.Infra("link student", err)
		}

		app.ApplicationStatus = model.ApplicationApproved
		app.ApplicationProcessedBy = &p.UserID
		app.ApplicationProcessedAt = &now
		app.ApplicationStudentID = &student.StudentID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// Reject requires a non-blank reason.
func (s *ApplicationService) Reject(ctx context.Context, p helperAuth.Principal, id uuid.UUID, reason string) (*model.ApplicationModel, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.Field("reason", "reason is required to reject an application")
	}

	var app *model.ApplicationModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if app, err = s.load(tx, p, id); err != nil {
			return err
		}
		if app.ApplicationStatus != model.ApplicationPending {
			return errAlreadyProcessed
		}
		now := s.now()
		res := tx.Model(&model.ApplicationModel{}).
			Where("application_id = ? AND application_status = ?", id, model.ApplicationPending).
			Updates(map[string]any{
				"application_status":           model.ApplicationRejected,
				"application_rejection_reason": reason,
				"application_processed_by":     p.UserID,
				"application_processed_at":     now,
			})
		if res.Error != nil {
			return apperror.Infra("reject application", res.Error)
		}
		if res.RowsAffected == 0 {
			return errAlreadyProcessed
		}
		app.ApplicationStatus = model.ApplicationRejected
		app.ApplicationRejectionReason = &reason
		app.ApplicationProcessedBy = &p.UserID
		app.ApplicationProcessedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}
