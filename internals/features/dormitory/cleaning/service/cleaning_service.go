package service

import (
	"context"
	"encoding/json"
	"time"

	"dormku_backend/internals/features/dormitory/cleaning/dto"
	"dormku_backend/internals/features/dormitory/cleaning/model"
	roomModel "dormku_backend/internals/features/dormitory/rooms/model"
	studentModel "dormku_backend/internals/features/dormitory/students/model"
	helper "dormku_backend/internals/helpers"
	"dormku_backend/internals/helpers/apperror"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CleaningService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewCleaningService(db *gorm.DB) *CleaningService {
	return &CleaningService{DB: db, Now: time.Now}
}

func (s *CleaningService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

/* =========================
   Schedules (manager)
   ========================= */

func (s *CleaningService) CreateSchedule(ctx context.Context, p helperAuth.Principal, in dto.CreateScheduleRequest) (*dto.ScheduleResponse, error) {
	tenantID, err := p.ManagerTenant()
	if err != nil {
		return nil, err
	}

	m := model.CleaningScheduleModel{
		CleaningScheduleTenantID: tenantID,
		CleaningScheduleType:     model.ScheduleType(in.Type),
		CleaningScheduleDay:      in.DayOfWeek,
		CleaningScheduleNotes:    in.Notes,
	}
	members := uniqueIDs(in.StudentIDs)

	switch m.CleaningScheduleType {
	case model.ScheduleRoom:
		if in.RoomID == nil {
			return nil, apperror.Field("room_id", "room_id is required for a room schedule")
		}
		if len(members) > 0 {
			return nil, apperror.Field("student_ids", "a room schedule covers the room's occupants; student_ids must be empty")
		}
		m.CleaningScheduleRoomID = in.RoomID
	case model.ScheduleIndividual:
		if in.RoomID != nil {
			return nil, apperror.Field("room_id", "room_id must be empty for an individual schedule")
		}
		if len(members) == 0 {
			return nil, apperror.Field("student_ids", "an individual schedule needs at least one student")
		}
	default:
		return nil, apperror.Field("type", "type must be one of [room individual]")
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if m.CleaningScheduleRoomID != nil {
			var room roomModel.RoomModel
			if err := tx.Where("room_id = ? AND room_tenant_id = ?", *m.CleaningScheduleRoomID, tenantID).First(&room).Error; err != nil {
				return helper.WrapDBError(err, "room")
			}
		}
		if err := requireTenantStudents(tx, tenantID, members, "student_ids"); err != nil {
			return err
		}
		if err := tx.Create(&m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return apperror.Conflict("this room already has a schedule on that day")
			}
			return apperror.Infra("create cleaning schedule", err)
		}
		return replaceMembers(tx, m.CleaningScheduleID, members)
	})
	if err != nil {
		return nil, err
	}
	return s.project(ctx, m)
}

func (s *CleaningService) ListSchedules(ctx context.Context, p helperAuth.Principal, q dto.ListSchedulesQuery) ([]dto.ScheduleResponse, error) {
	tenantID, err := p.ManagerTenant()
	if err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx).Where("cleaning_schedule_tenant_id = ?", tenantID)
	if q.Day > 0 {
		db = db.Where("cleaning_schedule_day_of_week = ?", q.Day)
	}
	var rows []model.CleaningScheduleModel
	if err := db.Order("cleaning_schedule_day_of_week ASC, cleaning_schedule_created_at ASC").Find(&rows).Error; err != nil {
		return nil, apperror.Infra("list cleaning schedules", err)
	}
	return s.projectAll(ctx, rows)
}

func (s *CleaningService) UpdateSchedule(ctx context.Context, p helperAuth.Principal, id uuid.UUID, in dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	var m model.CleaningScheduleModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cleaning_schedule_id = ?", id).First(&m).Error; err != nil {
			return helper.WrapDBError(err, "cleaning schedule")
		}
		if err := p.RequireManagerOf(m.CleaningScheduleTenantID); err != nil {
			return err
		}

		updates := map[string]any{}
		if in.DayOfWeek != nil {
			updates["cleaning_schedule_day_of_week"] = *in.DayOfWeek
		}
		if in.Notes != nil {
			updates["cleaning_schedule_notes"] = *in.Notes
		}
		if len(updates) > 0 {
			if err := tx.Model(&m).Updates(updates).Error; err != nil {
				if helper.IsUniqueViolation(err) {
					return apperror.Conflict("this room already has a schedule on that day")
				}
				return apperror.Infra("update cleaning schedule", err)
			}
		}

		if in.StudentIDs != nil {
			members := uniqueIDs(*in.StudentIDs)
			if m.CleaningScheduleType == model.ScheduleRoom && len(members) > 0 {
				return apperror.Field("student_ids", "a room schedule covers the room's occupants; student_ids must be empty")
			}
			if m.CleaningScheduleType == model.ScheduleIndividual && len(members) == 0 {
				return apperror.Field("student_ids", "an individual schedule needs at least one student")
			}
			if err := requireTenantStudents(tx, m.CleaningScheduleTenantID, members, "student_ids"); err != nil {
				return err
			}
			if err := replaceMembers(tx, m.CleaningScheduleID, members); err != nil {
				return err
			}
		}
		return tx.Where("cleaning_schedule_id = ?", id).First(&m).Error
	})
	if err != nil {
		return nil, helper.WrapDBError(err, "cleaning schedule")
	}
	return s.project(ctx, m)
}

func (s *CleaningService) DeleteSchedule(ctx context.Context, p helperAuth.Principal, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.CleaningScheduleModel
		if err := tx.Where("cleaning_schedule_id = ?", id).First(&m).Error; err != nil {
			return helper.WrapDBError(err, "cleaning schedule")
		}
		if err := p.RequireManagerOf(m.CleaningScheduleTenantID); err != nil {
			return err
		}
		if err := tx.Where("cleaning_schedule_student_schedule_id = ?", id).Delete(&model.CleaningScheduleStudentModel{}).Error; err != nil {
			return apperror.Infra("delete schedule members", err)
		}
		// reports keep their text but lose the link
		if err := tx.Model(&model.CleaningReportModel{}).
			Where("cleaning_report_schedule_id = ?", id).
			Update("cleaning_report_schedule_id", nil).Error; err != nil {
			return apperror.Infra("unlink cleaning reports", err)
		}
		if err := tx.Delete(&m).Error; err != nil {
			return apperror.Infra("delete cleaning schedule", err)
		}
		return nil
	})
}

/* =========================
   Schedules (student)
   ========================= */

// StudentSchedules: room schedules of the student's active room plus individual memberships.
func (s *CleaningService) StudentSchedules(ctx context.Context, p helperAuth.Principal) ([]dto.ScheduleResponse, error) {
	if !p.IsStudent() || p.TenantID == nil {
		return nil, apperror.Forbidden("only students have cleaning duties")
	}
	db := s.DB.WithContext(ctx)

	activeRoom := db.Table("bookings").
		Select("booking_room_id").
		Where("booking_student_id = ? AND booking_archived_at IS NULL", p.UserID)
	membership := db.Table("cleaning_schedule_students").
		Select("cleaning_schedule_student_schedule_id").
		Where("cleaning_schedule_student_student_id = ?", p.UserID)

	var rows []model.CleaningScheduleModel
	if err := db.
		Where("cleaning_schedule_tenant_id = ?", *p.TenantID).
		Where(
			db.Where("cleaning_schedule_type = ? AND cleaning_schedule_room_id IN (?)", model.ScheduleRoom, activeRoom).
				Or("cleaning_schedule_id IN (?)", membership),
		).
		Order("cleaning_schedule_day_of_week ASC").
		Find(&rows).Error; err != nil {
		return nil, apperror.Infra("list student schedules", err)
	}
	return s.projectAll(ctx, rows)
}

/* =========================
   Reports
   ========================= */

// FileReport: a student reports one or more peers of the same dormitory.
func (s *CleaningService) FileReport(ctx context.Context, p helperAuth.Principal, in dto.FileReportRequest) (*dto.ReportResponse, error) {
	if !p.IsStudent() || p.TenantID == nil {
		return nil, apperror.Forbidden("only students can file cleaning reports")
	}
	tenantID := *p.TenantID
	reported := uniqueIDs(in.ReportedStudentIDs)
	if len(reported) == 0 {
		return nil, apperror.Field("reported_student_ids", "at least one student must be reported")
	}

	var m model.CleaningReportModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.ScheduleID != nil {
			var sch model.CleaningScheduleModel
			if err := tx.Where("cleaning_schedule_id = ? AND cleaning_schedule_tenant_id = ?", *in.ScheduleID, tenantID).First(&sch).Error; err != nil {
				return helper.WrapDBError(err, "cleaning schedule")
			}
		}
		if err := requireTenantStudents(tx, tenantID, reported, "reported_student_ids"); err != nil {
			return err
		}
		raw, err := marshalIDs(reported)
		if err != nil {
			return apperror.Infra("encode reported students", err)
		}
		m = model.CleaningReportModel{
			CleaningReportTenantID:         tenantID,
			CleaningReportScheduleID:       in.ScheduleID,
			CleaningReportReporterID:       p.UserID,
			CleaningReportReportedStudents: raw,
			CleaningReportDescription:      in.Description,
			CleaningReportStatus:           model.ReportPending,
		}
		if err := tx.Create(&m).Error; err != nil {
			return apperror.Infra("create cleaning report", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToReportResponse(m)
	return &out, nil
}

func (s *CleaningService) MyReports(ctx context.Context, p helperAuth.Principal) ([]dto.ReportResponse, error) {
	if !p.IsStudent() {
		return nil, apperror.Forbidden("only students can list their cleaning reports")
	}
	var rows []model.CleaningReportModel
	if err := s.DB.WithContext(ctx).
		Where("cleaning_report_reporter_id = ?", p.UserID).
		Order("cleaning_report_created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, apperror.Infra("list cleaning reports", err)
	}
	return toReportResponses(rows), nil
}

func (s *CleaningService) ListReports(ctx context.Context, p helperAuth.Principal, q dto.ListReportsQuery) ([]dto.ReportResponse, error) {
	tenantID, err := p.ManagerTenant()
	if err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx).Where("cleaning_report_tenant_id = ?", tenantID)
	if q.Status != "" {
		db = db.Where("cleaning_report_status = ?", q.Status)
	}
	var rows []model.CleaningReportModel
	if err := db.Order("cleaning_report_created_at DESC").Find(&rows).Error; err != nil {
		return nil, apperror.Infra("list cleaning reports", err)
	}
	return toReportResponses(rows), nil
}

// ResolveReport moves a pending report to resolved or dismissed; both are terminal.
func (s *CleaningService) ResolveReport(ctx context.Context, p helperAuth.Principal, id uuid.UUID, in dto.ResolveReportRequest) (*dto.ReportResponse, error) {
	status := model.ReportStatus(in.Status)
	if status != model.ReportResolved && status != model.ReportDismissed {
		return nil, apperror.Field("status", "status must be one of [resolved dismissed]")
	}

	var m model.CleaningReportModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cleaning_report_id = ?", id).First(&m).Error; err != nil {
			return helper.WrapDBError(err, "cleaning report")
		}
		if err := p.RequireManagerOf(m.CleaningReportTenantID); err != nil {
			return err
		}
		res := tx.Model(&model.CleaningReportModel{}).
			Where("cleaning_report_id = ? AND cleaning_report_status = ?", id, model.ReportPending).
			Updates(map[string]any{
				"cleaning_report_status":          status,
				"cleaning_report_resolved_by":     p.UserID,
				"cleaning_report_resolved_at":     s.now(),
				"cleaning_report_resolution_note": in.Note,
			})
		if res.Error != nil {
			return apperror.Infra("resolve cleaning report", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperror.Conflict("cleaning report already processed")
		}
		return tx.Where("cleaning_report_id = ?", id).First(&m).Error
	})
	if err != nil {
		return nil, helper.WrapDBError(err, "cleaning report")
	}
	out := dto.ToReportResponse(m)
	return &out, nil
}

/* =========================
   helpers
   ========================= */

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// requireTenantStudents: every id must be an active student of the tenant.
func requireTenantStudents(tx *gorm.DB, tenantID uuid.UUID, ids []uuid.UUID, field string) error {
	if len(ids) == 0 {
		return nil
	}
	var n int64
	if err := tx.Model(&studentModel.StudentModel{}).
		Where("student_tenant_id = ? AND student_id IN ?", tenantID, ids).
		Count(&n).Error; err != nil {
		return apperror.Infra("check students", err)
	}
	if int(n) != len(ids) {
		return apperror.Field(field, "every student must be an active student of this dormitory")
	}
	return nil
}

func marshalIDs(ids []uuid.UUID) (datatypes.JSON, error) {
	b, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func replaceMembers(tx *gorm.DB, scheduleID uuid.UUID, members []uuid.UUID) error {
	if err := tx.Where("cleaning_schedule_student_schedule_id = ?", scheduleID).
		Delete(&model.CleaningScheduleStudentModel{}).Error; err != nil {
		return apperror.Infra("clear schedule members", err)
	}
	if len(members) == 0 {
		return nil
	}
	rows := make([]model.CleaningScheduleStudentModel, 0, len(members))
	for _, id := range members {
		rows = append(rows, model.CleaningScheduleStudentModel{
			CleaningScheduleStudentScheduleID: scheduleID,
			CleaningScheduleStudentStudentID:  id,
		})
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return apperror.Infra("add schedule members", err)
	}
	return nil
}

func (s *CleaningService) project(ctx context.Context, m model.CleaningScheduleModel) (*dto.ScheduleResponse, error) {
	out, err := s.projectAll(ctx, []model.CleaningScheduleModel{m})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *CleaningService) projectAll(ctx context.Context, rows []model.CleaningScheduleModel) ([]dto.ScheduleResponse, error) {
	out := make([]dto.ScheduleResponse, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(rows))
	roomIDs := make([]uuid.UUID, 0)
	for _, r := range rows {
		ids = append(ids, r.CleaningScheduleID)
		if r.CleaningScheduleRoomID != nil {
			roomIDs = append(roomIDs, *r.CleaningScheduleRoomID)
		}
	}

	var members []model.CleaningScheduleStudentModel
	if err := s.DB.WithContext(ctx).
		Where("cleaning_schedule_student_schedule_id IN ?", ids).
		Find(&members).Error; err != nil {
		return nil, apperror.Infra("load schedule members", err)
	}
	bySchedule := make(map[uuid.UUID][]uuid.UUID, len(rows))
	for _, mb := range members {
		bySchedule[mb.CleaningScheduleStudentScheduleID] = append(bySchedule[mb.CleaningScheduleStudentScheduleID], mb.CleaningScheduleStudentStudentID)
	}

	roomNumbers := map[uuid.UUID]string{}
	if len(roomIDs) > 0 {
		var rooms []roomModel.RoomModel
		if err := s.DB.WithContext(ctx).Unscoped().Where("room_id IN ?", roomIDs).Find(&rooms).Error; err != nil {
			return nil, apperror.Infra("load rooms", err)
		}
		for _, r := range rooms {
			roomNumbers[r.RoomID] = r.RoomNumber
		}
	}

	for _, r := range rows {
		resp := dto.ScheduleResponse{CleaningScheduleModel: r, StudentIDs: bySchedule[r.CleaningScheduleID]}
		if resp.StudentIDs == nil {
			resp.StudentIDs = []uuid.UUID{}
		}
		if r.CleaningScheduleRoomID != nil {
			if n, ok := roomNumbers[*r.CleaningScheduleRoomID]; ok {
				resp.RoomNumber = &n
			}
		}
		out = append(out, resp)
	}
	return out, nil
}

func toReportResponses(rows []model.CleaningReportModel) []dto.ReportResponse {
	out := make([]dto.ReportResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToReportResponse(r))
	}
	return out
}
