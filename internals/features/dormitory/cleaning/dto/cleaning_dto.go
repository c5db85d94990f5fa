package dto

import (
	"encoding/json"
	"time"

	"dormku_backend/internals/features/dormitory/cleaning/model"

	"github.com/google/uuid"
)

/* ===== schedules ===== */

type CreateScheduleRequest struct {
	Type       string      `json:"type" validate:"required,oneof=room individual"`
	RoomID     *uuid.UUID  `json:"room_id"`
	DayOfWeek  int         `json:"day_of_week" validate:"required,min=1,max=7"`
	Notes      *string     `json:"notes" validate:"omitempty,max=1000"`
	StudentIDs []uuid.UUID `json:"student_ids"`
}

type UpdateScheduleRequest struct {
	DayOfWeek  *int         `json:"day_of_week" validate:"omitempty,min=1,max=7"`
	Notes      *string      `json:"notes" validate:"omitempty,max=1000"`
	StudentIDs *[]uuid.UUID `json:"student_ids"`
}

type ListSchedulesQuery struct {
	Day int `query:"day" validate:"omitempty,min=1,max=7"`
}

type ScheduleResponse struct {
	model.CleaningScheduleModel
	RoomNumber *string     `json:"room_number,omitempty"`
	StudentIDs []uuid.UUID `json:"student_ids"`
}

/* ===== reports ===== */

type FileReportRequest struct {
	ScheduleID         *uuid.UUID  `json:"schedule_id"`
	ReportedStudentIDs []uuid.UUID `json:"reported_student_ids" validate:"required,min=1,max=20"`
	Description        string      `json:"description" validate:"required,max=2000"`
}

type ResolveReportRequest struct {
	Status string  `json:"status" validate:"required,oneof=resolved dismissed"`
	Note   *string `json:"note" validate:"omitempty,max=1000"`
}

type ListReportsQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=pending resolved dismissed"`
}

type ReportResponse struct {
	CleaningReportID             uuid.UUID          `json:"cleaning_report_id"`
	CleaningReportTenantID       uuid.UUID          `json:"cleaning_report_tenant_id"`
	CleaningReportScheduleID     *uuid.UUID         `json:"cleaning_report_schedule_id,omitempty"`
	CleaningReportReporterID     uuid.UUID          `json:"cleaning_report_reporter_id"`
	ReportedStudentIDs           []uuid.UUID        `json:"reported_student_ids"`
	CleaningReportDescription    string             `json:"cleaning_report_description"`
	CleaningReportStatus         model.ReportStatus `json:"cleaning_report_status"`
	CleaningReportResolvedBy     *uuid.UUID         `json:"cleaning_report_resolved_by,omitempty"`
	CleaningReportResolvedAt     *time.Time         `json:"cleaning_report_resolved_at,omitempty"`
	CleaningReportResolutionNote *string            `json:"cleaning_report_resolution_note,omitempty"`
	CleaningReportCreatedAt      time.Time          `json:"cleaning_report_created_at"`
}

func ToReportResponse(m model.CleaningReportModel) ReportResponse {
	var ids []uuid.UUID
	_ = json.Unmarshal(m.CleaningReportReportedStudents, &ids)
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ReportResponse{
		CleaningReportID:             m.CleaningReportID,
		CleaningReportTenantID:       m.CleaningReportTenantID,
		CleaningReportScheduleID:     m.CleaningReportScheduleID,
		CleaningReportReporterID:     m.CleaningReportReporterID,
		ReportedStudentIDs:           ids,
		CleaningReportDescription:    m.CleaningReportDescription,
		CleaningReportStatus:         m.CleaningReportStatus,
		CleaningReportResolvedBy:     m.CleaningReportResolvedBy,
		CleaningReportResolvedAt:     m.CleaningReportResolvedAt,
		CleaningReportResolutionNote: m.CleaningReportResolutionNote,
		CleaningReportCreatedAt:      m.CleaningReportCreatedAt,
	}
}
