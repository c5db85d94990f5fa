package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ScheduleType string

const (
	ScheduleRoom       ScheduleType = "room"
	ScheduleIndividual ScheduleType = "individual"
)

type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportResolved  ReportStatus = "resolved"
	ReportDismissed ReportStatus = "dismissed"
)

/* ===== schedules ===== */

// CleaningScheduleModel: day_of_week 1 (Monday) .. 7 (Sunday).
type CleaningScheduleModel struct {
	CleaningScheduleID       uuid.UUID    `json:"cleaning_schedule_id" gorm:"type:char(36);primaryKey;column:cleaning_schedule_id"`
	CleaningScheduleTenantID uuid.UUID    `json:"cleaning_schedule_tenant_id" gorm:"type:char(36);not null;index:idx_cleaning_schedules_tenant;column:cleaning_schedule_tenant_id"`
	CleaningScheduleType     ScheduleType `json:"cleaning_schedule_type" gorm:"type:varchar(20);not null;column:cleaning_schedule_type"`
	CleaningScheduleRoomID   *uuid.UUID   `json:"cleaning_schedule_room_id,omitempty" gorm:"type:char(36);uniqueIndex:uq_cleaning_schedules_room_day,priority:1;column:cleaning_schedule_room_id"`
	CleaningScheduleDay      int          `json:"cleaning_schedule_day_of_week" gorm:"not null;uniqueIndex:uq_cleaning_schedules_room_day,priority:2;column:cleaning_schedule_day_of_week"`
	CleaningScheduleNotes    *string      `json:"cleaning_schedule_notes,omitempty" gorm:"type:text;column:cleaning_schedule_notes"`

	CleaningScheduleCreatedAt time.Time `json:"cleaning_schedule_created_at" gorm:"column:cleaning_schedule_created_at;autoCreateTime"`
	CleaningScheduleUpdatedAt time.Time `json:"cleaning_schedule_updated_at" gorm:"column:cleaning_schedule_updated_at;autoUpdateTime"`
}

func (CleaningScheduleModel) TableName() string { return "cleaning_schedules" }

func (m *CleaningScheduleModel) BeforeCreate(tx *gorm.DB) error {
	if m.CleaningScheduleID == uuid.Nil {
		m.CleaningScheduleID = uuid.New()
	}
	return nil
}

type CleaningScheduleStudentModel struct {
	CleaningScheduleStudentScheduleID uuid.UUID `json:"schedule_id" gorm:"type:char(36);primaryKey;column:cleaning_schedule_student_schedule_id"`
	CleaningScheduleStudentStudentID  uuid.UUID `json:"student_id" gorm:"type:char(36);primaryKey;index:idx_cleaning_schedule_students_student;column:cleaning_schedule_student_student_id"`
}

func (CleaningScheduleStudentModel) TableName() string { return "cleaning_schedule_students" }

/* ===== reports ===== */

type CleaningReportModel struct {
	CleaningReportID         uuid.UUID  `json:"cleaning_report_id" gorm:"type:char(36);primaryKey;column:cleaning_report_id"`
	CleaningReportTenantID   uuid.UUID  `json:"cleaning_report_tenant_id" gorm:"type:char(36);not null;index:idx_cleaning_reports_tenant;column:cleaning_report_tenant_id"`
	CleaningReportScheduleID *uuid.UUID `json:"cleaning_report_schedule_id,omitempty" gorm:"type:char(36);column:cleaning_report_schedule_id"`
	CleaningReportReporterID uuid.UUID  `json:"cleaning_report_reporter_id" gorm:"type:char(36);not null;column:cleaning_report_reporter_id"`

	// []string of student ids
	CleaningReportReportedStudents datatypes.JSON `json:"cleaning_report_reported_students" gorm:"not null;column:cleaning_report_reported_students"`
	CleaningReportDescription      string         `json:"cleaning_report_description" gorm:"type:text;not null;column:cleaning_report_description"`

	CleaningReportStatus         ReportStatus `json:"cleaning_report_status" gorm:"type:varchar(20);not null;default:'pending';column:cleaning_report_status"`
	CleaningReportResolvedBy     *uuid.UUID   `json:"cleaning_report_resolved_by,omitempty" gorm:"type:char(36);column:cleaning_report_resolved_by"`
	CleaningReportResolvedAt     *time.Time   `json:"cleaning_report_resolved_at,omitempty" gorm:"column:cleaning_report_resolved_at"`
	CleaningReportResolutionNote *string      `json:"cleaning_report_resolution_note,omitempty" gorm:"type:text;column:cleaning_report_resolution_note"`

	CleaningReportCreatedAt time.Time `json:"cleaning_report_created_at" gorm:"column:cleaning_report_created_at;autoCreateTime"`
	CleaningReportUpdatedAt time.Time `json:"cleaning_report_updated_at" gorm:"column:cleaning_report_updated_at;autoUpdateTime"`
}

func (CleaningReportModel) TableName() string { return "cleaning_reports" }

func (m *CleaningReportModel) BeforeCreate(tx *gorm.DB) error {
	if m.CleaningReportID == uuid.Nil {
		m.CleaningReportID = uuid.New()
	}
	return nil
}
