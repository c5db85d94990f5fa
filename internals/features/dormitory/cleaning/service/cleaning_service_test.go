package service

import (
	"context"
	"testing"

	"dormku_backend/internals/features/dormitory/cleaning/dto"
	"dormku_backend/internals/features/dormitory/cleaning/model"
	"dormku_backend/internals/helpers/apperror"
	"dormku_backend/internals/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomScheduleUniquePerWeekday(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCleaningService(db)
	ctx := context.Background()
	tenant := testutil.Tenant(t, db, "North")
	mgr := testutil.Manager(tenant.TenantID)
	room := testutil.Room(t, db, tenant.TenantID, "A-1", 2, 100)

	res, err := svc.CreateSchedule(ctx, mgr, dto.CreateScheduleRequest{Type: "room", RoomID: &room.RoomID, DayOfWeek: 1})
	require.NoError(t, err)
	require.NotNil(t, res.RoomNumber)
	assert.Equal(t, "A-1", *res.RoomNumber)
	assert.Empty(t, res.StudentIDs)

	_, err = svc.CreateSchedule(ctx, mgr, dto.CreateScheduleRequest{Type: "room", RoomID: &room.RoomID, DayOfWeek: 1})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = svc.CreateSchedule(ctx, mgr, dto.CreateScheduleRequest{Type: "room", RoomID: &room.RoomID, DayOfWeek: 3})
	require.NoError(t, err)

	_, err = svc.CreateSchedule(ctx, mgr, dto.CreateScheduleRequest{Type: "room", DayOfWeek: 2})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	list, err := svc.ListSchedules(ctx, mgr, dto.ListSchedulesQuery{Day: 3})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestScheduleRejectsForeignRoomAndStudents(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCleaningService(db)
	ctx := context.Background()
	tenant := testutil.Tenant(t, db, "North")
	other := testutil.Tenant(t, db, "South")
	mgr := testutil.Manager(tenant.TenantID)
	foreignRoom := testutil.Room(t, db, other.TenantID, "Z-1", 2, 100)
	foreignStudent := testutil.Student(t, db, other.TenantID, "z@x.io")

	_, err := svc.CreateSchedule(ctx, mgr, dto.CreateScheduleRequest{Type: "room", RoomID: &foreignRoom.RoomID, DayOfWeek: 1})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = svc.CreateSchedule(ctx, mgr, dto.CreateScheduleRequest{Type: "individual", DayOfWeek: 1, StudentIDs: []uuid.UUID{foreignStudent.StudentID}})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = svc.CreateSchedule(ctx, mgr, dto.CreateScheduleRequest{Type: "individual", DayOfWeek: 1})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestStudentSeesRoomAndIndividualSchedules(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCleaningService(db)
	ctx := context.Background()
	tenant := testutil.Tenant(t, db, "North")
	mgr := testutil.Manager(tenant.TenantID)
	myRoom := testutil.Room(t, db, tenant.TenantID, "A-1", 2, 100)
	otherRoom := testutil.Room(t, db, tenant.TenantID, "A-2", 2, 100)
	me := testutil.Student(t, db, tenant.TenantID, "me@x.io")
	peer := testutil.Student(t, db, tenant.TenantID, "peer@x.io")
	testutil.Booking(t, db, myRoom, me, nil)

	_, err := svc.CreateSchedule(ctx, mgr, dto.CreateScheduleRequest{Type: "room", RoomID: &myRoom.RoomID, DayOfWeek: 2})
	require.NoError(t, err)
	_, err = svc.CreateSchedule(ctx, mgr, dto.CreateScheduleRequest{Type: "room", RoomID: &otherRoom.RoomID, DayOfWeek: 2})
	require.NoError(t, err)
	ind, err := svc.CreateSchedule(ctx, mgr, dto.CreateScheduleRequest{
		Type: "individual", DayOfWeek: 5, StudentIDs: []uuid.UUID{me.StudentID, peer.StudentID, me.StudentID},
	})
	require.NoError(t, err)
	assert.Len(t, ind.StudentIDs, 2)
	_, err = svc.CreateSchedule(ctx, mgr, dto.CreateScheduleRequest{Type: "individual", DayOfWeek: 6, StudentIDs: []uuid.UUID{peer.StudentID}})
	require.NoError(t, err)

	mine, err := svc.StudentSchedules(ctx, testutil.StudentPrincipal(me))
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, 2, mine[0].CleaningScheduleDay)
	assert.Equal(t, model.ScheduleRoom, mine[0].CleaningScheduleType)
	assert.Equal(t, ind.CleaningScheduleID, mine[1].CleaningScheduleID)

	// membership edits are reflected
	onlyPeer := []uuid.UUID{peer.StudentID}
	_, err = svc.UpdateSchedule(ctx, mgr, ind.CleaningScheduleID, dto.UpdateScheduleRequest{StudentIDs: &onlyPeer})
	require.NoError(t, err)
	mine, err = svc.StudentSchedules(ctx, testutil.StudentPrincipal(me))
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = svc.StudentSchedules(ctx, mgr)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
}

func TestReportLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCleaningService(db)
	ctx := context.Background()
	tenant := testutil.Tenant(t, db, "North")
	mgr := testutil.Manager(tenant.TenantID)
	reporter := testutil.Student(t, db, tenant.TenantID, "r@x.io")
	lazy := testutil.Student(t, db, tenant.TenantID, "l@x.io")
	me := testutil.StudentPrincipal(reporter)

	_, err := svc.FileReport(ctx, me, dto.FileReportRequest{Description: "dishes"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	rep, err := svc.FileReport(ctx, me, dto.FileReportRequest{ReportedStudentIDs: []uuid.UUID{lazy.StudentID}, Description: "dishes"})
	require.NoError(t, err)
	assert.Equal(t, model.ReportPending, rep.CleaningReportStatus)
	assert.Equal(t, []uuid.UUID{lazy.StudentID}, rep.ReportedStudentIDs)

	mine, err := svc.MyReports(ctx, me)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	pending, err := svc.ListReports(ctx, mgr, dto.ListReportsQuery{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, pending, 1)

	note := "talked to them"
	done, err := svc.ResolveReport(ctx, mgr, rep.CleaningReportID, dto.ResolveReportRequest{Status: "resolved", Note: &note})
	require.NoError(t, err)
	assert.Equal(t, model.ReportResolved, done.CleaningReportStatus)
	require.NotNil(t, done.CleaningReportResolvedBy)
	assert.Equal(t, mgr.UserID, *done.CleaningReportResolvedBy)

	_, err = svc.ResolveReport(ctx, mgr, rep.CleaningReportID, dto.ResolveReportRequest{Status: "dismissed"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	other := testutil.Tenant(t, db, "South")
	_, err = svc.ResolveReport(ctx, testutil.Manager(other.TenantID), rep.CleaningReportID, dto.ResolveReportRequest{Status: "dismissed"})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
}

func TestDeleteScheduleUnlinksReports(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCleaningService(db)
	ctx := context.Background()
	tenant := testutil.Tenant(t, db, "North")
	mgr := testutil.Manager(tenant.TenantID)
	a := testutil.Student(t, db, tenant.TenantID, "a@x.io")
	b := testutil.Student(t, db, tenant.TenantID, "b@x.io")

	sch, err := svc.CreateSchedule(ctx, mgr, dto.CreateScheduleRequest{Type: "individual", DayOfWeek: 4, StudentIDs: []uuid.UUID{a.StudentID}})
	require.NoError(t, err)
	rep, err := svc.FileReport(ctx, testutil.StudentPrincipal(b), dto.FileReportRequest{
		ScheduleID: &sch.CleaningScheduleID, ReportedStudentIDs: []uuid.UUID{a.StudentID}, Description: "skipped",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSchedule(ctx, mgr, sch.CleaningScheduleID))

	var got model.CleaningReportModel
	require.NoError(t, db.Where("cleaning_report_id = ?", rep.CleaningReportID).First(&got).Error)
	assert.Nil(t, got.CleaningReportScheduleID)

	var members int64
	require.NoError(t, db.Model(&model.CleaningScheduleStudentModel{}).Count(&members).Error)
	assert.Zero(t, members)
}
