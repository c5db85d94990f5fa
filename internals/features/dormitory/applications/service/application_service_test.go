package service

import (
	"context"
	"testing"

	"dormku_backend/internals/features/dormitory/applications/dto"
	"dormku_backend/internals/features/dormitory/applications/model"
	studentModel "dormku_backend/internals/features/dormitory/students/model"
	"dormku_backend/internals/helpers/apperror"
	"dormku_backend/internals/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func submit(t *testing.T, svc *ApplicationService, tenantID uuid.UUID, email string) *model.ApplicationModel {
	t.Helper()
	app, err := svc.Submit(context.Background(), dto.SubmitApplicationRequest{
		TenantID: tenantID, Name: "Rina", Email: email, Phone: "0812", Message: "I would like a room",
	})
	require.NoError(t, err)
	return app
}

func countStudents(t *testing.T, db *gorm.DB, email string) int64 {
	var n int64
	require.NoError(t, db.Unscoped().Model(&studentModel.StudentModel{}).Where("student_email = ?", email).Count(&n).Error)
	return n
}

func TestSubmitRequiresActiveTenant(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewApplicationService(db)
	tenant := testutil.Tenant(t, db, "North")

	app := submit(t, svc, tenant.TenantID, " Rina@X.io ")
	assert.Equal(t, model.ApplicationPending, app.ApplicationStatus)
	assert.Equal(t, "rina@x.io", app.ApplicationEmail)

	require.NoError(t, db.Delete(&tenant).Error)
	_, err := svc.Submit(context.Background(), dto.SubmitApplicationRequest{TenantID: tenant.TenantID, Name: "A", Email: "a@x.io", Message: "hi"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestApproveCreatesExactlyOneStudent(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewApplicationService(db)
	ctx := context.Background()
	tenant := testutil.Tenant(t, db, "North")
	mgr := testutil.Manager(tenant.TenantID)
	app := submit(t, svc, tenant.TenantID, "rina@x.io")

	res, err := svc.Approve(ctx, mgr, app.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationApproved, res.ApplicationStatus)
	require.NotNil(t, res.ApplicationStudentID)
	require.NotNil(t, res.ApplicationProcessedBy)
	assert.Equal(t, mgr.UserID, *res.ApplicationProcessedBy)

	var st studentModel.StudentModel
	require.NoError(t, db.Where("student_id = ?", *res.ApplicationStudentID).First(&st).Error)
	assert.False(t, st.CanLogin())
	assert.Equal(t, studentModel.PresenceIn, st.StudentPresenceStatus)
	assert.Equal(t, studentModel.PaymentUnpaid, st.StudentPaymentStatus)
	assert.Equal(t, tenant.TenantID, st.StudentTenantID)

	_, err = svc.Approve(ctx, mgr, app.ApplicationID)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Contains(t, err.Error(), "already processed")

	_, err = svc.Reject(ctx, mgr, app.ApplicationID, "late")
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	assert.Equal(t, int64(1), countStudents(t, db, "rina@x.io"))
	got, err := svc.Get(ctx, mgr, app.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationApproved, got.ApplicationStatus)
	assert.Nil(t, got.ApplicationRejectionReason)
}

func TestRejectRequiresReason(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewApplicationService(db)
	ctx := context.Background()
	tenant := testutil.Tenant(t, db, "North")
	mgr := testutil.Manager(tenant.TenantID)
	app := submit(t, svc, tenant.TenantID, "rina@x.io")

	_, err := svc.Reject(ctx, mgr, app.ApplicationID, "   ")
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	got, err := svc.Get(ctx, mgr, app.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationPending, got.ApplicationStatus)

	res, err := svc.Reject(ctx, mgr, app.ApplicationID, "no rooms left")
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationRejected, res.ApplicationStatus)
	require.NotNil(t, res.ApplicationRejectionReason)
	assert.Equal(t, "no rooms left", *res.ApplicationRejectionReason)

	_, err = svc.Approve(ctx, mgr, app.ApplicationID)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, int64(0), countStudents(t, db, "rina@x.io"))
}

func TestApproveAuthorizationFailsClosed(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewApplicationService(db)
	ctx := context.Background()
	tenant := testutil.Tenant(t, db, "North")
	other := testutil.Tenant(t, db, "South")
	app := submit(t, svc, tenant.TenantID, "rina@x.io")

	for _, p := range []struct {
		name string
		err  error
	}{
		{"other tenant manager", func() error { _, err := svc.Approve(ctx, testutil.Manager(other.TenantID), app.ApplicationID); return err }()},
		{"admin", func() error { _, err := svc.Approve(ctx, testutil.Admin(), app.ApplicationID); return err }()},
		{"cashier", func() error { _, err := svc.Approve(ctx, testutil.Cashier(tenant.TenantID), app.ApplicationID); return err }()},
	} {
		assert.True(t, apperror.Is(p.err, apperror.KindForbidden), p.name)
	}

	got, err := svc.Get(ctx, testutil.Manager(tenant.TenantID), app.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationPending, got.ApplicationStatus)
	assert.Equal(t, int64(0), countStudents(t, db, "rina@x.io"))
}

func TestApproveEmailCollisionRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewApplicationService(db)
	ctx := context.Background()
	tenant := testutil.Tenant(t, db, "North")
	mgr := testutil.Manager(tenant.TenantID)
	testutil.Student(t, db, tenant.TenantID, "rina@x.io")
	app := submit(t, svc, tenant.TenantID, "rina@x.io")

	_, err := svc.Approve(ctx, mgr, app.ApplicationID)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	got, err := svc.Get(ctx, mgr, app.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationPending, got.ApplicationStatus)
	assert.Nil(t, got.ApplicationProcessedAt)
	assert.Equal(t, int64(1), countStudents(t, db, "rina@x.io"))
}

func TestListFiltersByStatus(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewApplicationService(db)
	ctx := context.Background()
	tenant := testutil.Tenant(t, db, "North")
	mgr := testutil.Manager(tenant.TenantID)
	a := submit(t, svc, tenant.TenantID, "a@x.io")
	submit(t, svc, tenant.TenantID, "b@x.io")
	_, err := svc.Reject(ctx, mgr, a.ApplicationID, "full")
	require.NoError(t, err)

	pending, err := svc.List(ctx, mgr, dto.ListApplicationsQuery{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "b@x.io", pending[0].ApplicationEmail)

	all, err := svc.List(ctx, mgr, dto.ListApplicationsQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
