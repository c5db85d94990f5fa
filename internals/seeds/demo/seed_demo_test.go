package demo

import (
	"testing"

	roomModel "dormku_backend/internals/features/dormitory/rooms/model"
	studentModel "dormku_backend/internals/features/dormitory/students/model"
	userModel "dormku_backend/internals/features/users/users/model"
	"dormku_backend/internals/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDemoIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)

	res, err := SeedDemoFromJSON(db, DefaultData)
	require.NoError(t, err)
	assert.Equal(t, Result{Tenants: 2, Rooms: 5, Staff: 3, Students: 3}, res)

	again, err := SeedDemoFromJSON(db, DefaultData)
	require.NoError(t, err)
	assert.Equal(t, Result{}, again)

	var rooms, users int64
	require.NoError(t, db.Model(&roomModel.RoomModel{}).Count(&rooms).Error)
	require.NoError(t, db.Model(&userModel.UserModel{}).Count(&users).Error)
	assert.EqualValues(t, 5, rooms)
	assert.EqualValues(t, 3, users)

	var withLogin studentModel.StudentModel
	require.NoError(t, db.Where("student_email = ?", "ahmad@dormku.test").First(&withLogin).Error)
	assert.True(t, withLogin.CanLogin())

	var noLogin studentModel.StudentModel
	require.NoError(t, db.Where("student_email = ?", "rizal@dormku.test").First(&noLogin).Error)
	assert.False(t, noLogin.CanLogin())
}

func TestSeedRejectsUnknownStaffRole(t *testing.T) {
	db := testutil.NewDB(t)
	_, err := SeedDemoFromJSON(db, []byte(`{"tenants":[{"name":"X","address":"a","contact":"b","staff":[{"name":"n","email":"n@x.test","password":"password123","role":"admin"}]}]}`))
	require.Error(t, err)

	var n int64
	require.NoError(t, db.Table("tenants").Count(&n).Error)
	assert.Zero(t, n, "transaction rolled back")
}
