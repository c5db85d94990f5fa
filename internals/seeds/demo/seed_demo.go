package demo

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	_ "embed"

	"dormku_backend/internals/constants"
	roomModel "dormku_backend/internals/features/dormitory/rooms/model"
	studentModel "dormku_backend/internals/features/dormitory/students/model"
	tenantModel "dormku_backend/internals/features/dormitory/tenants/model"
	userModel "dormku_backend/internals/features/users/users/model"
	helper "dormku_backend/internals/helpers"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:embed data_demo.json
var DefaultData []byte

type Seed struct {
	Tenants []TenantSeed `json:"tenants"`
}

type TenantSeed struct {
	Name     string        `json:"name"`
	Address  string        `json:"address"`
	Contact  string        `json:"contact"`
	Rooms    []RoomSeed    `json:"rooms"`
	Staff    []StaffSeed   `json:"staff"`
	Students []StudentSeed `json:"students"`
}

type RoomSeed struct {
	Number           string `json:"number"`
	Type             string `json:"type"`
	Capacity         int    `json:"capacity"`
	PricePerSemester int64  `json:"price_per_semester"`
}

type StaffSeed struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type StudentSeed struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Result counts rows inserted; rows that already exist are skipped.
type Result struct {
	Tenants  int
	Rooms    int
	Staff    int
	Students int
}

// SeedDemoFromJSON inserts tenants with their rooms, staff and students. Re-running it is a no-op.
func SeedDemoFromJSON(db *gorm.DB, data []byte) (Result, error) {
	var res Result
	var in Seed
	if err := json.Unmarshal(data, &in); err != nil {
		return res, fmt.Errorf("decode seed data: %w", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, t := range in.Tenants {
			tenant, created, err := seedTenant(tx, t)
			if err != nil {
				return err
			}
			if created {
				res.Tenants++
			}
			for _, r := range t.Rooms {
				ok, err := seedRoom(tx, tenant.TenantID, r)
				if err != nil {
					return err
				}
				if ok {
					res.Rooms++
				}
			}
			for _, u := range t.Staff {
				ok, err := seedStaff(tx, tenant.TenantID, u)
				if err != nil {
					return err
				}
				if ok {
					res.Staff++
				}
			}
			for _, s := range t.Students {
				ok, err := seedStudent(tx, tenant.TenantID, s)
				if err != nil {
					return err
				}
				if ok {
					res.Students++
				}
			}
		}
		return nil
	})
	return res, err
}

func seedTenant(tx *gorm.DB, in TenantSeed) (tenantModel.TenantModel, bool, error) {
	slug := helper.Slugify(in.Name, 160)

	var m tenantModel.TenantModel
	err := tx.Where("tenant_slug = ?", slug).First(&m).Error
	if err == nil {
		log.Printf("[SEED] tenant %q exists, skipped", in.Name)
		return m, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return m, false, err
	}

	m = tenantModel.TenantModel{
		TenantName:          in.Name,
		TenantSlug:          slug,
		TenantAddress:       in.Address,
		TenantContactNumber: in.Contact,
	}
	if err := tx.Create(&m).Error; err != nil {
		return m, false, fmt.Errorf("insert tenant %q: %w", in.Name, err)
	}
	log.Printf("[SEED] tenant %q", in.Name)
	return m, true, nil
}

func seedRoom(tx *gorm.DB, tenantID uuid.UUID, in RoomSeed) (bool, error) {
	var n int64
	if err := tx.Model(&roomModel.RoomModel{}).
		Where("room_tenant_id = ? AND room_number = ?", tenantID, in.Number).
		Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	m := roomModel.RoomModel{
		RoomTenantID:         tenantID,
		RoomNumber:           in.Number,
		RoomType:             in.Type,
		RoomPricePerSemester: decimal.NewFromInt(in.PricePerSemester),
		RoomStatus:           roomModel.RoomStatusAvailable,
		RoomMaxCapacity:      in.Capacity,
	}
	if err := tx.Create(&m).Error; err != nil {
		return false, fmt.Errorf("insert room %s: %w", in.Number, err)
	}
	return true, nil
}

func seedStaff(tx *gorm.DB, tenantID uuid.UUID, in StaffSeed) (bool, error) {
	if in.Role != constants.RoleManager && in.Role != constants.RoleCashier {
		return false, fmt.Errorf("staff %s: role must be manager or cashier", in.Email)
	}
	var n int64
	if err := tx.Model(&userModel.UserModel{}).Where("user_email = ?", in.Email).Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		log.Printf("[SEED] user %s exists, skipped", in.Email)
		return false, nil
	}
	hash, err := helperAuth.HashPassword(in.Password)
	if err != nil {
		return false, fmt.Errorf("hash password for %s: %w", in.Email, err)
	}
	tid := tenantID
	m := userModel.UserModel{
		UserName:     in.Name,
		UserEmail:    in.Email,
		UserPassword: hash,
		UserRole:     in.Role,
		UserIsActive: true,
		UserTenantID: &tid,
	}
	if err := tx.Create(&m).Error; err != nil {
		return false, fmt.Errorf("insert user %s: %w", in.Email, err)
	}
	return true, nil
}

func seedStudent(tx *gorm.DB, tenantID uuid.UUID, in StudentSeed) (bool, error) {
	var n int64
	if err := tx.Model(&studentModel.StudentModel{}).Unscoped().Where("student_email = ?", in.Email).Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	m := studentModel.StudentModel{
		StudentTenantID:       tenantID,
		StudentName:           in.Name,
		StudentEmail:          in.Email,
		StudentPhone:          in.Phone,
		StudentPresenceStatus: studentModel.PresenceIn,
		StudentPaymentStatus:  studentModel.PaymentUnpaid,
	}
	if in.Password != "" {
		hash, err := helperAuth.HashPassword(in.Password)
		if err != nil {
			return false, fmt.Errorf("hash password for %s: %w", in.Email, err)
		}
		m.StudentPasswordHash = &hash
	}
	if err := tx.Create(&m).Error; err != nil {
		return false, fmt.Errorf("insert student %s: %w", in.Email, err)
	}
	return true, nil
}
