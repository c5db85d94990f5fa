package service

import (
	"context"
	"strings"
	"time"

	"dormku_backend/internals/features/dormitory/rooms/dto"
	"dormku_backend/internals/features/dormitory/rooms/model"
	helper "dormku_backend/internals/helpers"
	"dormku_backend/internals/helpers/apperror"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db, Now: time.Now}
}

func (s *RoomService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *RoomService) Create(ctx context.Context, p helperAuth.Principal, in dto.CreateRoomRequest) (*dto.RoomResponse, error) {
	tenantID, err := p.ManagerTenant()
	if err != nil {
		return nil, err
	}
	if in.RoomPricePerSemester.IsNegative() {
		return nil, apperror.Field("room_price_per_semester", "room_price_per_semester must not be negative")
	}
	if in.RoomMaxCapacity == nil || *in.RoomMaxCapacity < 0 {
		return nil, apperror.Field("room_max_capacity", "room_max_capacity must be zero or more")
	}
	status := model.RoomStatusAvailable
	if in.RoomStatus != "" {
		status = model.RoomStatus(in.RoomStatus)
	}

	m := model.RoomModel{
		RoomTenantID:         tenantID,
		RoomNumber:           strings.TrimSpace(in.RoomNumber),
		RoomType:             strings.TrimSpace(in.RoomType),
		RoomPricePerSemester: in.RoomPricePerSemester,
		RoomStatus:           status,
		RoomMaxCapacity:      *in.RoomMaxCapacity,
	}
	if err := s.DB.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, helper.WrapDBError(err, "room number")
	}
	out := dto.ToRoomResponse(m)
	return &out, nil
}

func (s *RoomService) List(ctx context.Context, p helperAuth.Principal, q dto.ListRoomsQuery) ([]dto.RoomResponse, error) {
	tenantID, err := p.ManagerTenant()
	if err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx).Where("room_tenant_id = ?", tenantID)
	if st := strings.TrimSpace(q.Status); st != "" {
		db = db.Where("room_status = ?", st)
	}
	var rows []model.RoomModel
	if err := db.Order("room_number ASC").Find(&rows).Error; err != nil {
		return nil, apperror.Infra("list rooms", err)
	}
	return dto.ToRoomResponses(rows), nil
}

func (s *RoomService) Get(ctx context.Context, p helperAuth.Principal, id uuid.UUID) (*dto.RoomResponse, error) {
	var m model.RoomModel
	if err := s.DB.WithContext(ctx).Where("room_id = ?", id).First(&m).Error; err != nil {
		return nil, helper.WrapDBError(err, "room")
	}
	if err := p.RequireManagerOf(m.RoomTenantID); err != nil {
		return nil, err
	}
	out := dto.ToRoomResponse(m)
	return &out, nil
}

// Update refuses to shrink max_capacity below the current occupancy; the check and the write are one statement.
func (s *RoomService) Update(ctx context.Context, p helperAuth.Principal, id uuid.UUID, in dto.UpdateRoomRequest) (*dto.RoomResponse, error) {
	if in.RoomPricePerSemester != nil && in.RoomPricePerSemester.IsNegative() {
		return nil, apperror.Field("room_price_per_semester", "room_price_per_semester must not be negative")
	}
	if in.RoomMaxCapacity != nil && *in.RoomMaxCapacity < 0 {
		return nil, apperror.Field("room_max_capacity", "room_max_capacity must be zero or more")
	}

	var m model.RoomModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", id).First(&m).Error; err != nil {
			return helper.WrapDBError(err, "room")
		}
		if err := p.RequireManagerOf(m.RoomTenantID); err != nil {
			return err
		}

		updates := map[string]any{}
		if in.RoomNumber != nil {
			updates["room_number"] = strings.TrimSpace(*in.RoomNumber)
		}
		if in.RoomType != nil {
			updates["room_type"] = strings.TrimSpace(*in.RoomType)
		}
		if in.RoomPricePerSemester != nil {
			updates["room_price_per_semester"] = *in.RoomPricePerSemester
		}
		if in.RoomStatus != nil {
			updates["room_status"] = *in.RoomStatus
		}
		if len(updates) == 0 && in.RoomMaxCapacity == nil {
			return nil
		}

		q := tx.Model(&model.RoomModel{}).Where("room_id = ?", id)
		if in.RoomMaxCapacity != nil {
			updates["room_max_capacity"] = *in.RoomMaxCapacity
			q = q.Where("room_occupancy <= ?", *in.RoomMaxCapacity)
		}
		res := q.Updates(updates)
		if res.Error != nil {
			return helper.WrapDBError(res.Error, "room number")
		}
		if err := tx.Where("room_id = ?", id).First(&m).Error; err != nil {
			return apperror.Infra("reload room", err)
		}
		// zero rows can also mean "nothing changed" on mysql
		if res.RowsAffected == 0 && in.RoomMaxCapacity != nil && m.RoomOccupancy > *in.RoomMaxCapacity {
			return apperror.Conflict("max capacity cannot be lower than current occupancy")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToRoomResponse(m)
	return &out, nil
}

/* =========================
   Archive surface
   ========================= */

func (s *RoomService) ListArchived(ctx context.Context, tenantID uuid.UUID) ([]dto.RoomResponse, error) {
	var rows []model.RoomModel
	if err := s.DB.WithContext(ctx).Unscoped().
		Where("room_tenant_id = ? AND room_archived_at IS NOT NULL", tenantID).
		Order("room_archived_at DESC").
		Find(&rows).Error; err != nil {
		return nil, apperror.Infra("list archived rooms", err)
	}
	return dto.ToRoomResponses(rows), nil
}

func (s *RoomService) loadAny(tx *gorm.DB, p helperAuth.Principal, id uuid.UUID) (*model.RoomModel, error) {
	var m model.RoomModel
	if err := tx.Unscoped().Where("room_id = ?", id).First(&m).Error; err != nil {
		return nil, helper.WrapDBError(err, "room")
	}
	if err := p.RequireManagerOf(m.RoomTenantID); err != nil {
		return nil, err
	}
	return &m, nil
}

// Archive is refused while the room still has an active booking.
func (s *RoomService) Archive(ctx context.Context, p helperAuth.Principal, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.loadAny(tx, p, id); err != nil {
			return err
		}
		var active int64
		if err := tx.Table("bookings").
			Where("booking_room_id = ? AND booking_archived_at IS NULL", id).
			Count(&active).Error; err != nil {
			return apperror.Infra("count active bookings", err)
		}
		if active > 0 {
			return apperror.Conflict("room has active bookings")
		}
		ok, err := helper.ArchiveRow(tx, &model.RoomModel{}, "room_id", id, "room_archived_at", s.now())
		if err != nil {
			return apperror.Infra("archive room", err)
		}
		if !ok {
			return apperror.Conflict("room is already archived")
		}
		return nil
	})
}

func (s *RoomService) Restore(ctx context.Context, p helperAuth.Principal, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.loadAny(tx, p, id); err != nil {
			return err
		}
		ok, err := helper.RestoreRow(tx, &model.RoomModel{}, "room_id", id, "room_archived_at")
		if err != nil {
			return helper.WrapDBError(err, "room number")
		}
		if !ok {
			return apperror.Conflict("room is not archived")
		}
		return nil
	})
}

func (s *RoomService) ForceDelete(ctx context.Context, p helperAuth.Principal, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := s.loadAny(tx, p, id)
		if err != nil {
			return err
		}
		if !m.RoomArchivedAt.Valid {
			return apperror.Conflict("only archived rooms can be deleted permanently")
		}
		used, err := helper.Referenced(tx, id,
			helper.Ref{Table: "bookings", Column: "booking_room_id"},
			helper.Ref{Table: "cleaning_schedules", Column: "cleaning_schedule_room_id"},
		)
		if err != nil {
			return apperror.Infra("check room references", err)
		}
		if used {
			return apperror.Conflict("room is still referenced by bookings or cleaning schedules")
		}
		if _, err := helper.ForceDeleteRow(tx, &model.RoomModel{}, "room_id", id, "room_archived_at"); err != nil {
			return helper.WrapDBError(err, "room")
		}
		return nil
	})
}
