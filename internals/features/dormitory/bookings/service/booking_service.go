package service

import (
	"context"
	"errors"
	"log"
	"time"

	"dormku_backend/internals/features/dormitory/bookings/dto"
	"dormku_backend/internals/features/dormitory/bookings/model"
	roomModel "dormku_backend/internals/features/dormitory/rooms/model"
	studentModel "dormku_backend/internals/features/dormitory/students/model"
	tenantModel "dormku_backend/internals/features/dormitory/tenants/model"
	notificationModel "dormku_backend/internals/features/finance/notifications/model"
	helper "dormku_backend/internals/helpers"
	"dormku_backend/internals/helpers/apperror"
	helperAuth "dormku_backend/internals/helpers/auth"
	"dormku_backend/internals/services/email"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BookingService owns room occupancy: every write that changes the set of active bookings goes through it.
type BookingService struct {
	DB          *gorm.DB
	Mailer      email.Mailer
	Now         func() time.Time
	MonthlyRate decimal.Decimal
}

func NewBookingService(db *gorm.DB, mailer email.Mailer, monthlyRate decimal.Decimal) *BookingService {
	return &BookingService{DB: db, Mailer: mailer, Now: time.Now, MonthlyRate: monthlyRate}
}

func (s *BookingService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

/* =========================
   Occupancy primitives (must run inside a transaction)
   ========================= */

// reserveSlot takes one slot on an active room; false means the room is full or archived.
func reserveSlot(tx *gorm.DB, roomID uuid.UUID) (bool, error) {
	res := tx.Model(&roomModel.RoomModel{}).
		Where("room_id = ? AND room_occupancy < room_max_capacity", roomID).
		Update("room_occupancy", gorm.Expr("room_occupancy + 1"))
	if res.Error != nil {
		return false, apperror.Infra("reserve room slot", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func releaseSlot(tx *gorm.DB, roomID uuid.UUID) error {
	err := tx.Unscoped().Model(&roomModel.RoomModel{}).
		Where("room_id = ? AND room_occupancy > 0", roomID).
		Update("room_occupancy", gorm.Expr("room_occupancy - 1")).Error
	if err != nil {
		return apperror.Infra("release room slot", err)
	}
	return nil
}

func hasActiveBooking(tx *gorm.DB, studentID uuid.UUID, exclude *uuid.UUID) (bool, error) {
	q := tx.Model(&model.BookingModel{}).Where("booking_student_id = ?", studentID)
	if exclude != nil {
		q = q.Where("booking_id <> ?", *exclude)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, apperror.Infra("check active booking", err)
	}
	return n > 0, nil
}

// loadBookableRoom: active room of the caller's tenant, not under maintenance.
func loadBookableRoom(tx *gorm.DB, roomID, tenantID uuid.UUID) (*roomModel.RoomModel, error) {
	var room roomModel.RoomModel
	if err := tx.Where("room_id = ?", roomID).First(&room).Error; err != nil {
		return nil, helper.WrapDBError(err, "room")
	}
	if room.RoomTenantID != tenantID {
		return nil, apperror.Forbidden("room belongs to another dormitory")
	}
	if room.RoomStatus == roomModel.RoomStatusMaintenance {
		return nil, apperror.Conflict("room is under maintenance")
	}
	return &room, nil
}

/* =========================
   CREATE
   ========================= */

func (s *BookingService) Create(ctx context.Context, p helperAuth.Principal, in dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	tenantID, err := p.ManagerTenant()
	if err != nil {
		return nil, err
	}
	if in.SemesterCount < model.MinSemesters || in.SemesterCount > model.MaxSemesters {
		return nil, apperror.Field("semester_count", "semester_count must be between 1 and 10")
	}

	var (
		booking model.BookingModel
		room    *roomModel.RoomModel
		student studentModel.StudentModel
	)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", in.StudentID).First(&student).Error; err != nil {
			return helper.WrapDBError(err, "student")
		}
		if student.StudentTenantID != tenantID {
			return apperror.Forbidden("student belongs to another dormitory")
		}

		active, err := hasActiveBooking(tx, student.StudentID, nil)
		if err != nil {
			return err
		}
		if active {
			return apperror.Conflict("student already has an active booking")
		}

		if room, err = loadBookableRoom(tx, in.RoomID, tenantID); err != nil {
			return err
		}

		ok, err := reserveSlot(tx, room.RoomID)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.Conflict("room is full")
		}
		room.RoomOccupancy++

		now := s.now()
		booking = model.BookingModel{
			BookingTenantID:      tenantID,
			BookingStudentID:     student.StudentID,
			BookingRoomID:        room.RoomID,
			BookingSemesterCount: in.SemesterCount,
			BookingBookedAt:      &now,
		}
		if err := tx.Create(&booking).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return apperror.Conflict("student already has an active booking")
			}
			return apperror.Infra("create booking", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sendAssignmentMail(ctx, booking, student, *room)

	out := dto.ToBookingResponse(booking, &student, room)
	return &out, nil
}

// sendAssignmentMail is best-effort; the booking is already committed.
func (s *BookingService) sendAssignmentMail(ctx context.Context, b model.BookingModel, st studentModel.StudentModel, r roomModel.RoomModel) {
	if s.Mailer == nil {
		return
	}
	var tenant tenantModel.TenantModel
	dormName := ""
	if err := s.DB.WithContext(ctx).Unscoped().Where("tenant_id = ?", b.BookingTenantID).First(&tenant).Error; err == nil {
		dormName = tenant.TenantName
	}

	msg := email.RoomAssignmentMessage(email.RoomAssignment{
		StudentName:   st.StudentName,
		StudentEmail:  st.StudentEmail,
		DormName:      dormName,
		RoomNumber:    r.RoomNumber,
		RoomType:      r.RoomType,
		SemesterCount: b.BookingSemesterCount,
		PricePerSem:   r.RoomPricePerSemester.StringFixed(2),
		TotalFee:      SemesterFee(b.BookingSemesterCount, r.RoomPricePerSemester).StringFixed(2),
	})
	if err := s.Mailer.Send(ctx, msg); err != nil {
		log.Printf("[ERROR] room assignment mail for booking %s: %v", b.BookingID, err)
	}
}

/* =========================
   UPDATE
   ========================= */

func (s *BookingService) Update(ctx context.Context, p helperAuth.Principal, id uuid.UUID, in dto.UpdateBookingRequest) (*dto.BookingResponse, error) {
	if in.SemesterCount != nil && (*in.SemesterCount < model.MinSemesters || *in.SemesterCount > model.MaxSemesters) {
		return nil, apperror.Field("semester_count", "semester_count must be between 1 and 10")
	}

	var (
		booking model.BookingModel
		room    roomModel.RoomModel
		student studentModel.StudentModel
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_id = ?", id).First(&booking).Error; err != nil {
			return helper.WrapDBError(err, "booking")
		}
		if err := p.RequireManagerOf(booking.BookingTenantID); err != nil {
			return err
		}

		updates := map[string]any{}
		if in.SemesterCount != nil {
			updates["booking_semester_count"] = *in.SemesterCount
		}

		if in.RoomID != nil && *in.RoomID != booking.BookingRoomID {
			newRoom, err := loadBookableRoom(tx, *in.RoomID, booking.BookingTenantID)
			if err != nil {
				return err
			}
			ok, err := reserveSlot(tx, newRoom.RoomID)
			if err != nil {
				return err
			}
			if !ok {
				return apperror.Conflict("room is full")
			}
			if err := releaseSlot(tx, booking.BookingRoomID); err != nil {
				return err
			}
			updates["booking_room_id"] = newRoom.RoomID
		}

		if len(updates) > 0 {
			if err := tx.Model(&booking).Updates(updates).Error; err != nil {
				return apperror.Infra("update booking", err)
			}
		}

		if err := tx.Where("booking_id = ?", id).First(&booking).Error; err != nil {
			return apperror.Infra("reload booking", err)
		}
		if err := tx.Unscoped().Where("room_id = ?", booking.BookingRoomID).First(&room).Error; err != nil {
			return apperror.Infra("load room", err)
		}
		if err := tx.Unscoped().Where("student_id = ?", booking.BookingStudentID).First(&student).Error; err != nil {
			return apperror.Infra("load student", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToBookingResponse(booking, &student, &room)
	return &out, nil
}

/* =========================
   ARCHIVE (checkout) / RESTORE / FORCE DELETE
   ========================= */

// Archive checks a student out: the stay snapshot, the cashier notification, the archive stamp
// and the occupancy release commit together or not at all.
func (s *BookingService) Archive(ctx context.Context, p helperAuth.Principal, id uuid.UUID) (*dto.CheckoutResponse, error) {
	var (
		booking model.BookingModel
		room    roomModel.RoomModel
		student studentModel.StudentModel
		notif   notificationModel.CashierNotificationModel
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("booking_id = ?", id).First(&booking).Error; err != nil {
			return helper.WrapDBError(err, "booking")
		}
		if err := p.RequireManagerOf(booking.BookingTenantID); err != nil {
			return err
		}
		if !booking.IsActive() {
			return apperror.Conflict("booking is already archived")
		}
		if err := tx.Unscoped().Where("room_id = ?", booking.BookingRoomID).First(&room).Error; err != nil {
			return apperror.Infra("load room", err)
		}
		if err := tx.Unscoped().Where("student_id = ?", booking.BookingStudentID).First(&student).Error; err != nil {
			return apperror.Infra("load student", err)
		}

		now := s.now()
		stay := ComputeStay(booking.BookingBookedAt, now, s.MonthlyRate)

		notif = notificationModel.CashierNotificationModel{
			CashierNotificationTenantID:       booking.BookingTenantID,
			CashierNotificationBookingID:      booking.BookingID,
			CashierNotificationStudentID:      student.StudentID,
			CashierNotificationStudentName:    student.StudentName,
			CashierNotificationRoomNumber:     room.RoomNumber,
			CashierNotificationBookedAt:       booking.BookingBookedAt,
			CashierNotificationCheckedOut:     now,
			CashierNotificationDaysStayed:     stay.Days,
			CashierNotificationMonthsStayed:   stay.Months,
			CashierNotificationMonthlyRate:    stay.MonthlyRate,
			CashierNotificationCalculatedCost: stay.Cost,
		}
		if err := tx.Create(&notif).Error; err != nil {
			return apperror.Infra("create cashier notification", err)
		}

		res := tx.Model(&model.BookingModel{}).
			Where("booking_id = ?", booking.BookingID).
			Update("booking_archived_at", now)
		if res.Error != nil {
			return apperror.Infra("archive booking", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperror.Conflict("booking is already archived")
		}
		if err := releaseSlot(tx, booking.BookingRoomID); err != nil {
			return err
		}
		booking.BookingArchivedAt = gorm.DeletedAt{Time: now, Valid: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.CheckoutResponse{
		Booking:      dto.ToBookingResponse(booking, &student, &room),
		Notification: notif,
	}, nil
}

// Restore re-activates an archived booking if the student is free and the room still has a slot.
func (s *BookingService) Restore(ctx context.Context, p helperAuth.Principal, id uuid.UUID) (*dto.BookingResponse, error) {
	var (
		booking model.BookingModel
		room    roomModel.RoomModel
		student studentModel.StudentModel
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("booking_id = ?", id).First(&booking).Error; err != nil {
			return helper.WrapDBError(err, "booking")
		}
		if err := p.RequireManagerOf(booking.BookingTenantID); err != nil {
			return err
		}
		if booking.IsActive() {
			return apperror.Conflict("booking is not archived")
		}

		if err := tx.Where("student_id = ?", booking.BookingStudentID).First(&student).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.Conflict("student is archived or deleted")
			}
			return apperror.Infra("load student", err)
		}
		active, err := hasActiveBooking(tx, booking.BookingStudentID, &booking.BookingID)
		if err != nil {
			return err
		}
		if active {
			return apperror.Conflict("student already has an active booking")
		}

		if err := tx.Where("room_id = ?", booking.BookingRoomID).First(&room).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.Conflict("room is archived or deleted")
			}
			return apperror.Infra("load room", err)
		}
		ok, err := reserveSlot(tx, room.RoomID)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.Conflict("room is full")
		}
		room.RoomOccupancy++

		err = tx.Unscoped().Model(&model.BookingModel{}).
			Where("booking_id = ?", booking.BookingID).
			Update("booking_archived_at", nil).Error
		if err != nil {
			if helper.IsUniqueViolation(err) {
				return apperror.Conflict("student already has an active booking")
			}
			return apperror.Infra("restore booking", err)
		}
		booking.BookingArchivedAt = gorm.DeletedAt{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToBookingResponse(booking, &student, &room)
	return &out, nil
}

// ForceDelete permanently removes an archived booking.
func (s *BookingService) ForceDelete(ctx context.Context, p helperAuth.Principal, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking model.BookingModel
		if err := tx.Unscoped().Where("booking_id = ?", id).First(&booking).Error; err != nil {
			return helper.WrapDBError(err, "booking")
		}
		if err := p.RequireManagerOf(booking.BookingTenantID); err != nil {
			return err
		}
		if booking.IsActive() {
			return apperror.Conflict("only archived bookings can be deleted permanently")
		}
		if err := tx.Unscoped().Where("booking_id = ?", id).Delete(&model.BookingModel{}).Error; err != nil {
			return apperror.Infra("delete booking", err)
		}
		return nil
	})
}

/* =========================
   READ
   ========================= */

func (s *BookingService) List(ctx context.Context, p helperAuth.Principal) ([]dto.BookingResponse, error) {
	tenantID, err := p.ManagerTenant()
	if err != nil {
		return nil, err
	}
	var rows []model.BookingModel
	if err := s.DB.WithContext(ctx).
		Where("booking_tenant_id = ?", tenantID).
		Order("booking_created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, apperror.Infra("list bookings", err)
	}
	return s.project(ctx, rows)
}

// ListArchived is the archived scope, used by the archive surface.
func (s *BookingService) ListArchived(ctx context.Context, tenantID uuid.UUID) ([]dto.BookingResponse, error) {
	var rows []model.BookingModel
	if err := s.DB.WithContext(ctx).Unscoped().
		Where("booking_tenant_id = ? AND booking_archived_at IS NOT NULL", tenantID).
		Order("booking_archived_at DESC").
		Find(&rows).Error; err != nil {
		return nil, apperror.Infra("list archived bookings", err)
	}
	return s.project(ctx, rows)
}

func (s *BookingService) Get(ctx context.Context, p helperAuth.Principal, id uuid.UUID) (*dto.BookingResponse, error) {
	var b model.BookingModel
	if err := s.DB.WithContext(ctx).Unscoped().Where("booking_id = ?", id).First(&b).Error; err != nil {
		return nil, helper.WrapDBError(err, "booking")
	}
	if err := p.RequireManagerOf(b.BookingTenantID); err != nil {
		return nil, err
	}
	out, err := s.project(ctx, []model.BookingModel{b})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *BookingService) project(ctx context.Context, rows []model.BookingModel) ([]dto.BookingResponse, error) {
	out := make([]dto.BookingResponse, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	studentIDs := make([]uuid.UUID, 0, len(rows))
	roomIDs := make([]uuid.UUID, 0, len(rows))
	for _, b := range rows {
		studentIDs = append(studentIDs, b.BookingStudentID)
		roomIDs = append(roomIDs, b.BookingRoomID)
	}

	var students []studentModel.StudentModel
	if err := s.DB.WithContext(ctx).Unscoped().Where("student_id IN ?", studentIDs).Find(&students).Error; err != nil {
		return nil, apperror.Infra("load students", err)
	}
	var rooms []roomModel.RoomModel
	if err := s.DB.WithContext(ctx).Unscoped().Where("room_id IN ?", roomIDs).Find(&rooms).Error; err != nil {
		return nil, apperror.Infra("load rooms", err)
	}

	studentByID := make(map[uuid.UUID]*studentModel.StudentModel, len(students))
	for i := range students {
		studentByID[students[i].StudentID] = &students[i]
	}
	roomByID := make(map[uuid.UUID]*roomModel.RoomModel, len(rooms))
	for i := range rooms {
		roomByID[rooms[i].RoomID] = &rooms[i]
	}

	for _, b := range rows {
		out = append(out, dto.ToBookingResponse(b, studentByID[b.BookingStudentID], roomByID[b.BookingRoomID]))
	}
	return out, nil
}

/* =========================
   MAINTENANCE
   ========================= */

// RecountOccupancy rebuilds room_occupancy from active bookings. Returns the number of rooms touched.
func (s *BookingService) RecountOccupancy(ctx context.Context, tenantID *uuid.UUID) (int64, error) {
	q := s.DB.WithContext(ctx).Unscoped().Model(&roomModel.RoomModel{})
	if tenantID != nil {
		q = q.Where("room_tenant_id = ?", *tenantID)
	} else {
		q = q.Where("1 = 1")
	}
	res := q.Update("room_occupancy", gorm.Expr(
		"(SELECT COUNT(*) FROM bookings WHERE bookings.booking_room_id = rooms.room_id AND bookings.booking_archived_at IS NULL)",
	))
	if res.Error != nil {
		return 0, apperror.Infra("recount occupancy", res.Error)
	}
	return res.RowsAffected, nil
}
