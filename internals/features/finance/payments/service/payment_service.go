package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	bookingService "dormku_backend/internals/features/dormitory/bookings/service"
	studentModel "dormku_backend/internals/features/dormitory/students/model"
	"dormku_backend/internals/features/finance/payments/dto"
	"dormku_backend/internals/features/finance/payments/model"
	helper "dormku_backend/internals/helpers"
	"dormku_backend/internals/helpers/apperror"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentService struct {
	DB        *gorm.DB
	Gateway   Gateway // nil when online payment is not configured
	ServerKey string
	Now       func() time.Time
}

func NewPaymentService(db *gorm.DB, gw Gateway, serverKey string) *PaymentService {
	return &PaymentService{DB: db, Gateway: gw, ServerKey: serverKey, Now: time.Now}
}

func (s *PaymentService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *PaymentService) loadStudent(tx *gorm.DB, p helperAuth.Principal, id uuid.UUID) (*studentModel.StudentModel, error) {
	var m studentModel.StudentModel
	if err := tx.Where("student_id = ?", id).First(&m).Error; err != nil {
		return nil, helper.WrapDBError(err, "student")
	}
	if err := p.RequireFinanceOf(m.StudentTenantID); err != nil {
		return nil, err
	}
	return &m, nil
}

func snapshot(st studentModel.StudentModel, active map[uuid.UUID]bookingService.ActiveBooking) model.PaymentRecordModel {
	rec := model.PaymentRecordModel{
		PaymentRecordTenantID:     st.StudentTenantID,
		PaymentRecordStudentID:    st.StudentID,
		PaymentRecordStudentName:  st.StudentName,
		PaymentRecordStudentEmail: st.StudentEmail,
	}
	if b, ok := active[st.StudentID]; ok {
		num := b.RoomNumber
		rec.PaymentRecordRoomNumber = &num
	}
	return rec
}

/* =========================
   Cash payments
   ========================= */

// SetPaymentStatus records a cash payment. unpaid resets amount, date and notes whatever they were.
func (s *PaymentService) SetPaymentStatus(ctx context.Context, p helperAuth.Principal, studentID uuid.UUID, in dto.SetPaymentStatusRequest) (*dto.PaymentStatusResponse, error) {
	in.Normalize()
	status := studentModel.PaymentStatus(in.Status)
	if !status.Valid() {
		return nil, apperror.Field("status", "status must be one of [unpaid partial paid]")
	}
	if status != studentModel.PaymentUnpaid && (in.Amount == nil || !in.Amount.IsPositive()) {
		return nil, apperror.Field("amount", "amount must be greater than 0 for paid or partial")
	}

	now := s.now()
	var (
		st  *studentModel.StudentModel
		rec *model.PaymentRecordModel
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if st, err = s.loadStudent(tx, p, studentID); err != nil {
			return err
		}

		updates := map[string]any{"student_payment_status": status}
		if status == studentModel.PaymentUnpaid {
			updates["student_amount_paid"] = nil
			updates["student_payment_date"] = nil
			updates["student_payment_notes"] = nil
		} else {
			updates["student_amount_paid"] = *in.Amount
			updates["student_payment_date"] = now
			updates["student_payment_notes"] = in.Notes
		}
		if err := tx.Model(&studentModel.StudentModel{}).
			Where("student_id = ?", studentID).
			Updates(updates).Error; err != nil {
			return apperror.Infra("update payment status", err)
		}

		if status != studentModel.PaymentUnpaid {
			active, err := bookingService.ActiveBookingsByStudent(ctx, tx, st.StudentTenantID, st.StudentID)
			if err != nil {
				return err
			}
			r := snapshot(*st, active)
			r.PaymentRecordAmount = *in.Amount
			r.PaymentRecordStatus = string(status)
			r.PaymentRecordMethod = model.MethodCash
			r.PaymentRecordNotes = in.Notes
			r.PaymentRecordRecordedBy = &p.UserID
			r.PaymentRecordRecordedAt = now
			if err := tx.Create(&r).Error; err != nil {
				return apperror.Infra("create payment record", err)
			}
			rec = &r
		}
		return tx.Where("student_id = ?", studentID).First(st).Error
	})
	if err != nil {
		return nil, helper.WrapDBError(err, "student")
	}

	out := &dto.PaymentStatusResponse{
		StudentID:     st.StudentID,
		PaymentStatus: string(st.StudentPaymentStatus),
		PaymentDate:   st.StudentPaymentDate,
		PaymentNotes:  st.StudentPaymentNotes,
		Record:        rec,
	}
	if st.StudentAmountPaid.Valid {
		amt := st.StudentAmountPaid.Decimal
		out.AmountPaid = &amt
	}
	return out, nil
}

// ListBilling lists students holding an active booking with their semester fee and what is still owed.
func (s *PaymentService) ListBilling(ctx context.Context, p helperAuth.Principal) ([]dto.BillingRow, error) {
	tenantID, err := p.FinanceTenant()
	if err != nil {
		return nil, err
	}
	active, err := bookingService.ActiveBookingsByStudent(ctx, s.DB, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BillingRow, 0, len(active))
	if len(active) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(active))
	for id := range active {
		ids = append(ids, id)
	}

	var students []studentModel.StudentModel
	if err := s.DB.WithContext(ctx).
		Where("student_tenant_id = ? AND student_id IN ?", tenantID, ids).
		Order("student_name ASC").
		Find(&students).Error; err != nil {
		return nil, apperror.Infra("list billing students", err)
	}

	for _, st := range students {
		b := active[st.StudentID]
		fee := b.Fee()
		paid := decimal.Zero
		if st.StudentAmountPaid.Valid {
			paid = st.StudentAmountPaid.Decimal
		}
		outstanding := fee.Sub(paid)
		if outstanding.IsNegative() {
			outstanding = decimal.Zero
		}
		out = append(out, dto.BillingRow{
			StudentID:     st.StudentID,
			StudentName:   st.StudentName,
			StudentEmail:  st.StudentEmail,
			PaymentStatus: string(st.StudentPaymentStatus),
			PaymentDate:   st.StudentPaymentDate,
			BookingID:     b.BookingID,
			RoomNumber:    b.RoomNumber,
			SemesterCount: b.BookingSemesterCount,
			Fee:           fee,
			AmountPaid:    paid,
			Outstanding:   outstanding,
		})
	}
	return out, nil
}

/* =========================
   Records
   ========================= */

func (s *PaymentService) ListRecords(ctx context.Context, p helperAuth.Principal, q dto.ListPaymentRecordsQuery) ([]model.PaymentRecordModel, error) {
	tenantID, err := p.FinanceTenant()
	if err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx).Where("payment_record_tenant_id = ?", tenantID)
	if q.StudentID != nil {
		db = db.Where("payment_record_student_id = ?", *q.StudentID)
	}
	if m := strings.TrimSpace(q.Method); m != "" {
		db = db.Where("payment_record_method = ?", m)
	}
	if st := strings.TrimSpace(q.Status); st != "" {
		db = db.Where("payment_record_status = ?", st)
	}
	var rows []model.PaymentRecordModel
	if err := db.Order("payment_record_recorded_at DESC").Find(&rows).Error; err != nil {
		return nil, apperror.Infra("list payment records", err)
	}
	return rows, nil
}

func (s *PaymentService) GetRecord(ctx context.Context, p helperAuth.Principal, id uuid.UUID) (*model.PaymentRecordModel, error) {
	var m model.PaymentRecordModel
	if err := s.DB.WithContext(ctx).Where("payment_record_id = ?", id).First(&m).Error; err != nil {
		return nil, helper.WrapDBError(err, "payment record")
	}
	if err := p.RequireFinanceOf(m.PaymentRecordTenantID); err != nil {
		return nil, err
	}
	return &m, nil
}

/* =========================
   Online payment (Midtrans)
   ========================= */

// CreateCheckout opens a Snap transaction and stores it as a pending record.
func (s *PaymentService) CreateCheckout(ctx context.Context, p helperAuth.Principal, studentID uuid.UUID, in dto.CreateCheckoutRequest) (*dto.CheckoutResponse, error) {
	if s.Gateway == nil {
		return nil, apperror.Validation("online payment is not configured", nil)
	}
	amount := in.Amount.Round(0)
	if !amount.IsPositive() {
		return nil, apperror.Field("amount", "amount must be at least 1")
	}

	st, err := s.loadStudent(s.DB.WithContext(ctx), p, studentID)
	if err != nil {
		return nil, err
	}
	active, err := bookingService.ActiveBookingsByStudent(ctx, s.DB, st.StudentTenantID, st.StudentID)
	if err != nil {
		return nil, err
	}

	orderID := "DORM-" + uuid.NewString()
	item := "Dormitory fee"
	if b, ok := active[st.StudentID]; ok {
		item = "Dormitory fee room " + b.RoomNumber
	}
	token, redirect, err := s.Gateway.CreateCheckout(ctx, CheckoutOrder{
		OrderID:  orderID,
		Amount:   amount,
		ItemName: item,
		Name:     st.StudentName,
		Email:    st.StudentEmail,
		Phone:    st.StudentPhone,
	})
	if err != nil {
		return nil, apperror.Infra("create midtrans transaction", err)
	}

	pending := model.GatewayPending
	rec := snapshot(*st, active)
	rec.PaymentRecordAmount = amount
	rec.PaymentRecordStatus = model.GatewayPending
	rec.PaymentRecordMethod = model.MethodMidtrans
	rec.PaymentRecordGatewayOrderID = &orderID
	rec.PaymentRecordGatewayStatus = &pending
	rec.PaymentRecordRedirectURL = &redirect
	rec.PaymentRecordRecordedBy = &p.UserID
	rec.PaymentRecordRecordedAt = s.now()
	if err := s.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, apperror.Infra("create payment record", err)
	}

	return &dto.CheckoutResponse{
		PaymentRecordID: rec.PaymentRecordID,
		OrderID:         orderID,
		Amount:          amount,
		Token:           token,
		RedirectURL:     redirect,
	}, nil
}

// gatewayOutcome maps a Midtrans transaction status onto a record status; "" means leave it pending.
func gatewayOutcome(n dto.MidtransNotification) (string, bool) {
	switch strings.ToLower(n.TransactionStatus) {
	case "capture":
		if strings.EqualFold(n.FraudStatus, "challenge") {
			return "", true
		}
		return model.GatewayPaid, true
	case "settlement":
		return model.GatewayPaid, true
	case "pending":
		return "", true
	case "expire":
		return model.GatewayExpired, true
	case "cancel", "deny":
		return model.GatewayCanceled, true
	default:
		return "", false
	}
}

// HandleNotification applies a verified Midtrans notification. Replays of a final status change nothing.
func (s *PaymentService) HandleNotification(ctx context.Context, n dto.MidtransNotification) (*dto.NotificationResult, error) {
	res := &dto.NotificationResult{OrderID: n.OrderID}
	if !validSignature(n.SignatureKey, n.OrderID, n.StatusCode, n.GrossAmount, s.ServerKey) {
		s.logEvent(ctx, nil, n, model.GatewayEventRejected, "invalid signature")
		return nil, apperror.Unauthorized("invalid signature")
	}

	outcome, known := gatewayOutcome(n)
	if !known {
		log.Printf("[WARN] midtrans: unknown transaction_status %q for order %s", n.TransactionStatus, n.OrderID)
		s.logEvent(ctx, nil, n, model.GatewayEventIgnored, "unknown transaction status")
		res.Status = "ignored"
		return res, nil
	}

	var rec model.PaymentRecordModel
	eventStatus := model.GatewayEventProcessed
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("payment_record_gateway_order_id = ?", n.OrderID).First(&rec).Error; err != nil {
			return err
		}
		if outcome == "" {
			eventStatus = model.GatewayEventIgnored
			return nil
		}

		upd := tx.Model(&model.PaymentRecordModel{}).
			Where("payment_record_id = ? AND payment_record_gateway_status = ?", rec.PaymentRecordID, model.GatewayPending).
			Updates(map[string]any{
				"payment_record_gateway_status": outcome,
				"payment_record_status":         outcome,
			})
		if upd.Error != nil {
			return apperror.Infra("update payment record", upd.Error)
		}
		if upd.RowsAffected == 0 {
			eventStatus = model.GatewayEventIgnored
			return nil
		}
		rec.PaymentRecordGatewayStatus = &outcome
		rec.PaymentRecordStatus = outcome
		if outcome != model.GatewayPaid {
			return nil
		}
		return s.applyOnlinePayment(ctx, tx, rec)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// acknowledged so the gateway stops retrying
			log.Printf("[WARN] midtrans: no payment record for order %s", n.OrderID)
			s.logEvent(ctx, nil, n, model.GatewayEventIgnored, "payment record not found")
			res.Status = "ignored"
			return res, nil
		}
		s.logEvent(ctx, nil, n, model.GatewayEventReceived, err.Error())
		return nil, helper.WrapDBError(err, "handle midtrans notification")
	}

	s.logEvent(ctx, &rec, n, eventStatus, "")
	if eventStatus == model.GatewayEventProcessed {
		res.Status = "ok"
	} else {
		res.Status = "ignored"
	}
	res.PaymentRecordID = &rec.PaymentRecordID
	if rec.PaymentRecordGatewayStatus != nil {
		res.GatewayStatus = *rec.PaymentRecordGatewayStatus
	}
	return res, nil
}

// applyOnlinePayment adds a settled amount to the student: paid once the running total covers the fee, else partial.
func (s *PaymentService) applyOnlinePayment(ctx context.Context, tx *gorm.DB, rec model.PaymentRecordModel) error {
	var st studentModel.StudentModel
	if err := tx.Where("student_id = ?", rec.PaymentRecordStudentID).First(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[WARN] midtrans: student %s of order %v is archived, payment not applied", rec.PaymentRecordStudentID, rec.PaymentRecordGatewayOrderID)
			return nil
		}
		return apperror.Infra("load student", err)
	}
	active, err := bookingService.ActiveBookingsByStudent(ctx, tx, st.StudentTenantID, st.StudentID)
	if err != nil {
		return err
	}

	total := rec.PaymentRecordAmount
	if st.StudentAmountPaid.Valid {
		total = total.Add(st.StudentAmountPaid.Decimal)
	}
	status := studentModel.PaymentPaid
	if b, ok := active[st.StudentID]; ok && total.LessThan(b.Fee()) {
		status = studentModel.PaymentPartial
	}
	if err := tx.Model(&studentModel.StudentModel{}).
		Where("student_id = ?", st.StudentID).
		Updates(map[string]any{
			"student_payment_status": status,
			"student_amount_paid":    total,
			"student_payment_date":   s.now(),
		}).Error; err != nil {
		return apperror.Infra("apply online payment", err)
	}
	return nil
}

func (s *PaymentService) logEvent(ctx context.Context, rec *model.PaymentRecordModel, n dto.MidtransNotification, status model.GatewayEventStatus, errMsg string) {
	payload, _ := json.Marshal(n)
	ev := model.PaymentGatewayEventModel{
		GatewayEventProvider:          string(model.MethodMidtrans),
		GatewayEventOrderID:           n.OrderID,
		GatewayEventTransactionStatus: n.TransactionStatus,
		GatewayEventPayload:           datatypes.JSON(payload),
		GatewayEventStatus:            status,
		GatewayEventReceivedAt:        s.now(),
	}
	if n.TransactionID != "" {
		tid := n.TransactionID
		ev.GatewayEventTransactionID = &tid
	}
	if errMsg != "" {
		ev.GatewayEventError = &errMsg
	}
	if rec != nil {
		ev.GatewayEventTenantID = &rec.PaymentRecordTenantID
		ev.GatewayEventPaymentRecordID = &rec.PaymentRecordID
	}
	if err := s.DB.WithContext(ctx).Create(&ev).Error; err != nil {
		log.Printf("[WARN] midtrans: log gateway event for order %s: %v", n.OrderID, err)
	}
}

/* =========================
   Archive surface
   ========================= */

func (s *PaymentService) ListArchived(ctx context.Context, tenantID uuid.UUID) ([]model.PaymentRecordModel, error) {
	var rows []model.PaymentRecordModel
	if err := s.DB.WithContext(ctx).Unscoped().
		Where("payment_record_tenant_id = ? AND payment_record_archived_at IS NOT NULL", tenantID).
		Order("payment_record_archived_at DESC").
		Find(&rows).Error; err != nil {
		return nil, apperror.Infra("list archived payment records", err)
	}
	return rows, nil
}

func (s *PaymentService) loadAny(tx *gorm.DB, p helperAuth.Principal, id uuid.UUID) (*model.PaymentRecordModel, error) {
	var m model.PaymentRecordModel
	if err := tx.Unscoped().Where("payment_record_id = ?", id).First(&m).Error; err != nil {
		return nil, helper.WrapDBError(err, "payment record")
	}
	if err := p.RequireManagerOf(m.PaymentRecordTenantID); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *PaymentService) Archive(ctx context.Context, p helperAuth.Principal, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.loadAny(tx, p, id); err != nil {
			return err
		}
		ok, err := helper.ArchiveRow(tx, &model.PaymentRecordModel{}, "payment_record_id", id, "payment_record_archived_at", s.now())
		if err != nil {
			return apperror.Infra("archive payment record", err)
		}
		if !ok {
			return apperror.Conflict("payment record is already archived")
		}
		return nil
	})
}

func (s *PaymentService) Restore(ctx context.Context, p helperAuth.Principal, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.loadAny(tx, p, id); err != nil {
			return err
		}
		ok, err := helper.RestoreRow(tx, &model.PaymentRecordModel{}, "payment_record_id", id, "payment_record_archived_at")
		if err != nil {
			return helper.WrapDBError(err, "payment record")
		}
		if !ok {
			return apperror.Conflict("payment record is not archived")
		}
		return nil
	})
}

func (s *PaymentService) ForceDelete(ctx context.Context, p helperAuth.Principal, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := s.loadAny(tx, p, id)
		if err != nil {
			return err
		}
		if !m.PaymentRecordArchivedAt.Valid {
			return apperror.Conflict("only archived payment records can be deleted permanently")
		}
		if _, err := helper.ForceDeleteRow(tx, &model.PaymentRecordModel{}, "payment_record_id", id, "payment_record_archived_at"); err != nil {
			return helper.WrapDBError(err, "payment record")
		}
		return nil
	})
}
