package dto

import (
	"strings"
	"time"

	"dormku_backend/internals/features/finance/payments/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

/* ========== REQUESTS ========== */

// SetPaymentStatusRequest: amount is required (> 0) for paid / partial and ignored for unpaid.
type SetPaymentStatusRequest struct {
	Status string           `json:"status" validate:"required,oneof=unpaid partial paid"`
	Amount *decimal.Decimal `json:"amount"`
	Notes  *string          `json:"notes" validate:"omitempty,max=1000"`
}

func (r *SetPaymentStatusRequest) Normalize() {
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	if r.Notes != nil {
		v := strings.TrimSpace(*r.Notes)
		if v == "" {
			r.Notes = nil
		} else {
			r.Notes = &v
		}
	}
}

type CreateCheckoutRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type ListPaymentRecordsQuery struct {
	StudentID *uuid.UUID `query:"-"`
	Method    string     `query:"method" validate:"omitempty,oneof=cash midtrans"`
	Status    string     `query:"status" validate:"omitempty,oneof=paid partial pending expired canceled"`
}

// MidtransNotification is the HTTP notification body; extra fields are ignored.
type MidtransNotification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"`
	TransactionID     string `json:"transaction_id"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
}

/* ========== RESPONSES ========== */

type BillingRow struct {
	StudentID     uuid.UUID       `json:"student_id"`
	StudentName   string          `json:"student_name"`
	StudentEmail  string          `json:"student_email"`
	PaymentStatus string          `json:"payment_status"`
	PaymentDate   *time.Time      `json:"payment_date,omitempty"`
	BookingID     uuid.UUID       `json:"booking_id"`
	RoomNumber    string          `json:"room_number"`
	SemesterCount int             `json:"semester_count"`
	Fee           decimal.Decimal `json:"fee"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Outstanding   decimal.Decimal `json:"outstanding"`
}

type PaymentStatusResponse struct {
	StudentID     uuid.UUID                 `json:"student_id"`
	PaymentStatus string                    `json:"payment_status"`
	AmountPaid    *decimal.Decimal          `json:"amount_paid"`
	PaymentDate   *time.Time                `json:"payment_date"`
	PaymentNotes  *string                   `json:"payment_notes"`
	Record        *model.PaymentRecordModel `json:"record,omitempty"`
}

type CheckoutResponse struct {
	PaymentRecordID uuid.UUID       `json:"payment_record_id"`
	OrderID         string          `json:"order_id"`
	Amount          decimal.Decimal `json:"amount"`
	Token           string          `json:"token"`
	RedirectURL     string          `json:"redirect_url"`
}

type NotificationResult struct {
	Status          string     `json:"status"`
	OrderID         string     `json:"order_id"`
	PaymentRecordID *uuid.UUID `json:"payment_record_id,omitempty"`
	GatewayStatus   string     `json:"gateway_status,omitempty"`
}
