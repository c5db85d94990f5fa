package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GatewayEventStatus string

const (
	GatewayEventReceived  GatewayEventStatus = "received"
	GatewayEventProcessed GatewayEventStatus = "processed"
	GatewayEventIgnored   GatewayEventStatus = "ignored"
	GatewayEventRejected  GatewayEventStatus = "rejected"
)

/*
  payment_gateway_events = webhook log
  - one row per notification received, including replays and rejected signatures
  - raw payload kept for debugging / replay
*/

type PaymentGatewayEventModel struct {
	GatewayEventID              uuid.UUID  `json:"gateway_event_id" gorm:"type:char(36);primaryKey;column:gateway_event_id"`
	GatewayEventTenantID        *uuid.UUID `json:"gateway_event_tenant_id,omitempty" gorm:"type:char(36);index:idx_gateway_events_tenant;column:gateway_event_tenant_id"`
	GatewayEventPaymentRecordID *uuid.UUID `json:"gateway_event_payment_record_id,omitempty" gorm:"type:char(36);column:gateway_event_payment_record_id"`

	GatewayEventProvider          string  `json:"gateway_event_provider" gorm:"type:varchar(20);not null;default:'midtrans';column:gateway_event_provider"`
	GatewayEventOrderID           string  `json:"gateway_event_order_id" gorm:"type:varchar(64);not null;index:idx_gateway_events_order;column:gateway_event_order_id"`
	GatewayEventTransactionStatus string  `json:"gateway_event_transaction_status" gorm:"type:varchar(30);not null;column:gateway_event_transaction_status"`
	GatewayEventTransactionID     *string `json:"gateway_event_transaction_id,omitempty" gorm:"type:varchar(64);column:gateway_event_transaction_id"`

	GatewayEventPayload datatypes.JSON     `json:"gateway_event_payload" gorm:"column:gateway_event_payload"`
	GatewayEventStatus  GatewayEventStatus `json:"gateway_event_status" gorm:"type:varchar(20);not null;default:'received';column:gateway_event_status"`
	GatewayEventError   *string            `json:"gateway_event_error,omitempty" gorm:"type:text;column:gateway_event_error"`

	GatewayEventReceivedAt time.Time `json:"gateway_event_received_at" gorm:"not null;column:gateway_event_received_at"`
}

func (PaymentGatewayEventModel) TableName() string {
	return "payment_gateway_events"
}

func (m *PaymentGatewayEventModel) BeforeCreate(tx *gorm.DB) error {
	if m.GatewayEventID == uuid.Nil {
		m.GatewayEventID = uuid.New()
	}
	return nil
}
