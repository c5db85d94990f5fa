package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "available"
	RoomStatusMaintenance RoomStatus = "maintenance"
)

// RoomModel: room_occupancy always equals the number of active bookings on the room.
type RoomModel struct {
	RoomID       uuid.UUID `json:"room_id" gorm:"type:char(36);primaryKey;column:room_id"`
	RoomTenantID uuid.UUID `json:"room_tenant_id" gorm:"type:char(36);not null;index:idx_rooms_tenant;column:room_tenant_id"`

	RoomNumber           string          `json:"room_number" gorm:"type:varchar(30);not null;column:room_number"`
	RoomType             string          `json:"room_type" gorm:"type:varchar(50);not null;column:room_type"`
	RoomPricePerSemester decimal.Decimal `json:"room_price_per_semester" gorm:"type:numeric(12,2);not null;default:0;column:room_price_per_semester"`
	RoomStatus           RoomStatus      `json:"room_status" gorm:"type:varchar(20);not null;default:'available';column:room_status"`
	RoomMaxCapacity      int             `json:"room_max_capacity" gorm:"not null;default:0;column:room_max_capacity"`
	RoomOccupancy        int             `json:"room_occupancy" gorm:"not null;default:0;column:room_occupancy"`

	RoomCreatedAt  time.Time      `json:"room_created_at" gorm:"column:room_created_at;autoCreateTime"`
	RoomUpdatedAt  time.Time      `json:"room_updated_at" gorm:"column:room_updated_at;autoUpdateTime"`
	RoomArchivedAt gorm.DeletedAt `json:"room_archived_at,omitempty" gorm:"column:room_archived_at;index"`
}

func (RoomModel) TableName() string { return "rooms" }

func (m *RoomModel) BeforeCreate(tx *gorm.DB) error {
	if m.RoomID == uuid.Nil {
		m.RoomID = uuid.New()
	}
	return nil
}

func (m RoomModel) AvailableSlots() int {
	if free := m.RoomMaxCapacity - m.RoomOccupancy; free > 0 {
		return free
	}
	return 0
}
