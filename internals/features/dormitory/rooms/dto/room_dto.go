package dto

import (
	"time"

	"dormku_backend/internals/features/dormitory/rooms/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

/* ========== REQUESTS ========== */

type CreateRoomRequest struct {
	RoomNumber           string          `json:"room_number" validate:"required,max=30,room_number"`
	RoomType             string          `json:"room_type" validate:"required,max=50"`
	RoomPricePerSemester decimal.Decimal `json:"room_price_per_semester"`
	RoomStatus           string          `json:"room_status" validate:"omitempty,oneof=available maintenance"`
	RoomMaxCapacity      *int            `json:"room_max_capacity" validate:"required,min=0"`
}

type UpdateRoomRequest struct {
	RoomNumber           *string          `json:"room_number" validate:"omitempty,max=30,room_number"`
	RoomType             *string          `json:"room_type" validate:"omitempty,max=50"`
	RoomPricePerSemester *decimal.Decimal `json:"room_price_per_semester"`
	RoomStatus           *string          `json:"room_status" validate:"omitempty,oneof=available maintenance"`
	RoomMaxCapacity      *int             `json:"room_max_capacity" validate:"omitempty,min=0"`
}

type ListRoomsQuery struct {
	Status string `query:"status"`
}

/* ========== RESPONSES ========== */

type RoomResponse struct {
	RoomID               uuid.UUID        `json:"room_id"`
	RoomTenantID         uuid.UUID        `json:"room_tenant_id"`
	RoomNumber           string           `json:"room_number"`
	RoomType             string           `json:"room_type"`
	RoomPricePerSemester decimal.Decimal  `json:"room_price_per_semester"`
	RoomStatus           model.RoomStatus `json:"room_status"`
	RoomMaxCapacity      int              `json:"room_max_capacity"`
	RoomOccupancy        int              `json:"room_occupancy"`
	AvailableSlots       int              `json:"available_slots"`
	RoomCreatedAt        time.Time        `json:"room_created_at"`
	RoomUpdatedAt        time.Time        `json:"room_updated_at"`
	RoomArchivedAt       *time.Time       `json:"room_archived_at,omitempty"`
}

func ToRoomResponse(m model.RoomModel) RoomResponse {
	out := RoomResponse{
		RoomID:               m.RoomID,
		RoomTenantID:         m.RoomTenantID,
		RoomNumber:           m.RoomNumber,
		RoomType:             m.RoomType,
		RoomPricePerSemester: m.RoomPricePerSemester,
		RoomStatus:           m.RoomStatus,
		RoomMaxCapacity:      m.RoomMaxCapacity,
		RoomOccupancy:        m.RoomOccupancy,
		AvailableSlots:       m.AvailableSlots(),
		RoomCreatedAt:        m.RoomCreatedAt,
		RoomUpdatedAt:        m.RoomUpdatedAt,
	}
	if m.RoomArchivedAt.Valid {
		t := m.RoomArchivedAt.Time
		out.RoomArchivedAt = &t
	}
	return out
}

func ToRoomResponses(rows []model.RoomModel) []RoomResponse {
	out := make([]RoomResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToRoomResponse(r))
	}
	return out
}
