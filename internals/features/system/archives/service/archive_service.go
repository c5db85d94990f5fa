package service

import (
	"context"
	"strings"

	"dormku_backend/internals/constants"
	bookingSvc "dormku_backend/internals/features/dormitory/bookings/service"
	roomSvc "dormku_backend/internals/features/dormitory/rooms/service"
	studentSvc "dormku_backend/internals/features/dormitory/students/service"
	tenantSvc "dormku_backend/internals/features/dormitory/tenants/service"
	paymentSvc "dormku_backend/internals/features/finance/payments/service"
	"dormku_backend/internals/features/system/archives/dto"
	"dormku_backend/internals/helpers/apperror"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/google/uuid"
)

type Entity string

const (
	EntityTenants        Entity = "tenants"
	EntityRooms          Entity = "rooms"
	EntityStudents       Entity = "students"
	EntityBookings       Entity = "bookings"
	EntityPaymentRecords Entity = "payment-records"
)

var managerEntities = []Entity{EntityRooms, EntityStudents, EntityBookings, EntityPaymentRecords}

// ParseEntity accepts the path/query spelling of an archivable entity.
func ParseEntity(raw string) (Entity, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = strings.ReplaceAll(v, "_", "-")
	switch Entity(v) {
	case EntityTenants, EntityRooms, EntityStudents, EntityBookings, EntityPaymentRecords:
		return Entity(v), nil
	case "dormitories":
		return EntityTenants, nil
	}
	return "", apperror.Field("entity", "entity must be one of tenants, rooms, students, bookings, payment-records")
}

// ArchiveService is the single archive/restore/force-delete surface. Each entity keeps its own
// rules in its feature service; this layer only routes and decides who may see what.
type ArchiveService struct {
	Tenants  *tenantSvc.TenantService
	Rooms    *roomSvc.RoomService
	Students *studentSvc.StudentService
	Bookings *bookingSvc.BookingService
	Payments *paymentSvc.PaymentService
}

func NewArchiveService(
	tenants *tenantSvc.TenantService,
	rooms *roomSvc.RoomService,
	students *studentSvc.StudentService,
	bookings *bookingSvc.BookingService,
	payments *paymentSvc.PaymentService,
) *ArchiveService {
	return &ArchiveService{Tenants: tenants, Rooms: rooms, Students: students, Bookings: bookings, Payments: payments}
}

// Visible lists the entities the principal may manage through the archive surface.
func Visible(p helperAuth.Principal) []Entity {
	switch {
	case p.IsAdmin():
		return []Entity{EntityTenants}
	case p.IsStaff() && p.Role == constants.RoleManager && p.TenantID != nil:
		return managerEntities
	}
	return nil
}

func authorize(p helperAuth.Principal, e Entity) error {
	for _, v := range Visible(p) {
		if v == e {
			return nil
		}
	}
	if e == EntityTenants {
		return apperror.Forbidden(constants.RoleErrorAdmin("archived dormitories"))
	}
	return apperror.Forbidden(constants.RoleErrorManager("archived " + strings.ReplaceAll(string(e), "-", " ")))
}

/* ===== list ===== */

// List returns archived rows of one entity, or of every visible entity when raw is empty.
func (s *ArchiveService) List(ctx context.Context, p helperAuth.Principal, raw string) ([]dto.ArchivedGroup, error) {
	var entities []Entity
	if strings.TrimSpace(raw) == "" {
		entities = Visible(p)
		if len(entities) == 0 {
			return nil, apperror.Forbidden("archive management is limited to admins and managers")
		}
	} else {
		e, err := ParseEntity(raw)
		if err != nil {
			return nil, err
		}
		if err := authorize(p, e); err != nil {
			return nil, err
		}
		entities = []Entity{e}
	}

	out := make([]dto.ArchivedGroup, 0, len(entities))
	for _, e := range entities {
		g, err := s.listOne(ctx, p, e)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func (s *ArchiveService) listOne(ctx context.Context, p helperAuth.Principal, e Entity) (dto.ArchivedGroup, error) {
	g := dto.ArchivedGroup{Entity: string(e)}
	if e == EntityTenants {
		rows, err := s.Tenants.ListArchived(ctx, p)
		if err != nil {
			return g, err
		}
		g.Items, g.Count = rows, len(rows)
		return g, nil
	}

	tenantID, err := p.ManagerTenant()
	if err != nil {
		return g, err
	}
	switch e {
	case EntityRooms:
		rows, err := s.Rooms.ListArchived(ctx, tenantID)
		if err != nil {
			return g, err
		}
		g.Items, g.Count = rows, len(rows)
	case EntityStudents:
		rows, err := s.Students.ListArchived(ctx, tenantID)
		if err != nil {
			return g, err
		}
		g.Items, g.Count = rows, len(rows)
	case EntityBookings:
		rows, err := s.Bookings.ListArchived(ctx, tenantID)
		if err != nil {
			return g, err
		}
		g.Items, g.Count = rows, len(rows)
	case EntityPaymentRecords:
		rows, err := s.Payments.ListArchived(ctx, tenantID)
		if err != nil {
			return g, err
		}
		g.Items, g.Count = rows, len(rows)
	}
	return g, nil
}

/* ===== mutations ===== */

// Archive moves an active row to the archived scope. Bookings answer with the checkout snapshot.
func (s *ArchiveService) Archive(ctx context.Context, p helperAuth.Principal, e Entity, id uuid.UUID) (any, error) {
	if err := authorize(p, e); err != nil {
		return nil, err
	}
	switch e {
	case EntityTenants:
		return nil, s.Tenants.Archive(ctx, p, id)
	case EntityRooms:
		return nil, s.Rooms.Archive(ctx, p, id)
	case EntityStudents:
		return nil, s.Students.Archive(ctx, p, id)
	case EntityBookings:
		return s.Bookings.Archive(ctx, p, id)
	case EntityPaymentRecords:
		return nil, s.Payments.Archive(ctx, p, id)
	}
	return nil, apperror.Validation("unknown entity", nil)
}

// Restore clears archived_at. Bookings go through capacity checks and answer with the booking.
func (s *ArchiveService) Restore(ctx context.Context, p helperAuth.Principal, e Entity, id uuid.UUID) (any, error) {
	if err := authorize(p, e); err != nil {
		return nil, err
	}
	switch e {
	case EntityTenants:
		return nil, s.Tenants.Restore(ctx, p, id)
	case EntityRooms:
		return nil, s.Rooms.Restore(ctx, p, id)
	case EntityStudents:
		return nil, s.Students.Restore(ctx, p, id)
	case EntityBookings:
		return s.Bookings.Restore(ctx, p, id)
	case EntityPaymentRecords:
		return nil, s.Payments.Restore(ctx, p, id)
	}
	return nil, apperror.Validation("unknown entity", nil)
}

// ForceDelete removes an archived row for good.
func (s *ArchiveService) ForceDelete(ctx context.Context, p helperAuth.Principal, e Entity, id uuid.UUID) error {
	if err := authorize(p, e); err != nil {
		return err
	}
	switch e {
	case EntityTenants:
		return s.Tenants.ForceDelete(ctx, p, id)
	case EntityRooms:
		return s.Rooms.ForceDelete(ctx, p, id)
	case EntityStudents:
		return s.Students.ForceDelete(ctx, p, id)
	case EntityBookings:
		return s.Bookings.ForceDelete(ctx, p, id)
	case EntityPaymentRecords:
		return s.Payments.ForceDelete(ctx, p, id)
	}
	return apperror.Validation("unknown entity", nil)
}
