package helper

import (
	"slices"

	"dormku_backend/internals/constants"
	"dormku_backend/internals/helpers/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PrincipalKind string

const (
	KindStaff   PrincipalKind = "staff"
	KindStudent PrincipalKind = "student"
)

// Principal is the authenticated caller, resolved once per request by the JWT middleware.
type Principal struct {
	Kind     PrincipalKind
	UserID   uuid.UUID
	Role     string
	TenantID *uuid.UUID
}

func (p Principal) IsStaff() bool   { return p.Kind == KindStaff }
func (p Principal) IsStudent() bool { return p.Kind == KindStudent }

func (p Principal) HasRole(roles ...string) bool {
	return slices.Contains(roles, p.Role)
}

// BelongsTo reports whether the principal is bound to tenantID.
func (p Principal) BelongsTo(tenantID uuid.UUID) bool {
	return p.TenantID != nil && *p.TenantID == tenantID
}

// ManagesTenant: manager of exactly this tenant. Admins and unassigned managers fail closed.
func (p Principal) ManagesTenant(tenantID uuid.UUID) bool {
	return p.IsStaff() && p.Role == constants.RoleManager && p.BelongsTo(tenantID)
}

// HandlesFinanceOf: cashier or manager of this tenant.
func (p Principal) HandlesFinanceOf(tenantID uuid.UUID) bool {
	return p.IsStaff() && p.HasRole(constants.FinanceRoles...) && p.BelongsTo(tenantID)
}

// ManagerTenant returns the tenant a manager acts on, or forbidden.
func (p Principal) ManagerTenant() (uuid.UUID, error) {
	if !p.IsStaff() || p.Role != constants.RoleManager || p.TenantID == nil {
		return uuid.Nil, apperror.Forbidden("only a manager assigned to a dormitory may do this")
	}
	return *p.TenantID, nil
}

// FinanceTenant returns the tenant a cashier or manager acts on, or forbidden.
func (p Principal) FinanceTenant() (uuid.UUID, error) {
	if !p.IsStaff() || !p.HasRole(constants.FinanceRoles...) || p.TenantID == nil {
		return uuid.Nil, apperror.Forbidden("only a cashier or manager assigned to a dormitory may do this")
	}
	return *p.TenantID, nil
}

func (p Principal) RequireManagerOf(tenantID uuid.UUID) error {
	if !p.ManagesTenant(tenantID) {
		return apperror.Forbidden("you do not manage this dormitory")
	}
	return nil
}

func (p Principal) RequireFinanceOf(tenantID uuid.UUID) error {
	if !p.HandlesFinanceOf(tenantID) {
		return apperror.Forbidden("you do not handle payments for this dormitory")
	}
	return nil
}

func (p Principal) IsAdmin() bool { return p.IsStaff() && p.Role == constants.RoleAdmin }

func (p Principal) RequireAdmin() error {
	if !p.IsAdmin() {
		return apperror.Forbidden(constants.RoleErrorAdmin("this resource"))
	}
	return nil
}

/* ===== fiber locals ===== */

const (
	LocPrincipal = "principal"
	LocUserID    = "user_id"
	LocRole      = "userRole"
	LocTenantID  = "tenant_id"
)

func StorePrincipal(c *fiber.Ctx, p Principal) {
	c.Locals(LocPrincipal, p)
	c.Locals(LocUserID, p.UserID.String())
	c.Locals(LocRole, p.Role)
	if p.TenantID != nil {
		c.Locals(LocTenantID, p.TenantID.String())
	}
}

func PrincipalFrom(c *fiber.Ctx) (Principal, bool) {
	p, ok := c.Locals(LocPrincipal).(Principal)
	return p, ok
}

// MustPrincipal returns a 401 fiber error when no principal was resolved.
func MustPrincipal(c *fiber.Ctx) (Principal, error) {
	p, ok := PrincipalFrom(c)
	if !ok {
		return Principal{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return p, nil
}
