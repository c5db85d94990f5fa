package constants

import "fmt"

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
	RoleStudent = "student"
)

// Role error templates
const (
	ErrOnlyAdminsCanAccess   = "Only admins may access %s."
	ErrOnlyManagersCanAccess = "Only dormitory managers may access %s."
	ErrOnlyFinanceCanAccess  = "Only cashiers or managers may access %s."
	ErrOnlyStaffCanAccess    = "Only staff members may access %s."
	ErrOnlyStudentsCanAccess = "Only students may access %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorManager(feature string) string {
	return fmt.Sprintf(ErrOnlyManagersCanAccess, feature)
}

func RoleErrorFinance(feature string) string {
	return fmt.Sprintf(ErrOnlyFinanceCanAccess, feature)
}

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

func RoleErrorStudent(feature string) string {
	return fmt.Sprintf(ErrOnlyStudentsCanAccess, feature)
}

// ==========================
// Grouped Role Slices
// ==========================
var (
	StaffRoles = []string{
		RoleAdmin,
		RoleManager,
		RoleCashier,
	}

	// roles that may be assigned through user management
	AssignableRoles = []string{
		RoleManager,
		RoleCashier,
	}

	FinanceRoles = []string{
		RoleCashier,
		RoleManager,
	}

	ArchiveRoles = []string{
		RoleAdmin,
		RoleManager,
	}

	AdminOnly = []string{
		RoleAdmin,
	}

	ManagerOnly = []string{
		RoleManager,
	}

	StudentOnly = []string{
		RoleStudent,
	}
)

// TenantScopedRole reports whether the role must be bound to a dormitory.
func TenantScopedRole(role string) bool {
	return role == RoleManager || role == RoleCashier
}
