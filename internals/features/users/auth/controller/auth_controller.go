package controller

import (
	"dormku_backend/internals/features/users/auth/dto"
	"dormku_backend/internals/features/users/auth/service"
	helper "dormku_backend/internals/helpers"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
)

const SetupKeyHeader = "X-Setup-Key"

type AuthController struct {
	Svc *service.AuthService
}

func NewAuthController(svc *service.AuthService) *AuthController {
	return &AuthController{Svc: svc}
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ac.Svc.LoginStaff(helper.ReqCtx(c), req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "login successful", out)
}

// POST /api/auth/student/login
func (ac *AuthController) StudentLogin(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ac.Svc.LoginStudent(helper.ReqCtx(c), req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "login successful", out)
}

// POST /api/auth/admin-setup (header X-Setup-Key)
func (ac *AuthController) AdminSetup(c *fiber.Ctx) error {
	var req dto.AdminSetupRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ac.Svc.AdminSetup(helper.ReqCtx(c), c.Get(SetupKeyHeader), req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonCreated(c, "admin created", out)
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	raw := helperAuth.GetRawAccessToken(c, true)
	if err := ac.Svc.Logout(helper.ReqCtx(c), raw); err != nil {
		return helper.JsonServiceError(c, err)
	}
	c.ClearCookie("access_token")
	return helper.JsonOK(c, "logged out", nil)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "me", dto.MeResponse{
		UserID:   p.UserID,
		Kind:     string(p.Kind),
		Role:     p.Role,
		TenantID: p.TenantID,
	})
}
