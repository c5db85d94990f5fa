package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dormku_backend/internals/features/dormitory/applications/service"
	helperAuth "dormku_backend/internals/helpers/auth"
	"dormku_backend/internals/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success   bool                       `json:"success"`
	Message   string                     `json:"message"`
	ErrorCode string                     `json:"error_code"`
	Errors    map[string][]string        `json:"errors"`
	Data      map[string]json.RawMessage `json:"data"`
}

func decode(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return env
}

func newApp(ctl *ApplicationController, p *helperAuth.Principal) *fiber.App {
	app := fiber.New()
	app.Post("/public/applications", ctl.Submit)
	g := app.Group("/manager", func(c *fiber.Ctx) error {
		if p != nil {
			helperAuth.StorePrincipal(c, *p)
		}
		return c.Next()
	})
	g.Post("/applications/:id/approve", ctl.Approve)
	g.Post("/applications/:id/reject", ctl.Reject)
	return app
}

func TestSubmitAndRejectOverHTTP(t *testing.T) {
	db := testutil.NewDB(t)
	tenant := testutil.Tenant(t, db, "North")
	mgr := testutil.Manager(tenant.TenantID)
	ctl := NewApplicationController(service.NewApplicationService(db))
	app := newApp(ctl, &mgr)

	// validation errors come back keyed by json field
	req := httptest.NewRequest(http.MethodPost, "/public/applications", strings.NewReader(`{"tenant_id":"`+tenant.TenantID.String()+`","name":"","email":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	env := decode(t, resp)
	assert.False(t, env.Success)
	assert.Contains(t, env.Errors, "name")
	assert.Contains(t, env.Errors, "email")

	req = httptest.NewRequest(http.MethodPost, "/public/applications", strings.NewReader(`{"tenant_id":"`+tenant.TenantID.String()+`","name":"Rina","email":"rina@x.io","message":"room please"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	env = decode(t, resp)
	var id uuid.UUID
	require.NoError(t, json.Unmarshal(env.Data["application_id"], &id))

	req = httptest.NewRequest(http.MethodPost, "/manager/applications/"+id.String()+"/reject", strings.NewReader(`{"reason":""}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/manager/applications/"+id.String()+"/reject", strings.NewReader(`{"reason":"full"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/manager/applications/"+id.String()+"/approve", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", decode(t, resp).ErrorCode)
}

func TestApproveWithoutPrincipalIsUnauthorized(t *testing.T) {
	db := testutil.NewDB(t)
	ctl := NewApplicationController(service.NewApplicationService(db))
	app := newApp(ctl, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/manager/applications/"+uuid.NewString()+"/approve", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestApproveWithBadIDIsValidationError(t *testing.T) {
	db := testutil.NewDB(t)
	tenant := testutil.Tenant(t, db, "North")
	mgr := testutil.Manager(tenant.TenantID)
	app := newApp(NewApplicationController(service.NewApplicationService(db)), &mgr)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/manager/applications/not-a-uuid/approve", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}
