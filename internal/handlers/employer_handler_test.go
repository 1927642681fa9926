package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/audit-field-study/pairtrack/internal/models"
	"github.com/audit-field-study/pairtrack/internal/testutil"
)

func newEmployerApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testutil.OpenDB(t)
	h := NewEmployerHandler(db)

	app := fiber.New()
	app.Get("/api/employers/check", h.Check)
	app.Get("/api/employers", h.List)
	app.Post("/api/employers", h.Create)
	app.Delete("/api/employers/:id", h.Delete)
	return app, db
}

func checkURL(employer, occupation string) string {
	return "/api/employers/check?" + url.Values{
		"employer":   {employer},
		"occupation": {occupation},
	}.Encode()
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestEmployerCheckFlagsExistingApplication(t *testing.T) {
	app, db := newEmployerApp(t)

	pair := testutil.SeedPair(t, db, "payroll_GA_abc12345", "payroll specialist")
	emp := testutil.SeedEmployer(t, db, "Acme, Inc.")
	require.NoError(t, db.Create(&models.PairApplication{
		PairID:     pair.ID,
		EmployerID: emp.ID,
		Occupation: models.DeriveOccupation(pair.Occupation),
	}).Error)

	// Different surface form, same normalized employer.
	resp, err := app.Test(jsonRequest(t, http.MethodGet,
		checkURL("ACME INCORPORATED", "Payroll Specialist"), nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["ok"])
	assert.Contains(t, body["error"], "already exists")
}

func TestEmployerCheckPassesWhenNoApplication(t *testing.T) {
	app, db := newEmployerApp(t)

	testutil.SeedEmployer(t, db, "Acme Inc")

	resp, err := app.Test(jsonRequest(t, http.MethodGet,
		checkURL("Acme Inc", "communications"), nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["ok"])
}

func TestEmployerCheckUnnormalizableNameDoesNotBlock(t *testing.T) {
	app, _ := newEmployerApp(t)

	// A name made entirely of stopwords has no comparable key.
	resp, err := app.Test(jsonRequest(t, http.MethodGet,
		checkURL("The Inc LLC", "payroll specialist"), nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["ok"])
}

func TestCreateEmployerWarnsOnLikelyDuplicate(t *testing.T) {
	app, db := newEmployerApp(t)

	testutil.SeedEmployer(t, db, "Acme Inc")

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/employers", fiber.Map{
		"display_name": "Acme, Incorporated",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Contains(t, body, "warning")

	// Advisory only: both rows exist.
	var count int64
	require.NoError(t, db.Model(&models.Employer{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestDeleteEmployerProtectedByApplications(t *testing.T) {
	app, db := newEmployerApp(t)

	pair := testutil.SeedPair(t, db, "comms_GA_xyz99999", "communications")
	emp := testutil.SeedEmployer(t, db, "Beacon Media")
	require.NoError(t, db.Create(&models.PairApplication{
		PairID:     pair.ID,
		EmployerID: emp.ID,
		Occupation: models.DeriveOccupation(pair.Occupation),
	}).Error)

	resp, err := app.Test(jsonRequest(t, http.MethodDelete,
		fmt.Sprintf("/api/employers/%d", emp.ID), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Employer{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
