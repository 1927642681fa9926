package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/audit-field-study/pairtrack/internal/models"
	"github.com/audit-field-study/pairtrack/internal/testutil"
)

func newPairApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testutil.OpenDB(t)
	h := NewPairHandler(db, nil)

	app := fiber.New()
	app.Get("/api/pairs", h.List)
	app.Get("/api/pairs/:id", h.Get)
	app.Delete("/api/pairs/:id", h.Delete)
	return app, db
}

func TestDeletePairRemovesProfiles(t *testing.T) {
	app, db := newPairApp(t)
	pair := testutil.SeedPair(t, db, "comms_GA_aaa00001", "communications")

	resp, err := app.Test(jsonRequest(t, http.MethodDelete,
		fmt.Sprintf("/api/pairs/%d", pair.ID), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var pairs, profiles int64
	require.NoError(t, db.Model(&models.Pair{}).Count(&pairs).Error)
	require.NoError(t, db.Model(&models.Profile{}).Count(&profiles).Error)
	assert.Zero(t, pairs)
	assert.Zero(t, profiles)
}

func TestDeletePairProtectedByApplications(t *testing.T) {
	app, db := newPairApp(t)
	pair := testutil.SeedPair(t, db, "comms_GA_aaa00002", "communications")
	emp := testutil.SeedEmployer(t, db, "Beacon Media")
	require.NoError(t, db.Create(&models.PairApplication{
		PairID:     pair.ID,
		EmployerID: emp.ID,
		Occupation: models.DeriveOccupation(pair.Occupation),
	}).Error)

	resp, err := app.Test(jsonRequest(t, http.MethodDelete,
		fmt.Sprintf("/api/pairs/%d", pair.ID), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var pairs int64
	require.NoError(t, db.Model(&models.Pair{}).Count(&pairs).Error)
	assert.Equal(t, int64(1), pairs)
}

func TestGetPairNotFound(t *testing.T) {
	app, _ := newPairApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/pairs/42", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
