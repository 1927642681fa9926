package callback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audit-field-study/pairtrack/internal/models"
	"github.com/audit-field-study/pairtrack/internal/testutil"
)

func seedApplication(t *testing.T, svc *CallbackService) models.PairApplication {
	t.Helper()
	pair := testutil.SeedPair(t, svc.DB, "payroll_GA_ab12cd34", "payroll")
	emp := testutil.SeedEmployer(t, svc.DB, "Acme, Inc.")
	app := models.PairApplication{
		PairID:     pair.ID,
		EmployerID: emp.ID,
		Occupation: "Payroll",
		JobTitle:   "Payroll Specialist",
		Status:     models.ApplicationStatusDraft,
	}
	require.NoError(t, svc.DB.Create(&app).Error)
	return app
}

func TestEnsureLogsCreatesOnePerProfile(t *testing.T) {
	svc := NewCallbackService(testutil.OpenDB(t))
	app := seedApplication(t, svc)

	require.NoError(t, svc.EnsureLogs(svc.DB, app.ID))

	var logs []models.CallbackLog
	require.NoError(t, svc.DB.Where("application_id = ?", app.ID).Find(&logs).Error)
	require.Len(t, logs, 2)
	for _, l := range logs {
		assert.Equal(t, models.CallbackStatusNoInfo, l.CallbackStatus)
	}
	assert.NotEqual(t, logs[0].ProfileID, logs[1].ProfileID)
}

func TestEnsureLogsIsIdempotentAndPreservesEdits(t *testing.T) {
	svc := NewCallbackService(testutil.OpenDB(t))
	app := seedApplication(t, svc)

	require.NoError(t, svc.EnsureLogs(svc.DB, app.ID))

	// RA records an outcome on one of the two rows.
	var first models.CallbackLog
	require.NoError(t, svc.DB.Where("application_id = ?", app.ID).Order("profile_id").First(&first).Error)
	first.CallbackStatus = models.CallbackStatusCallback
	first.CallbackMedium = models.CallbackMediumPhone
	first.CallbackNotes = "left voicemail"
	require.NoError(t, svc.DB.Save(&first).Error)

	require.NoError(t, svc.EnsureLogs(svc.DB, app.ID))
	require.NoError(t, svc.EnsureLogs(svc.DB, app.ID))

	var logs []models.CallbackLog
	require.NoError(t, svc.DB.Where("application_id = ?", app.ID).Order("profile_id").Find(&logs).Error)
	require.Len(t, logs, 2, "reruns must not add rows")
	assert.Equal(t, models.CallbackStatusCallback, logs[0].CallbackStatus)
	assert.Equal(t, "left voicemail", logs[0].CallbackNotes)
	assert.Equal(t, models.CallbackStatusNoInfo, logs[1].CallbackStatus)
}

func TestEnsureLogsHealsPartialState(t *testing.T) {
	svc := NewCallbackService(testutil.OpenDB(t))
	app := seedApplication(t, svc)

	require.NoError(t, svc.EnsureLogs(svc.DB, app.ID))
	var victim models.CallbackLog
	require.NoError(t, svc.DB.Where("application_id = ?", app.ID).Order("profile_id DESC").First(&victim).Error)
	require.NoError(t, svc.DB.Delete(&victim).Error)

	require.NoError(t, svc.EnsureLogs(svc.DB, app.ID))

	var count int64
	require.NoError(t, svc.DB.Model(&models.CallbackLog{}).Where("application_id = ?", app.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestEnsureLogsUnknownApplication(t *testing.T) {
	svc := NewCallbackService(testutil.OpenDB(t))
	assert.Error(t, svc.EnsureLogs(svc.DB, 9999))
}

func TestSummarize(t *testing.T) {
	svc := NewCallbackService(testutil.OpenDB(t))

	tests := []struct {
		name string
		logs []models.CallbackLog
		want string
	}{
		{"no rows", nil, "not initialized"},
		{"one row pending", []models.CallbackLog{{CallbackStatus: models.CallbackStatusNoInfo}}, "—"},
		{"mixed outcomes", []models.CallbackLog{
			{CallbackStatus: models.CallbackStatusCallback},
			{CallbackStatus: models.CallbackStatusRejection},
		}, "✓✗"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := svc.Summarize(tt.logs)
			assert.Equal(t, tt.want, sum.Symbols)
			assert.Equal(t, len(tt.logs) > 0, sum.Initialized)
		})
	}
}
