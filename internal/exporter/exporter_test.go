package exporter

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audit-field-study/pairtrack/internal/models"
	"github.com/audit-field-study/pairtrack/internal/testutil"
)

func newTestLog(t *testing.T) *GenerationLog {
	t.Helper()
	return NewGenerationLog(filepath.Join(t.TempDir(), "resume_pairs_log.csv"))
}

func TestGenerationLogAppendAndLoad(t *testing.T) {
	log := newTestLog(t)
	one := 1

	require.NoError(t, log.Append([]GenerationRow{
		{PairID: "p1", FullName: "Emily Walsh", Occupation: "payroll", Location: "NY", Sublocation: &one},
		{PairID: "p1", FullName: "Lakisha Washington", Occupation: "payroll", Location: "NY", Sublocation: &one},
	}))
	require.NoError(t, log.Append([]GenerationRow{
		{PairID: "p2", FullName: "Greg Baker", Occupation: "communications", Location: "GA"},
	}))

	rows, header, err := log.Load()
	require.NoError(t, err)
	assert.Equal(t, genLogHeader, header)
	require.Len(t, rows, 3)
	assert.Equal(t, "payroll", rows[GenKey{"p1", "Emily Walsh"}]["occupation"])
	assert.Equal(t, "1", rows[GenKey{"p1", "Emily Walsh"}]["sublocation"])
	assert.Equal(t, "", rows[GenKey{"p2", "Greg Baker"}]["sublocation"])
}

func TestGenerationLogMissingFileIsEmpty(t *testing.T) {
	log := newTestLog(t)
	rows, _, err := log.Load()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestExportMergesAllSources(t *testing.T) {
	db := testutil.OpenDB(t)
	log := newTestLog(t)

	pair := testutil.SeedPair(t, db, "payroll_GA_ab12cd34", "payroll")
	emp := testutil.SeedEmployer(t, db, "Acme, Inc.")
	emp.EmployerLocation = "Atlanta, GA"
	emp.Industry = "Manufacturing"
	require.NoError(t, db.Save(&emp).Error)

	app := models.PairApplication{
		PairID:     pair.ID,
		EmployerID: emp.ID,
		Occupation: "Payroll",
		JobTitle:   "Payroll Specialist",
		WorkMode:   models.WorkModeHybrid,
		JobBoard:   models.JobBoardIndeed,
		Status:     models.ApplicationStatusSubmitted,
	}
	require.NoError(t, db.Create(&app).Error)
	require.NoError(t, db.Create(&models.CallbackLog{
		ApplicationID:  app.ID,
		ProfileID:      pair.Profiles[0].ID,
		CallbackStatus: models.CallbackStatusCallback,
		CallbackMedium: models.CallbackMediumPhone,
		CallbackNotes:  "voicemail",
	}).Error)

	require.NoError(t, log.Append([]GenerationRow{
		{PairID: pair.PairID, FullName: pair.Profiles[0].FullName, Occupation: "payroll", Location: "GA"},
		{PairID: pair.PairID, FullName: pair.Profiles[1].FullName, Occupation: "payroll", Location: "GA"},
	}))

	var buf bytes.Buffer
	n, err := NewExporter(db, log).Export(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := records[0]
	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		t.Fatalf("column %s not in header", name)
		return -1
	}

	// First profile has a logged callback, second defaults to empty/false.
	assert.Equal(t, "callback", records[1][col("callback_status")])
	assert.Equal(t, "true", records[1][col("callback_received")])
	assert.Equal(t, "false", records[1][col("callback_rejected")])
	assert.Equal(t, "Acme, Inc.", records[1][col("applied_employer_name")])
	assert.Equal(t, "Payroll Specialist", records[1][col("job_title")])

	assert.Equal(t, "", records[2][col("callback_status")])
	assert.Equal(t, "false", records[2][col("callback_received")])
}

func TestExportSkipsRowsMissingFromGenerationLog(t *testing.T) {
	db := testutil.OpenDB(t)
	log := newTestLog(t)

	pair := testutil.SeedPair(t, db, "comm_NY_11aa22bb", "communications")
	emp := testutil.SeedEmployer(t, db, "Zenith")
	app := models.PairApplication{
		PairID:     pair.ID,
		EmployerID: emp.ID,
		Occupation: "Communications",
		JobTitle:   "Comms Associate",
	}
	require.NoError(t, db.Create(&app).Error)

	// Only one of the two profiles appears in the log.
	require.NoError(t, log.Append([]GenerationRow{
		{PairID: pair.PairID, FullName: pair.Profiles[0].FullName},
	}))

	var buf bytes.Buffer
	n, err := NewExporter(db, log).Export(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "unmatched profile is skipped, not fatal")
}
