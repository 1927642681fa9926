package pairgen

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audit-field-study/pairtrack/internal/exporter"
	"github.com/audit-field-study/pairtrack/internal/generator"
	"github.com/audit-field-study/pairtrack/internal/models"
	"github.com/audit-field-study/pairtrack/internal/render"
	"github.com/audit-field-study/pairtrack/internal/testutil"
)

type fakeRenderer struct {
	err   error
	calls int
}

func (f *fakeRenderer) Render(ctx context.Context, job render.Job) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 " + job.Resume.FullName), nil
}

func newService(t *testing.T, renderer resumeRenderer) *PairGenService {
	t.Helper()
	dir := t.TempDir()
	return NewPairGenService(
		testutil.OpenDB(t),
		generator.NewSeeded(generator.DefaultCatalog(), 99),
		renderer,
		exporter.NewGenerationLog(filepath.Join(dir, "resume_pairs_log.csv")),
		dir,
	)
}

func TestGenerateAndStoreCreatesPairWithTwoProfiles(t *testing.T) {
	renderer := &fakeRenderer{}
	svc := newService(t, renderer)

	res, err := svc.GenerateAndStore(context.Background(), "payroll", "GA", "hr_payroll_generalist", nil)
	require.NoError(t, err)
	require.Len(t, res.Profiles, 2)
	assert.Empty(t, res.RenderErrors)
	assert.Equal(t, 2, renderer.calls)
	assert.NotEqual(t, res.Profiles[0].FullName, res.Profiles[1].FullName)

	var pair models.Pair
	require.NoError(t, svc.DB.Preload("Profiles").First(&pair, "pair_id = ?", res.Pair.PairID).Error)
	require.Len(t, pair.Profiles, 2)
	for _, p := range pair.Profiles {
		assert.NotEmpty(t, p.ResumePDF, "successful render attaches the document")
	}

	rows, _, err := svc.GenLog.Load()
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestGenerateAndStoreKeepsRecordsWhenRenderFails(t *testing.T) {
	renderer := &fakeRenderer{err: errors.New("browser unavailable")}
	svc := newService(t, renderer)

	res, err := svc.GenerateAndStore(context.Background(), "communications", "NY", "public_relations_specialist", nil)
	require.NoError(t, err, "render failure must not fail the run")
	require.Len(t, res.Profiles, 2)
	assert.Len(t, res.RenderErrors, 2)

	var count int64
	require.NoError(t, svc.DB.Model(&models.Profile{}).Count(&count).Error)
	assert.EqualValues(t, 2, count, "records persist despite render failure")

	var p models.Profile
	require.NoError(t, svc.DB.First(&p).Error)
	assert.Empty(t, p.ResumePDF)
}

func TestGenerateAndStoreRejectsInvalidSelectorsBeforeWriting(t *testing.T) {
	svc := newService(t, &fakeRenderer{})

	_, err := svc.GenerateAndStore(context.Background(), "payroll", "GA", "brand_content_marketing", nil)
	require.Error(t, err)

	var count int64
	require.NoError(t, svc.DB.Model(&models.Pair{}).Count(&count).Error)
	assert.Zero(t, count, "validation failures must not write")
}
