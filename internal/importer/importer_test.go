package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audit-field-study/pairtrack/internal/models"
	"github.com/audit-field-study/pairtrack/internal/testutil"
)

const sampleCSV = `pair_id,first_name,last_name,occupation,good fit occupations,professional skills and expertise
p100,Emily,Walsh,payroll,"Payroll Specialist, Administrator","ADP, reconciliation"
p100,Lakisha,Washington,payroll,"Payroll Specialist, Administrator","ADP, reconciliation"
p200,Greg,Baker,communications,"PR Coordinator","Press releases"
`

func TestImportPairsCreatesRecords(t *testing.T) {
	im := NewImporter(testutil.OpenDB(t))

	stats, err := im.ImportPairs(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.PairsCreated)
	assert.Equal(t, 3, stats.ProfilesCreated)
	assert.Zero(t, stats.PairsUpdated)
	assert.Zero(t, stats.RowsSkipped)

	var pair models.Pair
	require.NoError(t, im.DB.Preload("Profiles").First(&pair, "pair_id = ?", "p100").Error)
	require.Len(t, pair.Profiles, 2)
	assert.Equal(t, "payroll", pair.Occupation)
	assert.Equal(t, 1, pair.Profiles[0].ResumeIdx)
	assert.Equal(t, 2, pair.Profiles[1].ResumeIdx)
}

func TestImportPairsIsUpsert(t *testing.T) {
	im := NewImporter(testutil.OpenDB(t))

	_, err := im.ImportPairs(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	// Re-import with one changed skills blob; everything else untouched.
	changed := strings.Replace(sampleCSV, "Press releases", "Press releases, media lists", 1)
	stats, err := im.ImportPairs(strings.NewReader(changed))
	require.NoError(t, err)
	assert.Zero(t, stats.PairsCreated)
	assert.Zero(t, stats.ProfilesCreated)
	assert.Equal(t, 1, stats.ProfilesUpdated)

	var profile models.Profile
	require.NoError(t, im.DB.First(&profile, "full_name = ?", "Greg Baker").Error)
	assert.Equal(t, "Press releases, media lists", profile.Expertise)
}

func TestImportPairsSnakeCaseHeaders(t *testing.T) {
	im := NewImporter(testutil.OpenDB(t))

	csvData := `pair_id,full_name,occupation,good_fit_occupations,skills
p300,Anne Murphy,project_manager,Program Coordinator,Permitting
`
	stats, err := im.ImportPairs(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.PairsCreated)
	assert.Equal(t, 1, stats.ProfilesCreated)
}

func TestImportPairsSkipsBlankRows(t *testing.T) {
	im := NewImporter(testutil.OpenDB(t))

	csvData := `pair_id,full_name,occupation,good_fit_occupations,skills
,Missing Pair,payroll,x,y
p400,,payroll,x,y
p400,Todd Ryan,payroll,x,y
`
	stats, err := im.ImportPairs(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.RowsSkipped)
	assert.Equal(t, 1, stats.ProfilesCreated)
}

func TestImportPairsMissingRequiredColumn(t *testing.T) {
	im := NewImporter(testutil.OpenDB(t))

	_, err := im.ImportPairs(strings.NewReader("occupation,skills\npayroll,x\n"))
	assert.Error(t, err)
}
