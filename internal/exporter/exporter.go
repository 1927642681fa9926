// Package exporter produces the merged analysis dataset: one row per
// (application, profile) joining the resume generation log, RA-entered
// application and employer fields, and that profile's callback outcome.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/audit-field-study/pairtrack/internal/models"
)

var applicationColumns = []string{
	"job_title", "job_text", "job_location", "work_mode",
	"job_link", "job_board", "job_board_other", "days_open",
	"application_occupation", "application_status",
	"application_submitted", "application_created", "application_updated",
}

var employerColumns = []string{
	"applied_employer_name", "applied_employer_location",
	"applied_employer_industry", "applied_employer_employees",
	"applied_employer_glassdoor_score", "applied_employer_diversity_score",
	"applied_employer_openings", "applied_employer_mission",
}

var callbackColumns = []string{
	"callback_status", "callback_received", "callback_rejected",
	"callback_date", "callback_medium", "callback_notes",
	"callback_created", "callback_updated",
}

type Exporter struct {
	DB  *gorm.DB
	Log *GenerationLog
}

func NewExporter(db *gorm.DB, log *GenerationLog) *Exporter {
	return &Exporter{DB: db, Log: log}
}

// Export writes the merged CSV to w and returns the number of rows
// written. (application, profile) combinations without a generation-log
// row are skipped, not fatal.
func (e *Exporter) Export(w io.Writer) (int, error) {
	genRows, genHeader, err := e.Log.Load()
	if err != nil {
		return 0, err
	}

	var apps []models.PairApplication
	if err := e.DB.
		Preload("Pair").
		Preload("Pair.Profiles").
		Preload("Employer").
		Preload("Callbacks").
		Order("id").
		Find(&apps).Error; err != nil {
		return 0, fmt.Errorf("load applications: %w", err)
	}

	header := make([]string, 0, len(genHeader)+len(applicationColumns)+len(employerColumns)+len(callbackColumns))
	header = append(header, genHeader...)
	header = append(header, applicationColumns...)
	header = append(header, employerColumns...)
	header = append(header, callbackColumns...)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return 0, err
	}

	written := 0
	for _, app := range apps {
		if app.Pair == nil || app.Employer == nil {
			continue
		}
		callbacksByProfile := make(map[uint]models.CallbackLog, len(app.Callbacks))
		for _, cb := range app.Callbacks {
			callbacksByProfile[cb.ProfileID] = cb
		}

		for _, profile := range app.Pair.Profiles {
			gen, ok := genRows[GenKey{PairID: app.Pair.PairID, FullName: profile.FullName}]
			if !ok {
				continue
			}

			record := make([]string, 0, len(header))
			for _, col := range genHeader {
				record = append(record, gen[col])
			}
			record = append(record, applicationValues(&app)...)
			record = append(record, employerValues(app.Employer)...)
			cb, hasCB := callbacksByProfile[profile.ID]
			record = append(record, callbackValues(cb, hasCB)...)

			if err := cw.Write(record); err != nil {
				return written, err
			}
			written++
		}
	}

	cw.Flush()
	return written, cw.Error()
}

func applicationValues(app *models.PairApplication) []string {
	submitted := ""
	if app.SubmittedAt != nil {
		submitted = app.SubmittedAt.Format("2006-01-02 15:04:05")
	}
	return []string{
		app.JobTitle, app.JobText, app.JobLocation, string(app.WorkMode),
		app.JobLink, string(app.JobBoard), app.JobBoardOther, uintValue(app.DaysOpen),
		app.Occupation, string(app.Status),
		submitted,
		app.CreatedAt.Format("2006-01-02 15:04:05"),
		app.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func employerValues(emp *models.Employer) []string {
	return []string{
		emp.DisplayName, emp.EmployerLocation, emp.Industry,
		uintValue(emp.NumberEmployees),
		floatValue(emp.GlassdoorScore), floatValue(emp.DiversityScore),
		uintValue(emp.OpeningsNumber), emp.MissionStatement,
	}
}

func callbackValues(cb models.CallbackLog, exists bool) []string {
	if !exists {
		return []string{"", "false", "false", "", "", "", "", ""}
	}
	date := ""
	if cb.CallbackDate != nil {
		date = time.Time(*cb.CallbackDate).Format("2006-01-02")
	}
	return []string{
		string(cb.CallbackStatus),
		strconv.FormatBool(cb.CallbackStatus == models.CallbackStatusCallback),
		strconv.FormatBool(cb.CallbackStatus == models.CallbackStatusRejection),
		date,
		string(cb.CallbackMedium),
		cb.CallbackNotes,
		cb.CreatedAt.Format("2006-01-02 15:04:05"),
		cb.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func uintValue(v *uint) string {
	if v == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*v), 10)
}

func floatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
