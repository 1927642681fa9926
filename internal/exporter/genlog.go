package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// genLogHeader is the column set of the resume generation log. The
// exporter carries these columns verbatim into the merged export.
var genLogHeader = []string{
	"pair_id", "full_name", "phone", "address", "email",
	"occupation", "good_fit_occupations", "skills",
	"location", "archetype", "sublocation", "template_name",
}

// GenerationRow is one profile's generation record.
type GenerationRow struct {
	PairID             string
	FullName           string
	Phone              string
	Address            string
	Email              string
	Occupation         string
	GoodFitOccupations string
	Skills             string
	Location           string
	Archetype          string
	Sublocation        *int
	TemplateName       string
}

// GenerationLog is the CSV file accumulating one row per generated
// profile. It is the generation-data source for the merged export;
// appends and reads share a mutex because generation and export are
// both request-driven.
type GenerationLog struct {
	Path string
	mu   sync.Mutex
}

func NewGenerationLog(path string) *GenerationLog {
	return &GenerationLog{Path: path}
}

// Append adds rows to the log, writing the header when the file is new.
func (g *GenerationLog) Append(rows []GenerationRow) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(g.Path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	info, statErr := os.Stat(g.Path)
	writeHeader := statErr != nil || info.Size() == 0

	f, err := os.OpenFile(g.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open generation log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(genLogHeader); err != nil {
			return err
		}
	}
	for _, r := range rows {
		sub := ""
		if r.Sublocation != nil {
			sub = strconv.Itoa(*r.Sublocation)
		}
		record := []string{
			r.PairID, r.FullName, r.Phone, r.Address, r.Email,
			r.Occupation, r.GoodFitOccupations, r.Skills,
			r.Location, r.Archetype, sub, r.TemplateName,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Load reads the whole log keyed by (pair_id, full_name). A missing
// file is an empty log, not an error. Rows are returned as raw
// column→value maps so export columns survive log format additions.
func (g *GenerationLog) Load() (map[GenKey]map[string]string, []string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	f, err := os.Open(g.Path)
	if os.IsNotExist(err) {
		return map[GenKey]map[string]string{}, genLogHeader, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open generation log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read generation log: %w", err)
	}
	if len(records) == 0 {
		return map[GenKey]map[string]string{}, genLogHeader, nil
	}

	header := records[0]
	rows := make(map[GenKey]map[string]string, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows[GenKey{PairID: row["pair_id"], FullName: row["full_name"]}] = row
	}
	return rows, header, nil
}

// GenKey identifies one generation-log row.
type GenKey struct {
	PairID   string
	FullName string
}
