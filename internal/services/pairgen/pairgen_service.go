// Package pairgen orchestrates one generation run: synthesize a pair,
// persist it, render the two resume PDFs, and append the generation
// log. Rendering is a side effect that may fail without rolling back
// the created records.
package pairgen

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/audit-field-study/pairtrack/internal/exporter"
	"github.com/audit-field-study/pairtrack/internal/generator"
	"github.com/audit-field-study/pairtrack/internal/models"
	"github.com/audit-field-study/pairtrack/internal/render"
)

// resumeRenderer is the slice of the render worker this service needs.
type resumeRenderer interface {
	Render(ctx context.Context, job render.Job) ([]byte, error)
}

type PairGenService struct {
	DB        *gorm.DB
	Generator *generator.Generator
	Renderer  resumeRenderer
	GenLog    *exporter.GenerationLog
	MediaRoot string
}

func NewPairGenService(db *gorm.DB, gen *generator.Generator, renderer resumeRenderer, genLog *exporter.GenerationLog, mediaRoot string) *PairGenService {
	return &PairGenService{
		DB:        db,
		Generator: gen,
		Renderer:  renderer,
		GenLog:    genLog,
		MediaRoot: mediaRoot,
	}
}

// Result is one completed generation run. RenderErrors carries
// per-profile render failures; the records exist regardless.
type Result struct {
	Pair         models.Pair
	Profiles     []models.Profile
	FolderPath   string
	RenderErrors []string
}

// GenerateAndStore runs the full pipeline. Selector validation happens
// before any write; record creation is transactional; PDF rendering
// and the generation-log append happen after commit and only degrade
// the result, never undo it.
func (s *PairGenService) GenerateAndStore(ctx context.Context, occupation, location, archetype string, sublocation *int) (*Result, error) {
	pd, err := s.Generator.Generate(occupation, location, archetype, sublocation)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		pair := models.Pair{
			PairID:             pd.PairID,
			Occupation:         pd.Occupation,
			GoodFitOccupations: strings.Join(pd.GoodFitOccupations, ", "),
			Location:           pd.Location,
			Archetype:          pd.Archetype,
			Sublocation:        pd.Sublocation,
		}
		if err := tx.Create(&pair).Error; err != nil {
			return fmt.Errorf("create pair: %w", err)
		}

		for i, resume := range pd.Resumes {
			profile := models.Profile{
				PairID:       pair.ID,
				FullName:     resume.FullName,
				Phone:        resume.Phone,
				Address:      resume.Address,
				Email:        resume.Email,
				Expertise:    resume.Skills,
				TemplateName: resume.TemplateName,
				ResumeIdx:    i + 1,
			}
			if err := tx.Create(&profile).Error; err != nil {
				return fmt.Errorf("create profile %d: %w", i+1, err)
			}
			res.Profiles = append(res.Profiles, profile)
		}

		res.Pair = pair
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.FolderPath = filepath.Join("resumes", pd.PairID)

	for i := range res.Profiles {
		if err := s.renderProfile(ctx, pd, &res.Profiles[i], pd.Resumes[i]); err != nil {
			log.Printf("render failed for %s (%s): %v", res.Profiles[i].FullName, pd.PairID, err)
			res.RenderErrors = append(res.RenderErrors,
				fmt.Sprintf("%s: %v", res.Profiles[i].FullName, err))
		}
	}

	if err := s.appendGenLog(pd); err != nil {
		log.Printf("generation log append failed for %s: %v", pd.PairID, err)
		res.RenderErrors = append(res.RenderErrors, fmt.Sprintf("generation log: %v", err))
	}

	return res, nil
}

func (s *PairGenService) renderProfile(ctx context.Context, pd *generator.PairData, profile *models.Profile, resume generator.ResumeData) error {
	if s.Renderer == nil {
		return fmt.Errorf("no renderer configured")
	}

	pdf, err := s.Renderer.Render(ctx, render.Job{PairID: pd.PairID, Resume: resume})
	if err != nil {
		return err
	}

	rel := filepath.Join("resumes", pd.PairID,
		fmt.Sprintf("%s_%s.pdf", strings.ReplaceAll(resume.FullName, " ", "_"), pd.PairID))
	abs := filepath.Join(s.MediaRoot, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("create resume dir: %w", err)
	}
	if err := os.WriteFile(abs, pdf, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}

	profile.ResumePDF = rel
	return s.DB.Model(&models.Profile{}).Where("id = ?", profile.ID).
		Update("resume_pdf", rel).Error
}

func (s *PairGenService) appendGenLog(pd *generator.PairData) error {
	if s.GenLog == nil {
		return nil
	}
	rows := make([]exporter.GenerationRow, 0, 2)
	for _, resume := range pd.Resumes {
		rows = append(rows, exporter.GenerationRow{
			PairID:             pd.PairID,
			FullName:           resume.FullName,
			Phone:              resume.Phone,
			Address:            resume.Address,
			Email:              resume.Email,
			Occupation:         pd.Occupation,
			GoodFitOccupations: strings.Join(pd.GoodFitOccupations, ", "),
			Skills:             resume.Skills,
			Location:           pd.Location,
			Archetype:          pd.Archetype,
			Sublocation:        pd.Sublocation,
			TemplateName:       resume.TemplateName,
		})
	}
	return s.GenLog.Append(rows)
}
