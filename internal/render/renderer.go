// Package render turns synthesized resume data into PDF documents.
// Rendering runs through a headless Chromium instance, which is slow
// and stateful; callers go through Worker so only one render is in
// flight at a time.
package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/audit-field-study/pairtrack/internal/generator"
)

// Job carries one resume render request.
type Job struct {
	PairID string
	Resume generator.ResumeData
}

// Renderer renders one resume to PDF bytes. The workflow core depends
// only on this interface; the playwright implementation lives behind
// it.
type Renderer interface {
	Render(ctx context.Context, job Job) ([]byte, error)
	Close() error
}

// PlaywrightRenderer renders HTML resume templates to PDF through a
// long-lived headless Chromium. Not safe for concurrent use; Worker
// serializes access.
type PlaywrightRenderer struct {
	templateDir string
	pw          *playwright.Playwright
	browser     playwright.Browser
}

// NewPlaywrightRenderer starts playwright and launches the browser.
func NewPlaywrightRenderer(templateDir string) (*PlaywrightRenderer, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch chromium: %w", err)
	}
	return &PlaywrightRenderer{templateDir: templateDir, pw: pw, browser: browser}, nil
}

// Render executes the resume template and prints it to PDF.
func (r *PlaywrightRenderer) Render(ctx context.Context, job Job) ([]byte, error) {
	htmlContent, err := r.executeTemplate(job)
	if err != nil {
		return nil, err
	}

	page, err := r.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	defer page.Close()

	if err := page.SetContent(htmlContent, playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		return nil, fmt.Errorf("could not set page content: %w", err)
	}

	pdfBytes, err := page.PDF(playwright.PagePdfOptions{
		Format:          playwright.String("Letter"),
		PrintBackground: playwright.Bool(true),
		Margin: &playwright.Margin{
			Top:    playwright.String("0.75in"),
			Bottom: playwright.String("0.75in"),
			Left:   playwright.String("0.75in"),
			Right:  playwright.String("0.75in"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not generate PDF: %w", err)
	}
	return pdfBytes, nil
}

func (r *PlaywrightRenderer) executeTemplate(job Job) (string, error) {
	path := filepath.Join(r.templateDir, job.Resume.TemplateName)
	funcMap := template.FuncMap{
		"join": strings.Join,
	}
	tmpl, err := template.New(job.Resume.TemplateName).Funcs(funcMap).ParseFiles(path)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any{
		"PairID": job.PairID,
		"Resume": job.Resume,
		"Skills": strings.Split(job.Resume.Skills, ", "),
	}); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// Close shuts down the browser and the playwright driver.
func (r *PlaywrightRenderer) Close() error {
	if r.browser != nil {
		if err := r.browser.Close(); err != nil {
			r.pw.Stop()
			return err
		}
	}
	return r.pw.Stop()
}
