package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"resume-builder/internal/model"
	"resume-builder/internal/render"
	"resume-builder/pkg/infrastructure"
)

// Prints a sample resume with every template through a real Chrome so the
// layouts can be checked by eye.

func sampleContent() model.Content {
	return model.Content{
		PersonalInfo: model.PersonalInfo{
			Name:     "Test User",
			Email:    "test@example.com",
			Phone:    "+1 (555) 010-2030",
			Address:  "Berlin, Germany",
			Website:  "https://www.example.co.uk/portfolio",
			Summary:  "Backend engineer focused on data pipelines and reliable services.",
			GitHub:   "github.com/testuser",
			LinkedIn: "linkedin.com/in/testuser",
		},
		Experience: []model.Experience{
			{Company: "Acme", Position: "Senior Engineer", Location: "Remote", StartDate: "2021-03-01", Description: "Led the move to an event-driven ingestion pipeline."},
			{Company: "Nimbus Labs", Position: "Engineer", Location: "Berlin", StartDate: "2018-01-01", EndDate: "2021-02-01", Description: "Built internal tooling in Go."},
		},
		Education: []model.Education{
			{Institution: "TU Berlin", Degree: "MSc", FieldOfStudy: "Computer Science", StartDate: "2016-10-01", EndDate: "2018-09-30"},
		},
		Skills: []model.Skill{
			{Name: "Go", Level: 5}, {Name: "PostgreSQL", Level: 4}, {Name: "Kubernetes", Level: 3},
		},
		Projects: []model.Project{
			{Title: "feedwatch", Description: "RSS aggregator with per-user rate limits.", Link: "https://github.com/testuser/feedwatch"},
		},
	}
}

func main() {
	outDir := flag.String("out", filepath.Join("resume-data", "generated"), "directory for the generated PDFs")
	chrome := flag.String("chrome", os.Getenv("CHROME_PATH"), "path to the Chrome binary")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create out dir: %v\n", err)
		os.Exit(2)
	}

	renderer, err := render.NewDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load templates: %v\n", err)
		os.Exit(2)
	}
	printer := infrastructure.NewChromedpRenderer(infrastructure.ChromeConfig{ExecPath: *chrome})

	content := sampleContent()
	failed := false
	for _, v := range render.Variants {
		html, err := renderer.Render(content, v)
		if err != nil {
			fmt.Printf("%s: render failed: %v\n", v, err)
			failed = true
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
		pdf, err := printer.RenderHTMLToPDF(ctx, string(html))
		cancel()
		if err != nil {
			fmt.Printf("%s: print failed: %v\n", v, err)
			failed = true
			continue
		}

		outFile := filepath.Join(*outDir, "resume_"+v.String()+".pdf")
		if err := os.WriteFile(outFile, pdf, 0o644); err != nil {
			fmt.Printf("%s: write failed: %v\n", v, err)
			failed = true
			continue
		}
		fmt.Printf("wrote %s (%d bytes)\n", outFile, len(pdf))
	}
	if failed {
		os.Exit(1)
	}
}
