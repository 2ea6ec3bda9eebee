package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"
	"resume-builder/internal/render"
)

// Renders a stored resume document (as returned by GET /api/resumes/:id)
// to an HTML file without starting the server.
func main() {
	in := flag.String("in", "resume.json", "resume document JSON")
	out := flag.String("out", "resume.html", "output HTML file")
	tpl := flag.String("template", "", "template override: modern, classic or minimal")
	templateDir := flag.String("templates", "", "directory with custom template files")
	flag.Parse()

	b, err := os.ReadFile(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read resume: %v\n", err)
		os.Exit(2)
	}
	if err := model.ValidateDocument(b); err != nil {
		fmt.Fprintf(os.Stderr, "invalid resume: %v\n", err)
		os.Exit(2)
	}
	var r domain.Resume
	if err := json.Unmarshal(b, &r); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal: %v\n", err)
		os.Exit(2)
	}

	var renderer *render.Renderer
	if *templateDir != "" {
		renderer, err = render.New(os.DirFS(*templateDir))
	} else {
		renderer, err = render.NewDefault()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "load templates: %v\n", err)
		os.Exit(2)
	}

	name := r.Template
	if *tpl != "" {
		name = *tpl
	}
	html, err := renderer.RenderTemplate(r.Content.Normalize(), name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(2)
	}
	if err := os.WriteFile(*out, html, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write out: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("wrote %s (%s)\n", *out, render.ParseVariant(name))
}
