// Package render turns resume content into a self-contained HTML document
// using one of a fixed set of layouts.
package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"

	"resume-builder/internal/model"
)

//go:embed templates/*.html
var embedded embed.FS

// ErrTemplateMissing is returned by New when a layout file is absent.
var ErrTemplateMissing = errors.New("resume template missing")

// Renderer holds one parsed template per Variant. It is safe for
// concurrent use.
type Renderer struct {
	templates map[Variant]*template.Template
}

// DefaultFS returns the layouts compiled into the binary.
func DefaultFS() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// New parses "<variant>.html" for every Variant from fsys. Every layout must
// be present.
func New(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{templates: make(map[Variant]*template.Template, len(Variants))}
	for _, v := range Variants {
		if _, err := fs.Stat(fsys, v.file()); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrTemplateMissing, v.file())
			}
			return nil, fmt.Errorf("stat template %s: %w", v.file(), err)
		}
		tpl, err := template.ParseFS(fsys, v.file())
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", v.file(), err)
		}
		r.templates[v] = tpl
	}
	return r, nil
}

// NewDefault builds a Renderer over the embedded layouts.
func NewDefault() (*Renderer, error) {
	return New(DefaultFS())
}

// Render executes the layout for v against c. Identical inputs produce
// identical bytes.
func (r *Renderer) Render(c model.Content, v Variant) ([]byte, error) {
	tpl, ok := r.templates[v]
	if !ok {
		tpl = r.templates[Modern]
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, newView(c)); err != nil {
		return nil, fmt.Errorf("render %s: %w", v, err)
	}
	return buf.Bytes(), nil
}

// RenderTemplate is Render with the stored template name resolved through
// ParseVariant.
func (r *Renderer) RenderTemplate(c model.Content, name string) ([]byte, error) {
	return r.Render(c, ParseVariant(name))
}
