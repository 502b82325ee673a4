package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/roasbeef/plexdash/internal/viewmodel"
	plexweb "github.com/roasbeef/plexdash/web"
)

const (
	// pageDashboard is the template set of the dashboard.
	pageDashboard = "dashboard"

	// pageSetupComplete is the template set of the wizard's last step.
	pageSetupComplete = "setup_complete"

	// guideDocument is the markdown shown on the completion page.
	guideDocument = "where_to_find.md"
)

// pageLayouts maps each page to the shell it is rendered in. Every page
// defines "content" and every shell defines "layout", so each page is parsed
// into its own template set.
var pageLayouts = map[string]string{
	pageDashboard:     "layout.html",
	pageSetupComplete: "setup_layout.html",
}

// NavItem is a single entry of the top navigation.
type NavItem struct {
	Href   string
	Label  string
	Active bool
}

// PageData is the root value handed to the templates.
type PageData struct {
	Title string
	Nav   []NavItem

	Dashboard *viewmodel.DashboardView
	Setup     *viewmodel.SetupCompleteView

	// GuideHTML is the pre-rendered "where to find your playlists" guide.
	GuideHTML template.HTML
}

// ComposerOption customizes a Composer.
type ComposerOption func(*composerOptions)

type composerOptions struct {
	markdown goldmark.Markdown
	funcs    template.FuncMap
}

// WithMarkdown overrides the markdown renderer used for guide content.
func WithMarkdown(md goldmark.Markdown) ComposerOption {
	return func(o *composerOptions) {
		o.markdown = md
	}
}

// WithFuncs adds template functions. They must be pure.
func WithFuncs(funcs template.FuncMap) ComposerOption {
	return func(o *composerOptions) {
		for name, f := range funcs {
			o.funcs[name] = f
		}
	}
}

// Composer turns view models into complete HTML documents. Templates and the
// guide are prepared once, after which a Composer is read-only and safe for
// concurrent use.
type Composer struct {
	pages map[string]*template.Template
	guide template.HTML
}

// NewComposer parses the embedded templates and renders the guide content.
func NewComposer(opts ...ComposerOption) (*Composer, error) {
	options := &composerOptions{
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		funcs: template.FuncMap{
			"cliReference": viewmodel.CLIReference,
		},
	}
	for _, opt := range opts {
		opt(options)
	}

	templatesFS, err := plexweb.TemplatesFS()
	if err != nil {
		return nil, fmt.Errorf("templates fs: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageLayouts))
	for page, layout := range pageLayouts {
		tmpl, err := template.New(page).Funcs(options.funcs).ParseFS(
			templatesFS, layout, page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s templates: %w", page, err)
		}
		pages[page] = tmpl
	}

	source, err := plexweb.Content(guideDocument)
	if err != nil {
		return nil, fmt.Errorf("read guide: %w", err)
	}

	var guide bytes.Buffer
	if err := options.markdown.Convert(source, &guide); err != nil {
		return nil, fmt.Errorf("render guide: %w", err)
	}

	return &Composer{
		pages: pages,
		// The guide is our own embedded markdown, not user input.
		guide: template.HTML(guide.String()),
	}, nil
}

// RenderDashboard writes the dashboard document for the given view.
func (c *Composer) RenderDashboard(w io.Writer,
	v *viewmodel.DashboardView) error {

	data := &PageData{
		Title:     "Dashboard",
		Nav:       navItems(v.Page, v.ShowSetupBanner),
		Dashboard: v,
	}

	return c.render(w, pageDashboard, data)
}

// RenderSetupComplete writes the wizard's completion page.
func (c *Composer) RenderSetupComplete(w io.Writer,
	v *viewmodel.SetupCompleteView) error {

	data := &PageData{
		Title:     "Complete",
		Setup:     v,
		GuideHTML: c.guide,
	}

	return c.render(w, pageSetupComplete, data)
}

func (c *Composer) render(w io.Writer, page string, data *PageData) error {
	tmpl, ok := c.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	return nil
}

// navItems builds the top navigation. The setup entry is only offered while
// setup is incomplete.
func navItems(page string, setupIncomplete bool) []NavItem {
	items := []NavItem{
		{Href: "/", Label: "Dashboard", Active: page == pageDashboard},
		{Href: "/playlists", Label: "Playlists", Active: page == "playlists"},
		{Href: "/actions", Label: "Actions", Active: page == "actions"},
		{Href: "/config", Label: "Config", Active: page == "config"},
	}
	if setupIncomplete {
		items = append(items, NavItem{
			Href: "/setup", Label: "Setup", Active: page == "setup",
		})
	}

	return items
}
