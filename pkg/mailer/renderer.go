package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sync"
	texttemplate "text/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// Renderer converts local markdown templates into HTML wrapped in a layout.
// Parsed templates and layouts are cached; rendered output never is.
type Renderer struct {
	fs      fs.FS
	md      goldmark.Markdown
	policy  *bluemonday.Policy
	pages   map[string]*parsedPage
	layouts map[string]*template.Template
	pageDir string
	layDir  string
	mu      sync.RWMutex
}

type parsedPage struct {
	tmpl *texttemplate.Template
	meta *Template
}

// Rendered is the output of Renderer.Render.
type Rendered struct {
	Template *Template // Parsed source (frontmatter metadata)
	Subject  string    // Frontmatter subject executed against the data
	HTML     string    // Layout with the converted markdown body
	Text     string    // Executed markdown before HTML conversion
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// SanitizeWith filters the converted markdown through policy before it is
// placed in the layout. Layouts themselves are not filtered.
func SanitizeWith(policy *bluemonday.Policy) RendererOption {
	return func(r *Renderer) {
		r.policy = policy
	}
}

// EmailPolicy allows the markup markdown produces plus inline images and
// tables, and forces links to open in a new window.
func EmailPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowImages()
	p.AllowTables()
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// NewRenderer creates a renderer reading templates from filesystem.
// Empty directories fall back to "." for templates and "layouts" for layouts.
func NewRenderer(filesystem fs.FS, templateDir, layoutDir string, opts ...RendererOption) *Renderer {
	if templateDir == "" {
		templateDir = "."
	}
	if layoutDir == "" {
		layoutDir = "layouts"
	}
	r := &Renderer{
		fs:      filesystem,
		md:      goldmark.New(),
		pages:   make(map[string]*parsedPage),
		layouts: make(map[string]*template.Template),
		pageDir: templateDir,
		layDir:  layoutDir,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render executes template name with data and wraps the result in layout.
func (r *Renderer) Render(layout, name string, data any) (*Rendered, error) {
	page, err := r.page(name)
	if err != nil {
		return nil, err
	}

	var markdown bytes.Buffer
	if err := page.tmpl.Execute(&markdown, data); err != nil {
		return nil, fmt.Errorf("%w: execute %s: %v", ErrRenderFailed, name, err)
	}

	var body bytes.Buffer
	if err := r.md.Convert(markdown.Bytes(), &body); err != nil {
		return nil, fmt.Errorf("%w: convert %s: %v", ErrRenderFailed, name, err)
	}

	content := body.String()
	if r.policy != nil {
		content = r.policy.Sanitize(content)
	}

	lay, err := r.layout(layout)
	if err != nil {
		return nil, err
	}

	var html bytes.Buffer
	if err := lay.Execute(&html, map[string]any{
		"Content":  template.HTML(content), //nolint:gosec // markdown output, filtered when a policy is set
		"Metadata": page.meta.Metadata,
	}); err != nil {
		return nil, fmt.Errorf("%w: execute layout %s: %v", ErrRenderFailed, layout, err)
	}

	subject := ""
	if raw, ok := page.meta.Subject(); ok {
		subject, err = executeText("subject", raw, data)
		if err != nil {
			return nil, err
		}
	}

	return &Rendered{
		Template: page.meta,
		Subject:  subject,
		HTML:     html.String(),
		Text:     markdown.String(),
	}, nil
}

func (r *Renderer) page(name string) (*parsedPage, error) {
	r.mu.RLock()
	p, ok := r.pages[name]
	r.mu.RUnlock()
	if ok {
		return p, nil
	}

	content, err := fs.ReadFile(r.fs, path.Join(r.pageDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err)
	}

	meta, err := ParseTemplate(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	tmpl, err := texttemplate.New(name).Parse(meta.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrRenderFailed, name, err)
	}

	p = &parsedPage{tmpl: tmpl, meta: meta}

	r.mu.Lock()
	r.pages[name] = p
	r.mu.Unlock()

	return p, nil
}

func (r *Renderer) layout(name string) (*template.Template, error) {
	r.mu.RLock()
	t, ok := r.layouts[name]
	r.mu.RUnlock()
	if ok {
		return t, nil
	}

	content, err := fs.ReadFile(r.fs, path.Join(r.layDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayoutNotFound, name, err)
	}

	t, err = template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: parse layout %s: %v", ErrRenderFailed, name, err)
	}

	r.mu.Lock()
	r.layouts[name] = t
	r.mu.Unlock()

	return t, nil
}

func executeText(name, text string, data any) (string, error) {
	tmpl, err := texttemplate.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("%w: parse %s: %v", ErrRenderFailed, name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: execute %s: %v", ErrRenderFailed, name, err)
	}
	return buf.String(), nil
}
