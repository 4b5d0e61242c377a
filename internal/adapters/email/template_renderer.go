package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"

	"invoicedash/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// templateRenderer implements domain.EmailTemplateRenderer from embedded
// template files. Each message name maps to three files parsed once at
// construction: <name>_subject.txt, <name>.html, and <name>.txt.
type templateRenderer struct {
	subjects map[string]*texttemplate.Template
	htmls    map[string]*template.Template
	texts    map[string]*texttemplate.Template
}

// emailTemplates lists the message names the renderer knows about.
var emailTemplates = []string{"receipt", "paid"}

// NewTemplateRenderer returns an EmailTemplateRenderer backed by the embedded
// templates folder. Template files are compiled into the binary, so a parse
// failure here is a build defect and panics.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	r := &templateRenderer{
		subjects: make(map[string]*texttemplate.Template, len(emailTemplates)),
		htmls:    make(map[string]*template.Template, len(emailTemplates)),
		texts:    make(map[string]*texttemplate.Template, len(emailTemplates)),
	}
	for _, name := range emailTemplates {
		r.subjects[name] = texttemplate.Must(texttemplate.New(name).Parse(mustRead(name + "_subject.txt")))
		r.htmls[name] = template.Must(template.New(name).Parse(mustRead(name + ".html")))
		r.texts[name] = texttemplate.Must(texttemplate.New(name).Parse(mustRead(name + ".txt")))
	}
	return r
}

// Render executes the named message templates with data and returns the
// subject line and the html and text bodies.
func (r *templateRenderer) Render(templateName string, data any) (subject, htmlBody, textBody string, err error) {
	subjectTmpl, ok := r.subjects[templateName]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", templateName)
	}

	var buf bytes.Buffer
	if err := subjectTmpl.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("render subject: %w", err)
	}
	subject = strings.TrimSpace(buf.String())

	buf.Reset()
	if err := r.htmls[templateName].Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	htmlBody = buf.String()

	buf.Reset()
	if err := r.texts[templateName].Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}
	textBody = buf.String()

	return subject, htmlBody, textBody, nil
}

func mustRead(name string) string {
	raw, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		panic(fmt.Sprintf("email template %s: %v", name, err))
	}
	return string(raw)
}
