package mailservice

import (
	"embed"
	"fmt"
	"html/template"
	"path"
	"strings"
)

//go:embed templates/*
var templateFS embed.FS

// message is a rendered email ready to be handed to the dialer.
type message struct {
	Subject   string
	PlainBody string
	HTMLBody  string
}

func NewTemplate() *Template {
	return &Template{parsed: make(map[string]*template.Template)}
}

func (tp *Template) lookup(name string) (*template.Template, error) {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	if t, ok := tp.parsed[name]; ok {
		return t, nil
	}

	t, err := template.New(name).ParseFS(templateFS, path.Join("templates", name))
	if err != nil {
		return nil, fmt.Errorf("could not parse template %q: %w", name, err)
	}

	if tp.parsed == nil {
		tp.parsed = make(map[string]*template.Template)
	}
	tp.parsed[name] = t

	return t, nil
}

// Render executes the subject, plainBody and htmlBody blocks of the named template file.
func (tp *Template) Render(name string, data any) (*message, error) {
	t, err := tp.lookup(name)
	if err != nil {
		return nil, err
	}

	var msg message
	blocks := []struct {
		name string
		dst  *string
	}{
		{"subject", &msg.Subject},
		{"plainBody", &msg.PlainBody},
		{"htmlBody", &msg.HTMLBody},
	}

	for _, b := range blocks {
		var sb strings.Builder
		if err := t.ExecuteTemplate(&sb, b.name, data); err != nil {
			return nil, fmt.Errorf("could not render %s of %q: %w", b.name, name, err)
		}
		*b.dst = sb.String()
	}

	msg.Subject = strings.TrimSpace(msg.Subject)

	return &msg, nil
}
