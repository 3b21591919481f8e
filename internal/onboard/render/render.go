// Package render turns a merged employee record into a printable document.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"
)

// Document is the flattened, already-decrypted input to a renderer. The
// caller decides what goes in; the renderer never reaches back into storage.
type Document struct {
	DraftID     string
	FullName    string
	Email       string
	Status      string
	SubmittedAt *time.Time
	Sections    map[string]any
}

// Renderer produces the final packet bytes. Implementations choose the
// format; callers treat the output as opaque.
type Renderer interface {
	Render(ctx context.Context, doc Document) ([]byte, error)
}

// HTMLRenderer renders the packet as a standalone HTML page suitable for
// printing or handing to an HTML-to-PDF converter.
type HTMLRenderer struct {
	CompanyName string
}

func (r *HTMLRenderer) Render(_ context.Context, doc Document) ([]byte, error) {
	var buf bytes.Buffer
	err := packetTemplate.Execute(&buf, packetData{
		Company:     r.CompanyName,
		Document:    doc,
		GeneratedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("render packet: %w", err)
	}
	return buf.Bytes(), nil
}

type packetData struct {
	Company     string
	Document    Document
	GeneratedAt time.Time
}

var packetTemplate = template.Must(template.New("packet").Funcs(template.FuncMap{
	"title": func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
	"cell": renderCell,
}).Parse(packetHTML))

// renderCell flattens a section value for display. Maps become label/value
// rows, lists become numbered entries.
func renderCell(v any) template.HTML {
	var b strings.Builder
	writeValue(&b, v)
	return template.HTML(b.String())
}

func writeValue(b *strings.Builder, v any) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("<dl>")
		for _, k := range keys {
			fmt.Fprintf(b, "<dt>%s</dt><dd>", template.HTMLEscapeString(k))
			writeValue(b, t[k])
			b.WriteString("</dd>")
		}
		b.WriteString("</dl>")
	case []any:
		b.WriteString("<ol>")
		for _, item := range t {
			b.WriteString("<li>")
			writeValue(b, item)
			b.WriteString("</li>")
		}
		b.WriteString("</ol>")
	case []json.RawMessage:
		b.WriteString("<ol>")
		for _, raw := range t {
			var item any
			if err := json.Unmarshal(raw, &item); err != nil {
				continue
			}
			b.WriteString("<li>")
			writeValue(b, item)
			b.WriteString("</li>")
		}
		b.WriteString("</ol>")
	case json.RawMessage:
		var item any
		if err := json.Unmarshal(t, &item); err == nil {
			writeValue(b, item)
		}
	default:
		b.WriteString(template.HTMLEscapeString(fmt.Sprintf("%v", t)))
	}
}

const packetHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Onboarding Packet - {{.Document.FullName}}</title>
<style>
body { font-family: Georgia, serif; margin: 2rem auto; max-width: 52rem; color: #222; }
h1 { border-bottom: 2px solid #222; padding-bottom: .3rem; }
h2 { margin-top: 2rem; border-bottom: 1px solid #999; padding-bottom: .2rem; }
dl { display: grid; grid-template-columns: 14rem 1fr; gap: .2rem .8rem; }
dt { font-weight: bold; }
dd { margin: 0; }
footer { margin-top: 3rem; font-size: .8rem; color: #666; }
</style>
</head>
<body>
<h1>{{if .Company}}{{.Company}} &mdash; {{end}}Onboarding Packet</h1>
<dl>
<dt>Name</dt><dd>{{.Document.FullName}}</dd>
<dt>Email</dt><dd>{{.Document.Email}}</dd>
<dt>Record</dt><dd>{{.Document.DraftID}}</dd>
<dt>Status</dt><dd>{{title .Document.Status}}</dd>
{{if .Document.SubmittedAt}}<dt>Submitted</dt><dd>{{.Document.SubmittedAt.Format "2 Jan 2006 15:04 MST"}}</dd>{{end}}
</dl>
{{range $name, $section := .Document.Sections}}
<h2>{{title $name}}</h2>
{{cell $section}}
{{end}}
<footer>Generated {{.GeneratedAt.Format "2 Jan 2006 15:04 MST"}}</footer>
</body>
</html>
`
