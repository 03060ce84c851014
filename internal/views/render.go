// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package views

import (
	"fmt"
	"io"
	"strings"
	"text/template"
)

const cardTemplate = `{{define "card"}}{{.Title}} [{{.ID}}]
  Publisher: {{.Publisher}}
  Producer:  {{.Producer}}
  Genre:     {{.Genre}}
  Rating:    {{.AgeRating}}
  Play:      {{or .PlayURL "-"}} ({{.MIMEType}})
{{- if .People}}
  People:    {{join .People ", "}}
{{- end}}
  Average Rating: {{.AverageLabel}}{{if .RatingsInFlight}} (submitting){{end}}
  Comments ({{len .Comments}}){{if eq .CommentsState "loading"}} loading...{{end}}
{{- if not .Comments}}
    No comments yet
{{- else}}{{range .Comments}}
    {{.Author}}: {{.Text}}
{{- end}}{{end}}
{{end}}`

const pageTemplates = `
{{define "consumer"}}
{{- if .Search}}Search: {{.Search}}
{{end}}
{{- if .Loading}}Loading videos...
{{end}}
{{- if .Error}}{{.Error}}{{if .RetryPending}} (retrying){{end}}
{{end}}
{{- range .Cards}}
{{template "card" .}}{{end}}
{{- if .Empty}}{{.Empty}}
{{end}}{{end}}

{{define "dashboard"}}Latest Videos ({{.Count}})
{{- if .Loading}} refreshing...{{end}}
{{if .Banner}}{{.Banner}}
{{end}}
{{- range .Cards}}
{{template "card" .}}{{end}}
{{- if .Empty}}{{emptyTitle}}
{{emptyText}}
{{end}}{{end}}

{{define "creator"}}
{{- if .Notice}}{{.Notice}}
{{end}}
{{- if .Banner}}{{.Banner}}
{{end}}
{{- range .Cards}}
{{template "card" .}}{{end}}{{end}}
`

// Renderer writes views as plain text.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the built-in templates.
func NewRenderer() *Renderer {
	funcs := template.FuncMap{
		"join":       strings.Join,
		"emptyTitle": func() string { return MessageEmptyTitle },
		"emptyText":  func() string { return MessageEmptyText },
	}
	tmpl := template.Must(template.New("views").Funcs(funcs).Parse(cardTemplate))
	template.Must(tmpl.Parse(pageTemplates))
	return &Renderer{tmpl: tmpl}
}

// Card writes one card.
func (r *Renderer) Card(w io.Writer, card Card) error {
	return r.execute(w, "card", card)
}

// Consumer writes the consumer feed.
func (r *Renderer) Consumer(w io.Writer, v ConsumerView) error {
	return r.execute(w, "consumer", v)
}

// Dashboard writes the dashboard.
func (r *Renderer) Dashboard(w io.Writer, v DashboardView) error {
	return r.execute(w, "dashboard", v)
}

// Creator writes the creator surface.
func (r *Renderer) Creator(w io.Writer, v CreatorView) error {
	return r.execute(w, "creator", v)
}

func (r *Renderer) execute(w io.Writer, name string, data interface{}) error {
	if err := r.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}
