package notification

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"insurance-workers/internal/models"
)

const emailSubject = "Your recommended health insurance plans"

const textBody = `Hi {{.Name}},

Here are the plans we picked for you:
{{range $i, $p := .Policies}}
{{inc $i}}. {{$p.Name}} by {{$p.Company}}
   Premium: {{$p.Premium}} / year, Cover: {{$p.Coverage}}
{{- range $p.Features}}
   - {{.}}
{{- end}}
{{end}}
Compare them side by side before you buy.
`

const htmlBody = `<p>Hi {{.Name}},</p>
<p>Here are the plans we picked for you:</p>
<ol>
{{- range .Policies}}
  <li><strong>{{.Name}}</strong> by {{.Company}}<br>Premium: {{.Premium}} / year, Cover: {{.Coverage}}
    <ul>{{range .Features}}<li>{{.}}</li>{{end}}</ul>
  </li>
{{- end}}
</ol>
<p>Compare them side by side before you buy.</p>
`

var (
	funcs = map[string]interface{}{"inc": func(i int) int { return i + 1 }}

	textTmpl = texttemplate.Must(texttemplate.New("text").Funcs(funcs).Parse(textBody))
	htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(htmlBody))
)

type shortlist struct {
	Name     string
	Policies []models.PolicyRecord
}

// RenderEmail renders the shortlist email in plain text and HTML.
func RenderEmail(name string, policies []models.PolicyRecord) (subject, text, html string, err error) {
	if strings.TrimSpace(name) == "" {
		name = "there"
	}
	data := shortlist{Name: name, Policies: policies}

	var tb, hb bytes.Buffer
	if err := textTmpl.Execute(&tb, data); err != nil {
		return "", "", "", err
	}
	if err := htmlTmpl.Execute(&hb, data); err != nil {
		return "", "", "", err
	}
	return emailSubject, tb.String(), hb.String(), nil
}

// RenderSMS renders a single-line shortlist.
func RenderSMS(policies []models.PolicyRecord) string {
	parts := make([]string, len(policies))
	for i, p := range policies {
		parts[i] = p.Name + " (" + p.Premium + ")"
	}
	return "Your recommended plans: " + strings.Join(parts, ", ")
}
