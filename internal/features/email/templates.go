package email

import (
	"bytes"
	"html/template"
)

var statusChangeTmpl = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <p>Hello {{if .Name}}{{.Name}}{{else}}there{{end}},</p>
  <p>The status of your complaint <strong>{{.ComplaintID}}</strong> has changed to <strong>{{.Status}}</strong>.</p>
  {{if .Message}}<p>{{.Message}}</p>{{end}}
  <p>You can follow the progress from your dashboard.</p>
  <p>BIGHIL</p>
</body>
</html>`))

var resolutionTmpl = template.Must(template.New("resolution").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <p>Hello {{if .Name}}{{.Name}}{{else}}there{{end}},</p>
  <p>Your complaint <strong>{{.ComplaintID}}</strong> has been closed as <strong>{{.Status}}</strong>.</p>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><td><strong>Acknowledgement</strong></td><td>{{.Acknowledgement}}</td></tr>
    <tr><td><strong>Resolution note</strong></td><td>{{.Note}}</td></tr>
  </table>
  <p>BIGHIL</p>
</body>
</html>`))

type StatusChangeData struct {
	Name        string
	ComplaintID string
	Status      string
	Message     string
}

type ResolutionData struct {
	Name            string
	ComplaintID     string
	Status          string
	Acknowledgement string
	Note            string
}

func RenderStatusChange(data StatusChangeData) (string, error) {
	var buf bytes.Buffer
	if err := statusChangeTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func RenderResolution(data ResolutionData) (string, error) {
	var buf bytes.Buffer
	if err := resolutionTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
