package document

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/formion/formion/pkg/models"
)

// receiptTemplate lays out the filled-in form as a printable HTML document.
// Authored rich content is sanitized by the renderer before it ever reaches
// a submission, so it is re-emitted verbatim here.
var receiptTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.FormName}}</title>
</head>
<body>
<h1>{{.FormName}}</h1>
{{if .FormDescription}}<p>{{.FormDescription}}</p>{{end}}
<p>Submitted at {{.SubmittedAt}}</p>
<dl>
{{range .Entries}}<dt>{{.Label}}</dt>
<dd>{{if .IsSignature}}<img src="{{.SignatureSrc}}" alt="signature">{{else}}{{.Value}}{{end}}</dd>
{{end}}</dl>
</body>
</html>
`))

type receiptEntry struct {
	Label        string
	Value        string
	IsSignature  bool
	SignatureSrc template.URL
}

type receiptData struct {
	FormName        string
	FormDescription string
	SubmittedAt     string
	Entries         []receiptEntry
}

// RenderReceipt produces the HTML document for a processed submission.
// signatureSrc points at the stored signature image, or is empty when the
// form collected none.
func RenderReceipt(form *models.Form, submission *models.Submission, signatureSrc string) ([]byte, error) {
	data := receiptData{
		FormName:        form.Name,
		FormDescription: form.Description,
		SubmittedAt:     submission.SubmittedAt.Format("2006-01-02 15:04:05 MST"),
	}

	for _, field := range form.SortedFields() {
		if field.FieldType == models.FieldTypeContent {
			continue
		}

		entry := receiptEntry{Label: field.Label}

		if field.IsSignature() {
			entry.IsSignature = true
			entry.SignatureSrc = template.URL(signatureSrc)
			data.Entries = append(data.Entries, entry)

			continue
		}

		value, ok := submission.Answers[field.ID]
		if !ok {
			continue
		}

		switch v := value.(type) {
		case bool:
			if v {
				entry.Value = "Yes"
			} else {
				entry.Value = "No"
			}
		case string:
			entry.Value = v
		default:
			entry.Value = fmt.Sprintf("%v", v)
		}

		data.Entries = append(data.Entries, entry)
	}

	var buf bytes.Buffer

	err := receiptTemplate.Execute(&buf, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render receipt for submission %s: %w", submission.ID, err)
	}

	return buf.Bytes(), nil
}
