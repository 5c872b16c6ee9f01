package mail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"quotedesk/internal/pkg/errs"
)

// Mail job kinds carried through the outbox.
const (
	KindWelcome           = "welcome"
	KindPasswordReset     = "password_reset"
	KindQuotationReady    = "quotation_ready"
	KindQuotationResponse = "quotation_response"
)

var templates = template.Must(template.New("mail").Parse(`
{{define "welcome"}}
<h2>Welcome, {{.Name}}!</h2>
<p>Your account has been created successfully.</p>
<p>We're glad to have you onboard.</p>
{{end}}

{{define "password_reset"}}
<h2>Password Reset Request</h2>
<p>You requested to reset your password. Click the link below:</p>
<a href="{{.ResetURL}}" style="color: #3366ff;">Reset Password</a>
<p>If you did not request this, please ignore this email.</p>
{{end}}

{{define "quotation_ready"}}
<h2>Hello {{.ClientName}},</h2>
<p>A quotation of <strong>{{.TotalAmount}}</strong> has been prepared for you.</p>
<p>Review and respond here:</p>
<a href="{{.QuotationURL}}" style="color: #3366ff;">View Quotation</a>
{{end}}

{{define "quotation_response"}}
<h2>Quotation {{.Status}}</h2>
<p>{{.ClientName}} has {{if eq .Status "APPROVED"}}approved{{else}}rejected{{end}} quotation {{.QuotationID}}.</p>
{{if .Comment}}<p>Comment: {{.Comment}}</p>{{end}}
{{end}}
`))

type welcomePayload struct {
	Name string `json:"name"`
}

type passwordResetPayload struct {
	Token string `json:"token"`
}

type quotationReadyPayload struct {
	QuotationID string `json:"quotation_id"`
	ClientName  string `json:"client_name"`
	TotalAmount string `json:"total_amount"`
}

type quotationResponsePayload struct {
	QuotationID string `json:"quotation_id"`
	ClientName  string `json:"client_name"`
	Status      string `json:"status"`
	Comment     string `json:"comment,omitempty"`
}

// Render turns an outbox job into a deliverable message. publicURL is the
// frontend origin client-facing links point at.
func Render(kind, recipient string, payload []byte, publicURL string) (Message, error) {
	switch kind {
	case KindWelcome:
		var p welcomePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return Message{}, errs.Wrap(err, "invalid welcome payload")
		}
		return render(recipient, "Welcome to our platform!", "welcome", p)

	case KindPasswordReset:
		var p passwordResetPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return Message{}, errs.Wrap(err, "invalid password reset payload")
		}
		data := struct{ ResetURL string }{
			ResetURL: fmt.Sprintf("%s/reset-password?token=%s", publicURL, p.Token),
		}
		return render(recipient, "Password Reset Instructions", "password_reset", data)

	case KindQuotationReady:
		var p quotationReadyPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return Message{}, errs.Wrap(err, "invalid quotation ready payload")
		}
		data := struct {
			ClientName   string
			TotalAmount  string
			QuotationURL string
		}{
			ClientName:   p.ClientName,
			TotalAmount:  p.TotalAmount,
			QuotationURL: fmt.Sprintf("%s/quotations/%s", publicURL, p.QuotationID),
		}
		return render(recipient, "Your quotation is ready", "quotation_ready", data)

	case KindQuotationResponse:
		var p quotationResponsePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return Message{}, errs.Wrap(err, "invalid quotation response payload")
		}
		subject := fmt.Sprintf("Quotation %s by %s", p.Status, p.ClientName)
		return render(recipient, subject, "quotation_response", p)

	default:
		return Message{}, errs.New("unknown mail job kind: " + kind)
	}
}

func render(recipient, subject, name string, data any) (Message, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return Message{}, errs.Wrap(err, "failed to render mail template")
	}
	return Message{To: recipient, Subject: subject, HTML: buf.String()}, nil
}
