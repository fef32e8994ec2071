package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/smartspend/smartspend-api/models"
)

const resendEndpoint = "https://api.resend.com/emails"

// AlertMailer sends the budget alert email on expense writes.
type AlertMailer interface {
	SendBudgetAlert(ctx context.Context, user *models.User, status models.BudgetStatus) error
}

// EmailService sends transactional email through the Resend HTTP API.
type EmailService struct {
	apiKey      string
	fromEmail   string
	frontendURL string
	endpoint    string
	client      *http.Client
}

func NewEmailService(apiKey, fromEmail, frontendURL string) *EmailService {
	return &EmailService{
		apiKey:      apiKey,
		fromEmail:   fromEmail,
		frontendURL: frontendURL,
		endpoint:    resendEndpoint,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *EmailService) Enabled() bool {
	return s != nil && s.apiKey != ""
}

const budgetAlertTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Budget alert</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background-color: #f3f4f6;">
    <table role="presentation" style="max-width: 600px; margin: 40px auto; background-color: #ffffff; border-radius: 12px;">
        <tr>
            <td style="padding: 40px;">
                <h2 style="margin: 0 0 20px 0; color: #1f2937;">Hi {{.Name}} 👋</h2>
                <p style="color: #4b5563; font-size: 16px; line-height: 1.6;">
                    You have used <strong>{{.Percent}}%</strong> of your {{.Period}} <strong>{{.Category}}</strong> budget
                    ({{.Spent}} of {{.Amount}}).
                </p>
                {{if .Over}}<p style="color: #ef4444; font-weight: 600;">⚠️ This budget is exceeded.</p>{{end}}
                <a href="{{.Link}}" style="display: inline-block; padding: 16px 32px; background: #10b981; color: #ffffff; text-decoration: none; border-radius: 8px;">
                    Review my budgets
                </a>
            </td>
        </tr>
    </table>
</body>
</html>
`

var budgetAlertTmpl = template.Must(template.New("budgetAlert").Parse(budgetAlertTemplate))

func (s *EmailService) SendBudgetAlert(ctx context.Context, user *models.User, st models.BudgetStatus) error {
	data := struct {
		Name     string
		Percent  int
		Period   string
		Category string
		Spent    string
		Amount   string
		Over     bool
		Link     string
	}{
		Name:     user.FullName,
		Percent:  st.PercentSpent,
		Period:   st.Period,
		Category: st.Category,
		Spent:    fmt.Sprintf("$%.2f", st.Spent),
		Amount:   fmt.Sprintf("$%.2f", st.Amount),
		Over:     st.Status == models.BudgetStatusOverBudget,
		Link:     s.frontendURL + "/budgets",
	}

	var body bytes.Buffer
	if err := budgetAlertTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render budget alert: %w", err)
	}

	subject := fmt.Sprintf("SmartSpend: %s budget at %d%%", st.Category, st.PercentSpent)
	return s.send(ctx, user.Email, subject, body.String())
}

func (s *EmailService) send(ctx context.Context, to, subject, htmlBody string) error {
	if !s.Enabled() {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	payload := map[string]interface{}{
		"from":    fmt.Sprintf("SmartSpend <%s>", s.fromEmail),
		"to":      []string{to},
		"subject": subject,
		"html":    htmlBody,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("email API returned status: %d", resp.StatusCode)
	}
	return nil
}
