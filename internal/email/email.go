package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"

	"github.com/lumenworks/studio-portal-backend/internal/config"
)

// Service sends transactional email over SMTP.
type Service struct {
	cfg       *config.Config
	templates map[string]*template.Template
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:       cfg,
		templates: loadTemplates(),
	}
}

func loadTemplates() map[string]*template.Template {
	templates := make(map[string]*template.Template)

	magicLinkTmpl := `
<!DOCTYPE html>
<html>
<head>
	<style>
		body { font-family: -apple-system, Arial, sans-serif; background: #f4f4f7; margin: 0; padding: 0; }
		.container { max-width: 560px; margin: 40px auto; background: #fff; border-radius: 8px; overflow: hidden; }
		.header { background: #1a1a2e; color: #fff; padding: 24px 32px; }
		.content { padding: 32px; color: #333; line-height: 1.6; }
		.button { display: inline-block; background: #4f46e5; color: #fff !important; padding: 12px 28px; border-radius: 6px; text-decoration: none; font-weight: 600; }
		.footer { padding: 16px 32px; color: #999; font-size: 12px; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header"><h2>Lumenworks Studio</h2></div>
		<div class="content">
			<p>Hi{{if .Name}} {{.Name}}{{end}},</p>
			<p>Click the button below to sign in to the studio portal. The link expires in {{.TTLMinutes}} minutes and can only be used once.</p>
			<p style="margin: 28px 0;"><a href="{{.Link}}" class="button">Sign in</a></p>
			<p>If you didn't request this, you can safely ignore this email.</p>
		</div>
		<div class="footer">Lumenworks Studio &middot; this link was requested for {{.Email}}</div>
	</div>
</body>
</html>`
	templates["magic_link"] = template.Must(template.New("magic_link").Parse(magicLinkTmpl))

	inviteTmpl := `
<!DOCTYPE html>
<html>
<head>
	<style>
		body { font-family: -apple-system, Arial, sans-serif; background: #f4f4f7; margin: 0; padding: 0; }
		.container { max-width: 560px; margin: 40px auto; background: #fff; border-radius: 8px; overflow: hidden; }
		.header { background: #1a1a2e; color: #fff; padding: 24px 32px; }
		.content { padding: 32px; color: #333; line-height: 1.6; }
		.button { display: inline-block; background: #4f46e5; color: #fff !important; padding: 12px 28px; border-radius: 6px; text-decoration: none; font-weight: 600; }
		.role { display: inline-block; background: #eef2ff; color: #4f46e5; padding: 2px 10px; border-radius: 10px; font-size: 13px; }
		.footer { padding: 16px 32px; color: #999; font-size: 12px; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header"><h2>Lumenworks Studio</h2></div>
		<div class="content">
			<p>Hi,</p>
			<p>{{.InviterName}} has invited you to join the Lumenworks Studio portal as <span class="role">{{.Role}}</span>.</p>
			<p style="margin: 28px 0;"><a href="{{.Link}}" class="button">Accept invitation</a></p>
			<p>The invitation expires on {{.ExpiresAt}}. Just sign in with this email address and your account will be set up automatically.</p>
		</div>
		<div class="footer">Lumenworks Studio &middot; invitation sent to {{.Email}}</div>
	</div>
</body>
</html>`
	templates["invite"] = template.Must(template.New("invite").Parse(inviteTmpl))

	intakeTmpl := `
<!DOCTYPE html>
<html>
<head>
	<style>
		body { font-family: -apple-system, Arial, sans-serif; background: #f4f4f7; margin: 0; padding: 0; }
		.container { max-width: 560px; margin: 40px auto; background: #fff; border-radius: 8px; overflow: hidden; }
		.header { background: #1a1a2e; color: #fff; padding: 24px 32px; }
		.content { padding: 32px; color: #333; line-height: 1.6; }
		.meta { background: #f9fafb; border-radius: 6px; padding: 16px; margin: 16px 0; }
		.meta td { padding: 4px 12px 4px 0; color: #555; font-size: 14px; }
		.body-quote { border-left: 3px solid #4f46e5; padding-left: 16px; color: #555; white-space: pre-wrap; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header"><h2>New contact submission</h2></div>
		<div class="content">
			<table class="meta">
				<tr><td><strong>Name</strong></td><td>{{.Name}}</td></tr>
				<tr><td><strong>Email</strong></td><td>{{.Email}}</td></tr>
				{{if .Company}}<tr><td><strong>Company</strong></td><td>{{.Company}}</td></tr>{{end}}
				{{if .Subject}}<tr><td><strong>Subject</strong></td><td>{{.Subject}}</td></tr>{{end}}
			</table>
			<p class="body-quote">{{.Body}}</p>
			<p><a href="{{.PortalLink}}">Open in portal</a></p>
		</div>
	</div>
</body>
</html>`
	templates["intake_notification"] = template.Must(template.New("intake_notification").Parse(intakeTmpl))

	return templates
}

// Send delivers a raw HTML email to a single recipient.
func (s *Service) Send(to, subject, htmlBody string) error {
	if s.cfg.SMTPHost == "" {
		log.Printf("📧 [DEV] Email to %s: %s", to, subject)
		return nil
	}

	from := s.cfg.SMTPFrom
	if from == "" {
		from = s.cfg.SMTPUser
	}
	fromHeader := from
	if s.cfg.SMTPFromName != "" {
		fromHeader = fmt.Sprintf("%s <%s>", s.cfg.SMTPFromName, from)
	}

	msg := strings.Builder{}
	msg.WriteString(fmt.Sprintf("From: %s\r\n", fromHeader))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPHost)

	if s.cfg.SMTPUseTLS || s.cfg.SMTPPort == 465 {
		return s.sendTLS(addr, auth, from, to, msg.String())
	}

	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("📧 Email sent to %s: %s", to, subject)
	return nil
}

// sendTLS handles implicit-TLS servers (port 465) where smtp.SendMail
// cannot be used directly.
func (s *Service) sendTLS(addr string, auth smtp.Auth, from, to, msg string) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.SMTPHost})
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.SMTPHost)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth failed: %w", err)
	}
	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	log.Printf("📧 Email sent to %s (TLS)", to)
	return client.Quit()
}

// SendWithTemplate renders a named template and sends the result.
func (s *Service) SendWithTemplate(to, subject, templateName string, data interface{}) error {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("email template %q not found", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render email template %q: %w", templateName, err)
	}

	return s.Send(to, subject, buf.String())
}

// SendMagicLink sends a one-time sign-in link.
func (s *Service) SendMagicLink(to, name, link string, ttlMinutes int) error {
	return s.SendWithTemplate(to, "Sign in to Lumenworks Studio", "magic_link", map[string]interface{}{
		"Name":       name,
		"Email":      to,
		"Link":       link,
		"TTLMinutes": ttlMinutes,
	})
}

// SendInvite sends a portal invitation.
func (s *Service) SendInvite(to, inviterName, role, link, expiresAt string) error {
	return s.SendWithTemplate(to, "You're invited to Lumenworks Studio", "invite", map[string]interface{}{
		"Email":       to,
		"InviterName": inviterName,
		"Role":        role,
		"Link":        link,
		"ExpiresAt":   expiresAt,
	})
}

// SendIntakeNotification alerts staff about a new contact submission.
func (s *Service) SendIntakeNotification(to, name, fromEmail, company, subject, body, portalLink string) error {
	return s.SendWithTemplate(to, fmt.Sprintf("New inquiry from %s", name), "intake_notification", map[string]interface{}{
		"Name":       name,
		"Email":      fromEmail,
		"Company":    company,
		"Subject":    subject,
		"Body":       body,
		"PortalLink": portalLink,
	})
}
