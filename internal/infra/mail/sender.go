package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templatesFS embed.FS

var proposalTmpl = template.Must(template.ParseFS(templatesFS, "templates/proposal.html"))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

func (s *EmailSender) Enabled() bool { return s.Host != "" }

// RenderProposal monta o corpo HTML do resumo da proposta.
func RenderProposal(data ProposalEmailData) (string, error) {
	var body bytes.Buffer
	if err := proposalTmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return body.String(), nil
}

// SendProposal envia o resumo ao cliente, com o PDF anexado quando houver.
func (s *EmailSender) SendProposal(to string, data ProposalEmailData, pdfName string, pdf []byte) error {
	if !s.Enabled() {
		log.Println("⚠️ Email: MAIL_HOST não configurado")
		return nil
	}

	html, err := RenderProposal(data)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Sua proposta de energia solar, %s ☀️", data.ClientName))
	m.SetBody("text/html", html)
	if len(pdf) > 0 {
		m.Attach(pdfName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(pdf)
			return err
		}))
	}

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	log.Printf("✅ Email: Proposta enviada para %s", to)
	return nil
}
