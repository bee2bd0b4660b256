package mail

import (
	"context"
	"log"

	"github.com/xavierca1/ligue-solar/internal/infra/integration/whatsapp"
)

type WhatsAppSender struct {
	client     *whatsapp.Client
	templateID string
}

func NewWhatsAppSender(client *whatsapp.Client, templateID string) *WhatsAppSender {
	return &WhatsAppSender{client: client, templateID: templateID}
}

// SendProposal dispara o template com nome do cliente e valor; falhas só são logadas.
func (s *WhatsAppSender) SendProposal(ctx context.Context, phone, name, totalValue string) error {
	if phone == "" || name == "" {
		log.Printf("⚠️ WhatsApp: Dados incompletos para envio (phone: %s, name: %s)", phone, name)
		return nil
	}

	input := whatsapp.SendMessageInput{
		PhoneNumber:  whatsapp.NormalizePhone(phone),
		TemplateName: s.templateID,
		Parameters:   []string{name, totalValue},
	}
	if err := s.client.SendMessage(ctx, input); err != nil {
		log.Printf("⚠️ WhatsApp: Falha ao enviar para %s: %v", phone, err)
	}
	return nil
}
