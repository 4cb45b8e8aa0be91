// Package notify holds the customer/operator-facing message templates, the
// WhatsApp deep-link builder, and the SMTP email sender.
package notify

import (
	"fmt"
	"strings"

	"cafe-bot/internal/models"
)

// Action labels shown next to the decision tokens in operator alerts.
const (
	LabelConfirm = "✅ Confirmar"
	LabelDecline = "❌ Recusar"
)

// Templates renders every message the system sends. Texts are in the
// customer-facing language of the business.
type Templates struct {
	// BusinessName appears in greetings and email subjects.
	BusinessName string
	// CountryCode is prepended to local phone numbers in wa.me links.
	CountryCode string
}

// PendingAlert is the operator notification for a new submission.
func (t *Templates) PendingAlert(req *models.Request) string {
	var b strings.Builder

	switch req.Kind {
	case models.KindReservation:
		b.WriteString("*Nova Reserva Pendente!* 🕒\n\n")
		fmt.Fprintf(&b, "*Nome:* %s\n", req.Name)
		fmt.Fprintf(&b, "*Telefone:* %s\n", req.Phone)
		fmt.Fprintf(&b, "*Data:* %s às %s\n", req.Date, req.Time)
		fmt.Fprintf(&b, "*Pessoas:* %d\n", req.PartySize)
	case models.KindOrder:
		b.WriteString("*Novo Pedido para Retirada!* 🛍️\n\n")
		fmt.Fprintf(&b, "*Nome:* %s\n", req.Name)
		fmt.Fprintf(&b, "*Telefone:* %s\n", req.Phone)
		fmt.Fprintf(&b, "\n*Itens:*\n%s\n", req.Items)
		fmt.Fprintf(&b, "\n*Total:* %s\n", req.Total)
		if req.PickupTime != "" {
			fmt.Fprintf(&b, "*Retirada:* %s\n", req.PickupTime)
		}
	}

	greeting := fmt.Sprintf("Olá %s! Sobre sua %s na %s...", req.Name, req.Kind, t.BusinessName)
	fmt.Fprintf(&b, "\n➡️ Responder via WhatsApp: %s", t.WhatsAppLink(req.Phone, greeting))
	return b.String()
}

// ResolvedAlert is the text the pending alert is edited to after a decision.
func (t *Templates) ResolvedAlert(req *models.Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s %s!* %s\n\n", strings.ToUpper(string(req.Kind)), strings.ToUpper(statusLabel(req)), statusEmoji(req.Status))
	fmt.Fprintf(&b, "*Cliente:* %s\n", req.Name)

	greeting := fmt.Sprintf("Olá %s! Sua %s na %s foi %s.", req.Name, req.Kind, t.BusinessName, statusLabel(req))
	fmt.Fprintf(&b, "Continuar no WhatsApp: %s", t.WhatsAppLink(req.Phone, greeting))
	return b.String()
}

// Email renders the outcome email for a resolved request.
func (t *Templates) Email(req *models.Request) (subject, body string) {
	subject = fmt.Sprintf("Sua %s na %s foi %s!", req.Kind, t.BusinessName, statusLabel(req))

	when := ""
	if req.Kind == models.KindReservation {
		when = fmt.Sprintf(" para o dia %s às %s", req.Date, req.Time)
	}

	if req.Status == models.StatusConfirmed {
		body = fmt.Sprintf("Olá %s, a sua %s%s foi CONFIRMADA! Estamos à sua espera.", req.Name, req.Kind, when)
	} else {
		body = fmt.Sprintf("Olá %s, infelizmente a sua %s%s foi RECUSADA. Pedimos desculpas pelo inconveniente.", req.Name, req.Kind, when)
	}
	return subject, body
}

// AckResolved confirms to the operator that the decision was applied.
func (t *Templates) AckResolved(req *models.Request) string {
	return fmt.Sprintf("%s %s!", capitalize(string(req.Kind)), statusLabel(req))
}

// AckAlreadyHandled tells the operator the request is already terminal.
func (t *Templates) AckAlreadyHandled(kind models.Kind) string {
	return fmt.Sprintf("Este %s já foi tratado.", kind)
}

// AckNotFound tells the operator the request does not exist.
func (t *Templates) AckNotFound(kind models.Kind) string {
	return fmt.Sprintf("%s não encontrado.", capitalize(string(kind)))
}

// AckInvalid rejects a decision event that could not be parsed.
func (t *Templates) AckInvalid() string {
	return "Comando inválido. Use os botões da notificação."
}

// AckError reports an internal failure while applying a decision.
func (t *Templates) AckError() string {
	return "Erro ao processar a decisão. Tente novamente."
}

// statusLabel genders the status word to match the kind.
func statusLabel(req *models.Request) string {
	feminine := req.Kind == models.KindReservation
	switch req.Status {
	case models.StatusConfirmed:
		if feminine {
			return "confirmada"
		}
		return "confirmado"
	case models.StatusDeclined:
		if feminine {
			return "recusada"
		}
		return "recusado"
	default:
		return "pendente"
	}
}

func statusEmoji(s models.Status) string {
	if s == models.StatusConfirmed {
		return "✅"
	}
	return "❌"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
