package notifications

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/angelmondragon/furiarock-backend/pkg/config"
	"github.com/angelmondragon/furiarock-backend/pkg/db/models"
	"github.com/angelmondragon/furiarock-backend/pkg/logger"
	"github.com/angelmondragon/furiarock-backend/pkg/types"
)

//go:embed templates/*.html
var templateFS embed.FS

var confirmationTemplate = template.Must(template.ParseFS(templateFS, "templates/order_confirmation.html"))

type mailClient interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// EmailSender mails order confirmations to customers. A nil client leaves the
// channel disabled.
type EmailSender struct {
	client mailClient
	from   string
	logg   *logger.Logger
	now    func() time.Time
}

func NewEmailSender(client mailClient, from string, logg *logger.Logger) *EmailSender {
	if logg == nil {
		logg = logger.Nop()
	}
	return &EmailSender{client: client, from: from, logg: logg, now: time.Now}
}

// NewEmailSenderFromConfig builds the SMTP client. The connection is only
// opened when a message is sent.
func NewEmailSenderFromConfig(ctx context.Context, cfg config.SMTPConfig, logg *logger.Logger) (*EmailSender, error) {
	if logg == nil {
		logg = logger.Nop()
	}
	if !cfg.Enabled() {
		logg.Warn(ctx, "smtp not configured; order confirmation emails disabled")
		return NewEmailSender(nil, cfg.From, logg), nil
	}

	opts := []mail.Option{mail.WithPort(cfg.Port), mail.WithTimeout(15 * time.Second)}
	if cfg.Secure {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return NewEmailSender(client, cfg.From, logg), nil
}

func (s *EmailSender) Enabled() bool {
	return s != nil && s.client != nil
}

func (s *EmailSender) SendOrderConfirmation(ctx context.Context, order *models.Order) bool {
	if !s.Enabled() {
		s.logg.Warn(ctx, "email notifications disabled; skipping")
		return false
	}
	msg, err := s.buildConfirmation(order)
	if err != nil {
		s.logg.Error(ctx, "build order confirmation email", err)
		return false
	}
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		s.logg.Error(ctx, "send order confirmation email", err)
		return false
	}
	s.logg.Info(s.logg.WithField(ctx, "to", order.CustomerEmail), "order confirmation email sent")
	return true
}

func confirmationSubject(reference string) string {
	return fmt.Sprintf("Confirmación de Pedido #%s - Furia Rock", reference)
}

func (s *EmailSender) buildConfirmation(order *models.Order) (*mail.Msg, error) {
	text, body, err := s.renderConfirmation(order)
	if err != nil {
		return nil, err
	}
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", s.from, err)
	}
	if err := msg.To(order.CustomerEmail); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(confirmationSubject(order.Reference))
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, body)
	return msg, nil
}

type confirmationItem struct {
	Name     string
	Detail   string
	Quantity int
	Total    string
	ImageURL string
}

type confirmationView struct {
	CustomerName string
	Reference    string
	OrderDate    string
	Items        []confirmationItem
	Subtotal     string
	Discount     string
	Total        string
	Shipping     types.ShippingAddress
	AddressLine2 string
	Year         int
}

func (s *EmailSender) renderConfirmation(order *models.Order) (string, string, error) {
	name := strings.TrimSpace(order.CustomerData.FullName)
	if name == "" {
		name = "Cliente"
	}
	created := order.CreatedAt
	if created.IsZero() {
		created = s.now()
	}

	view := confirmationView{
		CustomerName: name,
		Reference:    order.Reference,
		OrderDate:    formatLongDate(created),
		Subtotal:     formatCOP(order.CartSnapshot.Subtotal),
		Total:        formatCents(order.AmountInCents),
		Shipping:     order.ShippingAddress,
		Year:         s.now().In(bogota).Year(),
	}
	if order.CartSnapshot.DiscountTotal.IsPositive() {
		view.Discount = formatCOP(order.CartSnapshot.DiscountTotal)
	}
	if order.ShippingAddress.AddressLine2 != nil {
		view.AddressLine2 = *order.ShippingAddress.AddressLine2
	}
	for _, item := range order.CartSnapshot.Items {
		detail := "Talla " + item.Size
		if item.ColorName != "" {
			detail = item.ColorName + " · " + detail
		}
		view.Items = append(view.Items, confirmationItem{
			Name:     item.ProductName,
			Detail:   detail,
			Quantity: item.Quantity,
			Total:    formatCOP(item.LineTotal),
			ImageURL: item.ImageURL,
		})
	}

	var body bytes.Buffer
	if err := confirmationTemplate.Execute(&body, view); err != nil {
		return "", "", fmt.Errorf("render confirmation template: %w", err)
	}

	text := fmt.Sprintf(`¡Gracias por tu compra, %s!

Referencia de pedido: #%s
Fecha: %s
Total: %s

Te notificaremos cuando tu pedido sea enviado.

© %d Furia Rock`, view.CustomerName, view.Reference, view.OrderDate, view.Total, view.Year)

	return text, body.String(), nil
}
