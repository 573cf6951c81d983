package notifications

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/angelmondragon/furiarock-backend/pkg/config"
	"github.com/angelmondragon/furiarock-backend/pkg/db/models"
	"github.com/angelmondragon/furiarock-backend/pkg/logger"
)

type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramAlerter posts paid orders to the operations chat. A nil sender
// leaves the channel disabled.
type TelegramAlerter struct {
	sender telegramSender
	chatID int64
	logg   *logger.Logger
	now    func() time.Time
}

func NewTelegramAlerter(sender telegramSender, chatID int64, logg *logger.Logger) *TelegramAlerter {
	if logg == nil {
		logg = logger.Nop()
	}
	return &TelegramAlerter{sender: sender, chatID: chatID, logg: logg, now: time.Now}
}

// NewTelegramAlerterFromConfig connects the bot when configured. Connection
// failures disable the channel instead of failing startup.
func NewTelegramAlerterFromConfig(ctx context.Context, cfg config.TelegramConfig, logg *logger.Logger) *TelegramAlerter {
	if logg == nil {
		logg = logger.Nop()
	}
	if !cfg.Enabled() {
		logg.Warn(ctx, "telegram not configured; order alerts disabled")
		return NewTelegramAlerter(nil, 0, logg)
	}
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logg.Error(ctx, "telegram bot connection failed; order alerts disabled", err)
		return NewTelegramAlerter(nil, 0, logg)
	}
	logg.Info(logg.WithField(ctx, "bot", bot.Self.UserName), "telegram bot connected")
	return NewTelegramAlerter(bot, cfg.ChatID, logg)
}

func (a *TelegramAlerter) Enabled() bool {
	return a != nil && a.sender != nil && a.chatID != 0
}

func (a *TelegramAlerter) SendOrderAlert(ctx context.Context, order *models.Order) bool {
	if !a.Enabled() {
		a.logg.Warn(ctx, "telegram notifications disabled; skipping")
		return false
	}
	msg := tgbotapi.NewMessage(a.chatID, a.formatOrderMessage(order))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := a.sender.Send(msg); err != nil {
		a.logg.Error(ctx, "telegram notification failed", err)
		return false
	}
	a.logg.Info(ctx, "telegram notification sent")
	return true
}

func (a *TelegramAlerter) formatOrderMessage(order *models.Order) string {
	esc := html.EscapeString
	customer := order.CustomerData
	ship := order.ShippingAddress

	var b strings.Builder
	b.WriteString("🎸 <b>¡NUEVA ORDEN PAGADA!</b> 🎸\n\n")
	fmt.Fprintf(&b, "📋 <b>Referencia:</b> <code>%s</code>\n", esc(order.Reference))
	fmt.Fprintf(&b, "💰 <b>Total:</b> %s\n", formatCents(order.AmountInCents))
	fmt.Fprintf(&b, "📅 <b>Fecha:</b> %s\n\n", formatTimestamp(a.now()))

	b.WriteString("👤 <b>CLIENTE</b>\n")
	fmt.Fprintf(&b, "• Nombre: %s\n", esc(customer.FullName))
	fmt.Fprintf(&b, "• Email: %s\n", esc(order.CustomerEmail))
	fmt.Fprintf(&b, "• Teléfono: +%s %s\n", esc(customer.PhoneNumberPrefix), esc(customer.PhoneNumber))
	fmt.Fprintf(&b, "• Documento: %s %s\n\n", esc(string(customer.LegalIDType)), esc(customer.LegalID))

	items := order.CartSnapshot.Items
	fmt.Fprintf(&b, "📦 <b>PRODUCTOS (%d)</b>\n", len(items))
	for _, item := range items {
		name := item.ProductName
		if name == "" {
			name = "Producto"
		}
		detail := item.Size
		if item.ColorName != "" {
			detail = item.ColorName + ", " + item.Size
		}
		fmt.Fprintf(&b, "  • %s (%s) x%d - %s\n", esc(name), esc(detail), item.Quantity, formatCOP(item.LineTotal))
	}

	b.WriteString("\n🚚 <b>DIRECCIÓN DE ENVÍO</b>\n")
	fmt.Fprintf(&b, "• %s\n", esc(ship.Name))
	fmt.Fprintf(&b, "• %s\n", esc(ship.AddressLine1))
	if ship.AddressLine2 != nil && *ship.AddressLine2 != "" {
		fmt.Fprintf(&b, "• %s\n", esc(*ship.AddressLine2))
	}
	fmt.Fprintf(&b, "• %s, %s\n", esc(ship.City), esc(ship.Region))
	fmt.Fprintf(&b, "• Tel: %s\n", esc(ship.PhoneNumber))
	if order.CollectShipping {
		b.WriteString("• Envío contra entrega\n")
	}

	txID := "N/A"
	if order.GatewayTransactionID != nil && *order.GatewayTransactionID != "" {
		txID = *order.GatewayTransactionID
	}
	fmt.Fprintf(&b, "\n🔗 <b>Wompi ID:</b> <code>%s</code>", esc(txID))
	return b.String()
}
