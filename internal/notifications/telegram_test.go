package notifications

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/angelmondragon/furiarock-backend/pkg/config"
)

type captureSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (c *captureSender) Send(msg tgbotapi.Chattable) (tgbotapi.Message, error) {
	if cfg, ok := msg.(tgbotapi.MessageConfig); ok {
		c.sent = append(c.sent, cfg)
	}
	return tgbotapi.Message{}, c.err
}

func TestTelegramAlertFormatsOrder(t *testing.T) {
	t.Parallel()

	sender := &captureSender{}
	alerter := NewTelegramAlerter(sender, -100123, nil)
	alerter.now = func() time.Time { return time.Date(2026, time.March, 2, 20, 5, 0, 0, time.UTC) }

	if !alerter.SendOrderAlert(context.Background(), sampleOrder()) {
		t.Fatal("expected alert to be sent")
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.ChatID != -100123 {
		t.Fatalf("chat id = %d", msg.ChatID)
	}
	if msg.ParseMode != tgbotapi.ModeHTML {
		t.Fatalf("parse mode = %q", msg.ParseMode)
	}

	for _, want := range []string{
		"¡NUEVA ORDEN PAGADA!",
		"<code>0f8fad5b-d9cb-469f-a165-70867728950e</code>",
		"$ 180.000",
		"02/03/2026 15:05",
		"Ana &lt;Rock&gt;",
		"+57 3001234567",
		"CC 1020304050",
		"Camiseta Furia (Negro, M) x2 - $ 180.000",
		"Apto 301",
		"Medellín, Antioquia",
		"Envío contra entrega",
		"<code>1234-1610641025-49201</code>",
	} {
		if !strings.Contains(msg.Text, want) {
			t.Fatalf("message missing %q:\n%s", want, msg.Text)
		}
	}
	if strings.Contains(msg.Text, "Ana <Rock>") {
		t.Fatal("customer name must be escaped")
	}
}

func TestTelegramAlertWithoutTransactionID(t *testing.T) {
	t.Parallel()

	order := sampleOrder()
	order.GatewayTransactionID = nil
	order.CollectShipping = false
	text := NewTelegramAlerter(nil, 0, nil).formatOrderMessage(order)

	if !strings.Contains(text, "<code>N/A</code>") {
		t.Fatalf("expected N/A transaction id:\n%s", text)
	}
	if strings.Contains(text, "contra entrega") {
		t.Fatal("collect shipping line must be omitted")
	}
}

func TestTelegramAlertSendFailure(t *testing.T) {
	t.Parallel()

	alerter := NewTelegramAlerter(&captureSender{err: errors.New("bad gateway")}, 42, nil)
	if alerter.SendOrderAlert(context.Background(), sampleOrder()) {
		t.Fatal("expected failure to be reported")
	}
}

func TestTelegramAlertDisabled(t *testing.T) {
	t.Parallel()

	alerter := NewTelegramAlerterFromConfig(context.Background(), config.TelegramConfig{}, nil)
	if alerter.Enabled() {
		t.Fatal("alerter without token must be disabled")
	}
	if alerter.SendOrderAlert(context.Background(), sampleOrder()) {
		t.Fatal("disabled alerter must report false")
	}
}
