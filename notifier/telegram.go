// Package notifier delivers order announcements to the operator chat.
// Delivery is best-effort: a failed send is logged and dropped, never
// retried against the order itself.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"deepshop/circuitbreaker"
	"deepshop/models"

	"go.uber.org/zap"
)

type TelegramNotifier struct {
	apiBase  string
	botToken string
	chatID   string
	client   *http.Client
	breaker  *circuitbreaker.CircuitBreaker
	logger   *zap.Logger
}

func NewTelegram(apiBase, botToken, chatID string, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		apiBase:  apiBase,
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 10 * time.Second},
		breaker:  circuitbreaker.New(5, 30*time.Second),
		logger:   logger,
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

func (n *TelegramNotifier) Send(ctx context.Context, text string) error {
	if n.botToken == "" || n.chatID == "" {
		n.logger.Debug("Telegram notifier not configured, dropping message")
		return nil
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    n.chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)

	return n.breaker.Execute(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to send notification: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			return fmt.Errorf("notification rejected: status %d", resp.StatusCode)
		}
		return nil
	})
}

// FormatOrderMessage renders the operator-facing summary for a new
// order, matching the storefront's announcement layout.
func FormatOrderMessage(event models.OrderEvent) string {
	var items strings.Builder
	for _, p := range event.Products {
		fmt.Fprintf(&items, "• %dx %s\n", p.Quantity, p.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🚀 <b>New Order Placed!</b>\n")
	fmt.Fprintf(&b, "Order ID: #%s\n", shortID(event.OrderID))
	fmt.Fprintf(&b, "Customer: %s\n\n", event.UserName)
	fmt.Fprintf(&b, "<b>Items:</b>\n%s\n", items.String())
	fmt.Fprintf(&b, "Total: ৳%.0f\n", event.TotalAmount)
	if event.AdvancePaid > 0 {
		fmt.Fprintf(&b, "Advance: ৳%.0f (%s)\n", event.AdvancePaid, strings.ToUpper(event.PaymentMethod))
		fmt.Fprintf(&b, "TXN ID: <code>%s</code>\n", event.TransactionID)
	} else {
		fmt.Fprintf(&b, "Verification: %s\n", event.VerificationType)
	}
	fmt.Fprintf(&b, "\n<b>Shipping:</b>\n📍 Address: %s\n📞 Phone: %s", event.FullAddress, event.Phone)
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
