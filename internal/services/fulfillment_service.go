package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"loja/internal/models"
	"loja/internal/repositories"
	"loja/pkg/mailer"
	"loja/pkg/payment"
)

// EventPublisher publishes fulfillment events to the message broker.
// The concrete implementation is pkg/rabbitmq; a nil publisher disables
// publishing.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// FulfillmentService turns a verified payment event into an order, a
// ledger entry and a fulfillment email. Past the signature gate every
// step failure is logged with event context and swallowed, so the
// provider always gets an acknowledgement and does not redeliver
// forever. There is no idempotency check: a redelivered event creates a
// duplicate order and ledger entry.
type FulfillmentService struct {
	gateway     payment.Gateway
	productRepo repositories.ProductRepository
	orderRepo   repositories.OrderRepository
	ledgerRepo  repositories.TransactionLogRepository
	mail        mailer.Mailer
	events      EventPublisher
}

// NewFulfillmentService creates a new FulfillmentService. events may be
// nil when no broker is configured.
func NewFulfillmentService(
	gateway payment.Gateway,
	productRepo repositories.ProductRepository,
	orderRepo repositories.OrderRepository,
	ledgerRepo repositories.TransactionLogRepository,
	mail mailer.Mailer,
	events EventPublisher,
) *FulfillmentService {
	return &FulfillmentService{
		gateway:     gateway,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		ledgerRepo:  ledgerRepo,
		mail:        mail,
		events:      events,
	}
}

// HandleEvent verifies and processes one webhook delivery. The returned
// error is non-nil only for signature verification failures; every
// later failure is logged and swallowed so the caller can acknowledge
// the event.
func (s *FulfillmentService) HandleEvent(payload []byte, sigHeader string) error {
	if s.gateway == nil {
		return payment.ErrDisabled
	}
	event, err := s.gateway.VerifyEvent(payload, sigHeader)
	if err != nil {
		return err
	}

	if event.Type != payment.EventCheckoutCompleted {
		log.Printf("Ignoring event %s of type %s", event.ID, event.Type)
		return nil
	}

	log.Printf("Checkout session completed: event=%s session=%s", event.ID, event.Session.ID)
	s.fulfill(event)
	return nil
}

// fulfill runs the post-verification pipeline. Each step logs its own
// failure with the event and session ids so a failed fulfillment can be
// reconciled by hand.
func (s *FulfillmentService) fulfill(event *payment.Event) {
	sess := event.Session

	lines, err := parseCartMetadata(sess.Metadata[CartMetadataKey])
	if err != nil {
		// Known gap: a malformed metadata blob skips the whole
		// fulfillment while the event is still acknowledged.
		log.Printf("Fulfillment skipped: event=%s session=%s bad cart metadata: %v", event.ID, sess.ID, err)
		return
	}

	items, emailLinks := s.resolveItems(event.ID, lines)

	order := &models.Order{
		UserEmail:       sess.CustomerEmail,
		Items:           items,
		TotalPrice:      float64(sess.AmountTotal) / 100,
		StripeSessionID: sess.ID,
		IsPaid:          true,
	}
	now := time.Now()
	order.PaidAt = &now

	if recomputed := recomputeTotalCents(items); recomputed != sess.AmountTotal {
		// The order keeps the provider-reported charge; the drift is
		// only logged for reconciliation. Comparing in minor units avoids
		// false alarms from float rounding.
		log.Printf("Total drift: event=%s session=%s charged=%.2f resolved=%.2f",
			event.ID, sess.ID, order.TotalPrice, float64(recomputed)/100)
	}

	if err := s.orderRepo.Create(order); err != nil {
		log.Printf("Failed to create order: event=%s session=%s: %v", event.ID, sess.ID, err)
		return
	}
	log.Printf("Order %s created: event=%s items=%d total=%.2f", order.ID, event.ID, len(order.Items), order.TotalPrice)

	s.recordPayment(event, order)
	s.sendFulfillmentEmail(event, order, emailLinks)
	s.publishFulfilled(event, order)
}

func parseCartMetadata(raw string) ([]cartMetadataLine, error) {
	if raw == "" {
		return nil, fmt.Errorf("missing %s metadata", CartMetadataKey)
	}
	var lines []cartMetadataLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, fmt.Errorf("failed to parse %s metadata: %w", CartMetadataKey, err)
	}
	return lines, nil
}

// resolveItems re-fetches each cart line's product and snapshots the
// current price and download URL. Lines whose product no longer exists
// are dropped; each drop is logged with the product id.
func (s *FulfillmentService) resolveItems(eventID string, lines []cartMetadataLine) ([]models.OrderItem, []string) {
	var items []models.OrderItem
	var emailLinks []string
	for _, line := range lines {
		product, err := s.productRepo.GetByID(line.ID)
		if err != nil {
			log.Printf("Dropping cart line: event=%s product=%s: %v", eventID, line.ID, err)
			continue
		}
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.ProductName,
			Price:       product.Price,
			Quantity:    line.Quantity,
			DownloadURL: product.DownloadURL,
		})
		emailLinks = append(emailLinks,
			fmt.Sprintf(`<p><b>%s</b>: <a href="%s" clicktracking=off>%s</a></p>`,
				product.ProductName, product.DownloadURL, product.DownloadURL))
	}
	return items, emailLinks
}

func recomputeTotalCents(items []models.OrderItem) int64 {
	var total int64
	for _, item := range items {
		total += minorUnits(item.Price) * int64(item.Quantity)
	}
	return total
}

// recordPayment writes the PAYMENT ledger entry. A failure here is
// logged but the order stands; the ledger is advisory.
func (s *FulfillmentService) recordPayment(event *payment.Event, order *models.Order) {
	entry := &models.TransactionLog{
		Type:                models.TxPayment,
		Amount:              order.TotalPrice,
		Currency:            strings.ToUpper(event.Session.Currency),
		OrderID:             order.ID,
		UserEmail:           order.UserEmail,
		StripeSessionID:     event.Session.ID,
		StripeTransactionID: event.Session.PaymentIntentID,
		Status:              models.TxStatusCompleted,
		Description:         "Payment completed via checkout",
		CreatedBy:           "system",
	}
	if entry.Currency == "" {
		entry.Currency = "BRL"
	}
	if err := s.ledgerRepo.Create(entry); err != nil {
		log.Printf("Failed to record payment: event=%s order=%s: %v", event.ID, order.ID, err)
	}
}

// sendFulfillmentEmail delivers the download links. Failures are
// logged, never retried.
func (s *FulfillmentService) sendFulfillmentEmail(event *payment.Event, order *models.Order, links []string) {
	body := fmt.Sprintf(`
		<h1>Thank you for your purchase!</h1>
		<p>Hello! Your payment was confirmed and your order was processed successfully.</p>
		<p>Below are the download links for your products:</p>
		%s
		<p>If you have any questions, just reply to this email.</p>
	`, strings.Join(links, "\n"))

	if err := s.mail.Send(order.UserEmail, "Your Order and Download Links", body); err != nil {
		log.Printf("Failed to send fulfillment email: event=%s order=%s: %v", event.ID, order.ID, err)
	}
}

// publishFulfilled emits an order.fulfilled event when a broker is
// configured.
func (s *FulfillmentService) publishFulfilled(event *payment.Event, order *models.Order) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(map[string]any{
		"orderId":   order.ID,
		"userEmail": order.UserEmail,
		"total":     order.TotalPrice,
		"sessionId": order.StripeSessionID,
		"eventId":   event.ID,
	})
	if err != nil {
		log.Printf("Failed to marshal fulfillment event: order=%s: %v", order.ID, err)
		return
	}
	if err := s.events.Publish("order.fulfilled", body); err != nil {
		log.Printf("Failed to publish fulfillment event: order=%s: %v", order.ID, err)
	}
}
