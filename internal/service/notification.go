package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"transit/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationTripStatus          NotificationType = "TRIP_STATUS"
	NotificationPaymentSuccess      NotificationType = "PAYMENT_SUCCESS"
	NotificationPaymentFailed       NotificationType = "PAYMENT_FAILED"
	NotificationReceiptReady        NotificationType = "RECEIPT_READY"
	NotificationRatingReceived      NotificationType = "RATING_RECEIVED"
	NotificationRequestAssigned     NotificationType = "REQUEST_ASSIGNED"
	NotificationWithdrawalProcessed NotificationType = "WITHDRAWAL_PROCESSED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotificationService handles notification delivery.
type NotificationService struct {
	// In a real system, this would have:
	// - Push notification client (FCM, APNS)
	// - SMS client (Twilio)
	// - WebSocket connections for real-time
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyTripStatus tells the passenger about a trip status change.
func (s *NotificationService) NotifyTripStatus(ctx context.Context, trip *domain.Trip) error {
	notification := Notification{
		Type:        NotificationTripStatus,
		RecipientID: trip.PassengerID,
		Title:       "Trip Update",
		Message:     fmt.Sprintf("Your trip %s -> %s is now %s", trip.Origin, trip.Destination, trip.Status),
		Data: map[string]interface{}{
			"trip_id": trip.ID,
			"status":  string(trip.Status),
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyPaymentSuccess tells the passenger their payment went through.
func (s *NotificationService) NotifyPaymentSuccess(ctx context.Context, payment *domain.Payment) error {
	notification := Notification{
		Type:        NotificationPaymentSuccess,
		RecipientID: payment.PassengerID,
		Title:       "Payment Successful",
		Message:     fmt.Sprintf("Payment of Bs %.2f was successful", payment.Amount),
		Data: map[string]interface{}{
			"payment_id": payment.ID,
			"amount":     payment.Amount,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyPaymentFailed tells the passenger their payment was declined.
func (s *NotificationService) NotifyPaymentFailed(ctx context.Context, payment *domain.Payment) error {
	notification := Notification{
		Type:        NotificationPaymentFailed,
		RecipientID: payment.PassengerID,
		Title:       "Payment Failed",
		Message:     fmt.Sprintf("Payment of Bs %.2f failed. Please try again.", payment.Amount),
		Data: map[string]interface{}{
			"payment_id": payment.ID,
			"amount":     payment.Amount,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyReceiptReady tells the passenger their receipt was issued.
func (s *NotificationService) NotifyReceiptReady(ctx context.Context, receipt *domain.Receipt, passengerID string) error {
	notification := Notification{
		Type:        NotificationReceiptReady,
		RecipientID: passengerID,
		Title:       "Receipt Ready",
		Message:     fmt.Sprintf("Your receipt %s is ready", receipt.Number),
		Data: map[string]interface{}{
			"receipt_id": receipt.ID,
			"number":     receipt.Number,
			"payment_id": receipt.PaymentID,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyRatingReceived tells the driver they were rated.
func (s *NotificationService) NotifyRatingReceived(ctx context.Context, rating *domain.Rating) error {
	notification := Notification{
		Type:        NotificationRatingReceived,
		RecipientID: rating.DriverID,
		Title:       "New Rating",
		Message:     fmt.Sprintf("You received a %d-star rating", rating.Overall),
		Data: map[string]interface{}{
			"rating_id": rating.ID,
			"trip_id":   rating.TripID,
			"overall":   rating.Overall,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyRequestAssigned tells the passenger a driver took their request.
func (s *NotificationService) NotifyRequestAssigned(ctx context.Context, req *domain.SpecialRequest) error {
	notification := Notification{
		Type:        NotificationRequestAssigned,
		RecipientID: req.PassengerID,
		Title:       "Request Assigned",
		Message:     fmt.Sprintf("A driver was assigned to your trip to %s. Estimated price: Bs %.2f", req.Destination, req.EstimatedPrice),
		Data: map[string]interface{}{
			"request_id": req.ID,
			"driver_id":  req.AssignedDriverID,
			"price":      req.EstimatedPrice,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyWithdrawalProcessed tells the driver about the office decision.
func (s *NotificationService) NotifyWithdrawalProcessed(ctx context.Context, w *domain.Withdrawal) error {
	notification := Notification{
		Type:        NotificationWithdrawalProcessed,
		RecipientID: w.DriverID,
		Title:       "Withdrawal Update",
		Message:     fmt.Sprintf("Your withdrawal of Bs %.2f is %s", w.Amount, w.Status),
		Data: map[string]interface{}{
			"withdrawal_id": w.ID,
			"status":        string(w.Status),
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// send delivers a notification (mock implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	// In a real implementation, this would store the notification and
	// push it over FCM/APNS, SMS, or a WebSocket channel.

	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.RecipientID, notification.Title, notification.Message)

	return nil
}
