package services

import (
	"climatework_backend/internal/queue"
)

// WelcomeNotifier delivers the post-signup welcome message. The SMTP sender
// satisfies this directly; the queue adapter publishes an event instead when
// a broker is configured.
type WelcomeNotifier interface {
	SendWelcome(email, name, userRole string) error
}

// QueueWelcomeNotifier hands the welcome off to Kafka for the notification
// consumer to deliver.
type QueueWelcomeNotifier struct {
	producer *queue.Producer
}

func NewQueueWelcomeNotifier(producer *queue.Producer) *QueueWelcomeNotifier {
	return &QueueWelcomeNotifier{producer: producer}
}

func (n *QueueWelcomeNotifier) SendWelcome(email, name, userRole string) error {
	return n.producer.PublishUserEvent(queue.UserEvent{
		Event:     "user.welcome",
		Email:     email,
		FirstName: name,
		UserType:  userRole,
	})
}
