package services

// EventPublisher publishes domain events to a message broker. A nil
// publisher disables event publication; services treat publish
// failures as warnings, never as request failures.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}
