package interfaces

// EventPublisher pushes domain events to an external feed. Publishing is
// best-effort from the caller's point of view: a failed publish never rolls
// back the write it describes.
type EventPublisher interface {
	Publish(topic string, event any) error
}
