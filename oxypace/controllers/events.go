package controllers

import "github.com/google/uuid"

// Publisher fans realtime events out to connected clients. *realtime.Hub satisfies it.
type Publisher interface {
	Publish(eventType string, payload any)
	PublishTo(eventType string, payload any, users ...uuid.UUID)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, any)                  {}
func (nopPublisher) PublishTo(string, any, ...uuid.UUID) {}

func publisherOrNop(p Publisher) Publisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}
