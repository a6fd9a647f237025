package service

import "chatlens/internal/model"

// Broadcaster pushes upload status events to a session's open pages
// (interface avoids an import cycle with the websocket hub)
type Broadcaster interface {
	Publish(sessionID string, event *model.StatusEvent)
}

type noopBroadcaster struct{}

func (noopBroadcaster) Publish(string, *model.StatusEvent) {}
