package server

import (
	"Plume/handler"
)

type Handlers struct {
	Status   *handler.Status
	Timeline *handler.Timeline
	Action   *handler.Action
	Channel  *handler.Channel
}
