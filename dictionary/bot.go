// dictionary/bot.go
package dictionary

import (
	"time"

	"github.com/wordchain/gameserver/event"
	"github.com/wordchain/gameserver/game"
	"github.com/wordchain/gameserver/monitor"
)

// Bot is the referee half of the validation pipeline: it reacts to
// ValidationRequested events, performs the (possibly slow) dictionary
// lookup off the submitter's goroutine, and feeds the verdict back into the
// pipeline.
type Bot struct {
	validator game.WordValidator
	pipeline  *game.Pipeline
	monitor   *monitor.Monitor
}

// NewBot wires the validation bot. monitor may be nil (tests).
func NewBot(validator game.WordValidator, pipeline *game.Pipeline, mon *monitor.Monitor) *Bot {
	return &Bot{
		validator: validator,
		pipeline:  pipeline,
		monitor:   mon,
	}
}

// Register subscribes the bot to the event bus.
func (b *Bot) Register(bus *event.Bus) {
	bus.Subscribe(b.handle)
}

func (b *Bot) handle(e event.Event) {
	request, ok := e.(event.ValidationRequested)
	if !ok {
		return
	}

	start := time.Now()
	valid, definition := b.validator.Validate(request.Word)
	if b.monitor != nil {
		b.monitor.ObserveValidationLatency(time.Since(start))
	}

	b.pipeline.HandleValidationResult(request.RoomID, request.PlayerID, request.Word, valid, definition)
}
