// ai/agent.go
package ai

import (
	"math/rand"
	"time"

	"github.com/wordchain/gameserver/event"
	"github.com/wordchain/gameserver/game"
	"github.com/wordchain/gameserver/hangul"
	"github.com/wordchain/gameserver/logger"
	"github.com/wordchain/gameserver/models"
	"github.com/wordchain/gameserver/monitor"
	"github.com/wordchain/gameserver/timer"
)

// CandidateWordSource supplies dictionary words for the bot's search. This is
// defined here to keep the agent decoupled from the persistence package.
type CandidateWordSource interface {
	FindByPrefixAndTag(prefix, tag string, limit int) ([]models.Word, error)
}

// Config AI 플레이어 동작 설정
type Config struct {
	// ThinkDelay simulates deliberation before the bot acts. It is pure
	// suspension: no lock or room state is held while waiting.
	ThinkDelay time.Duration
	// DefaultStartLetter seeds the search before any word has been played.
	DefaultStartLetter rune
	// CandidateTag filters candidates by part of speech.
	CandidateTag string
	// CandidateLimit bounds each prefix query.
	CandidateLimit int
}

// Agent plays the bot seats. It reacts to TurnAdvanced events and re-enters
// the pipeline exactly as a human submission would.
type Agent struct {
	registry  *game.Registry
	pipeline  *game.Pipeline
	source    CandidateWordSource
	validator game.WordValidator
	timers    *timer.Manager
	monitor   *monitor.Monitor
	config    Config
}

// NewAgent wires the agent. monitor may be nil (tests).
func NewAgent(registry *game.Registry, pipeline *game.Pipeline, source CandidateWordSource,
	validator game.WordValidator, timers *timer.Manager, mon *monitor.Monitor, config Config) *Agent {
	return &Agent{
		registry:  registry,
		pipeline:  pipeline,
		source:    source,
		validator: validator,
		timers:    timers,
		monitor:   mon,
		config:    config,
	}
}

// Register subscribes the agent to the event bus.
func (a *Agent) Register(bus *event.Bus) {
	bus.Subscribe(a.handle)
}

func (a *Agent) handle(e event.Event) {
	advanced, ok := e.(event.TurnAdvanced)
	if !ok {
		return
	}
	if !game.IsBot(advanced.NextPlayerID) {
		return
	}

	// The thinking delay runs on the timer wheel, off the bus goroutine.
	a.timers.AddTimer(a.config.ThinkDelay, 0, func() {
		a.takeTurn(advanced.RoomID, advanced.NextPlayerID, advanced.LastWord)
	})
}

// takeTurn picks and plays a word for the bot, or passes. Any internal fault
// is converted into a pass so an AI error can never stall the room.
func (a *Agent) takeTurn(roomID, botID, lastWord string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Errorf("bot %s in room %s panicked: %v, passing turn", botID, roomID, r)
			a.pipeline.PassTurn(roomID, botID)
			a.countBotTurn("pass")
		}
	}()

	room, exists := a.registry.Get(roomID)
	if !exists {
		return
	}

	letter := a.config.DefaultStartLetter
	if lastWord != "" {
		letter = hangul.LastSyllable(lastWord)
	}

	candidates := a.fetch(letter)
	if alt, ok := hangul.Alternation(letter); ok {
		candidates = append(candidates, a.fetch(alt)...)
	}
	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	// First candidate passing both the room rules and the dictionary wins;
	// stopping there bounds the external validator calls.
	for _, candidate := range candidates {
		if room.Check(candidate.Name, botID) != game.OutcomeOK {
			continue
		}
		if valid, _ := a.validator.Validate(candidate.Name); !valid {
			continue
		}
		a.pipeline.Submit(roomID, candidate.Name, botID)
		a.countBotTurn("submit")
		return
	}

	logger.Log.Infof("bot %s found no playable word for %q in room %s, passing", botID, string(letter), roomID)
	a.pipeline.PassTurn(roomID, botID)
	a.countBotTurn("pass")
}

func (a *Agent) fetch(letter rune) []models.Word {
	words, err := a.source.FindByPrefixAndTag(string(letter), a.config.CandidateTag, a.config.CandidateLimit)
	if err != nil {
		logger.Log.Warnf("candidate lookup for %q failed: %v", string(letter), err)
		return nil
	}
	return words
}

func (a *Agent) countBotTurn(result string) {
	if a.monitor != nil {
		a.monitor.IncBotTurns(result)
	}
}
