// game/pipeline.go
package game

import (
	"fmt"

	"github.com/wordchain/gameserver/event"
	"github.com/wordchain/gameserver/hangul"
	"github.com/wordchain/gameserver/logger"
	"github.com/wordchain/gameserver/monitor"
)

// Pipeline orchestrates one submission end-to-end: synchronous room rule
// checks, asynchronous dictionary validation through the event bus, then
// commit, broadcast and turn fan-out. Validation is decoupled from room
// mutation so a slow dictionary lookup never blocks other players'
// submissions.
type Pipeline struct {
	registry *Registry
	notifier Notifier
	bus      *event.Bus
	monitor  *monitor.Monitor
}

// NewPipeline wires the pipeline. monitor may be nil (tests).
func NewPipeline(registry *Registry, notifier Notifier, bus *event.Bus, mon *monitor.Monitor) *Pipeline {
	return &Pipeline{
		registry: registry,
		notifier: notifier,
		bus:      bus,
		monitor:  mon,
	}
}

// Join adds userID to the room and announces it. The first human to land
// also triggers the game-start broadcast. Reports whether the join took.
func (p *Pipeline) Join(roomID, userID string) bool {
	room, exists := p.registry.Get(roomID)
	if !exists {
		p.notifier.SendToUser(userID, "존재하지 않는 방입니다.")
		return false
	}

	if !room.AddPlayer(userID) {
		p.notifier.SendToUser(userID, "방이 꽉 찼습니다.")
		return false
	}

	p.notifier.BroadcastToRoom(roomID,
		fmt.Sprintf("새로운 유저 입장: %s (현재 인원: %d/%d)", userID, room.PlayerCount(), room.MaxPlayers))

	// 봇 이후의 첫 번째 사람이 들어오면 게임 시작
	if room.PlayerCount() == room.BotCount+1 {
		p.notifier.BroadcastToRoom(roomID,
			fmt.Sprintf("게임 시작! 첫 턴은 %s님입니다.", room.CurrentPlayer()))
	}
	return true
}

// Submit runs the synchronous rule checks and, on pass, emits a validation
// request. The caller is never blocked on the dictionary lookup.
func (p *Pipeline) Submit(roomID, word, playerID string) {
	room, exists := p.registry.Get(roomID)
	if !exists {
		// No player is the right audience for a missing room.
		logger.Log.Warnf("submit: room %s not found (word %q from %s)", roomID, word, playerID)
		return
	}

	outcome := room.Check(word, playerID)
	p.countSubmission(outcome)
	if outcome != OutcomeOK {
		p.notifier.BroadcastToRoom(roomID, ruleMessage(outcome, room, word, playerID))
		return
	}

	p.bus.Publish(event.ValidationRequested{RoomID: roomID, Word: word, PlayerID: playerID})
}

// HandleValidationResult is the callback for a completed dictionary lookup.
// On a valid word the commit re-runs the rule check inside the room's
// critical section; a result that arrives after the turn moved on is
// discarded.
func (p *Pipeline) HandleValidationResult(roomID, playerID, word string, valid bool, definition string) {
	room, exists := p.registry.Get(roomID)
	if !exists {
		logger.Log.Warnf("validation result: room %s gone (word %q)", roomID, word)
		return
	}

	if !valid {
		p.notifier.BroadcastToRoom(roomID,
			fmt.Sprintf("'%s' (은)는 사전에 없는 단어입니다. %s님 다시 시도하세요.", word, playerID))
		return
	}

	nextPlayer, outcome := room.Accept(word, playerID)
	if outcome != OutcomeOK {
		logger.Log.Infof("validation result for %q in room %s discarded: %s", word, roomID, outcome)
		return
	}

	message := fmt.Sprintf("%s님 '%s' 성공! 다음 턴: %s", playerID, word, nextPlayer)
	if definition != "" {
		message += fmt.Sprintf(" (뜻: %s)", definition)
	}
	p.notifier.BroadcastToRoom(roomID, message)
	p.countAccepted()

	p.bus.Publish(event.TurnAdvanced{RoomID: roomID, NextPlayerID: nextPlayer, LastWord: word})
}

// PassTurn transfers the turn without a word. Stale or duplicate passes from
// a player who no longer holds the turn are ignored.
func (p *Pipeline) PassTurn(roomID, playerID string) {
	room, exists := p.registry.Get(roomID)
	if !exists {
		return
	}

	nextPlayer, ok := room.Pass(playerID)
	if !ok {
		return
	}

	p.notifier.BroadcastToRoom(roomID,
		fmt.Sprintf("%s님이 턴을 포기했습니다. 다음 턴: %s", playerID, nextPlayer))

	// lastWord 는 변경 없이 그대로 전달
	p.bus.Publish(event.TurnAdvanced{RoomID: roomID, NextPlayerID: nextPlayer, LastWord: room.LastWord()})
}

func ruleMessage(outcome Outcome, room *Room, word, playerID string) string {
	switch outcome {
	case OutcomeNotYourTurn:
		return fmt.Sprintf("[규칙 오류] %s님, 아직 턴이 아닙니다! (현재 턴: %s)", playerID, room.CurrentPlayer())
	case OutcomeChainRule:
		letter := hangul.LastSyllable(room.LastWord())
		letters := string(letter)
		if alt, ok := hangul.Alternation(letter); ok {
			letters = fmt.Sprintf("%c(%c)", letter, alt)
		}
		return fmt.Sprintf("[규칙 오류] %s님! '%s' (으)로 시작하는 단어를 입력하세요!", playerID, letters)
	case OutcomeAlreadyUsed:
		return fmt.Sprintf("[규칙 오류] '%s' (은)는 이미 사용된 단어입니다!", word)
	default:
		return fmt.Sprintf("[규칙 오류] '%s' 제출이 거부되었습니다.", word)
	}
}

func (p *Pipeline) countSubmission(outcome Outcome) {
	if p.monitor != nil {
		p.monitor.IncSubmissions(outcome.String())
	}
}

func (p *Pipeline) countAccepted() {
	if p.monitor != nil {
		p.monitor.IncWordsAccepted()
	}
}
