// game/room.go
package game

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wordchain/gameserver/hangul"
	"github.com/wordchain/gameserver/models"
)

// BotPrefix marks the reserved AI seats at the front of the turn order.
const BotPrefix = "AI_BOT_"

// IsBot reports whether playerID denotes an AI seat.
func IsBot(playerID string) bool {
	return strings.HasPrefix(playerID, BotPrefix)
}

// Room 은 끝말잇기 한 판의 상태 기계: 턴 순서, 마지막 단어, 사용된 단어.
// 모든 변경은 내부 뮤텍스로 직렬화된다.
type Room struct {
	ID         string
	Name       string
	MaxPlayers int
	BotCount   int
	CreatedAt  time.Time

	mutex     sync.Mutex
	players   []string // insertion order == turn order
	turnIndex int
	lastWord  string
	usedWords map[string]struct{}
	words     []string // accepted words in play order
}

// NewRoom creates a room with BotCount AI seats pre-filled and the turn
// pointer at the first seat.
func NewRoom(id, name string, maxPlayers, botCount int) *Room {
	r := &Room{
		ID:         id,
		Name:       name,
		MaxPlayers: maxPlayers,
		BotCount:   botCount,
		CreatedAt:  time.Now(),
		usedWords:  make(map[string]struct{}),
	}
	for i := 0; i < botCount; i++ {
		r.players = append(r.players, fmt.Sprintf("%s%d", BotPrefix, i+1))
	}
	return r
}

// AddPlayer appends playerID to the turn order. It fails when the room is
// full. The first human to join becomes the current player: until then the
// game's effective first turn is not fixed.
func (r *Room) AddPlayer(playerID string) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if len(r.players) >= r.MaxPlayers {
		return false
	}
	if len(r.players) == r.BotCount {
		r.turnIndex = len(r.players)
	}
	r.players = append(r.players, playerID)
	return true
}

// CurrentPlayer returns whose turn it is, or "" for an empty room.
func (r *Room) CurrentPlayer() string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if len(r.players) == 0 {
		return ""
	}
	return r.players[r.turnIndex]
}

// PlayerCount returns the number of occupied seats, bots included.
func (r *Room) PlayerCount() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.players)
}

// Players returns a copy of the turn order.
func (r *Room) Players() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	players := make([]string, len(r.players))
	copy(players, r.players)
	return players
}

// LastWord returns the most recently accepted word, or "" before the first.
func (r *Room) LastWord() string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.lastWord
}

// UsedWords returns a copy of the accepted words in play order.
func (r *Room) UsedWords() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	words := make([]string, len(r.words))
	copy(words, r.words)
	return words
}

// Check runs the synchronous rule checks without mutating anything.
func (r *Room) Check(word, playerID string) Outcome {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.check(word, playerID)
}

// check 호출자가 뮤텍스를 잡고 있어야 한다.
func (r *Room) check(word, playerID string) Outcome {
	if len(r.players) == 0 || r.players[r.turnIndex] != playerID {
		return OutcomeNotYourTurn
	}
	if r.lastWord != "" && !hangul.ChainMatch(r.lastWord, word) {
		return OutcomeChainRule
	}
	if _, used := r.usedWords[word]; used {
		return OutcomeAlreadyUsed
	}
	return OutcomeOK
}

// Accept re-runs the rule check and, when it still passes, commits the word
// and advances the turn. Re-check and commit share one critical section so a
// validation result that lost a race with a pass is rejected instead of
// corrupting the chain.
func (r *Room) Accept(word, playerID string) (nextPlayer string, outcome Outcome) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if out := r.check(word, playerID); out != OutcomeOK {
		return "", out
	}
	r.usedWords[word] = struct{}{}
	r.words = append(r.words, word)
	r.lastWord = word
	return r.advance(), OutcomeOK
}

// Pass advances the turn without a word. It is a no-op unless playerID holds
// the current turn, which guards stale pass requests racing a submission.
func (r *Room) Pass(playerID string) (nextPlayer string, ok bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if len(r.players) == 0 || r.players[r.turnIndex] != playerID {
		return "", false
	}
	return r.advance(), true
}

// advance 호출자가 뮤텍스를 잡고 있어야 하며 방이 비어 있으면 안 된다.
func (r *Room) advance() string {
	r.turnIndex = (r.turnIndex + 1) % len(r.players)
	return r.players[r.turnIndex]
}

// Summary returns the listing view of the room.
func (r *Room) Summary() models.RoomSummary {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return models.RoomSummary{
		RoomID:             r.ID,
		RoomName:           r.Name,
		CurrentPlayerCount: len(r.players),
		MaxPlayers:         r.MaxPlayers,
		BotCount:           r.BotCount,
	}
}
