package ai

import (
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wordchain/gameserver/dictionary"
	"github.com/wordchain/gameserver/event"
	"github.com/wordchain/gameserver/game"
	"github.com/wordchain/gameserver/logger"
	"github.com/wordchain/gameserver/models"
	"github.com/wordchain/gameserver/timer"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// fakeSource serves candidates keyed by prefix.
type fakeSource struct {
	mutex      sync.Mutex
	candidates map[string][]models.Word
	err        error
	calls      []string
}

func (f *fakeSource) FindByPrefixAndTag(prefix, tag string, limit int) ([]models.Word, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.calls = append(f.calls, prefix)
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates[prefix], nil
}

func (f *fakeSource) prefixes() []string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// fakeValidator accepts a fixed word set and counts calls.
type fakeValidator struct {
	mutex sync.Mutex
	words map[string]string
	calls int
}

func (f *fakeValidator) Validate(word string) (bool, string) {
	f.mutex.Lock()
	f.calls++
	f.mutex.Unlock()
	definition, ok := f.words[word]
	return ok, definition
}

// silentNotifier records broadcasts.
type silentNotifier struct {
	mutex      sync.Mutex
	broadcasts []string
}

func (n *silentNotifier) BroadcastToRoom(roomID, message string) error {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.broadcasts = append(n.broadcasts, message)
	return nil
}

func (n *silentNotifier) SendToUser(userID, message string) error { return nil }

func (n *silentNotifier) contains(substr string) bool {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	for _, m := range n.broadcasts {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

type fixture struct {
	registry  *game.Registry
	pipeline  *game.Pipeline
	bus       *event.Bus
	notifier  *silentNotifier
	source    *fakeSource
	validator *fakeValidator
	agent     *Agent
}

// newFixture wires a full in-memory game loop: pipeline, validation bot and
// agent all on one bus, with a near-zero think delay.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		registry:  game.NewRegistry(),
		bus:       event.NewBus(),
		notifier:  &silentNotifier{},
		source:    &fakeSource{candidates: make(map[string][]models.Word)},
		validator: &fakeValidator{words: make(map[string]string)},
	}
	f.pipeline = game.NewPipeline(f.registry, f.notifier, f.bus, nil)
	dictionary.NewBot(f.validator, f.pipeline, nil).Register(f.bus)
	f.agent = NewAgent(f.registry, f.pipeline, f.source, f.validator, timer.NewManager(), nil, Config{
		ThinkDelay:         time.Millisecond,
		DefaultStartLetter: '가',
		CandidateTag:       "명",
		CandidateLimit:     20,
	})
	f.agent.Register(f.bus)
	t.Cleanup(f.bus.Close)
	return f
}

func waitUntil(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", what)
}

func TestAgent_SubmitsValidCandidate(t *testing.T) {
	f := newFixture(t)
	f.source.candidates["과"] = []models.Word{{Name: "과자", Tag: "명"}}
	f.validator.words["사과"] = ""
	f.validator.words["과자"] = ""

	room := f.registry.Create("테스트 방", 2, 1)
	room.AddPlayer("alice")

	// alice plays 사과; the turn moves to the bot, which must answer 과자.
	f.pipeline.Submit(room.ID, "사과", "alice")

	waitUntil(t, "bot submission", func() bool { return room.LastWord() == "과자" })
	if room.CurrentPlayer() != "alice" {
		t.Errorf("Turn should return to alice, got %q", room.CurrentPlayer())
	}
	if !f.notifier.contains("AI_BOT_1님 '과자' 성공") {
		t.Error("Expected bot success broadcast")
	}
}

func TestAgent_SearchesAlternationPrefix(t *testing.T) {
	f := newFixture(t)
	// 안녕 ends in 녕; the bot must also search the alternation 영.
	f.source.candidates["영"] = []models.Word{{Name: "영화", Tag: "명"}}
	f.validator.words["안녕"] = ""
	f.validator.words["영화"] = ""

	room := f.registry.Create("테스트 방", 2, 1)
	room.AddPlayer("alice")
	f.pipeline.Submit(room.ID, "안녕", "alice")

	waitUntil(t, "alternation submission", func() bool { return room.LastWord() == "영화" })

	prefixes := f.source.prefixes()
	saw := map[string]bool{}
	for _, p := range prefixes {
		saw[p] = true
	}
	if !saw["녕"] || !saw["영"] {
		t.Errorf("Expected searches for both 녕 and 영, got %v", prefixes)
	}
}

func TestAgent_StopsAtFirstSuccess(t *testing.T) {
	f := newFixture(t)
	f.source.candidates["가"] = []models.Word{
		{Name: "가방", Tag: "명"},
		{Name: "가위", Tag: "명"},
		{Name: "가을", Tag: "명"},
	}
	// every candidate is valid, so exactly one validator call should be
	// spent on the search (plus one for the pipeline re-validation)
	for _, w := range []string{"가방", "가위", "가을"} {
		f.validator.words[w] = ""
	}

	room := f.registry.Create("테스트 방", 2, 1)
	room.AddPlayer("alice")
	f.pipeline.PassTurn(room.ID, "alice") // no lastWord: default letter 가

	waitUntil(t, "bot submission", func() bool { return room.LastWord() != "" })

	f.validator.mutex.Lock()
	calls := f.validator.calls
	f.validator.mutex.Unlock()
	if calls != 2 {
		t.Errorf("Expected 2 validator calls (search + pipeline), got %d", calls)
	}
}

func TestAgent_PassesWhenNoCandidates(t *testing.T) {
	f := newFixture(t)
	f.validator.words["사과"] = ""

	room := f.registry.Create("테스트 방", 2, 1)
	room.AddPlayer("alice")
	f.pipeline.Submit(room.ID, "사과", "alice")

	waitUntil(t, "bot pass", func() bool { return room.CurrentPlayer() == "alice" && f.notifier.contains("포기") })
	if room.LastWord() != "사과" {
		t.Errorf("Pass must leave lastWord unchanged, got %q", room.LastWord())
	}
	if len(room.UsedWords()) != 1 {
		t.Errorf("Pass must leave usedWords unchanged, got %d", len(room.UsedWords()))
	}
}

func TestAgent_PassesWhenAllCandidatesInvalid(t *testing.T) {
	f := newFixture(t)
	f.source.candidates["과"] = []models.Word{{Name: "과라과", Tag: "명"}, {Name: "과스", Tag: "명"}}
	f.validator.words["사과"] = ""

	room := f.registry.Create("테스트 방", 2, 1)
	room.AddPlayer("alice")
	f.pipeline.Submit(room.ID, "사과", "alice")

	waitUntil(t, "bot pass", func() bool { return f.notifier.contains("포기") })
	if room.LastWord() != "사과" {
		t.Errorf("lastWord changed to %q", room.LastWord())
	}
}

func TestAgent_PassesOnSourceError(t *testing.T) {
	f := newFixture(t)
	f.source.err = errors.New("database unreachable")
	f.validator.words["사과"] = ""

	room := f.registry.Create("테스트 방", 2, 1)
	room.AddPlayer("alice")
	f.pipeline.Submit(room.ID, "사과", "alice")

	waitUntil(t, "bot pass", func() bool { return f.notifier.contains("포기") })
	if room.CurrentPlayer() != "alice" {
		t.Errorf("Turn should return to alice, got %q", room.CurrentPlayer())
	}
}

// explodingValidator simulates an internal fault in the word check.
type explodingValidator struct{}

func (explodingValidator) Validate(word string) (bool, string) {
	panic("validator exploded")
}

func TestAgent_PassesWhenValidatorPanics(t *testing.T) {
	registry := game.NewRegistry()
	notifier := &silentNotifier{}
	bus := event.NewBus()
	pipeline := game.NewPipeline(registry, notifier, bus, nil)
	source := &fakeSource{candidates: map[string][]models.Word{
		"과": {{Name: "과자", Tag: "명"}},
	}}
	agent := NewAgent(registry, pipeline, source, explodingValidator{}, timer.NewManager(), nil, Config{
		ThinkDelay:         time.Millisecond,
		DefaultStartLetter: '가',
		CandidateTag:       "명",
		CandidateLimit:     20,
	})
	agent.Register(bus)
	t.Cleanup(bus.Close)

	room := registry.Create("테스트 방", 2, 1)
	room.AddPlayer("alice")
	if _, out := room.Accept("사과", "alice"); out != game.OutcomeOK {
		t.Fatalf("Setup commit failed: %s", out)
	}
	bus.Publish(event.TurnAdvanced{RoomID: room.ID, NextPlayerID: "AI_BOT_1", LastWord: "사과"})

	// A fault inside the bot's turn must become a pass, never a stall.
	waitUntil(t, "bot pass after fault", func() bool {
		return room.CurrentPlayer() == "alice" && notifier.contains("포기")
	})
	if room.LastWord() != "사과" {
		t.Errorf("Faulting bot changed lastWord to %q", room.LastWord())
	}
}

func TestAgent_IgnoresHumanTurns(t *testing.T) {
	f := newFixture(t)

	room := f.registry.Create("테스트 방", 3, 1)
	room.AddPlayer("alice")
	room.AddPlayer("bob")

	f.bus.Publish(event.TurnAdvanced{RoomID: room.ID, NextPlayerID: "bob", LastWord: "사과"})

	time.Sleep(100 * time.Millisecond)
	if len(f.source.prefixes()) != 0 {
		t.Error("Agent searched candidates for a human turn")
	}
}
