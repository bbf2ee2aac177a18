// event/bus.go
package event

import (
	"sync"
)

// Event 게임 이벤트. Room() 기준으로 순서가 보장된다.
type Event interface {
	Room() string
}

// TurnAdvanced is published once per accepted word or pass.
type TurnAdvanced struct {
	RoomID       string
	NextPlayerID string
	LastWord     string
}

func (e TurnAdvanced) Room() string { return e.RoomID }

// ValidationRequested asks the dictionary bot to verify a word that already
// passed the room's synchronous rule checks.
type ValidationRequested struct {
	RoomID   string
	Word     string
	PlayerID string
}

func (e ValidationRequested) Room() string { return e.RoomID }

// Handler receives every published event and filters by type itself.
type Handler func(Event)

// Bus is an in-process publish/subscribe bus. Events for the same room are
// delivered in publication order on a dedicated goroutine; no ordering holds
// across rooms. Publish never blocks, so a handler may publish follow-up
// events into its own room. Handlers must be registered before the first
// Publish.
type Bus struct {
	mutex    sync.RWMutex
	handlers []Handler
	queues   map[string]*roomQueue
	closed   bool
	wg       sync.WaitGroup
}

// roomQueue is an unbounded FIFO for one room's events.
type roomQueue struct {
	mutex   sync.Mutex
	pending []Event
	closed  bool
	notify  chan struct{}
}

func (q *roomQueue) push(e Event) {
	q.mutex.Lock()
	q.pending = append(q.pending, e)
	q.mutex.Unlock()
	q.wake()
}

func (q *roomQueue) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func NewBus() *Bus {
	return &Bus{
		queues: make(map[string]*roomQueue),
	}
}

func (b *Bus) Subscribe(h Handler) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers e to all handlers, serialized per room.
func (b *Bus) Publish(e Event) {
	b.mutex.Lock()
	if b.closed {
		b.mutex.Unlock()
		return
	}
	queue, exists := b.queues[e.Room()]
	if !exists {
		queue = &roomQueue{notify: make(chan struct{}, 1)}
		b.queues[e.Room()] = queue
		b.wg.Add(1)
		go b.deliver(queue)
	}
	b.mutex.Unlock()

	queue.push(e)
}

func (b *Bus) deliver(queue *roomQueue) {
	defer b.wg.Done()
	for {
		queue.mutex.Lock()
		batch := queue.pending
		queue.pending = nil
		closed := queue.closed
		queue.mutex.Unlock()

		for _, e := range batch {
			b.mutex.RLock()
			handlers := make([]Handler, len(b.handlers))
			copy(handlers, b.handlers)
			b.mutex.RUnlock()

			for _, h := range handlers {
				h(e)
			}
		}

		if len(batch) > 0 {
			continue
		}
		if closed {
			return
		}
		<-queue.notify
	}
}

// Close stops delivery and waits for in-flight events to drain. Callers must
// stop publishing before Close.
func (b *Bus) Close() {
	b.mutex.Lock()
	if b.closed {
		b.mutex.Unlock()
		return
	}
	b.closed = true
	queues := make([]*roomQueue, 0, len(b.queues))
	for _, queue := range b.queues {
		queues = append(queues, queue)
	}
	b.mutex.Unlock()

	for _, queue := range queues {
		queue.mutex.Lock()
		queue.closed = true
		queue.mutex.Unlock()
		queue.wake()
	}

	b.wg.Wait()
}
