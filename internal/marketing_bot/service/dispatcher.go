package service

import (
	"context"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/models"
	"github.com/sirupsen/logrus"
	"sync"
)

// Dispatcher gives every active user a mailbox drained by its own goroutine.
// Events of one user are handled one at a time in arrival order, users never
// wait for each other, and Dispatch never blocks the caller.
type Dispatcher struct {
	handle    func(ctx context.Context, ev models.Event)
	ctx       context.Context
	mailboxes map[int64][]models.Event // Очереди активных пользователей
	mu        sync.Mutex
	wg        sync.WaitGroup
	closed    bool
}

// NewDispatcher creates a dispatcher that runs handle for every queued event.
func NewDispatcher(handle func(ctx context.Context, ev models.Event)) *Dispatcher {
	return &Dispatcher{
		handle:    handle,
		ctx:       context.Background(),
		mailboxes: make(map[int64][]models.Event),
	}
}

// Start sets the context passed to every handled event.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	d.ctx = ctx
	d.mu.Unlock()
}

// Dispatch appends ev to its user's mailbox and starts a drain goroutine when
// the user has none. It reports false once the dispatcher is closed.
func (d *Dispatcher) Dispatch(ev models.Event) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	queue, active := d.mailboxes[ev.UserID]
	d.mailboxes[ev.UserID] = append(queue, ev)
	if !active {
		d.wg.Add(1)
		go d.drain(d.ctx, ev.UserID)
	}
	return true
}

// Active returns the number of users with events queued or in flight.
func (d *Dispatcher) Active() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.mailboxes)
}

// Close stops accepting events and waits until queued ones are handled.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.wg.Wait()
}

// drain handles the user's events until the mailbox is empty, then removes it.
// The head event stays in the mailbox while it is handled so that Dispatch
// does not start a second goroutine for the same user.
func (d *Dispatcher) drain(ctx context.Context, userID int64) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		queue := d.mailboxes[userID]
		if len(queue) == 0 {
			delete(d.mailboxes, userID)
			d.mu.Unlock()
			return
		}
		ev := queue[0]
		d.mu.Unlock()

		d.safeHandle(ctx, ev)

		d.mu.Lock()
		queue = d.mailboxes[userID]
		queue[0] = models.Event{}
		d.mailboxes[userID] = queue[1:]
		d.mu.Unlock()
	}
}

func (d *Dispatcher) safeHandle(ctx context.Context, ev models.Event) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": ev.UserID,
				"panic":   r,
			}).Error("Event handler panicked")
		}
	}()
	d.handle(ctx, ev)
}
