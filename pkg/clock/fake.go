package clock

import (
	"context"
	"sync"
	"time"
)

// Fake é um relógio virtual: Sleep avança o tempo instantaneamente e registra
// cada duração solicitada. OnAdvance é chamado após cada avanço.
type Fake struct {
	mu        sync.Mutex
	now       time.Time
	sleeps    []time.Duration
	OnAdvance func(from, to time.Time)
}

func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	from := f.now
	f.now = f.now.Add(d)
	to := f.now
	f.sleeps = append(f.sleeps, d)
	hook := f.OnAdvance
	f.mu.Unlock()

	if hook != nil {
		hook(from, to)
	}

	return nil
}

// Sleeps retorna uma cópia das durações solicitadas até agora
func (f *Fake) Sleeps() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.sleeps...)
}
