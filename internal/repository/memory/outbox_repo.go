package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/jimlawless/whereami"
)

// OutboxRepo держит очередь событий в памяти для режима без Postgres.
type OutboxRepo struct {
	mu     sync.Mutex
	nextID int64
	events []*usecase.OutboxEvent
}

func NewOutboxRepo() *OutboxRepo {
	return &OutboxRepo{}
}

func (r *OutboxRepo) Create(_ context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.events {
		if existing.EventID == event.EventID {
			return nil, fmt.Errorf("%s: event with id %s already exists", whereami.WhereAmI(), event.EventID)
		}
	}

	r.nextID++
	stored := *event
	stored.ID = r.nextID
	stored.Status = usecase.Pending
	stored.Payload = slices.Clone(event.Payload)
	r.events = append(r.events, &stored)

	out := stored
	return &out, nil
}

// GetAndMarkAsProcessing забирает до limit старейших pending-событий.
func (r *OutboxRepo) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*usecase.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*usecase.OutboxEvent
	for _, event := range r.events {
		if len(result) >= limit {
			break
		}
		if event.Status != usecase.Pending {
			continue
		}
		event.Status = usecase.Processing
		out := *event
		result = append(result, &out)
	}
	return result, nil
}

// MarkAsProcessed удаляет отправленное событие, чтобы очередь не росла.
func (r *OutboxRepo) MarkAsProcessed(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = slices.DeleteFunc(r.events, func(event *usecase.OutboxEvent) bool {
		return event.ID == id && event.Status == usecase.Processing
	})
	return nil
}

func (r *OutboxRepo) Release(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, event := range r.events {
		if event.ID == id && event.Status == usecase.Processing {
			event.Status = usecase.Pending
		}
	}
	return nil
}

// Pending возвращает число неотправленных событий.
func (r *OutboxRepo) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, event := range r.events {
		if event.Status != usecase.Processed {
			n++
		}
	}
	return n
}
