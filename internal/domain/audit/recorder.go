package audit

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Recorder accepts audit entries from business services. Recording is
// best-effort: a Recorder never reports failure to its caller, so audit
// problems cannot fail a booking or a cancellation.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

// RecorderFunc is a function adapter for Recorder.
type RecorderFunc func(ctx context.Context, e Entry)

func (f RecorderFunc) Record(ctx context.Context, e Entry) { f(ctx, e) }

// ActorResolver checks whether a proposed actor exists. Unknown actors are
// stored as NULL rather than rejected.
type ActorResolver interface {
	UserExists(ctx context.Context, id int64) (bool, error)
}

// ActorResolverFunc is a function adapter for ActorResolver.
type ActorResolverFunc func(ctx context.Context, id int64) (bool, error)

func (f ActorResolverFunc) UserExists(ctx context.Context, id int64) (bool, error) {
	return f(ctx, id)
}

// AsyncRecorder buffers entries on a bounded channel and persists them from a
// background goroutine. Record never blocks: when the buffer is full the
// entry is dropped and logged.
type AsyncRecorder struct {
	repo     Repository
	resolver ActorResolver
	logger   zerolog.Logger
	queue    chan Record
	done     chan struct{}
}

func NewAsyncRecorder(repo Repository, resolver ActorResolver, logger zerolog.Logger, buffer int) *AsyncRecorder {
	if buffer <= 0 {
		buffer = 256
	}
	return &AsyncRecorder{
		repo:     repo,
		resolver: resolver,
		logger:   logger,
		queue:    make(chan Record, buffer),
		done:     make(chan struct{}),
	}
}

// Record implements Recorder. It is a plain channel send; actor resolution
// and persistence both happen on the writer goroutine, so a slow store never
// delays the calling operation.
func (r *AsyncRecorder) Record(_ context.Context, e Entry) {
	rec := Record{
		Entity:      e.Entity,
		Action:      e.Action,
		OccurredAt:  time.Now().UTC(),
		ActorID:     e.ActorID,
		Description: e.Description,
	}

	select {
	case r.queue <- rec:
	default:
		r.logger.Error().
			Str("entity", rec.Entity).
			Str("action", rec.Action).
			Msg("audit buffer full, entry dropped")
	}
}

func (r *AsyncRecorder) resolveActor(ctx context.Context, actorID *int64) *int64 {
	if actorID == nil || r.resolver == nil {
		return actorID
	}
	ok, err := r.resolver.UserExists(ctx, *actorID)
	if err != nil {
		r.logger.Error().Err(err).Int64("actor_id", *actorID).Msg("actor lookup failed")
		return nil
	}
	if !ok {
		return nil
	}
	return actorID
}

// Start runs the writer loop until ctx is cancelled, then drains whatever is
// still buffered. Call from a goroutine; Wait blocks until the drain is done.
func (r *AsyncRecorder) Start(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case rec := <-r.queue:
			r.persist(rec)
		case <-ctx.Done():
			for {
				select {
				case rec := <-r.queue:
					r.persist(rec)
				default:
					return
				}
			}
		}
	}
}

// Wait blocks until the writer loop has exited.
func (r *AsyncRecorder) Wait() {
	<-r.done
}

func (r *AsyncRecorder) persist(rec Record) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rec.ActorID = r.resolveActor(ctx, rec.ActorID)
	if err := r.repo.Insert(ctx, &rec); err != nil {
		r.logger.Error().Err(err).
			Str("entity", rec.Entity).
			Str("action", rec.Action).
			Msg("failed to persist audit record")
	}
}
