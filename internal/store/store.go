// Package store maintains a locally-cached, eventually-consistent
// mirror of the remote post table. All mutations pass through the
// store's own methods; inbound change-feed events are merged by a
// single reconciliation goroutine, keyed by post id so that echoes of
// this client's own mutations are harmless.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jmorgan-nz/kiwiki/internal/domain"
)

// Remote is the post service the store mirrors: CRUD plus a change
// feed. backend.Client implements it for the hosted service and
// repository.SQLitePostRepo implements it for the offline fallback.
type Remote interface {
	FetchAll(ctx context.Context) ([]domain.Post, error)
	Insert(ctx context.Context, draft domain.PostDraft) (domain.Post, error)
	Update(ctx context.Context, id string, patch domain.PostPatch) (domain.Post, error)
	Delete(ctx context.Context, id string) error
	Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, func(), error)
}

// Store is the canonical in-memory post list. Readers get copies;
// nothing outside this package mutates the cache.
type Store struct {
	remote Remote

	mu      sync.Mutex
	posts   []domain.Post
	loading bool
	lastErr error

	watchers []chan struct{}

	release func()
	done    chan struct{}
	closed  bool
}

// Open subscribes to the remote change feed and starts the
// reconciliation loop. The caller should follow up with FetchAll to
// populate the cache, and must Close the store to release the feed.
func Open(ctx context.Context, remote Remote) (*Store, error) {
	events, release, err := remote.Subscribe(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening post store: %w", err)
	}
	s := &Store{
		remote:  remote,
		release: release,
		done:    make(chan struct{}),
	}
	go s.reconcileLoop(events)
	return s, nil
}

// Close releases the change-feed subscription and stops the
// reconciliation loop. Safe to call more than once.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.release()
	<-s.done

	s.mu.Lock()
	for _, w := range s.watchers {
		close(w)
	}
	s.watchers = nil
	s.mu.Unlock()
}

// ── reads ────────────────────────────────────────────────────────────────────

// Posts returns a snapshot of the cache in its current order.
func (s *Store) Posts() []domain.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// Get returns the cached post with the given id.
func (s *Store) Get(id string) (domain.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == id {
			return s.posts[i], true
		}
	}
	return domain.Post{}, false
}

// Loading reports whether a FetchAll is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the store-wide error value: the most recent fetch or
// mutation failure. It is cleared only by the next successful FetchAll.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Watch returns a channel that receives a coalesced signal whenever the
// cache, loading flag, or error value changes. The channel is closed
// when the store closes.
func (s *Store) Watch() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	if s.closed {
		close(ch)
	} else {
		s.watchers = append(s.watchers, ch)
	}
	s.mu.Unlock()
	return ch
}

// ── operations ───────────────────────────────────────────────────────────────

// FetchAll retrieves every post from the remote, ordered
// most-recently-updated first. Success replaces the whole cache and
// clears the error value; failure sets the error and keeps the
// previous cache.
func (s *Store) FetchAll(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	s.notify()

	posts, err := s.remote.FetchAll(ctx)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.lastErr = err
	} else {
		s.posts = posts
		s.lastErr = nil
	}
	s.mu.Unlock()
	s.notify()
	return err
}

// Create inserts a draft remotely and prepends the assigned post to the
// cache without waiting for the realtime echo. The caller supplies a
// valid, trimmed draft; the store does not re-validate.
func (s *Store) Create(ctx context.Context, draft domain.PostDraft) (domain.Post, error) {
	post, err := s.remote.Insert(ctx, draft)
	if err != nil {
		s.setErr(err)
		return domain.Post{}, err
	}
	s.mu.Lock()
	s.insertLocked(post)
	s.mu.Unlock()
	s.notify()
	return post, nil
}

// Update applies a partial field set remotely and replaces the matching
// cached entry in place. Category, subcategory, and createdAt never
// change.
func (s *Store) Update(ctx context.Context, id string, patch domain.PostPatch) (domain.Post, error) {
	post, err := s.remote.Update(ctx, id, patch)
	if err != nil {
		s.setErr(err)
		return domain.Post{}, err
	}
	s.mu.Lock()
	s.replaceLocked(post)
	s.mu.Unlock()
	s.notify()
	return post, nil
}

// Remove deletes the post remotely, then drops it from the cache. On
// failure the entry stays visible; there is no optimistic removal.
func (s *Store) Remove(ctx context.Context, id string) error {
	if err := s.remote.Delete(ctx, id); err != nil {
		s.setErr(err)
		return err
	}
	s.mu.Lock()
	s.removeLocked(id)
	s.mu.Unlock()
	s.notify()
	return nil
}

// ── reconciliation ───────────────────────────────────────────────────────────

// reconcileLoop is the single consumer of the change feed. The feed is
// driven by other clients' independent actions, so every case must
// tolerate unknown and duplicate ids.
func (s *Store) reconcileLoop(events <-chan domain.ChangeEvent) {
	defer close(s.done)
	for ev := range events {
		s.mu.Lock()
		switch ev.Kind {
		case domain.EventInsert:
			s.insertLocked(ev.Post)
		case domain.EventUpdate:
			// An unknown id here means the initial fetch raced this
			// mutation; the event carries the full record, so treat it
			// as an insert rather than dropping it.
			s.replaceLocked(ev.Post)
		case domain.EventDelete:
			s.removeLocked(ev.Post.ID)
		}
		s.mu.Unlock()
		s.notify()
	}
}

// insertLocked prepends the post unless an entry with its id already
// exists (its own optimistic create, or a duplicate echo).
func (s *Store) insertLocked(post domain.Post) {
	for i := range s.posts {
		if s.posts[i].ID == post.ID {
			return
		}
	}
	s.posts = append([]domain.Post{post}, s.posts...)
}

// replaceLocked swaps the entry with the matching id in place, keeping
// its position; unknown ids are prepended.
func (s *Store) replaceLocked(post domain.Post) {
	for i := range s.posts {
		if s.posts[i].ID == post.ID {
			s.posts[i] = post
			return
		}
	}
	s.posts = append([]domain.Post{post}, s.posts...)
}

// removeLocked drops the entry with the given id; unknown ids are a
// no-op.
func (s *Store) removeLocked(id string) {
	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			return
		}
	}
}

func (s *Store) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	s.notify()
}

// notify wakes every watcher without blocking; a watcher that already
// has a pending signal is skipped.
func (s *Store) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for _, w := range s.watchers {
		select {
		case w <- struct{}{}:
		default:
		}
	}
}
