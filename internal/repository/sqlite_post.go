// Package repository holds the local fallback post table: the
// superseded offline alternative to the hosted service. It implements
// the same remote contract as the backend client, including a loopback
// change feed that echoes this process's own mutations, so the store
// behaves identically in both modes.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmorgan-nz/kiwiki/internal/domain"
)

// ErrPostNotFound is returned when an update or delete names an id the
// table does not hold.
var ErrPostNotFound = fmt.Errorf("post not found")

const feedBuffer = 16

// SQLitePostRepo stores posts in the local SQLite database and plays
// the remote's role for the post store when no backend is configured.
type SQLitePostRepo struct {
	db *sql.DB

	mu         sync.Mutex
	feed       chan domain.ChangeEvent
	subscribed bool
	released   bool
}

// NewSQLitePostRepo creates a new SQLitePostRepo.
func NewSQLitePostRepo(db *sql.DB) *SQLitePostRepo {
	return &SQLitePostRepo{
		db:   db,
		feed: make(chan domain.ChangeEvent, feedBuffer),
	}
}

const postColumns = `id, title, content, writer, category, subcategory, created_at, updated_at`

// FetchAll returns every post, most recently updated first.
func (r *SQLitePostRepo) FetchAll(ctx context.Context) ([]domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY updated_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating posts: %w", err)
	}
	return posts, nil
}

// Insert stores a new post. With no server to assign ids, the repo
// generates one and stamps both timestamps with now, like the hosted
// service would.
func (r *SQLitePostRepo) Insert(ctx context.Context, draft domain.PostDraft) (domain.Post, error) {
	now := time.Now().UTC()
	post := domain.Post{
		ID:          uuid.New().String(),
		Title:       draft.Title,
		Content:     draft.Content,
		Writer:      draft.Writer,
		Category:    draft.Category,
		Subcategory: draft.Subcategory,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	query := `INSERT INTO posts (` + postColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		post.ID,
		post.Title,
		post.Content,
		post.Writer,
		post.Category,
		post.Subcategory,
		post.CreatedAt.Format(time.RFC3339),
		post.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return domain.Post{}, fmt.Errorf("inserting post: %w", err)
	}
	r.emit(domain.ChangeEvent{Kind: domain.EventInsert, Post: post})
	return post, nil
}

// Update applies a partial field set to an existing post and refreshes
// its updated_at. Category and subcategory are immutable and not part
// of the statement.
func (r *SQLitePostRepo) Update(ctx context.Context, id string, patch domain.PostPatch) (domain.Post, error) {
	current, err := r.getByID(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}
	patch.Apply(&current)
	current.UpdatedAt = time.Now().UTC()

	query := `UPDATE posts SET title = ?, content = ?, writer = ?, updated_at = ? WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query,
		current.Title,
		current.Content,
		current.Writer,
		current.UpdatedAt.Format(time.RFC3339),
		current.ID,
	)
	if err != nil {
		return domain.Post{}, fmt.Errorf("updating post: %w", err)
	}
	r.emit(domain.ChangeEvent{Kind: domain.EventUpdate, Post: current})
	return current, nil
}

// Delete removes the post with the given id. Deleting an absent id is
// not an error and emits no event.
func (r *SQLitePostRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		r.emit(domain.ChangeEvent{Kind: domain.EventDelete, Post: domain.Post{ID: id}})
	}
	return nil
}

// Subscribe hands out the loopback feed. Only this process writes the
// table, so the only events are echoes of its own mutations.
func (r *SQLitePostRepo) Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return nil, nil, fmt.Errorf("subscribing to local feed: feed already released")
	}
	r.subscribed = true
	release := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if !r.released {
			r.released = true
			r.subscribed = false
			close(r.feed)
		}
	}
	return r.feed, release, nil
}

func (r *SQLitePostRepo) getByID(ctx context.Context, id string) (domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return domain.Post{}, fmt.Errorf("post %q: %w", id, ErrPostNotFound)
	}
	return p, err
}

// emit pushes a change event without ever blocking a mutation on a
// stalled consumer.
func (r *SQLitePostRepo) emit(ev domain.ChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.subscribed || r.released {
		return
	}
	select {
	case r.feed <- ev:
	default:
	}
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (domain.Post, error) {
	var p domain.Post
	var createdStr, updatedStr string

	err := row.Scan(
		&p.ID, &p.Title, &p.Content, &p.Writer,
		&p.Category, &p.Subcategory,
		&createdStr, &updatedStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Post{}, err
		}
		return domain.Post{}, fmt.Errorf("scanning post: %w", err)
	}

	p.CreatedAt, err = time.Parse(time.RFC3339, createdStr)
	if err != nil {
		return domain.Post{}, fmt.Errorf("parsing created_at: %w", err)
	}
	p.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr)
	if err != nil {
		return domain.Post{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return p, nil
}
