// Package backend implements the client for the hosted post service: a
// JSON-RPC-style protocol over a single websocket carrying both
// request/response CRUD calls and pushed change-feed notifications.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jmorgan-nz/kiwiki/internal/domain"
)

// ErrClosed is returned by calls made after the connection is gone.
var ErrClosed = errors.New("backend connection closed")

// eventBuffer bounds the change-feed channel. The reconciliation loop
// drains continuously, so this only absorbs short bursts.
const eventBuffer = 32

// Client is a connection to the post service. All methods are safe for
// concurrent use. A Client holds at most one change-feed subscription.
type Client struct {
	conn        *websocket.Conn
	callTimeout time.Duration // 0 means the caller's context bounds each call

	writeMu sync.Mutex // one writer at a time on the websocket

	mu           sync.Mutex
	pending      map[string]chan rpcResponse
	closed       bool
	closeErr     error
	subscribed   bool
	events       chan domain.ChangeEvent
	eventsClosed bool
}

// Dial connects to the post service at the given websocket URL.
func Dial(ctx context.Context, url string) (*Client, error) {
	return DialConfig(ctx, Config{URL: url})
}

// DialConfig is Dial with explicit connection settings applied.
func DialConfig(ctx context.Context, cfg Config) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing backend %s: %w", cfg.URL, err)
	}
	c := &Client{
		conn:        conn,
		callTimeout: cfg.CallTimeout,
		pending:     map[string]chan rpcResponse{},
		events:      make(chan domain.ChangeEvent, eventBuffer),
	}
	go c.readLoop()
	return c, nil
}

// Close tears down the connection. Pending calls fail with ErrClosed
// and the change-feed channel is closed.
func (c *Client) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	c.writeMu.Lock()
	_ = c.conn.WriteMessage(websocket.CloseMessage, msg)
	c.writeMu.Unlock()
	err := c.conn.Close()
	c.shutdown(ErrClosed)
	return err
}

// FetchAll retrieves every post, ordered most-recently-updated first.
func (c *Client) FetchAll(ctx context.Context) ([]domain.Post, error) {
	var records []wireRecord
	if err := c.call(ctx, "select", nil, &records); err != nil {
		return nil, fmt.Errorf("fetching posts: %w", err)
	}
	posts := make([]domain.Post, 0, len(records))
	for i := range records {
		p, err := records[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("decoding post %q: %w", records[i].ID, err)
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// Insert creates a post from a draft. The service assigns the id and
// sets created_at = updated_at = now.
func (c *Client) Insert(ctx context.Context, draft domain.PostDraft) (domain.Post, error) {
	var record wireRecord
	if err := c.call(ctx, "insert", []any{draftFields(draft)}, &record); err != nil {
		return domain.Post{}, fmt.Errorf("inserting post: %w", err)
	}
	post, err := record.toDomain()
	if err != nil {
		return domain.Post{}, fmt.Errorf("decoding inserted post: %w", err)
	}
	return post, nil
}

// Update applies a partial field set to the post with the given id and
// returns the refreshed record with its new updated_at.
func (c *Client) Update(ctx context.Context, id string, patch domain.PostPatch) (domain.Post, error) {
	var record wireRecord
	if err := c.call(ctx, "update", []any{id, patchFields(patch)}, &record); err != nil {
		return domain.Post{}, fmt.Errorf("updating post %q: %w", id, err)
	}
	post, err := record.toDomain()
	if err != nil {
		return domain.Post{}, fmt.Errorf("decoding updated post: %w", err)
	}
	return post, nil
}

// Delete removes the post with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.call(ctx, "delete", []any{id}, nil); err != nil {
		return fmt.Errorf("deleting post %q: %w", id, err)
	}
	return nil
}

// Subscribe starts the change feed for the post table. It returns the
// event channel and a release function; the channel is closed by the
// release func or when the connection shuts down, whichever comes
// first. Subscribing twice returns the same channel. Pushes that
// arrive while the consumer is stalled and the buffer is full are
// dropped; after a sustained burst the consumer must refetch to
// resynchronize.
func (c *Client) Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, func(), error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, nil, ErrClosed
	}
	already := c.subscribed
	c.subscribed = true
	c.mu.Unlock()

	if !already {
		if err := c.call(ctx, "live", []any{"posts"}, nil); err != nil {
			c.mu.Lock()
			c.subscribed = false
			c.mu.Unlock()
			return nil, nil, fmt.Errorf("subscribing to change feed: %w", err)
		}
	}

	release := func() {
		c.mu.Lock()
		c.subscribed = false
		c.closeEventsLocked()
		c.mu.Unlock()
		// Best effort: the service stops pushing once the live query dies.
		_ = c.call(context.Background(), "kill", []any{"posts"}, nil)
	}
	return c.events, release, nil
}

// call performs one request/response round trip. result, when non-nil,
// receives the unmarshalled result payload.
func (c *Client) call(ctx context.Context, method string, params []any, result any) error {
	if c.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}

	id := uuid.NewString()
	ch := make(chan rpcResponse, 1)

	c.mu.Lock()
	if c.closed {
		err := c.closeErr
		c.mu.Unlock()
		return err
	}
	c.pending[id] = ch
	c.mu.Unlock()

	req := rpcRequest{ID: id, Method: method, Params: params}
	c.writeMu.Lock()
	err := c.conn.WriteJSON(req)
	c.writeMu.Unlock()
	if err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return fmt.Errorf("sending %s request: %w", method, err)
	}

	select {
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return ctx.Err()
	case resp, ok := <-ch:
		if !ok {
			return ErrClosed
		}
		if resp.Error != nil {
			return resp.Error
		}
		if result != nil && len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("decoding %s result: %w", method, err)
			}
		}
		return nil
	}
}

// readLoop dispatches inbound frames: responses to their pending call,
// notifications to the change-feed channel. It exits when the
// connection fails or closes.
func (c *Client) readLoop() {
	for {
		var resp rpcResponse
		if err := c.conn.ReadJSON(&resp); err != nil {
			c.shutdown(fmt.Errorf("%w: %v", ErrClosed, err))
			return
		}
		if resp.ID != "" {
			c.mu.Lock()
			ch, ok := c.pending[resp.ID]
			if ok {
				delete(c.pending, resp.ID)
			}
			c.mu.Unlock()
			if ok {
				ch <- resp
			}
			continue
		}
		if resp.Notify != nil {
			c.dispatchNotification(resp.Notify)
		}
	}
}

// dispatchNotification converts one push into a ChangeEvent. Frames the
// client cannot interpret are dropped; the feed reflects other clients'
// actions and must never take this one down.
func (c *Client) dispatchNotification(n *rpcNotification) {
	var kind domain.EventKind
	switch n.Action {
	case "insert":
		kind = domain.EventInsert
	case "update":
		kind = domain.EventUpdate
	case "delete":
		kind = domain.EventDelete
	default:
		return
	}
	post, err := n.Record.toDomain()
	if err != nil {
		// Delete pushes may carry only the id of the prior record.
		if kind != domain.EventDelete || n.Record.ID == "" {
			return
		}
		post = domain.Post{ID: n.Record.ID}
	}

	// The send stays under the mutex so release can never close the
	// channel between the subscribed check and the push.
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.subscribed || c.closed || c.eventsClosed {
		return
	}
	select {
	case c.events <- domain.ChangeEvent{Kind: kind, Post: post}:
	default:
		// Feed consumer stalled; drop rather than block the read loop.
	}
}

// shutdown fails every pending call and closes the event channel. Safe
// to call more than once.
func (c *Client) shutdown(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.closeErr = err
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	c.closeEventsLocked()
}

// closeEventsLocked closes the change-feed channel exactly once,
// whether release or shutdown gets there first. Caller holds mu.
func (c *Client) closeEventsLocked() {
	if !c.eventsClosed {
		c.eventsClosed = true
		close(c.events)
	}
}
