// Package feed delivers live order updates. A websocket push channel is
// the primary mechanism; every inbound event triggers a full-table
// reconciliation pull rather than a partial patch. A fixed-interval
// poll performs the same pull regardless of channel state, so a silent
// or broken channel still converges, and the connect loop keeps
// retrying with a constant delay.
package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"canteen-client/internal/config"
	"canteen-client/internal/model"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// Conn is a single push-channel connection.
type Conn interface {
	// ReadEvent blocks until the next event arrives or the connection
	// fails.
	ReadEvent() (model.OrderStatusEvent, error)

	// Close terminates the connection, unblocking any pending read.
	Close() error
}

// Dialer establishes push-channel connections.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// TableFetcher is the slice of the API client used for reconciliation.
type TableFetcher interface {
	OrdersTable(ctx context.Context, status string) (string, error)
}

// OrderService is what the feed needs from the API client: the
// reconciliation pull plus the status update.
type OrderService interface {
	TableFetcher
	UpdateOrderStatus(ctx context.Context, orderID int64, status string) error
}

// wsConn wraps a gorilla websocket connection.
type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) ReadEvent() (model.OrderStatusEvent, error) {
	var ev model.OrderStatusEvent
	if err := c.conn.ReadJSON(&ev); err != nil {
		return model.OrderStatusEvent{}, err
	}
	return ev, nil
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

// wsDialer dials real websocket endpoints.
type wsDialer struct{}

func (wsDialer) Dial(ctx context.Context, url string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to %s: %w", url, err)
	}
	return &wsConn{conn: conn}, nil
}

// Client keeps a rendered orders table up to date. The table arrives as
// an opaque server-rendered fragment and is always replaced wholesale,
// so a refresh is idempotent and a missed event is healed by the next
// one.
type Client struct {
	cfg     config.FeedConfig
	dialer  Dialer
	orders  OrderService
	logger  zerolog.Logger
	breaker *gobreaker.CircuitBreaker

	// onTable receives each freshly fetched table fragment.
	onTable func(html string)

	mu      sync.Mutex
	filter  string
	conn    Conn
	started bool

	cancel context.CancelFunc
	wg     sync.WaitGroup

	refreshMu sync.Mutex
}

// New creates a feed client using the real websocket dialer.
func New(cfg config.FeedConfig, orders OrderService, onTable func(string), logger zerolog.Logger) *Client {
	return newClient(cfg, wsDialer{}, orders, onTable, logger)
}

// newClient is the injectable constructor used by tests.
func newClient(cfg config.FeedConfig, dialer Dialer, orders OrderService, onTable func(string), logger zerolog.Logger) *Client {
	return &Client{
		cfg:     cfg,
		dialer:  dialer,
		orders:  orders,
		onTable: onTable,
		logger:  logger.With().Str("component", "feed").Logger(),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "orders-table",
			Timeout: 10 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// Start fetches the table once, then runs the push channel and the
// periodic poll until Stop is called.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return fmt.Errorf("feed already started")
	}
	c.started = true
	ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	c.refresh(ctx)

	c.wg.Add(2)
	go c.connectLoop(ctx)
	go c.pollLoop(ctx)
	return nil
}

// Stop tears the feed down and waits for its goroutines to exit.
func (c *Client) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	conn := c.conn
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		conn.Close()
	}
	c.wg.Wait()
}

// SetFilter changes the status filter and refreshes immediately so the
// view reflects the new filter without waiting for the next event.
func (c *Client) SetFilter(ctx context.Context, status string) error {
	if status != "" && !model.ValidOrderStatus(status) {
		return model.NewDomainError(model.ErrCodeValidation, fmt.Sprintf("unknown order status %q", status))
	}

	c.mu.Lock()
	c.filter = status
	c.mu.Unlock()

	c.refresh(ctx)
	return nil
}

// Filter returns the active status filter, empty meaning all orders.
func (c *Client) Filter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Refresh forces a reconciliation pull outside the normal triggers.
func (c *Client) Refresh(ctx context.Context) {
	c.refresh(ctx)
}

// UpdateStatus moves one order to a new status. The local view is never
// mutated; the change becomes visible through the next reconciliation,
// whether an event or a poll tick triggers it.
func (c *Client) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	return c.orders.UpdateOrderStatus(ctx, orderID, status)
}

// connectLoop maintains the push channel. It is the only goroutine that
// dials, so at most one reconnect is ever pending; the delay between
// attempts is constant, not growing.
func (c *Client) connectLoop(ctx context.Context) {
	defer c.wg.Done()

	delay := backoff.NewConstantBackOff(c.cfg.ReconnectDelay)
	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := c.dialer.Dial(ctx, c.cfg.URL)
		if err != nil {
			c.logger.Warn().Err(err).Dur("retry_in", c.cfg.ReconnectDelay).Msg("push channel unavailable")
			if !sleep(ctx, delay.NextBackOff()) {
				return
			}
			continue
		}

		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()

		// Stop may have cancelled while the dial was in flight, in
		// which case it saw no connection to close. Close it here or
		// the read below would block forever.
		if ctx.Err() != nil {
			conn.Close()
			c.mu.Lock()
			c.conn = nil
			c.mu.Unlock()
			return
		}
		c.logger.Info().Str("url", c.cfg.URL).Msg("push channel connected")

		// Events may have been missed while disconnected; reconcile
		// before trusting the channel again.
		c.refresh(ctx)

		c.readEvents(ctx, conn)

		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close()

		if ctx.Err() != nil {
			return
		}
		c.logger.Warn().Dur("retry_in", c.cfg.ReconnectDelay).Msg("push channel closed, will reconnect")
		if !sleep(ctx, delay.NextBackOff()) {
			return
		}
	}
}

// readEvents consumes events until the connection fails. Every event,
// whatever its payload, triggers the same full refresh.
func (c *Client) readEvents(ctx context.Context, conn Conn) {
	for {
		ev, err := conn.ReadEvent()
		if err != nil {
			return
		}
		switch ev.Type {
		case model.EventNewOrder, model.EventOrderUpdate:
			c.logger.Debug().Str("event", ev.Type).Msg("order event received")
			c.refresh(ctx)
		default:
			c.logger.Debug().Str("event", ev.Type).Msg("ignoring unknown event")
		}
	}
}

// pollLoop pulls on a fixed cadence independent of the push channel.
// It is the safety net: a connected but silent channel, or a missed
// event, is healed by the next tick.
func (c *Client) pollLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.refresh(ctx)
		}
	}
}

// refresh pulls the full table and hands it to the consumer. Pulls are
// serialised so fragments are delivered in fetch order.
func (c *Client) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	status := c.Filter()
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.orders.OrdersTable(ctx, status)
	})
	if err != nil {
		c.logger.Warn().Err(err).Msg("orders table refresh failed")
		return
	}

	if c.onTable != nil {
		c.onTable(out.(string))
	}
}

// sleep waits for d or until ctx is cancelled; false means cancelled.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
