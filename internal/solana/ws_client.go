package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// WSClientConfig configures WebSocket client behavior.
type WSClientConfig struct {
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
	// SubscribeTimeout bounds the wait for a subscription confirmation.
	SubscribeTimeout time.Duration
}

// DefaultWSConfig returns default WebSocket configuration.
func DefaultWSConfig() WSClientConfig {
	return WSClientConfig{
		PingInterval:     30 * time.Second,
		ReadTimeout:      120 * time.Second,
		WriteTimeout:     10 * time.Second,
		SubscribeTimeout: 30 * time.Second,
	}
}

// WSClient implements SignatureWatcher over a Solana WebSocket endpoint
// using signatureSubscribe. Subscriptions are one-shot: the node fires one
// notification and drops the subscription. The client does not reconnect;
// a broken connection fails outstanding waits so callers can fall back to
// HTTP polling.
type WSClient struct {
	endpoint string
	config   WSClientConfig

	conn      *websocket.Conn
	connMu    sync.Mutex
	closed    atomic.Bool
	requestID atomic.Uint64

	// pendingSubs maps request ID to channel waiting for subscription ID
	pendingSubs   map[uint64]chan int64
	pendingSubsMu sync.Mutex

	// subs maps subscription ID to the waiting notification channel
	subs   map[int64]chan SignatureResult
	subsMu sync.Mutex

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWSClient creates a new WebSocket signature watcher and connects.
func NewWSClient(ctx context.Context, endpoint string, config *WSClientConfig) (*WSClient, error) {
	cfg := DefaultWSConfig()
	if config != nil {
		cfg = *config
	}

	c := &WSClient{
		endpoint:    endpoint,
		config:      cfg,
		pendingSubs: make(map[uint64]chan int64),
		subs:        make(map[int64]chan SignatureResult),
		done:        make(chan struct{}),
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial: %w", err)
	}
	c.conn = conn

	c.wg.Add(1)
	go c.readLoop()

	c.wg.Add(1)
	go c.pingLoop()

	return c, nil
}

// wsRequest represents a JSON-RPC 2.0 request over WebSocket.
type wsRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

// wsMessage is the union of subscription replies and notifications.
type wsMessage struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Method string          `json:"method"`
	Params *wsNotifyParams `json:"params"`
	Error  *rpcError       `json:"error"`
}

type wsNotifyParams struct {
	Subscription int64 `json:"subscription"`
	Result       struct {
		Context struct {
			Slot int64 `json:"slot"`
		} `json:"context"`
		Value struct {
			Err interface{} `json:"err"`
		} `json:"value"`
	} `json:"result"`
}

// WaitForSignature subscribes to the signature and blocks until the node
// reports it at the given commitment or ctx expires.
func (c *WSClient) WaitForSignature(ctx context.Context, signature string, commitment Commitment) (*SignatureResult, error) {
	if c.closed.Load() {
		return nil, fmt.Errorf("client closed")
	}

	reqID := c.requestID.Add(1)
	req := wsRequest{
		JSONRPC: "2.0",
		ID:      reqID,
		Method:  "signatureSubscribe",
		Params: []interface{}{
			signature,
			map[string]string{"commitment": string(commitment)},
		},
	}

	confirmCh := make(chan int64, 1)
	c.pendingSubsMu.Lock()
	c.pendingSubs[reqID] = confirmCh
	c.pendingSubsMu.Unlock()

	if err := c.writeJSON(req); err != nil {
		c.dropPending(reqID)
		return nil, fmt.Errorf("write subscribe: %w", err)
	}

	var subID int64
	select {
	case id, ok := <-confirmCh:
		if !ok {
			return nil, fmt.Errorf("connection lost before subscription confirmed")
		}
		subID = id
	case <-time.After(c.config.SubscribeTimeout):
		c.dropPending(reqID)
		return nil, fmt.Errorf("subscription timeout after %s", c.config.SubscribeTimeout)
	case <-c.done:
		return nil, fmt.Errorf("client closed")
	case <-ctx.Done():
		c.dropPending(reqID)
		return nil, ctx.Err()
	}

	notifyCh := make(chan SignatureResult, 1)
	c.subsMu.Lock()
	c.subs[subID] = notifyCh
	c.subsMu.Unlock()

	select {
	case result, ok := <-notifyCh:
		if !ok {
			return nil, fmt.Errorf("connection lost while waiting for signature")
		}
		return &result, nil
	case <-c.done:
		return nil, fmt.Errorf("client closed")
	case <-ctx.Done():
		c.unsubscribe(subID)
		return nil, ctx.Err()
	}
}

// writeJSON writes one message under the connection lock.
func (c *WSClient) writeJSON(v interface{}) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}
	c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	return c.conn.WriteJSON(v)
}

// dropPending removes a pending subscription entry.
func (c *WSClient) dropPending(reqID uint64) {
	c.pendingSubsMu.Lock()
	delete(c.pendingSubs, reqID)
	c.pendingSubsMu.Unlock()
}

// unsubscribe cancels an active subscription after a local timeout.
func (c *WSClient) unsubscribe(subID int64) {
	c.subsMu.Lock()
	delete(c.subs, subID)
	c.subsMu.Unlock()

	req := wsRequest{
		JSONRPC: "2.0",
		ID:      c.requestID.Add(1),
		Method:  "signatureUnsubscribe",
		Params:  []interface{}{subID},
	}
	// Best effort; the node also drops the sub when the signature fires.
	_ = c.writeJSON(req)
}

// Close closes the WebSocket connection and fails outstanding waits.
func (c *WSClient) Close() error {
	if c.closed.Swap(true) {
		return nil // Already closed
	}

	close(c.done)

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.conn.Close()
	}
	c.connMu.Unlock()

	c.failAllWaiters()
	c.wg.Wait()
	return nil
}

// failAllWaiters closes every pending and active subscription channel.
func (c *WSClient) failAllWaiters() {
	c.pendingSubsMu.Lock()
	for id, ch := range c.pendingSubs {
		close(ch)
		delete(c.pendingSubs, id)
	}
	c.pendingSubsMu.Unlock()

	c.subsMu.Lock()
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
	c.subsMu.Unlock()
}

// readLoop reads messages and dispatches replies and notifications.
func (c *WSClient) readLoop() {
	defer c.wg.Done()

	for !c.closed.Load() {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()
		if conn == nil {
			return
		}

		conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if !c.closed.Load() {
				// Broken connection: fail waiters so callers fall back
				// to HTTP polling.
				c.failAllWaiters()
			}
			return
		}

		c.handleMessage(message)
	}
}

// handleMessage routes one incoming message.
func (c *WSClient) handleMessage(message []byte) {
	var msg wsMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return
	}

	// Subscription confirmation: {"id": N, "result": <subID>}
	if msg.ID != 0 && msg.Method == "" {
		c.pendingSubsMu.Lock()
		ch, ok := c.pendingSubs[msg.ID]
		if ok {
			delete(c.pendingSubs, msg.ID)
		}
		c.pendingSubsMu.Unlock()
		if !ok {
			return
		}

		if msg.Error != nil {
			close(ch)
			return
		}
		var subID int64
		if err := json.Unmarshal(msg.Result, &subID); err != nil {
			close(ch)
			return
		}
		ch <- subID
		return
	}

	// Signature notification
	if msg.Method == "signatureNotification" && msg.Params != nil {
		c.subsMu.Lock()
		ch, ok := c.subs[msg.Params.Subscription]
		if ok {
			delete(c.subs, msg.Params.Subscription)
		}
		c.subsMu.Unlock()
		if !ok {
			return
		}

		ch <- SignatureResult{
			Slot: msg.Params.Result.Context.Slot,
			Err:  msg.Params.Result.Value.Err,
		}
	}
}

// pingLoop sends periodic pings to keep the connection alive.
func (c *WSClient) pingLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.connMu.Lock()
			if c.conn != nil {
				c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
				c.conn.WriteMessage(websocket.PingMessage, nil)
			}
			c.connMu.Unlock()
		}
	}
}

var _ SignatureWatcher = (*WSClient)(nil)
