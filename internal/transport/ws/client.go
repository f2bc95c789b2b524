// Package ws is the websocket binding to the game host. The client
// buffers validated commands during a tick and flushes them as a single
// ACT message; the host applies them atomically at the tick boundary.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"spiritgrid.ai/internal/protocol"
)

const (
	handshakeTimeout = 5 * time.Second
	writeTimeout     = 5 * time.Second
	readTimeout      = 60 * time.Second
)

type Client struct {
	conn *websocket.Conn
	log  *log.Logger

	playerID string
	params   protocol.GameParams

	mu      sync.Mutex
	pending []protocol.Command
}

// Dial connects, performs the HELLO/WELCOME handshake and returns a
// client bound to the assigned player id.
func Dial(ctx context.Context, url, playerName string, logger *log.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		PlayerName:      playerName,
	}
	_ = conn.SetWriteDeadline(time.Now().Add(handshakeTimeout))
	if err := conn.WriteJSON(hello); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("send HELLO: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("read WELCOME: %w", err)
	}
	var welcome protocol.WelcomeMsg
	if err := json.Unmarshal(msg, &welcome); err != nil || welcome.Type != protocol.TypeWelcome {
		_ = conn.Close()
		return nil, fmt.Errorf("expected WELCOME, got %q", string(msg))
	}
	if welcome.ProtocolVersion != protocol.Version {
		_ = conn.Close()
		return nil, fmt.Errorf("protocol version mismatch: host %s, client %s", welcome.ProtocolVersion, protocol.Version)
	}

	return &Client{
		conn:     conn,
		log:      logger,
		playerID: welcome.PlayerID,
		params:   welcome.Params,
	}, nil
}

func (c *Client) PlayerID() string            { return c.playerID }
func (c *Client) Params() protocol.GameParams { return c.params }

// ReadTick blocks until the next TICK message, skipping anything else.
func (c *Client) ReadTick() (*protocol.TickMsg, error) {
	for {
		_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		if base.Type != protocol.TypeTick {
			continue
		}
		var tick protocol.TickMsg
		if err := json.Unmarshal(msg, &tick); err != nil {
			if c.log != nil {
				c.log.Printf("malformed TICK dropped: %v", err)
			}
			continue
		}
		return &tick, nil
	}
}

// Send buffers one command for the current tick. It satisfies the
// gateway's Host interface; nothing reaches the wire until Flush.
func (c *Client) Send(cmd protocol.Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, cmd)
	return nil
}

// Flush writes all buffered commands as one ACT for the given tick. An
// empty buffer writes nothing; dispatched commands cannot be revoked once
// flushed.
func (c *Client) Flush(tick uint64) error {
	c.mu.Lock()
	cmds := c.pending
	c.pending = nil
	c.mu.Unlock()

	if len(cmds) == 0 {
		return nil
	}
	act := protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		Tick:            tick,
		PlayerID:        c.playerID,
		Commands:        cmds,
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(act)
}

func (c *Client) Close() error {
	return c.conn.Close()
}
