// Package arena is the thin session-layer connection. The gateway owns
// everything on-ledger (commit hashing, signing, submission,
// confirmation) and streams phase state down; this client only decodes
// events and encodes decisions.
package arena

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"ArenaFighter/internal/domain/models"
	drepo "ArenaFighter/internal/domain/repository"
	"ArenaFighter/pkg/logger"
)

// Client implements an ArenaStream over a websocket gateway.
type Client struct {
	gatewayURL     string
	wallet         string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	log            *logger.Logger

	writeMu   sync.Mutex
	conn      *websocket.Conn
	connected bool
}

// New creates an arena stream client for the given wallet.
func New(gatewayURL, wallet string, reconnectDelay, pingInterval time.Duration, log *logger.Logger) drepo.ArenaStream {
	return &Client{
		gatewayURL:     gatewayURL,
		wallet:         wallet,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		log:            log,
	}
}

// Connect establishes the websocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?wallet=%s", c.gatewayURL, c.wallet)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("arena connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	c.log.Info("arena: connected", logger.String("gateway", c.gatewayURL))
	return nil
}

// Subscribe registers for this wallet's game phase events.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("arena not connected")
	}
	return c.writeJSON(map[string]string{"type": "subscribe", "wallet": c.wallet})
}

// Read streams arena events and errors until the context ends.
func (c *Client) Read(ctx context.Context) (<-chan *models.ArenaEvent, <-chan error) {
	events := make(chan *models.ArenaEvent, 64)
	errs := make(chan error, 1)

	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					c.writeMu.Lock()
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
					c.writeMu.Unlock()
				}
			}
		}
	}()

	go func() {
		defer close(events)
		for {
			if ctx.Err() != nil {
				return
			}
			var ev models.ArenaEvent
			if err := c.conn.ReadJSON(&ev); err != nil {
				c.connected = false
				select {
				case errs <- fmt.Errorf("arena read: %w", err):
				default:
				}
				return
			}
			select {
			case events <- &ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, errs
}

// actionFrame is the outbound wire format. The gateway maps Action to
// the ledger call; everything we can emit must have an entry in the
// mapping tables below.
type actionFrame struct {
	Type      string  `json:"type"`
	Action    string  `json:"action"`
	GameID    string  `json:"game_id,omitempty"`
	Opponent  string  `json:"opponent,omitempty"`
	Move      uint8   `json:"move,omitempty"`
	AmountWei uint64  `json:"amount_wei,omitempty"`
	Strategy  string  `json:"strategy,omitempty"`
	Conf      float64 `json:"confidence,omitempty"`
}

var cardActionIDs = map[models.CardActionKind]string{
	models.ActCheck: "card_check",
	models.ActBet:   "card_bet",
	models.ActCall:  "card_call",
	models.ActRaise: "card_raise",
	models.ActFold:  "card_fold",
}

// SendMove submits a sign-game move commit.
func (c *Client) SendMove(ctx context.Context, gameID string, d models.MoveDecision) error {
	if !d.Move.Valid() {
		return fmt.Errorf("arena: move %d has no ledger mapping", d.Move)
	}
	return c.writeJSON(actionFrame{
		Type:     "action",
		Action:   "commit_move",
		GameID:   gameID,
		Move:     uint8(d.Move),
		Strategy: string(d.Strategy),
		Conf:     d.Confidence,
	})
}

// SendCardAction submits a card-game action.
func (c *Client) SendCardAction(ctx context.Context, gameID string, d models.CardDecision) error {
	id, ok := cardActionIDs[d.Action]
	if !ok {
		return fmt.Errorf("arena: card action %d has no ledger mapping", d.Action)
	}
	return c.writeJSON(actionFrame{
		Type:      "action",
		Action:    id,
		GameID:    gameID,
		AmountWei: d.AmountWei,
		Conf:      d.Confidence,
	})
}

// SendBid submits a sealed auction bid.
func (c *Client) SendBid(ctx context.Context, gameID string, d models.BidDecision) error {
	return c.writeJSON(actionFrame{
		Type:      "action",
		Action:    "sealed_bid",
		GameID:    gameID,
		AmountWei: d.AmountWei,
		Strategy:  string(d.Style),
	})
}

// Challenge opens a wagered challenge against an opponent.
func (c *Client) Challenge(ctx context.Context, opponent string, wagerWei uint64) error {
	return c.writeJSON(actionFrame{
		Type:      "action",
		Action:    "challenge",
		Opponent:  opponent,
		AmountWei: wagerWei,
	})
}

// Reconnect tears down and redials after the configured delay.
func (c *Client) Reconnect(ctx context.Context) error {
	c.connected = false
	if c.conn != nil {
		_ = c.conn.Close()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.reconnectDelay):
	}

	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close shuts the connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected reports connection state.
func (c *Client) IsConnected() bool { return c.connected }

func (c *Client) writeJSON(v interface{}) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("arena not connected")
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}
