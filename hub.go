package main

import (
	"context"

	"github.com/gorilla/websocket"
)

// Client is one live websocket connection. Its id is the connection
// identity everything else keys on; it changes on every reconnect while the
// durable contestant record does not.
type Client struct {
	conn *websocket.Conn
	send chan any
	id   string
	addr string
}

type inboundMessage struct {
	client *Client
	msg    clientMessage
}

type genResult struct {
	board      Board
	categories []string
	err        error
}

// Hub owns the game state and serializes every action against it. All
// channels funnel into the single run goroutine, so transitions apply
// atomically relative to each other and no mutation ever interleaves.
type Hub struct {
	cfg       *Config
	sessions  *sessionRegistry
	game      *Game
	loader    boardLoader
	generator *generator

	register   chan *Client
	unregister chan *Client
	inbound    chan inboundMessage
	genResults chan genResult

	clients    map[*Client]bool
	generating bool
}

func newHub(cfg *Config, sessions *sessionRegistry, loader boardLoader, gen *generator) *Hub {
	return &Hub{
		cfg:        cfg,
		sessions:   sessions,
		game:       newGame(cfg),
		loader:     loader,
		generator:  gen,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inboundMessage),
		genResults: make(chan genResult),
		clients:    make(map[*Client]bool),
	}
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			logf(h.cfg, "GAMES: Client connected: %s from %s", c.id, c.addr)

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			logf(h.cfg, "GAMES: Client disconnected: %s", c.id)
			h.deliver(h.game.Disconnect(c.id), nil)

		case in := <-h.inbound:
			h.dispatch(in)

		case res := <-h.genResults:
			h.finishGeneration(res)
		}
	}
}

// dispatch routes one decoded client action into the state machine and fans
// the resulting events out. Unknown types are ignored.
func (h *Hub) dispatch(in inboundMessage) {
	c := in.client
	msg := in.msg

	switch msg.Type {
	case "create-session":
		h.createSession(c, msg)

	case "join-as-host":
		h.joinHost(c, msg)

	case "join-as-contestant":
		if msg.SessionID != "" && h.sessions.lookup(msg.SessionID) == nil {
			h.sendTo(c, AuthErrorMessage{Type: "auth-error", Message: "Invalid session ID"})
			return
		}
		h.deliver(h.game.JoinContestant(c.id, c.addr, msg.SessionID, msg.ContestantName), c)

	case "select-question":
		h.deliver(h.game.SelectQuestion(c.id, msg.Row, msg.Col), c)

	case "buzz-in":
		h.deliver(h.game.Buzz(c.id), c)

	case "daily-double-wager":
		if msg.Wager == nil {
			return
		}
		h.deliver(h.game.SetWager(c.id, *msg.Wager), c)

	case "judge-answer":
		if msg.Correct == nil {
			return
		}
		h.deliver(h.game.JudgeAnswer(c.id, *msg.Correct), c)

	case "start-final-jeopardy":
		h.deliver(h.game.StartFinalRound(c.id), c)

	case "final-jeopardy-wager":
		if msg.Wager == nil {
			return
		}
		h.deliver(h.game.FinalWager(c.id, *msg.Wager), c)

	case "judge-final-jeopardy":
		h.deliver(h.game.JudgeFinalRound(c.id, msg.Answers), c)

	case "reset-game":
		h.deliver(h.game.ResetGame(c.id), c)

	case "regenerate-questions":
		h.regenerate(c)

	default:
		// ignore unknown types
	}
}

func (h *Hub) createSession(c *Client, msg clientMessage) {
	if msg.HostPassword != h.cfg.hostPassword {
		h.sendTo(c, AuthErrorMessage{Type: "auth-error", Message: "Invalid host password"})
		return
	}

	s := h.sessions.create(msg.HostPassword)
	logf(h.cfg, "GAMES: Session created: %s", s.id)
	h.sendTo(c, SessionCreatedMessage{Type: "session-created", SessionID: s.id})
}

func (h *Hub) joinHost(c *Client, msg clientMessage) {
	if msg.SessionID == "" || msg.HostPassword == "" {
		h.sendTo(c, AuthErrorMessage{Type: "auth-error", Message: "Session ID and password required"})
		return
	}

	s := h.sessions.lookup(msg.SessionID)
	if s == nil || msg.HostPassword != s.secret {
		h.sendTo(c, AuthErrorMessage{Type: "auth-error", Message: "Invalid session ID or password"})
		return
	}

	h.deliver(h.game.JoinHost(c.id, msg.SessionID, h.loader), c)
}

// regenerate kicks off an asynchronous question-set generation. The run loop
// never blocks on the external call; the result comes back on genResults.
// One generation may be in flight at a time.
func (h *Hub) regenerate(c *Client) {
	if !h.game.isHost(c.id) {
		return
	}

	if h.generator == nil {
		h.sendTo(c, GenerationStatusMessage{
			Type:    "generation-status",
			Status:  "unavailable",
			Message: "Question generation is not configured on this server.",
		})
		return
	}

	if h.generating {
		h.sendTo(c, GenerationStatusMessage{
			Type:   "generation-status",
			Status: "in-progress",
		})
		return
	}

	h.generating = true
	h.sendTo(c, GenerationStatusMessage{Type: "generation-status", Status: "started"})

	gen := h.generator
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), generationTimeout)
		defer cancel()

		board, categories, err := gen.generate(ctx)
		h.genResults <- genResult{board: board, categories: categories, err: err}
	}()
}

func (h *Hub) finishGeneration(res genResult) {
	h.generating = false

	if res.err != nil {
		logf(h.cfg, "ERROR: Question generation failed: %v", res.err)
		h.sendToHost(GenerationStatusMessage{
			Type:    "generation-status",
			Status:  "failed",
			Message: res.err.Error(),
		})
		return
	}

	h.sendToHost(GenerationStatusMessage{Type: "generation-status", Status: "succeeded"})
	h.deliver(h.game.ReplaceBoard(res.board, res.categories), nil)
}

// deliver fans events out to their audiences. actor is the connection whose
// message produced the events; it may be nil for events with no actor-scoped
// entries (disconnects, generation results).
func (h *Hub) deliver(events []event, actor *Client) {
	for _, ev := range events {
		switch ev.audience {
		case toEveryone:
			for client := range h.clients {
				h.sendTo(client, ev.msg)
			}
		case toHost:
			h.sendToHost(ev.msg)
		case toActor:
			if actor != nil {
				h.sendTo(actor, ev.msg)
			}
		}
	}
}

func (h *Hub) sendToHost(msg any) {
	hostID := h.game.hostID
	if hostID == "" {
		return
	}
	for client := range h.clients {
		if client.id == hostID {
			h.sendTo(client, msg)
			return
		}
	}
}

// sendTo enqueues a message for one client, dropping the client if its send
// buffer is full.
func (h *Hub) sendTo(c *Client, msg any) {
	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		_ = c.conn.Close()
	}()

	for {
		var msg clientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		h.inbound <- inboundMessage{client: c, msg: msg}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}
