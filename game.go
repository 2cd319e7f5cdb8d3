package main

import (
	"strings"
)

type gamePhase string

const (
	phaseWaiting     gamePhase = "waiting"
	phasePlaying     gamePhase = "playing"
	phaseDailyDouble gamePhase = "daily-double"
	phaseFinalRound  gamePhase = "final-jeopardy"
)

const maxNameLength = 20

// defaultWagerCap is the most a contestant at or below zero may wager.
const defaultWagerCap = 1000

// Contestant is one player. The record is durable: it survives connection
// loss via the by-name table and only its ID is rebound on reconnect.
type Contestant struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	IPAddress string `json:"ipAddress"`
	CanBuzz   bool   `json:"canBuzz"`
}

// ActiveQuestion is the cell currently open for play, augmented with its
// board position, price and (for a daily double) the accepted wager.
type ActiveQuestion struct {
	Question
	Row   int `json:"row"`
	Col   int `json:"col"`
	Value int `json:"value"`
	Wager int `json:"wager,omitempty"`
}

type FinalQuestion struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// Snapshot is the full client-facing view of the game. Clients replace their
// local mirror wholesale whenever they receive one.
type Snapshot struct {
	SessionID           string                `json:"sessionId"`
	Contestants         map[string]Contestant `json:"contestants"`
	HostID              string                `json:"hostId"`
	Board               Board                 `json:"board"`
	Categories          []string              `json:"categories"`
	CurrentQuestion     *ActiveQuestion       `json:"currentQuestion"`
	Answering           bool                  `json:"answering"`
	AnsweringContestant string                `json:"answeringContestant"`
	GamePhase           gamePhase             `json:"gamePhase"`
	FinalQuestion       *FinalQuestion        `json:"finalJeopardyQuestion"`
	AIEnabled           bool                  `json:"aiEnabled"`
}

// audience selects who receives an event emitted by a transition.
type audience int

const (
	toEveryone audience = iota
	toHost
	toActor
)

type event struct {
	audience audience
	msg      any
}

type boardLoader func() (Board, []string, error)

// Game is the single authoritative record of one in-progress game. It is
// owned by the hub run loop; every mutation funnels through the transition
// methods below, each of which validates the actor against the required role
// and current phase before touching anything. Gated actions from the wrong
// actor return no events and change no state.
type Game struct {
	cfg *Config

	sessionID         string
	contestants       map[string]*Contestant // keyed by connection id, volatile
	contestantsByName map[string]*Contestant // keyed by lowercased name, durable
	hostID            string
	board             Board
	categories        []string
	current           *ActiveQuestion
	answering         bool
	answeringID       string
	phase             gamePhase
	finalQuestion     *FinalQuestion
	finalWagers       map[string]int
}

func newGame(cfg *Config) *Game {
	return &Game{
		cfg:               cfg,
		contestants:       make(map[string]*Contestant),
		contestantsByName: make(map[string]*Contestant),
		finalWagers:       make(map[string]int),
		phase:             phaseWaiting,
	}
}

func (g *Game) isHost(connID string) bool {
	return g.hostID != "" && connID == g.hostID
}

func (g *Game) snapshot() *Snapshot {
	var current *ActiveQuestion
	if g.current != nil {
		c := *g.current
		current = &c
	}

	var final *FinalQuestion
	if g.finalQuestion != nil {
		f := *g.finalQuestion
		final = &f
	}

	return &Snapshot{
		SessionID:           g.sessionID,
		Contestants:         g.contestantList(),
		HostID:              g.hostID,
		Board:               g.board.clone(),
		Categories:          append([]string(nil), g.categories...),
		CurrentQuestion:     current,
		Answering:           g.answering,
		AnsweringContestant: g.answeringID,
		GamePhase:           g.phase,
		FinalQuestion:       final,
		AIEnabled:           g.cfg.aiEnabled(),
	}
}

// contestantList copies the live contestant map so outbound messages never
// alias state still owned by the run loop.
func (g *Game) contestantList() map[string]Contestant {
	out := make(map[string]Contestant, len(g.contestants))
	for id, c := range g.contestants {
		out[id] = *c
	}
	return out
}

// JoinHost binds a connection as the authoritative host for a session. A
// first join initializes a fresh game from the loader and assigns the daily
// double; a rejoin for the already-bound session preserves the board and all
// scores and only rebinds the host connection id. A later host join simply
// supplants the previous one; the old connection stops being recognized.
func (g *Game) JoinHost(connID, sessionID string, load boardLoader) []event {
	reconnecting := g.sessionID == sessionID && len(g.board) > 0

	if reconnecting {
		g.hostID = connID
	} else {
		board, categories, err := load()
		if err != nil {
			logf(g.cfg, "ERROR: Loading questions for session %s: %v", sessionID, err)
			return []event{{toActor, AuthErrorMessage{
				Type:    "auth-error",
				Message: "Error loading game questions",
			}}}
		}

		g.sessionID = sessionID
		g.contestants = make(map[string]*Contestant)
		g.contestantsByName = make(map[string]*Contestant)
		g.hostID = connID
		g.board = board
		g.categories = categories
		g.current = nil
		g.answering = false
		g.answeringID = ""
		g.phase = phaseWaiting
		g.finalQuestion = nil
		g.finalWagers = make(map[string]int)

		g.board.assignDailyDouble()
	}

	logf(g.cfg, "GAMES: Host %s session %s: %s", joinVerb(reconnecting), sessionID, connID)

	return []event{{toActor, HostJoinedMessage{
		Type:      "host-joined",
		SessionID: sessionID,
		GameState: g.snapshot(),
	}}}
}

func joinVerb(reconnecting bool) string {
	if reconnecting {
		return "reconnected to"
	}
	return "joined"
}

// JoinContestant admits a contestant into the active session. A name already
// known in the durable table belongs to its original owner: if that owner is
// still connected the join is rejected as a duplicate, otherwise the new
// connection inherits the record, score and buzz state included.
func (g *Game) JoinContestant(connID, addr, sessionID, name string) []event {
	authErr := func(msg string) []event {
		return []event{{toActor, AuthErrorMessage{Type: "auth-error", Message: msg}}}
	}

	name = strings.TrimSpace(name)

	switch {
	case sessionID == "":
		return authErr("Session ID required")
	case name == "":
		return authErr("Contestant name required")
	case len(name) > maxNameLength:
		return authErr("Name must be 20 characters or less")
	case g.sessionID == "" || g.sessionID != sessionID:
		return authErr("Game session not active")
	}

	key := strings.ToLower(name)
	contestant, known := g.contestantsByName[key]
	reconnecting := false

	if known {
		if _, live := g.contestants[contestant.ID]; live && contestant.ID != connID {
			return authErr("Name already taken. Please choose a different name.")
		}

		delete(g.contestants, contestant.ID)
		contestant.ID = connID
		contestant.IPAddress = addr
		reconnecting = true
	} else {
		contestant = &Contestant{
			ID:        connID,
			Name:      name,
			Score:     0,
			IPAddress: addr,
			CanBuzz:   true,
		}
		g.contestantsByName[key] = contestant
	}

	g.contestants[connID] = contestant

	logf(g.cfg, "GAMES: Contestant %s session %s: %s (%s) - Score: $%d",
		joinVerb(reconnecting), sessionID, connID, name, contestant.Score)

	return []event{
		{toActor, ContestantJoinedMessage{
			Type:           "contestant-joined",
			ID:             connID,
			IsReconnecting: reconnecting,
			GameState:      g.snapshot(),
		}},
		{toHost, ContestantListMessage{
			Type:        "contestant-list-updated",
			Contestants: g.contestantList(),
		}},
	}
}

// SelectQuestion opens a cell for play. Host only; an already-answered cell
// and out-of-range coordinates are ignored.
func (g *Game) SelectQuestion(connID string, row, col int) []event {
	if !g.isHost(connID) {
		return nil
	}
	if row < 0 || row >= len(g.board) {
		return nil
	}
	tier := g.board[row]
	if col < 0 || col >= len(tier.Questions) {
		return nil
	}

	cell := tier.Questions[col]
	if cell.Answered {
		return nil
	}

	g.current = &ActiveQuestion{
		Question: cell,
		Row:      row,
		Col:      col,
		Value:    tier.Price,
	}
	g.answering = false
	g.answeringID = ""

	for _, c := range g.contestants {
		c.CanBuzz = true
	}

	if cell.IsDailyDouble {
		g.phase = phaseDailyDouble
	} else {
		g.phase = phasePlaying
	}

	return []event{
		{toEveryone, QuestionSelectedMessage{Type: "question-selected", Question: g.current}},
		{toEveryone, GameStateMessage{Type: "game-state-updated", GameState: g.snapshot()}},
	}
}

// Buzz claims the exclusive floor to answer. First buzz wins; everyone else
// is locked out until the host judges.
func (g *Game) Buzz(connID string) []event {
	contestant, ok := g.contestants[connID]
	if !ok || !contestant.CanBuzz || g.answering || g.current == nil {
		return nil
	}

	g.answering = true
	g.answeringID = connID

	for _, c := range g.contestants {
		c.CanBuzz = false
	}

	return []event{
		{toEveryone, ContestantBuzzedMessage{
			Type:           "contestant-buzzed",
			ContestantID:   connID,
			ContestantName: contestant.Name,
		}},
		{toEveryone, GameStateMessage{Type: "game-state-updated", GameState: g.snapshot()}},
	}
}

// SetWager attaches a daily-double wager to the open question. Only the
// contestant currently holding the floor may wager, up to the larger of
// their score and the default cap.
func (g *Game) SetWager(connID string, wager int) []event {
	if g.answeringID == "" || connID != g.answeringID || g.current == nil {
		return nil
	}
	contestant, ok := g.contestants[connID]
	if !ok {
		return nil
	}

	maxWager := max(contestant.Score, defaultWagerCap)
	if wager < 0 || wager > maxWager {
		return []event{{toActor, InvalidWagerMessage{Type: "invalid-wager", MaxWager: maxWager}}}
	}

	g.current.Wager = wager
	g.phase = phasePlaying

	return []event{{toEveryone, DailyDoubleWagerSetMessage{
		Type:       "daily-double-wager-set",
		Contestant: contestant.Name,
		Wager:      wager,
	}}}
}

// JudgeAnswer resolves the floor-holder's answer. A correct answer banks the
// cell value (or the daily-double wager) and closes the cell; an incorrect
// one deducts it and reopens buzzing for everyone else.
func (g *Game) JudgeAnswer(connID string, correct bool) []event {
	if !g.isHost(connID) || g.answeringID == "" || g.current == nil {
		return nil
	}
	contestant, ok := g.contestants[g.answeringID]
	if !ok {
		return nil
	}

	value := g.current.Value
	if g.current.Wager > 0 {
		value = g.current.Wager
	}

	if correct {
		contestant.Score += value
		g.board[g.current.Row].Questions[g.current.Col].Answered = true
		g.current = nil
	} else {
		contestant.Score -= value
		for id, c := range g.contestants {
			if id != g.answeringID {
				c.CanBuzz = true
			}
		}
	}

	g.answering = false
	g.answeringID = ""
	g.phase = phasePlaying

	logf(g.cfg, "GAMES: Judged %s for %q - Score: $%d", verdict(correct), contestant.Name, contestant.Score)

	return []event{
		{toEveryone, AnswerJudgedMessage{
			Type:       "answer-judged",
			Correct:    correct,
			Contestant: *contestant,
			NewScore:   contestant.Score,
		}},
		{toEveryone, ContestantListMessage{
			Type:        "contestant-list-updated",
			Contestants: g.contestantList(),
		}},
		{toEveryone, GameStateMessage{Type: "game-state-updated", GameState: g.snapshot()}},
	}
}

func verdict(correct bool) string {
	if correct {
		return "correct"
	}
	return "incorrect"
}

// StartFinalRound moves the game into the final round and publishes the
// final question.
func (g *Game) StartFinalRound(connID string) []event {
	if !g.isHost(connID) {
		return nil
	}

	g.phase = phaseFinalRound
	g.finalQuestion = &FinalQuestion{
		Text:     g.cfg.finalQuestion,
		Category: g.cfg.finalCategory,
	}

	return []event{{toEveryone, FinalRoundStartedMessage{
		Type:     "final-jeopardy-started",
		Question: g.finalQuestion,
	}}}
}

// FinalWager records a contestant's final-round wager. Contestants at or
// below zero may still wager up to the default cap. The receipt goes to the
// host only; other contestants never learn each other's wagers.
func (g *Game) FinalWager(connID string, wager int) []event {
	contestant, ok := g.contestants[connID]
	if !ok {
		return nil
	}

	maxWager := defaultWagerCap
	if contestant.Score > 0 {
		maxWager = contestant.Score
	}

	if wager < 0 || wager > maxWager {
		return []event{{toActor, InvalidWagerMessage{Type: "invalid-wager", MaxWager: maxWager}}}
	}

	g.finalWagers[connID] = wager

	return []event{{toHost, FinalWagerReceivedMessage{
		Type:       "final-jeopardy-wager-received",
		Contestant: contestant.Name,
		Wager:      wager,
	}}}
}

// JudgeFinalRound applies the host's batch of final-round verdicts. An
// unsubmitted wager counts as zero; unknown contestant ids are skipped.
func (g *Game) JudgeFinalRound(connID string, verdicts []finalVerdict) []event {
	if !g.isHost(connID) {
		return nil
	}

	for _, v := range verdicts {
		contestant, ok := g.contestants[v.ContestantID]
		if !ok {
			continue
		}

		wager := g.finalWagers[v.ContestantID]
		if v.Correct {
			contestant.Score += wager
		} else {
			contestant.Score -= wager
		}
	}

	return []event{{toEveryone, FinalResultsMessage{
		Type:        "final-jeopardy-results",
		Contestants: g.contestantList(),
	}}}
}

// ResetGame zeroes every score (durable records included), reopens the whole
// board, reassigns a single fresh daily double and returns to the playing
// phase. Contestants stay joined.
func (g *Game) ResetGame(connID string) []event {
	if !g.isHost(connID) {
		return nil
	}

	g.reset()
	logf(g.cfg, "GAMES: Game reset for session %s", g.sessionID)

	return []event{{toEveryone, GameResetMessage{Type: "game-reset", GameState: g.snapshot()}}}
}

// ReplaceBoard installs a regenerated question set and applies the same
// effects as a reset.
func (g *Game) ReplaceBoard(board Board, categories []string) []event {
	g.board = board
	g.categories = categories
	g.reset()
	logf(g.cfg, "GAMES: Question set regenerated for session %s", g.sessionID)

	return []event{{toEveryone, GameResetMessage{Type: "game-reset", GameState: g.snapshot()}}}
}

func (g *Game) reset() {
	for _, c := range g.contestantsByName {
		c.Score = 0
		c.CanBuzz = true
	}

	g.board.resetCells()
	g.board.assignDailyDouble()

	g.current = nil
	g.answering = false
	g.answeringID = ""
	g.phase = phasePlaying
	g.finalQuestion = nil
	g.finalWagers = make(map[string]int)
}

// Disconnect unbinds a dropped connection. A host disconnect clears the host
// binding; a contestant disconnect removes only the live entry, keeping the
// durable record for reconnection. If the dropped contestant was holding the
// answering floor, the floor is released and buzzing reopens for the rest.
func (g *Game) Disconnect(connID string) []event {
	var events []event

	if connID == g.hostID {
		g.hostID = ""
		events = append(events, event{toEveryone, HostDisconnectedMessage{Type: "host-disconnected"}})
	}

	contestant, ok := g.contestants[connID]
	if !ok {
		return events
	}

	delete(g.contestants, connID)
	logf(g.cfg, "GAMES: Contestant %q disconnected, record preserved for reconnection", contestant.Name)

	released := false
	if g.answeringID == connID {
		g.answering = false
		g.answeringID = ""
		for _, c := range g.contestants {
			c.CanBuzz = true
		}
		released = true
	}

	events = append(events, event{toEveryone, ContestantListMessage{
		Type:        "contestant-list-updated",
		Contestants: g.contestantList(),
	}})
	if released {
		events = append(events, event{toEveryone, GameStateMessage{
			Type:      "game-state-updated",
			GameState: g.snapshot(),
		}})
	}

	return events
}
