package main

// Messages coming from clients. One envelope covers every action; Type
// selects the handler and the other fields are filled in as each action
// requires.
type clientMessage struct {
	Type           string         `json:"type"`                     // see the dispatch switch in hub.go
	HostPassword   string         `json:"hostPassword,omitempty"`   // create-session / join-as-host
	SessionID      string         `json:"sessionId,omitempty"`      // join-as-host / join-as-contestant
	ContestantName string         `json:"contestantName,omitempty"` // join-as-contestant
	Row            int            `json:"row"`                      // select-question
	Col            int            `json:"col"`                      // select-question
	Correct        *bool          `json:"correct,omitempty"`        // judge-answer
	Wager          *int           `json:"wager,omitempty"`          // daily-double-wager / final-jeopardy-wager
	Answers        []finalVerdict `json:"answers,omitempty"`        // judge-final-jeopardy
}

type finalVerdict struct {
	ContestantID string `json:"contestantId"`
	Correct      bool   `json:"correct"`
}

// Messages sent to clients

type SessionCreatedMessage struct {
	Type      string `json:"type"` // "session-created"
	SessionID string `json:"sessionId"`
}

// Sent to a single client when a password, session id or name is rejected.
type AuthErrorMessage struct {
	Type    string `json:"type"` // "auth-error"
	Message string `json:"message"`
}

type HostJoinedMessage struct {
	Type      string    `json:"type"` // "host-joined"
	SessionID string    `json:"sessionId"`
	GameState *Snapshot `json:"gameState"`
}

type ContestantJoinedMessage struct {
	Type           string    `json:"type"` // "contestant-joined"
	ID             string    `json:"id"`
	IsReconnecting bool      `json:"isReconnecting"`
	GameState      *Snapshot `json:"gameState"`
}

type ContestantListMessage struct {
	Type        string                `json:"type"` // "contestant-list-updated"
	Contestants map[string]Contestant `json:"contestants"`
}

type QuestionSelectedMessage struct {
	Type     string          `json:"type"` // "question-selected"
	Question *ActiveQuestion `json:"question"`
}

// GameStateMessage carries a full snapshot; clients replace their local
// mirror wholesale on receipt.
type GameStateMessage struct {
	Type      string    `json:"type"` // "game-state-updated"
	GameState *Snapshot `json:"gameState"`
}

type ContestantBuzzedMessage struct {
	Type           string `json:"type"` // "contestant-buzzed"
	ContestantID   string `json:"contestantId"`
	ContestantName string `json:"contestantName"`
}

type AnswerJudgedMessage struct {
	Type       string     `json:"type"` // "answer-judged"
	Correct    bool       `json:"correct"`
	Contestant Contestant `json:"contestant"`
	NewScore   int        `json:"newScore"`
}

type DailyDoubleWagerSetMessage struct {
	Type       string `json:"type"` // "daily-double-wager-set"
	Contestant string `json:"contestant"`
	Wager      int    `json:"wager"`
}

// Sent to a single client whose wager is out of bounds.
type InvalidWagerMessage struct {
	Type     string `json:"type"` // "invalid-wager"
	MaxWager int    `json:"maxWager"`
}

type FinalRoundStartedMessage struct {
	Type     string         `json:"type"` // "final-jeopardy-started"
	Question *FinalQuestion `json:"question"`
}

// Sent to the host only, as a receipt for each submitted final wager.
type FinalWagerReceivedMessage struct {
	Type       string `json:"type"` // "final-jeopardy-wager-received"
	Contestant string `json:"contestant"`
	Wager      int    `json:"wager"`
}

type FinalResultsMessage struct {
	Type        string                `json:"type"` // "final-jeopardy-results"
	Contestants map[string]Contestant `json:"contestants"`
}

type GameResetMessage struct {
	Type      string    `json:"type"` // "game-reset"
	GameState *Snapshot `json:"gameState"`
}

// GenerationStatusMessage reports progress of a question-set regeneration to
// the requesting host: "started", "succeeded", "failed" or "unavailable".
type GenerationStatusMessage struct {
	Type    string `json:"type"` // "generation-status"
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type HostDisconnectedMessage struct {
	Type string `json:"type"` // "host-disconnected"
}
