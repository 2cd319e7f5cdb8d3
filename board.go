package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand"
	"os"
	"strconv"
	"strings"
)

var errQuestionsNotFound = errors.New("questions file not found")

// Question is one cell of the board. Answered is monotonic; once a cell is
// judged correct it never reopens until a full reset.
type Question struct {
	Text          string `json:"text"`
	Answer        string `json:"answer"`
	Category      string `json:"category"`
	Answered      bool   `json:"answered"`
	IsDailyDouble bool   `json:"isDailyDouble"`
}

// Tier is one price row of the board, with one question per category.
type Tier struct {
	Price     int        `json:"price"`
	Questions []Question `json:"questions"`
}

type Board []Tier

func (b Board) clone() Board {
	out := make(Board, len(b))
	for i, tier := range b {
		out[i] = Tier{
			Price:     tier.Price,
			Questions: append([]Question(nil), tier.Questions...),
		}
	}
	return out
}

// resetCells reopens every cell. The daily double is reassigned separately.
func (b Board) resetCells() {
	for i := range b {
		for j := range b[i].Questions {
			b[i].Questions[j].Answered = false
		}
	}
}

// assignDailyDouble clears any existing daily-double flag and marks exactly
// one currently-unanswered cell, chosen uniformly at random. A board with no
// unanswered cells ends up with no daily double at all.
func (b Board) assignDailyDouble() {
	type cell struct{ row, col int }

	unanswered := make([]cell, 0, 32)
	for i := range b {
		for j := range b[i].Questions {
			b[i].Questions[j].IsDailyDouble = false
			if !b[i].Questions[j].Answered {
				unanswered = append(unanswered, cell{row: i, col: j})
			}
		}
	}

	if len(unanswered) == 0 {
		return
	}

	picked := unanswered[rand.Intn(len(unanswered))]
	b[picked.row].Questions[picked.col].IsDailyDouble = true
}

// dailyDoubleCount counts flagged cells among unanswered ones.
func (b Board) dailyDoubleCount() int {
	count := 0
	for i := range b {
		for j := range b[i].Questions {
			if b[i].Questions[j].IsDailyDouble && !b[i].Questions[j].Answered {
				count++
			}
		}
	}
	return count
}

// LoadBoardCSV reads a question bank from a CSV file. The header row names
// the categories; if its first column is "price", "prices" or "value" it is
// treated as the price column and skipped. Each remaining row is one price
// tier whose cells encode "question;answer". A non-numeric price falls back
// to 200.
func LoadBoardCSV(path string) (Board, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", errQuestionsNotFound, path)
		}
		return nil, nil, err
	}
	defer f.Close()

	return parseBoard(f)
}

func parseBoard(r io.Reader) (Board, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading question bank header: %w", err)
	}

	categories := header
	switch strings.ToLower(strings.TrimSpace(header[0])) {
	case "price", "prices", "value":
		categories = header[1:]
	}
	if len(categories) == 0 {
		return nil, nil, errors.New("question bank has no categories")
	}

	board := Board{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading question bank row: %w", err)
		}
		if len(record) == 0 {
			continue
		}

		price, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			price = 200
		}

		cells := record[1:]
		tier := Tier{
			Price:     price,
			Questions: make([]Question, len(categories)),
		}
		for i := range categories {
			var raw string
			if i < len(cells) {
				raw = cells[i]
			}
			text, answer, _ := strings.Cut(raw, ";")
			tier.Questions[i] = Question{
				Text:     text,
				Answer:   answer,
				Category: categories[i],
			}
		}
		board = append(board, tier)
	}

	if len(board) == 0 {
		return nil, nil, errors.New("question bank has no rows")
	}

	return board, categories, nil
}
