package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseBoard(t *testing.T) {
	csv := strings.Join([]string{
		"price,HISTORY,SCIENCE,MOVIES",
		"200,q1;a1,q2;a2,q3;a3",
		"400,q4;a4,q5;a5,q6;a6",
	}, "\n")

	board, categories, err := parseBoard(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parseBoard: %v", err)
	}

	wantCats := []string{"HISTORY", "SCIENCE", "MOVIES"}
	if len(categories) != len(wantCats) {
		t.Fatalf("categories = %v, want %v", categories, wantCats)
	}
	for i, c := range wantCats {
		if categories[i] != c {
			t.Errorf("categories[%d] = %q, want %q", i, categories[i], c)
		}
	}

	if len(board) != 2 {
		t.Fatalf("board rows = %d, want 2", len(board))
	}
	if board[0].Price != 200 || board[1].Price != 400 {
		t.Errorf("prices = %d,%d, want 200,400", board[0].Price, board[1].Price)
	}

	cell := board[1].Questions[2]
	if cell.Text != "q6" || cell.Answer != "a6" {
		t.Errorf("cell = %+v, want q6/a6", cell)
	}
	if cell.Category != "MOVIES" {
		t.Errorf("category = %q, want MOVIES", cell.Category)
	}
	if cell.Answered || cell.IsDailyDouble {
		t.Error("freshly parsed cells must be unanswered and unflagged")
	}
}

func TestParseBoardHeaderWithoutPriceColumn(t *testing.T) {
	csv := "HISTORY,SCIENCE\n200,q;a\n"

	_, categories, err := parseBoard(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parseBoard: %v", err)
	}

	// A header not starting with a price label keeps every column as a category.
	if len(categories) != 2 {
		t.Errorf("categories = %v, want both header columns", categories)
	}
}

func TestParseBoardPriceFallback(t *testing.T) {
	csv := "price,CAT\nnot-a-number,q;a\n"

	board, _, err := parseBoard(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parseBoard: %v", err)
	}
	if board[0].Price != 200 {
		t.Errorf("price = %d, want fallback 200", board[0].Price)
	}
}

func TestParseBoardCellWithoutAnswer(t *testing.T) {
	csv := "price,CAT\n200,only a question\n"

	board, _, err := parseBoard(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parseBoard: %v", err)
	}
	cell := board[0].Questions[0]
	if cell.Text != "only a question" || cell.Answer != "" {
		t.Errorf("cell = %+v, want bare question with empty answer", cell)
	}
}

func TestParseBoardEmpty(t *testing.T) {
	if _, _, err := parseBoard(strings.NewReader("price,CAT\n")); err == nil {
		t.Error("a bank with no rows must fail to parse")
	}
}

func TestLoadBoardCSVMissingFile(t *testing.T) {
	_, _, err := LoadBoardCSV(filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, errQuestionsNotFound) {
		t.Errorf("err = %v, want errQuestionsNotFound", err)
	}
}

func TestLoadBoardCSVFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.csv")
	if err := os.WriteFile(path, []byte("price,A,B\n200,q1;a1,q2;a2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	board, categories, err := LoadBoardCSV(path)
	if err != nil {
		t.Fatalf("LoadBoardCSV: %v", err)
	}
	if len(board) != 1 || len(categories) != 2 {
		t.Errorf("got %d rows and %v, want 1 row and 2 categories", len(board), categories)
	}
}

func TestAssignDailyDouble(t *testing.T) {
	tests := []struct {
		name   string
		prices []int
		cats   []string
	}{
		{"single cell", []int{200}, []string{"A"}},
		{"2x3", []int{200, 400}, []string{"A", "B", "C"}},
		{"5x5", []int{200, 400, 600, 800, 1000}, []string{"A", "B", "C", "D", "E"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := testBoard(tt.prices, tt.cats)
			board.assignDailyDouble()
			if count := board.dailyDoubleCount(); count != 1 {
				t.Errorf("daily double count = %d, want 1", count)
			}
		})
	}
}

func TestAssignDailyDoubleSkipsAnsweredCells(t *testing.T) {
	board := testBoard([]int{200, 400}, []string{"A", "B"})

	// Leave only one cell open; the flag must land there every time.
	board[0].Questions[0].Answered = true
	board[0].Questions[1].Answered = true
	board[1].Questions[0].Answered = true

	for i := 0; i < 20; i++ {
		board.assignDailyDouble()
		if !board[1].Questions[1].IsDailyDouble {
			t.Fatal("daily double must only land on an unanswered cell")
		}
	}
}

func TestAssignDailyDoubleAllAnswered(t *testing.T) {
	board := testBoard([]int{200}, []string{"A", "B"})
	for i := range board[0].Questions {
		board[0].Questions[i].Answered = true
	}

	board.assignDailyDouble()
	if count := board.dailyDoubleCount(); count != 0 {
		t.Errorf("daily double count = %d, want 0 with no unanswered cells", count)
	}
}

func TestAssignDailyDoubleClearsPreviousFlag(t *testing.T) {
	board := testBoard([]int{200, 400}, []string{"A", "B"})
	board[0].Questions[0].IsDailyDouble = true
	board[1].Questions[1].IsDailyDouble = true

	board.assignDailyDouble()
	if count := board.dailyDoubleCount(); count != 1 {
		t.Errorf("daily double count = %d, want stale flags cleared down to 1", count)
	}
}

func TestBoardCloneIsIndependent(t *testing.T) {
	board := testBoard([]int{200}, []string{"A"})
	copied := board.clone()

	board[0].Questions[0].Answered = true
	if copied[0].Questions[0].Answered {
		t.Error("mutating the original must not affect the clone")
	}
}
