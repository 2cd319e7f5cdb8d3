package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const generationTimeout = 90 * time.Second

const generationPrompt = `Generate a trivia board as a single JSON object with this exact shape:
{"categories": ["CAT1", ...], "rows": [{"price": 200, "cells": [{"question": "...", "answer": "..."}, ...]}, ...]}
Produce 5 categories and 5 rows with prices 200, 400, 600, 800 and 1000.
Each row must contain exactly one cell per category, in category order.
Questions should be varied general-knowledge trivia suitable for a party.
Respond with the JSON object only, no surrounding text.`

// generator produces replacement question sets by calling an
// OpenAI-compatible chat-completions endpoint. It is nil when the endpoint
// or key is not configured; the rest of the game never depends on it.
type generator struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

func newGenerator(cfg *Config) *generator {
	if !cfg.aiEnabled() {
		return nil
	}
	return &generator{
		endpoint: cfg.generationEndpoint,
		apiKey:   cfg.generationKey,
		model:    cfg.generationModel,
		client:   &http.Client{Timeout: generationTimeout},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type generatedBoard struct {
	Categories []string `json:"categories"`
	Rows       []struct {
		Price int `json:"price"`
		Cells []struct {
			Question string `json:"question"`
			Answer   string `json:"answer"`
		} `json:"cells"`
	} `json:"rows"`
}

func (g *generator) generate(ctx context.Context) (Board, []string, error) {
	body, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "user", Content: generationPrompt},
		},
	})
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("calling generation endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, nil, fmt.Errorf("generation endpoint returned %s: %s", resp.Status, payload)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, nil, fmt.Errorf("decoding generation response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, nil, fmt.Errorf("generation response contained no choices")
	}

	return parseGeneratedBoard(chat.Choices[0].Message.Content)
}

func parseGeneratedBoard(content string) (Board, []string, error) {
	var gen generatedBoard
	if err := json.Unmarshal([]byte(content), &gen); err != nil {
		return nil, nil, fmt.Errorf("generated content is not valid board JSON: %w", err)
	}

	if len(gen.Categories) == 0 {
		return nil, nil, fmt.Errorf("generated board has no categories")
	}
	if len(gen.Rows) == 0 {
		return nil, nil, fmt.Errorf("generated board has no rows")
	}

	board := make(Board, 0, len(gen.Rows))
	for i, row := range gen.Rows {
		if len(row.Cells) != len(gen.Categories) {
			return nil, nil, fmt.Errorf("generated row %d has %d cells for %d categories",
				i, len(row.Cells), len(gen.Categories))
		}

		tier := Tier{
			Price:     row.Price,
			Questions: make([]Question, len(row.Cells)),
		}
		if tier.Price <= 0 {
			tier.Price = 200
		}
		for j, cell := range row.Cells {
			tier.Questions[j] = Question{
				Text:     cell.Question,
				Answer:   cell.Answer,
				Category: gen.Categories[j],
			}
		}
		board = append(board, tier)
	}

	return board, gen.Categories, nil
}
