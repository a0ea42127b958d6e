package core

import (
	"context"

	"medibot/internal/ai"
)

// stubGateway records every prompt it is asked to generate and returns a
// canned response or error.
type stubGateway struct {
	available bool
	response  string
	err       error
	prompts   []string
}

func (s *stubGateway) Available() bool { return s.available }

func (s *stubGateway) Generate(_ context.Context, prompt string) (string, error) {
	if !s.available {
		return "", ai.ErrUnavailable
	}
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

// stubReader returns fixed OCR output.
type stubReader struct {
	text string
	err  error
}

func (s *stubReader) Recognize(_ context.Context, _ []byte) (string, error) {
	return s.text, s.err
}
