package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrewpaige1/studybuddy/client"
)

// StubQuestions returns five review prompts built from the opening words
// of the notes. It stands in for a real question generator.
type StubQuestions struct{}

func (StubQuestions) Generate(_ context.Context, notes string) ([]client.QuestionPair, error) {
	words := strings.Fields(notes)
	topic := "the provided content"
	if len(words) >= 5 {
		topic = strings.Join(words[:5], " ")
	}

	return []client.QuestionPair{
		{
			Question: fmt.Sprintf("What are the main concepts discussed in %s?", topic),
			Answer:   "Please review the study notes to identify the key concepts and their relationships.",
		},
		{
			Question: fmt.Sprintf("How would you explain the key points from %s to someone else?", topic),
			Answer:   "Focus on the most important ideas and use simple, clear language to explain them.",
		},
		{
			Question: fmt.Sprintf("What are the practical applications of the concepts in %s?", topic),
			Answer:   "Consider how these concepts might be used in real-world scenarios or further studies.",
		},
		{
			Question: fmt.Sprintf("What questions might arise from studying %s?", topic),
			Answer:   "Think about areas that need clarification or deeper exploration.",
		},
		{
			Question: fmt.Sprintf("How does %s relate to other subjects or concepts you've learned?", topic),
			Answer:   "Look for connections and relationships with previously studied material.",
		},
	}, nil
}
