// Package mcp exposes the assistant over the Model Context Protocol.
package mcp

import "time"

// AskQuestionInput defines the input parameters for the ask_question tool.
type AskQuestionInput struct {
	// Question is the user's fantasy football question.
	Question string `json:"question" jsonschema:"required,description=The fantasy football question to answer"`
	// SessionID groups turns into one conversation for persona smoothing.
	SessionID string `json:"session_id,omitempty" jsonschema:"description=Conversation id; omit for a one-off question"`
}

// AskQuestionOutput contains the generated answer and how it was produced.
type AskQuestionOutput struct {
	// Answer is the persona-adapted response text.
	Answer string `json:"answer"`
	// Persona is the expertise level the answer was written for.
	Persona string `json:"persona"`
	// Confidence is the persona classification confidence (0-1).
	Confidence float64 `json:"confidence"`
	// Grounded indicates whether retrieved statistics backed the answer.
	Grounded bool `json:"grounded"`
	// Sources lists the documents that grounded the answer.
	Sources []SourceRef `json:"sources"`
}

// SourceRef identifies one grounding document.
type SourceRef struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SearchDocumentsInput defines the input parameters for the search_documents
// tool.
type SearchDocumentsInput struct {
	// Query is the semantic search query.
	Query string `json:"query" jsonschema:"required,description=The semantic search query"`
	// MaxResults bounds how many documents to return.
	MaxResults int `json:"max_results,omitempty" jsonschema:"minimum=1,maximum=20,default=5,description=Maximum number of documents to return"`
	// Category narrows the search to one document category.
	Category string `json:"category,omitempty" jsonschema:"description=Document category filter (schedule, team_rankings, player_list, standings, player_injuries, player_news)"`
	// Season narrows the search to one season.
	Season int `json:"season,omitempty" jsonschema:"description=Season filter, e.g. 2025"`
	// Position narrows player_list results to one position.
	Position string `json:"position,omitempty" jsonschema:"description=Position filter, e.g. QB"`
}

// SearchDocumentsOutput contains the search results.
type SearchDocumentsOutput struct {
	// Results is the list of matching documents.
	Results []DocumentResult `json:"results"`
	// Message provides informational context when nothing matched.
	Message string `json:"message,omitempty"`
}

// DocumentResult is one document match from semantic search.
type DocumentResult struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusInput defines the input parameters for the get_index_status tool.
// The tool takes no parameters.
type StatusInput struct{}

// StatusOutput describes the current state of the document index.
type StatusOutput struct {
	// TotalDocuments is the count of active documents.
	TotalDocuments int `json:"total_documents"`
	// ByCategory breaks the count down per document category.
	ByCategory map[string]int `json:"by_category"`
	// Store reports document store connectivity.
	Store string `json:"store"`
}
