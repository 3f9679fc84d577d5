// Package chat is the GenMesh assistant: a keyword-matching responder with
// canned answers and Blender script payloads. Transcripts and the anonymous
// prompt quota are persisted in the keyval slot.
package chat

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/genmesh/meshstore/internal/keyval"
)

const (
	promptCountKey   = "genmesh_prompt_count"
	historyKey       = "genmesh_chat_history"
	currentChatIDKey = "genmesh_current_chat_id"

	// FreePromptLimit is how many prompts an anonymous visitor gets before
	// being asked to sign in.
	FreePromptLimit = 3
)

var ErrQuotaExceeded = errors.New("free prompt limit reached, please sign in to continue")

type Message struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"` // "user" or "bot"
	Content      string    `json:"content"`
	Code         string    `json:"code,omitempty"`
	DownloadLink string    `json:"download_link,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

type Service struct {
	mu  sync.Mutex
	kv  *keyval.File
	log *slog.Logger
}

func NewService(kv *keyval.File, log *slog.Logger) *Service {
	return &Service{kv: kv, log: log}
}

// Send records the user message, generates the canned reply and persists the
// transcript. Anonymous callers are limited to FreePromptLimit prompts.
// An empty chatID starts a new chat; the (possibly new) id is returned.
func (s *Service) Send(chatID, message string, authenticated bool) (*Message, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !authenticated && s.promptCount() >= FreePromptLimit {
		return nil, "", ErrQuotaExceeded
	}

	if chatID == "" {
		chatID = uuid.NewString()
	}

	history := s.history()
	now := time.Now().UTC()
	userMsg := Message{
		ID:        uuid.NewString(),
		Type:      "user",
		Content:   message,
		Timestamp: now,
	}
	reply := respond(message)
	reply.ID = uuid.NewString()
	reply.Type = "bot"
	reply.Timestamp = now

	history[chatID] = append(history[chatID], userMsg, reply)
	if err := s.kv.Set(historyKey, history); err != nil {
		s.log.Error("chat history not persisted", "error", err)
	}
	if err := s.kv.Set(currentChatIDKey, chatID); err != nil {
		s.log.Warn("current chat id not persisted", "error", err)
	}
	if !authenticated {
		if err := s.kv.Set(promptCountKey, s.promptCount()+1); err != nil {
			s.log.Error("prompt count not persisted", "error", err)
		}
	}

	return &reply, chatID, nil
}

// History returns the transcript for one chat, oldest first. An unknown id
// yields an empty slice.
func (s *Service) History(chatID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.history()[chatID]
	if msgs == nil {
		return []Message{}
	}
	return msgs
}

// ChatIDs lists all persisted chats.
func (s *Service) ChatIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.history()
	ids := make([]string, 0, len(history))
	for id := range history {
		ids = append(ids, id)
	}
	return ids
}

// PromptsLeft reports the remaining free prompts for anonymous visitors.
func (s *Service) PromptsLeft() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	left := FreePromptLimit - s.promptCount()
	if left < 0 {
		return 0
	}
	return left
}

func (s *Service) promptCount() int {
	var count int
	if _, err := s.kv.GetInto(promptCountKey, &count); err != nil {
		s.log.Warn("discarding malformed prompt count", "error", err)
		return 0
	}
	return count
}

func (s *Service) history() map[string][]Message {
	history := make(map[string][]Message)
	if _, err := s.kv.GetInto(historyKey, &history); err != nil {
		s.log.Warn("discarding malformed chat history", "error", err)
		return make(map[string][]Message)
	}
	return history
}
