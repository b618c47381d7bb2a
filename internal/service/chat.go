package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/1131tariq/Courts/internal/domain"
	"github.com/1131tariq/Courts/internal/repository"
)

var (
	ErrChatNotFound = repository.ErrChatNotFound
	ErrEmptyMessage = fmt.Errorf("message content is empty")
)

type ChatRepository interface {
	FindAll(ctx context.Context) ([]domain.Chat, error)
	FindParticipantIDs(ctx context.Context, chatID uint) ([]uint, error)
	CreateMessage(ctx context.Context, message domain.Message) (domain.Message, error)
	FindMessages(ctx context.Context, chatID uint) ([]domain.Message, error)
}

type ChatService struct {
	repo ChatRepository
}

func NewChatService(repo ChatRepository) *ChatService {
	return &ChatService{
		repo: repo,
	}
}

func (s *ChatService) GetChats(ctx context.Context) ([]domain.Chat, error) {
	chats, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return chats, nil
}

func (s *ChatService) GetMessages(ctx context.Context, chatID uint) ([]domain.Message, error) {
	messages, err := s.repo.FindMessages(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindMessages -> %w", err)
	}

	return messages, nil
}

func (s *ChatService) GetParticipants(ctx context.Context, chatID uint) ([]uint, error) {
	ids, err := s.repo.FindParticipantIDs(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindParticipantIDs -> %w", err)
	}

	return ids, nil
}

// SaveMessage persists a chat message. The stored id and the
// server-assigned timestamp are canonical for broadcasting; the
// sender-supplied timestamp is advisory only and discarded here.
func (s *ChatService) SaveMessage(ctx context.Context, chatID, sender uint, content string) (domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Message{}, ErrEmptyMessage
	}

	saved, err := s.repo.CreateMessage(ctx, domain.Message{
		ChatID:    chatID,
		Sender:    sender,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("s.repo.CreateMessage -> %w", err)
	}

	return saved, nil
}
