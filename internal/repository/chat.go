package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/1131tariq/Courts/internal/domain"
	"github.com/1131tariq/Courts/internal/repository/dao"
)

var ErrChatNotFound = dao.ErrChatNotFound

type ChatDAO interface {
	FindAll(ctx context.Context) ([]dao.Chat, error)
	FindByID(ctx context.Context, id uint) (dao.Chat, error)
	FindParticipantIDs(ctx context.Context, chatID uint) ([]uint, error)
	InsertMessage(ctx context.Context, message dao.Message) (dao.Message, error)
	FindMessagesByChatID(ctx context.Context, chatID uint) ([]dao.Message, error)
	FindLastMessage(ctx context.Context, chatID uint) (dao.Message, error)
}

type ChatRepository struct {
	dao ChatDAO
}

func NewChatRepository(dao ChatDAO) *ChatRepository {
	return &ChatRepository{
		dao: dao,
	}
}

// FindAll returns every chat with its denormalized last message. Chats
// without messages yet have a nil LastMessage.
func (r *ChatRepository) FindAll(ctx context.Context) ([]domain.Chat, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	chats := make([]domain.Chat, len(found))
	for i, c := range found {
		chat := r.chatDaoToDomain(c)

		last, err := r.dao.FindLastMessage(ctx, c.ID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("r.dao.FindLastMessage -> %w", err)
			}
		} else {
			m := r.messageDaoToDomain(last)
			chat.LastMessage = &m
		}

		chats[i] = chat
	}

	return chats, nil
}

func (r *ChatRepository) FindParticipantIDs(ctx context.Context, chatID uint) ([]uint, error) {
	ids, err := r.dao.FindParticipantIDs(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindParticipantIDs -> %w", err)
	}

	return ids, nil
}

func (r *ChatRepository) CreateMessage(ctx context.Context, message domain.Message) (domain.Message, error) {
	created, err := r.dao.InsertMessage(ctx, dao.Message{
		ChatID:    message.ChatID,
		Sender:    message.Sender,
		Content:   message.Content,
		Timestamp: message.Timestamp,
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("r.dao.InsertMessage -> %w", err)
	}

	return r.messageDaoToDomain(created), nil
}

func (r *ChatRepository) FindMessages(ctx context.Context, chatID uint) ([]domain.Message, error) {
	if _, err := r.dao.FindParticipantIDs(ctx, chatID); err != nil {
		return nil, fmt.Errorf("r.dao.FindParticipantIDs -> %w", err)
	}

	found, err := r.dao.FindMessagesByChatID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindMessagesByChatID -> %w", err)
	}

	messages := make([]domain.Message, len(found))
	for i, m := range found {
		messages[i] = r.messageDaoToDomain(m)
	}

	return messages, nil
}

func (r *ChatRepository) chatDaoToDomain(c dao.Chat) domain.Chat {
	participants := make([]uint, len(c.Participants))
	for i, p := range c.Participants {
		participants[i] = p.ID
	}

	return domain.Chat{
		ID:           c.ID,
		Participants: participants,
	}
}

func (r *ChatRepository) messageDaoToDomain(m dao.Message) domain.Message {
	return domain.Message{
		ID:        m.ID,
		ChatID:    m.ChatID,
		Sender:    m.Sender,
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}
}
