package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrChatNotFound = errors.New("chat not found")

type Chat struct {
	ID uint `gorm:"primaryKey"`

	Participants []User `gorm:"many2many:chat_participants;"`

	CreatedAt time.Time `gorm:"not null"`
}

type Message struct {
	ID uint `gorm:"primaryKey"`

	ChatID  uint   `gorm:"not null;index"`
	Sender  uint   `gorm:"not null"`
	Content string `gorm:"not null"`

	// Stored with sub-second precision; ordering within a chat follows
	// this column.
	Timestamp time.Time `gorm:"not null;index"`
}

type ChatDAO struct {
	db *gorm.DB
}

func NewChatDAO(db *gorm.DB) *ChatDAO {
	return &ChatDAO{
		db: db,
	}
}

func (d *ChatDAO) FindAll(ctx context.Context) ([]Chat, error) {
	var chats []Chat

	result := d.db.WithContext(ctx).Preload("Participants").Order("id ASC").Find(&chats)
	if result.Error != nil {
		return nil, result.Error
	}

	return chats, nil
}

func (d *ChatDAO) FindByID(ctx context.Context, id uint) (Chat, error) {
	var chat Chat

	result := d.db.WithContext(ctx).Preload("Participants").First(&chat, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Chat{}, ErrChatNotFound
		}

		return Chat{}, result.Error
	}

	return chat, nil
}

// FindParticipantIDs returns the user ids of the chat's members without
// loading full user rows.
func (d *ChatDAO) FindParticipantIDs(ctx context.Context, chatID uint) ([]uint, error) {
	var count int64
	if err := d.db.WithContext(ctx).Model(&Chat{}).Where("id = ?", chatID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrChatNotFound
	}

	var ids []uint
	err := d.db.WithContext(ctx).
		Table("chat_participants").
		Where("chat_id = ?", chatID).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (d *ChatDAO) InsertMessage(ctx context.Context, message Message) (Message, error) {
	result := d.db.WithContext(ctx).Create(&message)
	if result.Error != nil {
		return Message{}, result.Error
	}

	return message, nil
}

func (d *ChatDAO) FindMessagesByChatID(ctx context.Context, chatID uint) ([]Message, error) {
	var messages []Message

	result := d.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("timestamp ASC, id ASC").
		Find(&messages)
	if result.Error != nil {
		return nil, result.Error
	}

	return messages, nil
}

func (d *ChatDAO) FindLastMessage(ctx context.Context, chatID uint) (Message, error) {
	var message Message

	result := d.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("timestamp DESC, id DESC").
		First(&message)
	if result.Error != nil {
		return Message{}, result.Error
	}

	return message, nil
}
