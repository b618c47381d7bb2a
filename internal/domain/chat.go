package domain

import (
	"encoding/json"
	"math"
	"time"
)

// Chat membership is fixed at creation; LastMessage is denormalized for
// the chat list screen.
type Chat struct {
	ID           uint     `json:"id"`
	Participants []uint   `json:"participants"`
	LastMessage  *Message `json:"last_message,omitempty"`
}

type Message struct {
	ID        uint      `json:"id"`
	ChatID    uint      `json:"chatId"`
	Sender    uint      `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// On the wire the timestamp is seconds since epoch with fractional
// precision, which is what the mobile clients decode.
type messageJSON struct {
	ID        uint    `json:"id"`
	ChatID    uint    `json:"chatId"`
	Sender    uint    `json:"sender"`
	Content   string  `json:"content"`
	Timestamp float64 `json:"timestamp"`
}

func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(messageJSON{
		ID:        m.ID,
		ChatID:    m.ChatID,
		Sender:    m.Sender,
		Content:   m.Content,
		Timestamp: float64(m.Timestamp.UnixNano()) / float64(time.Second),
	})
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var raw messageJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	sec, frac := math.Modf(raw.Timestamp)
	*m = Message{
		ID:        raw.ID,
		ChatID:    raw.ChatID,
		Sender:    raw.Sender,
		Content:   raw.Content,
		Timestamp: time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC(),
	}

	return nil
}
