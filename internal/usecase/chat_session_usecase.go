package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/entity"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/repository"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/infrastructure/ratelimit"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/errors"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/logger"
)

// DefaultChatName is shown for chats created without an explicit name.
const DefaultChatName = "Cliente All Connected"

type ChatSessionUseCase struct {
	store         repository.RealtimeStore
	limiter       *ratelimit.RateLimiter
	notifications *NotificationUseCase
}

func NewChatSessionUseCase(store repository.RealtimeStore, limiter *ratelimit.RateLimiter, notifications *NotificationUseCase) *ChatSessionUseCase {
	return &ChatSessionUseCase{
		store:         store,
		limiter:       limiter,
		notifications: notifications,
	}
}

// CreateChat opens a conversation between two distinct identities and
// announces it on the notification list. The announcement is best
// effort: a chat is never rolled back because its notification failed.
func (uc *ChatSessionUseCase) CreateChat(ctx context.Context, name string, users [2]string) (*entity.Chat, error) {
	if users[0] == "" || users[1] == "" {
		return nil, errors.BadRequest("A chat needs two participants", nil)
	}
	if users[0] == users[1] {
		return nil, errors.BadRequest("A chat needs two distinct participants", nil)
	}

	if err := uc.limiter.Allow(users[0], "create_chat"); err != nil {
		return nil, err
	}

	if name == "" {
		name = DefaultChatName
	}

	chat := &entity.Chat{Name: name, Users: users}
	key, err := uc.store.Push(ctx, "chats", map[string]interface{}{
		"name":  chat.Name,
		"users": chat.Users,
	})
	if err != nil {
		return nil, err
	}
	chat.ID = key

	if err := uc.notifications.Publish(ctx, &entity.Notification{
		Tipo:        entity.NotificationChat,
		Titulo:      "Nuevo chat",
		Descripcion: chat.Name,
	}); err != nil {
		logger.Warn("Chat %s created but notification failed: %v", chat.ID, err)
	}

	return chat, nil
}

func (uc *ChatSessionUseCase) GetChat(ctx context.Context, chatID string) (*entity.Chat, error) {
	var raw json.RawMessage
	if err := uc.store.Get(ctx, "chats/"+chatID, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, errors.NotFound("Chat", nil)
	}

	var chat entity.Chat
	if err := json.Unmarshal(raw, &chat); err != nil {
		return nil, errors.Internal("Failed to decode chat", err)
	}
	chat.ID = chatID
	return &chat, nil
}

// ListenName subscribes to a chat's display name. Missing names fall
// back to the default.
func (uc *ChatSessionUseCase) ListenName(ctx context.Context, chatID string, fn func(string)) (func(), error) {
	return uc.store.Subscribe(ctx, "chats/"+chatID+"/name", func(data json.RawMessage) {
		var name string
		if len(data) > 0 && string(data) != "null" {
			if err := json.Unmarshal(data, &name); err != nil {
				logger.Warn("Malformed name for chat %s: %v", chatID, err)
			}
		}
		if name == "" {
			name = DefaultChatName
		}
		fn(name)
	})
}

// ListenMessages subscribes to a chat's message list. Every change
// delivers the complete list ordered by append time; a chat with no
// messages delivers an empty list.
func (uc *ChatSessionUseCase) ListenMessages(ctx context.Context, chatID string, fn func([]entity.Message)) (func(), error) {
	return uc.store.Subscribe(ctx, "chats/"+chatID+"/messages", func(data json.RawMessage) {
		fn(decodeMessages(data))
	})
}

// SendMessage appends a text message. Whitespace-only text is a no-op
// rather than an error: nothing is written and no message is returned.
func (uc *ChatSessionUseCase) SendMessage(ctx context.Context, chatID, senderID, text string) (*entity.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	if err := uc.limiter.Allow(senderID, "send_message"); err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	message := &entity.Message{
		ID:     now,
		Text:   text,
		Sender: senderID,
		Time:   now,
	}

	if err := uc.appendMessage(ctx, chatID, message); err != nil {
		return nil, err
	}
	return message, nil
}

// appendMessage writes a message under the chat's message list. Errors
// surface to the caller; a failed append must never look sent.
func (uc *ChatSessionUseCase) appendMessage(ctx context.Context, chatID string, message *entity.Message) error {
	_, err := uc.store.Push(ctx, "chats/"+chatID+"/messages", message)
	return err
}

// Messages returns one page of a chat's messages in append order.
func (uc *ChatSessionUseCase) Messages(ctx context.Context, chatID string, page, pageSize int) ([]entity.Message, int64, error) {
	var raw json.RawMessage
	if err := uc.store.Get(ctx, "chats/"+chatID+"/messages", &raw); err != nil {
		return nil, 0, err
	}

	all := decodeMessages(raw)
	total := int64(len(all))

	start := (page - 1) * pageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}

	return all[start:end], total, nil
}

func decodeMessages(data json.RawMessage) []entity.Message {
	chat := entity.Chat{}
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &chat.Messages); err != nil {
			return []entity.Message{}
		}
	}

	messages := chat.OrderedMessages()
	if messages == nil {
		return []entity.Message{}
	}
	return messages
}
