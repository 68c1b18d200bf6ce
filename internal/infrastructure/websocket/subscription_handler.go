package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/entity"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/usecase"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/logger"
)

// Frame is the envelope for everything crossing a websocket, both
// directions.
type Frame struct {
	Type    string      `json:"type"`
	ChatID  string      `json:"chatId,omitempty"`
	Text    string      `json:"text,omitempty"`
	Error   string      `json:"error,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// Session owns one client's live subscriptions. Every watch is a store
// subscription held open until the client leaves it or disconnects.
type Session struct {
	client        *Client
	directory     *usecase.ChatDirectoryUseCase
	chats         *usecase.ChatSessionUseCase
	notifications *usecase.NotificationUseCase

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	stops map[string]func()
}

func NewSession(ctx context.Context, client *Client, directory *usecase.ChatDirectoryUseCase, chats *usecase.ChatSessionUseCase, notifications *usecase.NotificationUseCase) *Session {
	sessionCtx, cancel := context.WithCancel(ctx)
	s := &Session{
		client:        client,
		directory:     directory,
		chats:         chats,
		notifications: notifications,
		ctx:           sessionCtx,
		cancel:        cancel,
		stops:         make(map[string]func()),
	}

	client.OnMessage = s.HandleFrame
	client.OnClose = s.Close
	return s
}

// Close tears down every live subscription. Called once when the
// connection drops.
func (s *Session) Close() {
	s.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, stop := range s.stops {
		stop()
	}
	s.stops = make(map[string]func())
}

func (s *Session) HandleFrame(data []byte) {
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		s.send(Frame{Type: "error", Error: "malformed frame"})
		return
	}

	switch frame.Type {
	case "ping":
		s.send(Frame{Type: "pong"})
	case "watch_directory":
		s.watchDirectory()
	case "watch_notifications":
		s.watchNotifications()
	case "join_chat":
		s.joinChat(frame.ChatID)
	case "leave_chat":
		s.leaveChat(frame.ChatID)
	case "send_message":
		s.sendMessage(frame.ChatID, frame.Text)
	default:
		s.send(Frame{Type: "error", Error: "unknown frame type: " + frame.Type})
	}
}

func (s *Session) watchDirectory() {
	s.mu.Lock()
	_, already := s.stops["directory"]
	s.mu.Unlock()
	if already {
		return
	}

	stop, err := s.directory.Listen(s.ctx, s.client.ActingID, func(entries []usecase.DirectoryEntry) {
		s.send(Frame{Type: "directory", Payload: entries})
	})
	if err != nil {
		s.send(Frame{Type: "error", Error: "failed to watch directory"})
		logger.Error("Directory watch for %s failed: %v", s.client.ActingID, err)
		return
	}

	s.track("directory", stop)
}

func (s *Session) watchNotifications() {
	s.mu.Lock()
	_, already := s.stops["notifications"]
	s.mu.Unlock()
	if already {
		return
	}

	stop, err := s.notifications.Listen(s.ctx, func(list []entity.Notification) {
		s.send(Frame{Type: "notifications", Payload: list})
	})
	if err != nil {
		s.send(Frame{Type: "error", Error: "failed to watch notifications"})
		return
	}

	s.track("notifications", stop)
}

func (s *Session) joinChat(chatID string) {
	if chatID == "" {
		s.send(Frame{Type: "error", Error: "join_chat needs a chatId"})
		return
	}

	chat, err := s.chats.GetChat(s.ctx, chatID)
	if err != nil {
		s.send(Frame{Type: "error", ChatID: chatID, Error: "chat not found"})
		return
	}
	if !chat.HasParticipant(s.client.ActingID) {
		s.send(Frame{Type: "error", ChatID: chatID, Error: "not a participant"})
		return
	}

	s.mu.Lock()
	_, already := s.stops["chat:"+chatID]
	s.mu.Unlock()
	if already {
		return
	}

	nameStop, err := s.chats.ListenName(s.ctx, chatID, func(name string) {
		s.send(Frame{Type: "chat_name", ChatID: chatID, Payload: name})
	})
	if err != nil {
		s.send(Frame{Type: "error", ChatID: chatID, Error: "failed to join chat"})
		return
	}

	messagesStop, err := s.chats.ListenMessages(s.ctx, chatID, func(messages []entity.Message) {
		s.send(Frame{Type: "chat_messages", ChatID: chatID, Payload: messages})
	})
	if err != nil {
		nameStop()
		s.send(Frame{Type: "error", ChatID: chatID, Error: "failed to join chat"})
		return
	}

	s.track("chat:"+chatID, func() {
		nameStop()
		messagesStop()
	})
}

func (s *Session) leaveChat(chatID string) {
	s.mu.Lock()
	stop, ok := s.stops["chat:"+chatID]
	if ok {
		delete(s.stops, "chat:"+chatID)
	}
	s.mu.Unlock()

	if ok {
		stop()
	}
}

func (s *Session) sendMessage(chatID, text string) {
	message, err := s.chats.SendMessage(s.ctx, chatID, s.client.ActingID, text)
	if err != nil {
		s.send(Frame{Type: "send_failed", ChatID: chatID, Error: err.Error()})
		return
	}
	if message == nil {
		// Whitespace-only text writes nothing.
		return
	}
	s.send(Frame{Type: "message_sent", ChatID: chatID, Payload: message})
}

func (s *Session) track(key string, stop func()) {
	s.mu.Lock()
	s.stops[key] = stop
	s.mu.Unlock()
}

func (s *Session) send(frame Frame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		logger.Error("Failed to encode frame %s: %v", frame.Type, err)
		return
	}

	select {
	case s.client.Send <- payload:
	default:
		logger.Warn("Dropping %s frame for slow client %s", frame.Type, s.client.UserID)
	}
}
