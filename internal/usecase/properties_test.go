package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterrepo "github.com/FusionTech-2430/all-connected-app-sub000/internal/adapter/repository"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/entity"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/infrastructure/ratelimit"
)

func TestDirectoryMembership(t *testing.T) {
	store := adapterrepo.NewMemoryStore()
	uc := newDirectoryFixture(store, time.Now().UnixMilli())
	ctx := context.Background()

	a := seedChat(t, store, map[string]interface{}{"name": "a", "users": []string{"u1", "u2"}})
	b := seedChat(t, store, map[string]interface{}{"name": "b", "users": []string{"u1", "u3"}})

	forU1, err := uc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, forU1, 2)

	forU2, err := uc.List(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, forU2, 1)
	assert.Equal(t, a, forU2[0].ChatID)
	assert.NotEqual(t, b, forU2[0].ChatID)
}

func TestMessageOrderingIdempotent(t *testing.T) {
	snapshot := json.RawMessage(`{
		"-Nb0000000000000000a": {"id": 1, "text": "uno", "sender": "u1", "time": 1},
		"-Nb0000000000000000c": {"id": 3, "text": "tres", "sender": "u1", "time": 3},
		"-Nb0000000000000000b": {"id": 2, "text": "dos", "sender": "u2", "time": 2}
	}`)

	first := decodeMessages(snapshot)
	second := decodeMessages(snapshot)

	require.Len(t, first, 3)
	assert.Equal(t, first, second)
	assert.Equal(t, "uno", first[0].Text)
	assert.Equal(t, "dos", first[1].Text)
	assert.Equal(t, "tres", first[2].Text)
}

func TestNotificationNullSnapshotResetsList(t *testing.T) {
	store := adapterrepo.NewMemoryStore()
	uc := NewNotificationUseCase(store)
	ctx := context.Background()

	require.NoError(t, uc.Publish(ctx, &entity.Notification{Tipo: entity.NotificationOrder, Titulo: "Pedido enviado"}))

	var deliveries [][]entity.Notification
	stop, err := uc.Listen(ctx, func(list []entity.Notification) {
		deliveries = append(deliveries, list)
	})
	require.NoError(t, err)
	defer stop()

	require.Len(t, deliveries, 1)
	require.Len(t, deliveries[0], 1)

	require.NoError(t, store.Set(ctx, "notifications", nil))

	require.Len(t, deliveries, 2)
	assert.Empty(t, deliveries[1], "a null snapshot resets the list to empty")
}

func TestBusinessConversationScenario(t *testing.T) {
	store := adapterrepo.NewMemoryStore()
	now := time.Now().UnixMilli()
	ctx := context.Background()

	users := &fakeUserLookup{users: map[string]*entity.User{
		"user-42": {ID: "user-42", Username: "cliente42", FullName: "Carlos Ruiz"},
	}}
	orgs := &fakeOrgLookup{orgs: map[string]*entity.Organization{}}
	directory := NewChatDirectoryUseCase(store, users, orgs, func() int64 { return now })

	notifications := NewNotificationUseCase(store)
	chats := NewChatSessionUseCase(store, ratelimit.NewRateLimiter(), notifications)

	chat, err := chats.CreateChat(ctx, "Consulta servicio Torta", [2]string{"biz-1", "user-42"})
	require.NoError(t, err)

	_, err = chats.SendMessage(ctx, chat.ID, "user-42", "¿Tienen disponible?")
	require.NoError(t, err)

	entries, err := directory.List(ctx, "biz-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Consulta servicio Torta", entries[0].Name)
	assert.Equal(t, "Carlos Ruiz", entries[0].DisplayName)
	assert.NotEqual(t, NoMessagesLabel, entries[0].LastMessage)
	assert.NotEmpty(t, entries[0].LastTime)

	messages, total, err := chats.Messages(ctx, chat.ID, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, messages, 1)
	assert.Equal(t, "user-42", messages[0].Sender)
	assert.Equal(t, "¿Tienen disponible?", messages[0].Text)
}
