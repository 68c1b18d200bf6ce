package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterrepo "github.com/FusionTech-2430/all-connected-app-sub000/internal/adapter/repository"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/entity"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/repository"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/infrastructure/ratelimit"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/errors"
)

func newSessionFixture() (*ChatSessionUseCase, *adapterrepo.MemoryStore) {
	store := adapterrepo.NewMemoryStore()
	notifications := NewNotificationUseCase(store)
	return NewChatSessionUseCase(store, ratelimit.NewRateLimiter(), notifications), store
}

// failingStore errors on every write so send failures can be observed.
type failingStore struct{}

func (f *failingStore) Get(ctx context.Context, path string, into interface{}) error {
	return json.Unmarshal([]byte("null"), into)
}

func (f *failingStore) Set(ctx context.Context, path string, value interface{}) error {
	return errors.Internal("store unavailable", nil)
}

func (f *failingStore) Push(ctx context.Context, path string, value interface{}) (string, error) {
	return "", errors.Internal("store unavailable", nil)
}

func (f *failingStore) Subscribe(ctx context.Context, path string, fn repository.SnapshotFunc) (func(), error) {
	fn(json.RawMessage("null"))
	return func() {}, nil
}

func TestCreateChatRequiresDistinctParticipants(t *testing.T) {
	uc, _ := newSessionFixture()
	ctx := context.Background()

	_, err := uc.CreateChat(ctx, "x", [2]string{"u1", "u1"})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = uc.CreateChat(ctx, "x", [2]string{"u1", ""})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestCreateChatDefaultsNameAndNotifies(t *testing.T) {
	uc, store := newSessionFixture()
	ctx := context.Background()

	chat, err := uc.CreateChat(ctx, "", [2]string{"u1", "org1"})
	require.NoError(t, err)
	require.NotEmpty(t, chat.ID)
	assert.Equal(t, DefaultChatName, chat.Name)

	stored, err := uc.GetChat(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, [2]string{"u1", "org1"}, stored.Users)

	var raw json.RawMessage
	require.NoError(t, store.Get(ctx, "notifications", &raw))
	assert.Contains(t, string(raw), entity.NotificationChat)
	assert.Contains(t, string(raw), DefaultChatName)
}

func TestGetChatNotFound(t *testing.T) {
	uc, _ := newSessionFixture()

	_, err := uc.GetChat(context.Background(), "missing")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestSendMessageWhitespaceIsNoOp(t *testing.T) {
	uc, _ := newSessionFixture()
	ctx := context.Background()

	chat, err := uc.CreateChat(ctx, "x", [2]string{"u1", "u2"})
	require.NoError(t, err)

	msg, err := uc.SendMessage(ctx, chat.ID, "u1", "   \n\t ")
	require.NoError(t, err)
	assert.Nil(t, msg)

	messages, total, err := uc.Messages(ctx, chat.ID, 1, 50)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, messages)
}

func TestSendMessageAppendsInOrder(t *testing.T) {
	uc, _ := newSessionFixture()
	ctx := context.Background()

	chat, err := uc.CreateChat(ctx, "x", [2]string{"u1", "u2"})
	require.NoError(t, err)

	first, err := uc.SendMessage(ctx, chat.ID, "u1", "hola")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, first.ID, first.Time)

	second, err := uc.SendMessage(ctx, chat.ID, "u2", "buenas")
	require.NoError(t, err)

	messages, total, err := uc.Messages(ctx, chat.ID, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, messages, 2)
	assert.Equal(t, first.Text, messages[0].Text)
	assert.Equal(t, second.Text, messages[1].Text)
	assert.Equal(t, "u1", messages[0].Sender)
	assert.Equal(t, "u2", messages[1].Sender)
}

func TestSendMessageSurfacesStoreFailure(t *testing.T) {
	store := &failingStore{}
	uc := NewChatSessionUseCase(store, ratelimit.NewRateLimiter(), NewNotificationUseCase(store))

	msg, err := uc.SendMessage(context.Background(), "abc", "u1", "hola")
	assert.Nil(t, msg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "INTERNAL_ERROR"))
}

func TestListenMessagesDeliversFullOrderedList(t *testing.T) {
	uc, _ := newSessionFixture()
	ctx := context.Background()

	chat, err := uc.CreateChat(ctx, "x", [2]string{"u1", "u2"})
	require.NoError(t, err)

	var deliveries [][]entity.Message
	stop, err := uc.ListenMessages(ctx, chat.ID, func(messages []entity.Message) {
		deliveries = append(deliveries, messages)
	})
	require.NoError(t, err)
	defer stop()

	require.Len(t, deliveries, 1)
	assert.Empty(t, deliveries[0], "missing message list must arrive as empty, not nil payload")

	_, err = uc.SendMessage(ctx, chat.ID, "u1", "uno")
	require.NoError(t, err)
	_, err = uc.SendMessage(ctx, chat.ID, "u2", "dos")
	require.NoError(t, err)

	require.Len(t, deliveries, 3)
	assert.Len(t, deliveries[1], 1)
	require.Len(t, deliveries[2], 2)
	assert.Equal(t, "uno", deliveries[2][0].Text)
	assert.Equal(t, "dos", deliveries[2][1].Text)
}

func TestListenNameFallsBackToDefault(t *testing.T) {
	uc, store := newSessionFixture()
	ctx := context.Background()

	var names []string
	stop, err := uc.ListenName(ctx, "abc", func(name string) {
		names = append(names, name)
	})
	require.NoError(t, err)
	defer stop()

	require.NoError(t, store.Set(ctx, "chats/abc/name", "Tienda Verde"))

	require.Len(t, names, 2)
	assert.Equal(t, DefaultChatName, names[0])
	assert.Equal(t, "Tienda Verde", names[1])
}

func TestMessagesPagination(t *testing.T) {
	uc, _ := newSessionFixture()
	ctx := context.Background()

	chat, err := uc.CreateChat(ctx, "x", [2]string{"u1", "u2"})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := uc.SendMessage(ctx, chat.ID, "u1", string(rune('a'+i)))
		require.NoError(t, err)
	}

	page, total, err := uc.Messages(ctx, chat.ID, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.Equal(t, "c", page[0].Text)
	assert.Equal(t, "d", page[1].Text)
}
