package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterrepo "github.com/FusionTech-2430/all-connected-app-sub000/internal/adapter/repository"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/entity"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/errors"
)

func TestPublishRejectsUnknownType(t *testing.T) {
	uc := NewNotificationUseCase(adapterrepo.NewMemoryStore())

	err := uc.Publish(context.Background(), &entity.Notification{
		Tipo:   "Promo",
		Titulo: "x",
	})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestPublishRequiresTitle(t *testing.T) {
	uc := NewNotificationUseCase(adapterrepo.NewMemoryStore())

	err := uc.Publish(context.Background(), &entity.Notification{Tipo: entity.NotificationOrder})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestPublishAssignsIDAndListsInOrder(t *testing.T) {
	uc := NewNotificationUseCase(adapterrepo.NewMemoryStore())
	ctx := context.Background()

	first := &entity.Notification{Tipo: entity.NotificationChat, Titulo: "Nuevo chat", Descripcion: "Tienda Verde"}
	require.NoError(t, uc.Publish(ctx, first))
	require.NotEmpty(t, first.ID)

	second := &entity.Notification{Tipo: entity.NotificationOrder, Titulo: "Pedido enviado"}
	require.NoError(t, uc.Publish(ctx, second))

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, "Nuevo chat", list[0].Titulo)
	assert.Equal(t, second.ID, list[1].ID)
}

func TestNotificationListenDeliversFullList(t *testing.T) {
	uc := NewNotificationUseCase(adapterrepo.NewMemoryStore())
	ctx := context.Background()

	var deliveries [][]entity.Notification
	stop, err := uc.Listen(ctx, func(list []entity.Notification) {
		deliveries = append(deliveries, list)
	})
	require.NoError(t, err)
	defer stop()

	require.Len(t, deliveries, 1)
	assert.Empty(t, deliveries[0])

	require.NoError(t, uc.Publish(ctx, &entity.Notification{Tipo: entity.NotificationChat, Titulo: "Nuevo chat"}))

	require.Len(t, deliveries, 2)
	require.Len(t, deliveries[1], 1)
	assert.Equal(t, entity.NotificationChat, deliveries[1][0].Tipo)
}
