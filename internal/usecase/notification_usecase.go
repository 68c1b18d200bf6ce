package usecase

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/entity"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/repository"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/errors"
)

// Notifications live under a single shared list. Scoping them per
// recipient is a pending product decision, so the path mirrors what
// clients already read today.
const notificationsPath = "notifications"

type NotificationUseCase struct {
	store repository.RealtimeStore
}

func NewNotificationUseCase(store repository.RealtimeStore) *NotificationUseCase {
	return &NotificationUseCase{store: store}
}

// Listen subscribes to the notification list. Every change delivers
// the full list in append order; a missing list delivers an empty one.
func (uc *NotificationUseCase) Listen(ctx context.Context, fn func([]entity.Notification)) (func(), error) {
	return uc.store.Subscribe(ctx, notificationsPath, func(data json.RawMessage) {
		fn(decodeNotifications(data))
	})
}

func (uc *NotificationUseCase) List(ctx context.Context) ([]entity.Notification, error) {
	var raw json.RawMessage
	if err := uc.store.Get(ctx, notificationsPath, &raw); err != nil {
		return nil, err
	}
	return decodeNotifications(raw), nil
}

// Publish appends a notification. Only the two known types are
// accepted.
func (uc *NotificationUseCase) Publish(ctx context.Context, notification *entity.Notification) error {
	if notification.Tipo != entity.NotificationChat && notification.Tipo != entity.NotificationOrder {
		return errors.BadRequest("Notification type must be Chat or Pedido", nil)
	}
	if notification.Titulo == "" {
		return errors.BadRequest("Notification title is required", nil)
	}

	key, err := uc.store.Push(ctx, notificationsPath, map[string]interface{}{
		"tipo":        notification.Tipo,
		"titulo":      notification.Titulo,
		"descripcion": notification.Descripcion,
	})
	if err != nil {
		return err
	}

	notification.ID = key
	return nil
}

func decodeNotifications(data json.RawMessage) []entity.Notification {
	byKey := make(map[string]entity.Notification)
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &byKey); err != nil {
			return []entity.Notification{}
		}
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	notifications := make([]entity.Notification, 0, len(keys))
	for _, k := range keys {
		n := byKey[k]
		n.ID = k
		notifications = append(notifications, n)
	}
	return notifications
}
