package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/entity"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/repository"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/service"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/timefmt"
)

// UnknownCounterpart is shown when neither lookup service can resolve
// the other participant.
const UnknownCounterpart = "Desconocido"

// NoMessagesLabel is the preview for a chat with no messages yet.
const NoMessagesLabel = "Sin mensajes"

// DirectoryEntry is one row of an identity's chat list, enriched with
// the counterpart's profile and a preview of the latest message.
type DirectoryEntry struct {
	ChatID        string `json:"chatId"`
	Name          string `json:"name"`
	CounterpartID string `json:"counterpartId"`
	DisplayName   string `json:"displayName"`
	PhotoURL      string `json:"photoUrl,omitempty"`
	LastMessage   string `json:"lastMessage"`
	LastTime      string `json:"lastTime"`

	lastMillis int64
}

type ChatDirectoryUseCase struct {
	store repository.RealtimeStore
	users service.UserLookup
	orgs  service.OrganizationLookup
	clock func() int64

	mu      sync.Mutex
	applied uint64
	version uint64
}

func NewChatDirectoryUseCase(store repository.RealtimeStore, users service.UserLookup, orgs service.OrganizationLookup, clock func() int64) *ChatDirectoryUseCase {
	return &ChatDirectoryUseCase{
		store: store,
		users: users,
		orgs:  orgs,
		clock: clock,
	}
}

// Listen subscribes to the chat tree and delivers the acting
// identity's directory after every change. Enrichment runs
// concurrently per chat; snapshots are versioned so a slow enrichment
// of an old snapshot can never overwrite a newer one.
func (uc *ChatDirectoryUseCase) Listen(ctx context.Context, actingID string, fn func([]DirectoryEntry)) (func(), error) {
	return uc.store.Subscribe(ctx, "chats", func(data json.RawMessage) {
		uc.mu.Lock()
		uc.version++
		version := uc.version
		uc.mu.Unlock()

		chats := decodeChats(data)

		go func() {
			entries := uc.enrich(ctx, actingID, chats)

			// Check and deliver under one lock so a stale batch can
			// never slip in after a newer one was handed out.
			uc.mu.Lock()
			defer uc.mu.Unlock()
			if version <= uc.applied {
				return
			}
			uc.applied = version
			fn(entries)
		}()
	})
}

// List builds the directory once, without subscribing.
func (uc *ChatDirectoryUseCase) List(ctx context.Context, actingID string) ([]DirectoryEntry, error) {
	var raw json.RawMessage
	if err := uc.store.Get(ctx, "chats", &raw); err != nil {
		return nil, err
	}
	return uc.enrich(ctx, actingID, decodeChats(raw)), nil
}

func (uc *ChatDirectoryUseCase) enrich(ctx context.Context, actingID string, chats []entity.Chat) []DirectoryEntry {
	var mine []entity.Chat
	for _, c := range chats {
		if c.HasParticipant(actingID) {
			mine = append(mine, c)
		}
	}

	entries := make([]DirectoryEntry, len(mine))
	g, gctx := errgroup.WithContext(ctx)

	for i, chat := range mine {
		i, chat := i, chat
		g.Go(func() error {
			entry := DirectoryEntry{
				ChatID:        chat.ID,
				Name:          chat.Name,
				CounterpartID: chat.Counterpart(actingID),
				LastMessage:   NoMessagesLabel,
				LastTime:      "",
			}

			entry.DisplayName, entry.PhotoURL = uc.resolve(gctx, entry.CounterpartID)

			if latest := chat.LatestMessage(); latest != nil {
				entry.LastMessage = preview(latest)
				entry.LastTime = timefmt.RelativeMillis(latest.Time, nowFrom(uc.clock))
				entry.lastMillis = latest.Time
			}

			entries[i] = entry
			return nil
		})
	}
	g.Wait()

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].lastMillis > entries[b].lastMillis
	})

	return entries
}

// resolve finds the counterpart's display profile. Business ids and
// user ids share one namespace, so the organization service is asked
// first and the user service second. Both failing is not an error,
// just an unknown counterpart.
func (uc *ChatDirectoryUseCase) resolve(ctx context.Context, id string) (name, photoURL string) {
	if id == "" {
		return UnknownCounterpart, ""
	}

	if org, err := uc.orgs.GetOrganization(ctx, id); err == nil && org != nil {
		return org.Name, org.PhotoURL
	}

	if user, err := uc.users.GetUser(ctx, id); err == nil && user != nil {
		name := user.FullName
		if name == "" {
			name = user.Username
		}
		if name == "" {
			name = UnknownCounterpart
		}
		return name, user.PhotoURL
	}

	return UnknownCounterpart, ""
}

func preview(m *entity.Message) string {
	if m.Text != "" {
		return m.Text
	}
	if m.File != nil {
		return "Archivo: " + m.File.Name
	}
	return NoMessagesLabel
}

func nowFrom(clock func() int64) time.Time {
	if clock == nil {
		return time.Now()
	}
	return time.UnixMilli(clock())
}

func decodeChats(data json.RawMessage) []entity.Chat {
	byKey := make(map[string]entity.Chat)
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &byKey); err != nil {
			return nil
		}
	}

	chats := make([]entity.Chat, 0, len(byKey))
	for id, chat := range byKey {
		chat.ID = id
		chats = append(chats, chat)
	}
	return chats
}
