package repository

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/repository"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/errors"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/logger"
)

const (
	streamRetryMin = time.Second
	streamRetryMax = 30 * time.Second
)

type rtdbStore struct {
	client      *db.Client
	databaseURL string
	httpClient  *http.Client
}

// NewRTDBStore wraps the Firebase Realtime Database. Writes go through
// the admin SDK; subscriptions ride the database's REST event stream,
// re-reading the full value after every change event so callers always
// receive complete snapshots.
func NewRTDBStore(ctx context.Context, app *firebase.App, databaseURL string) (repository.RealtimeStore, error) {
	client, err := app.DatabaseWithURL(ctx, databaseURL)
	if err != nil {
		return nil, errors.Internal("Failed to initialize realtime database client", err)
	}

	tokenSource, err := google.DefaultTokenSource(ctx,
		"https://www.googleapis.com/auth/firebase.database",
		"https://www.googleapis.com/auth/userinfo.email",
	)
	if err != nil {
		return nil, errors.Internal("Failed to build token source for realtime stream", err)
	}

	return &rtdbStore{
		client:      client,
		databaseURL: strings.TrimSuffix(databaseURL, "/"),
		httpClient:  oauth2.NewClient(ctx, tokenSource),
	}, nil
}

func (s *rtdbStore) Get(ctx context.Context, path string, into interface{}) error {
	if err := s.client.NewRef(path).Get(ctx, into); err != nil {
		return errors.Internal("Failed to read "+path, err)
	}
	return nil
}

func (s *rtdbStore) Set(ctx context.Context, path string, value interface{}) error {
	if err := s.client.NewRef(path).Set(ctx, value); err != nil {
		return errors.Internal("Failed to write "+path, err)
	}
	return nil
}

func (s *rtdbStore) Push(ctx context.Context, path string, value interface{}) (string, error) {
	ref, err := s.client.NewRef(path).Push(ctx, value)
	if err != nil {
		return "", errors.Internal("Failed to append to "+path, err)
	}
	return ref.Key, nil
}

func (s *rtdbStore) Subscribe(ctx context.Context, path string, fn repository.SnapshotFunc) (func(), error) {
	streamCtx, cancel := context.WithCancel(ctx)

	// Initial emission: the subscription contract fires immediately
	// with the current value.
	var initial json.RawMessage
	if err := s.Get(ctx, path, &initial); err != nil {
		cancel()
		return nil, err
	}
	fn(initial)

	go s.stream(streamCtx, path, fn)

	return cancel, nil
}

// stream holds the SSE connection open, reconnecting with backoff. Any
// put or patch event triggers a full re-read of the subscribed path.
func (s *rtdbStore) stream(ctx context.Context, path string, fn repository.SnapshotFunc) {
	retry := streamRetryMin

	for {
		if ctx.Err() != nil {
			return
		}

		if err := s.consumeEvents(ctx, path, fn); err != nil && ctx.Err() == nil {
			logger.Warn("Realtime stream for %s dropped: %v (retrying in %s)", path, err, retry)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(retry):
		}

		retry *= 2
		if retry > streamRetryMax {
			retry = streamRetryMax
		}
	}
}

func (s *rtdbStore) consumeEvents(ctx context.Context, path string, fn repository.SnapshotFunc) error {
	url := s.databaseURL + "/" + strings.Trim(path, "/") + ".json"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Internal("Realtime stream rejected with status "+resp.Status, nil)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var event string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			switch event {
			case "put", "patch":
				var snapshot json.RawMessage
				if err := s.Get(ctx, path, &snapshot); err != nil {
					logger.Warn("Failed to re-read %s after stream event: %v", path, err)
					continue
				}
				fn(snapshot)
			case "auth_revoked", "cancel":
				return errors.Internal("Realtime stream terminated by server: "+event, nil)
			}
		}
	}

	return scanner.Err()
}
