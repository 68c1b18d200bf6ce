package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/entity"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/service"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/errors"
)

// Client resolves user and organization ids against the marketplace's
// REST services.
type Client struct {
	usersBaseURL string
	orgsBaseURL  string
	httpClient   *http.Client
}

func NewClient(usersBaseURL, orgsBaseURL string) *Client {
	return &Client{
		usersBaseURL: usersBaseURL,
		orgsBaseURL:  orgsBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

var (
	_ service.UserLookup         = (*Client)(nil)
	_ service.OrganizationLookup = (*Client)(nil)
)

func (c *Client) GetUser(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	if err := c.get(ctx, fmt.Sprintf("%s/%s", c.usersBaseURL, id), "User", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetOrganization(ctx context.Context, id string) (*entity.Organization, error) {
	var org entity.Organization
	if err := c.get(ctx, fmt.Sprintf("%s/%s", c.orgsBaseURL, id), "Organization", &org); err != nil {
		return nil, err
	}
	return &org, nil
}

func (c *Client) get(ctx context.Context, url, resource string, into interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Internal("Failed to build lookup request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Internal(resource+" lookup failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errors.NotFound(resource, nil)
	case resp.StatusCode != http.StatusOK:
		return errors.Internal(fmt.Sprintf("%s lookup returned status %d", resource, resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return errors.Internal("Failed to decode "+resource+" response", err)
	}
	return nil
}
