package clubauth

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/ringsidehq/matchfinder/internal/domain/user"
	"github.com/ringsidehq/matchfinder/internal/platform/cache"
	"github.com/ringsidehq/matchfinder/internal/platform/logging"
	"github.com/ringsidehq/matchfinder/internal/usecase"
)

// Client verifies access tokens against the club directory's
// introspection endpoint. The directory is also the source of truth
// for which clubs a coach belongs to, so the principal comes back with
// its club ids filled in.
type Client struct {
	httpClient    *http.Client
	introspectURL string
	tokenCache    *cache.Store
	logger        *logging.Logger
}

// NewClient builds a directory client. A positive cacheTTL enables a
// short-lived token cache so repeated requests with the same bearer
// token do not hit the directory on every call.
func NewClient(httpClient *http.Client, baseURL, introspectPath string, cacheTTL time.Duration, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	var tokenCache *cache.Store
	if cacheTTL > 0 {
		tokenCache = cache.NewStore(cacheTTL)
	}

	return &Client{
		httpClient:    httpClient,
		introspectURL: buildURL(baseURL, introspectPath),
		tokenCache:    tokenCache,
		logger:        logger,
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	if c.tokenCache == nil {
		return c.introspect(ctx, token)
	}

	value, err := c.tokenCache.GetOrLoad(ctx, token, func(ctx context.Context) (any, error) {
		return c.introspect(ctx, token)
	})
	if err != nil {
		return user.Principal{}, err
	}

	principal, ok := value.(user.Principal)
	if !ok {
		return user.Principal{}, fmt.Errorf("unexpected cached principal type %T", value)
	}

	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	encoded, err := jsoniter.Marshal(introspectRequest{Token: token})
	if err != nil {
		return user.Principal{}, fmt.Errorf("marshal introspect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return user.Principal{}, fmt.Errorf("create introspect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, fmt.Errorf("request introspection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return user.Principal{}, fmt.Errorf("read introspect response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "club directory introspection non-200",
			"status_code", resp.StatusCode,
		)
		return user.Principal{}, fmt.Errorf("introspection failed with status %d", resp.StatusCode)
	}

	var decoded introspectResponse
	if err := jsoniter.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, fmt.Errorf("unmarshal introspect response: %w", err)
	}

	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, fmt.Errorf("invalid introspect response: user_id is empty")
	}

	clubIDs := make([]string, 0, len(decoded.ClubIDs))
	for _, id := range decoded.ClubIDs {
		if id = strings.TrimSpace(id); id != "" {
			clubIDs = append(clubIDs, id)
		}
	}

	return user.Principal{
		UserID:  decoded.UserID,
		Email:   decoded.Email,
		ClubIDs: clubIDs,
	}, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active  bool     `json:"active"`
	UserID  string   `json:"user_id"`
	Email   string   `json:"email"`
	ClubIDs []string `json:"club_ids"`
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}
