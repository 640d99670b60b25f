package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"tennis-dashboard/internal/config"
	"tennis-dashboard/internal/constants"
	"tennis-dashboard/internal/domain"
	"time"

	"github.com/valyala/fasthttp"
)

// ErrRequestFailed marks every failed call to the external tennis API,
// whether the transport broke or the upstream answered with a non-2xx status.
var ErrRequestFailed = errors.New("tennis api request failed")

type RequestError struct {
	Endpoint   string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s: status %d", ErrRequestFailed, e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s: %v", ErrRequestFailed, e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRequestFailed}
	}
	return []error{ErrRequestFailed, e.Err}
}

// TennisClient talks to the RapidAPI-hosted tennis data service. The live
// simulation never calls it; it only backs the cached proxy procedures.
type TennisClient struct {
	baseURL string
	apiKey  string
	apiHost string
	client  *fasthttp.Client
}

func NewTennisClient(cfg *config.Config) *TennisClient {
	return newTennisClient(cfg.TennisBaseURL, cfg.TennisAPIKey, cfg.TennisAPIHost, &fasthttp.Client{
		MaxConnsPerHost:     100,
		ReadTimeout:         constants.ExternalAPITimeout,
		WriteTimeout:        constants.ExternalAPITimeout,
		MaxIdleConnDuration: 1 * time.Minute,
	})
}

func newTennisClient(baseURL, apiKey, apiHost string, client *fasthttp.Client) *TennisClient {
	return &TennisClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		apiHost: apiHost,
		client:  client,
	}
}

type SearchResult = json.RawMessage

func (c *TennisClient) GetRankings(ctx context.Context) ([]domain.Ranking, error) {
	return get[[]domain.Ranking](ctx, c, "/tennis/rankings/wta")
}

func (c *TennisClient) GetLiveMatches(ctx context.Context) ([]domain.MatchStats, error) {
	return get[[]domain.MatchStats](ctx, c, "/tennis/matches/live")
}

func (c *TennisClient) GetMatch(ctx context.Context, matchID string) (domain.MatchStats, error) {
	return get[domain.MatchStats](ctx, c, "/tennis/matches/"+url.PathEscape(matchID))
}

// GetPlayer returns the upstream player document untouched; its shape is
// not stable enough to model.
func (c *TennisClient) GetPlayer(ctx context.Context, playerID string) (json.RawMessage, error) {
	return get[json.RawMessage](ctx, c, "/tennis/player/"+url.PathEscape(playerID))
}

func (c *TennisClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	return get[[]SearchResult](ctx, c, "/tennis/search?q="+url.QueryEscape(query))
}

func (c *TennisClient) GetCalendar(ctx context.Context) (json.RawMessage, error) {
	return get[json.RawMessage](ctx, c, "/tennis/calendar")
}

func (c *TennisClient) GetTournamentStats(ctx context.Context, tournamentID string) (json.RawMessage, error) {
	return get[json.RawMessage](ctx, c, "/tennis/tournaments/"+url.PathEscape(tournamentID)+"/stats")
}

func get[T any](ctx context.Context, c *TennisClient, endpoint string) (T, error) {
	var zero T
	res, err := doRequest[T](ctx, c, endpoint)
	if err != nil {
		return zero, err
	}
	return *res, nil
}

func doRequest[T any](ctx context.Context, client *TennisClient, endpoint string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, &RequestError{Endpoint: endpoint, Err: err}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(client.baseURL + endpoint)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if client.apiKey != "" {
		req.Header.Set("X-RapidAPI-Key", client.apiKey)
	}
	if client.apiHost != "" {
		req.Header.Set("X-RapidAPI-Host", client.apiHost)
	}

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, &RequestError{Endpoint: endpoint, Err: err}
		}
	} else {
		if err := client.client.DoTimeout(req, resp, constants.ExternalAPITimeout); err != nil {
			return nil, &RequestError{Endpoint: endpoint, Err: err}
		}
	}

	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, &RequestError{Endpoint: endpoint, StatusCode: code}
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, &RequestError{Endpoint: endpoint, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return &result, nil
}
