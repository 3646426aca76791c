// Package workout is the client for the external workout-plan service.
//
// The service owns exercises and workouts; this package only forwards
// requests and hands back the JSON it answered with.
package workout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/aanand-mishra/gym-api/internal/lib/outbound"
	"github.com/aanand-mishra/gym-api/internal/types"
)

// serviceName labels errors and metrics.
const serviceName = "workout service"

// levelSegments maps a Level to the workout service's own vocabulary.
var levelSegments = map[types.Level]string{
	types.LevelBeginner:     "iniciante",
	types.LevelIntermediate: "intermediario",
	types.LevelAdvanced:     "avancado",
}

// Client calls the workout service. It is safe for concurrent use.
type Client struct {
	http *outbound.Client
}

// New returns a Client for the workout service at baseURL. Every call is
// bounded by timeout; opts may add a rate limit.
func New(baseURL string, timeout time.Duration, opts ...outbound.Option) *Client {
	return &Client{http: outbound.New(serviceName, baseURL, timeout, opts...)}
}

// FetchPlan calls GET /meutreino/{level}/{group}.
func (c *Client) FetchPlan(ctx context.Context, level types.Level, group string) (json.RawMessage, error) {
	segment, ok := levelSegments[level]
	if !ok {
		segment = string(level)
	}
	return c.http.Do(ctx, http.MethodGet, "/meutreino/"+url.PathEscape(segment)+"/"+url.PathEscape(group), nil)
}

// ListWorkouts calls GET /treinos.
func (c *Client) ListWorkouts(ctx context.Context) (json.RawMessage, error) {
	return c.http.Do(ctx, http.MethodGet, "/treinos", nil)
}

// AddExercise calls POST /add.
func (c *Client) AddExercise(ctx context.Context, ex types.Exercise) (json.RawMessage, error) {
	return c.http.Do(ctx, http.MethodPost, "/add", ex)
}

// DeleteWorkout calls DELETE /delete/treino/{id}.
func (c *Client) DeleteWorkout(ctx context.Context, id string) (json.RawMessage, error) {
	return c.http.Do(ctx, http.MethodDelete, "/delete/treino/"+url.PathEscape(id), nil)
}
