package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Gear is a piece of equipment attached to the athlete profile.
type Gear struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Athlete is the currently authenticated athlete.
type Athlete struct {
	ID    int64  `json:"id"`
	Bikes []Gear `json:"bikes"`
}

// Activity is a completed workout summary.
type Activity struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	StartDate  time.Time `json:"start_date"`
	MovingTime float64   `json:"moving_time"` // seconds
	Distance   float64   `json:"distance"`    // meters
	GearID     string    `json:"gear_id"`     // empty when no equipment was set
}

// Client is the remote API boundary. It is constructed once and passed into
// the orchestrator so downstream code carries no hidden client state.
type Client interface {
	// Athlete returns the currently authenticated athlete with its bikes.
	Athlete(ctx context.Context) (*Athlete, error)

	// ActivitiesBefore returns every activity that started before t,
	// following pagination to exhaustion.
	ActivitiesBefore(ctx context.Context, t time.Time) ([]Activity, error)
}

// HTTPClient implements Client against the Strava v3 REST API.
type HTTPClient struct {
	cfg  Config
	http *http.Client
}

// NewClient creates an HTTP client for the Strava API.
func NewClient(cfg Config) *HTTPClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.strava.com/api/v3"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	return &HTTPClient{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// Athlete implements Client.
func (c *HTTPClient) Athlete(ctx context.Context) (*Athlete, error) {
	var a Athlete
	if err := c.get(ctx, "/athlete", nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ActivitiesBefore implements Client. A page shorter than the configured page
// size terminates the walk.
func (c *HTTPClient) ActivitiesBefore(ctx context.Context, t time.Time) ([]Activity, error) {
	var all []Activity
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("before", strconv.FormatInt(t.Unix(), 10))
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(c.cfg.PageSize))

		var batch []Activity
		if err := c.get(ctx, "/athlete/activities", q, &batch); err != nil {
			return nil, err
		}
		all = append(all, batch...)

		if len(batch) < c.cfg.PageSize {
			return all, nil
		}
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.cfg.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request for %s failed: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("request %s failed: %s: %s", path, resp.Status, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response failed: %w", path, err)
	}
	return nil
}
