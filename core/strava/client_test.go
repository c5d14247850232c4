package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		AccessToken: "token-123",
		BaseURL:     srv.URL,
		PageSize:    2,
	})
}

func TestAthlete(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/athlete", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]any{
			"id": 42,
			"bikes": []map[string]any{
				{"id": "b9999", "name": "Roadie"},
			},
		})
	})

	athlete, err := client.Athlete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), athlete.ID)
	require.Len(t, athlete.Bikes, 1)
	assert.Equal(t, Gear{ID: "b9999", Name: "Roadie"}, athlete.Bikes[0])
}

func TestActivitiesBefore_FollowsPagination(t *testing.T) {
	before := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	pages := map[string][]Activity{
		"1": {
			{ID: 1, Name: "Ride one", MovingTime: 3600, Distance: 30000, GearID: "b9999"},
			{ID: 2, Name: "Ride two", MovingTime: 1800, Distance: 15000},
		},
		"2": {
			{ID: 3, Name: "Ride three", MovingTime: 900, Distance: 7500, GearID: "b9999"},
		},
	}

	var requested []string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/athlete/activities", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, strconv.FormatInt(before.Unix(), 10), q.Get("before"))
		assert.Equal(t, "2", q.Get("per_page"))

		page := q.Get("page")
		requested = append(requested, page)
		json.NewEncoder(w).Encode(pages[page])
	})

	acts, err := client.ActivitiesBefore(context.Background(), before)
	require.NoError(t, err)

	// The short second page stops the walk.
	assert.Equal(t, []string{"1", "2"}, requested)
	require.Len(t, acts, 3)
	assert.Equal(t, int64(1), acts[0].ID)
	assert.Equal(t, int64(3), acts[2].ID)
}

func TestActivitiesBefore_EmptyFirstPage(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "[]")
	})

	acts, err := client.ActivitiesBefore(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, acts)
}

func TestGet_NonSuccessStatus(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"Authorization Error"}`)
	})

	_, err := client.Athlete(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Authorization Error")
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Config{AccessToken: "t"})
	assert.Equal(t, "https://www.strava.com/api/v3", client.cfg.BaseURL)
	assert.Equal(t, 100, client.cfg.PageSize)
}
