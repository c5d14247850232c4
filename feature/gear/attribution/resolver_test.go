package attribution

import (
	"testing"
	"time"

	"github.com/lgangitano/strava-gear/feature/gear/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	roadie = models.Bike{ID: 1, StravaID: "b9999", Name: "Roadie"}
	bikes  = map[string]models.Bike{"b9999": roadie}
)

func gear(id string) *string { return &id }

func ts(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func activity(id int64, name string, start time.Time, bike *string) models.Activity {
	return models.Activity{
		ID:           uint(id),
		StravaID:     id,
		Name:         name,
		StartsAt:     start,
		BikeStravaID: bike,
	}
}

func TestResolve_SkipsActivitiesWithoutGear(t *testing.T) {
	acts := []models.Activity{activity(1, "Run", ts(2024, 2, 1), nil)}
	longterms := []models.LongtermBikeComponent{
		{ComponentID: 10, BikeID: roadie.ID, RoleID: 20, StartsAt: ts(2024, 1, 1)},
	}

	resolved, err := Resolve(acts, bikes, longterms, nil)
	require.NoError(t, err)
	assert.Empty(t, resolved)
}

func TestResolve_UnknownBikeIsFatal(t *testing.T) {
	acts := []models.Activity{activity(1, "Ride", ts(2024, 2, 1), gear("b0"))}

	_, err := Resolve(acts, bikes, nil, nil)
	require.ErrorIs(t, err, ErrUnknownBike)
	assert.Contains(t, err.Error(), "b0")
}

func TestResolve_IntervalAssignment(t *testing.T) {
	longterms := []models.LongtermBikeComponent{
		{ComponentID: 10, BikeID: roadie.ID, RoleID: 20, StartsAt: ts(2024, 1, 1)},
	}
	acts := []models.Activity{activity(1, "Morning ride", ts(2024, 2, 1), gear("b9999"))}

	resolved, err := Resolve(acts, bikes, longterms, nil)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, uint(1), resolved[0].ActivityID)
	assert.Equal(t, uint(10), resolved[0].ComponentID)
	assert.Equal(t, uint(20), resolved[0].RoleID)
}

func TestResolve_IntervalBoundaries(t *testing.T) {
	start := ts(2024, 1, 1)
	end := ts(2024, 6, 1)
	longterms := []models.LongtermBikeComponent{
		{ComponentID: 10, BikeID: roadie.ID, RoleID: 20, StartsAt: start, EndsAt: &end},
	}

	tests := []struct {
		name     string
		startsAt time.Time
		included bool
	}{
		{"exactly at start", start, true},
		{"exactly at end", end, true},
		{"one instant before start", start.Add(-time.Second), false},
		{"one instant after end", end.Add(time.Second), false},
		{"inside interval", ts(2024, 3, 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acts := []models.Activity{activity(1, "Ride", tt.startsAt, gear("b9999"))}
			resolved, err := Resolve(acts, bikes, longterms, nil)
			require.NoError(t, err)
			if tt.included {
				assert.Len(t, resolved, 1)
			} else {
				assert.Empty(t, resolved)
			}
		})
	}
}

func TestResolve_OpenEndedInterval(t *testing.T) {
	longterms := []models.LongtermBikeComponent{
		{ComponentID: 10, BikeID: roadie.ID, RoleID: 20, StartsAt: ts(2024, 1, 1)},
	}
	acts := []models.Activity{activity(1, "Ride", ts(2030, 1, 1), gear("b9999"))}

	resolved, err := Resolve(acts, bikes, longterms, nil)
	require.NoError(t, err)
	assert.Len(t, resolved, 1)
}

func TestResolve_HashtagOverridesInterval(t *testing.T) {
	// Interval says componentB serves drivetrain; the activity name carries
	// #chain1 which maps componentA to the same role. Hashtag wins.
	longterms := []models.LongtermBikeComponent{
		{ComponentID: 11, BikeID: roadie.ID, RoleID: 20, StartsAt: ts(2024, 1, 1)},
	}
	hashtags := []models.HashTagBikeComponent{
		{Tag: "#chain1", ComponentID: 10, RoleID: 20},
	}
	acts := []models.Activity{activity(1, "Ride #chain1", ts(2024, 2, 1), gear("b9999"))}

	resolved, err := Resolve(acts, bikes, longterms, hashtags)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, uint(10), resolved[0].ComponentID)
	assert.Equal(t, uint(20), resolved[0].RoleID)
}

func TestResolve_FirstHashtagWinsPerRole(t *testing.T) {
	hashtags := []models.HashTagBikeComponent{
		{Tag: "#chain1", ComponentID: 10, RoleID: 20},
		{Tag: "#chain2", ComponentID: 11, RoleID: 20},
	}
	acts := []models.Activity{activity(1, "Ride #chain2 #chain1", ts(2024, 2, 1), gear("b9999"))}

	// Both tags match; rule-table order decides, not token order.
	resolved, err := Resolve(acts, bikes, nil, hashtags)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, uint(10), resolved[0].ComponentID)
}

func TestResolve_NoDuplicateRoles(t *testing.T) {
	longterms := []models.LongtermBikeComponent{
		{ComponentID: 11, BikeID: roadie.ID, RoleID: 20, StartsAt: ts(2024, 1, 1)},
		{ComponentID: 12, BikeID: roadie.ID, RoleID: 21, StartsAt: ts(2024, 1, 1)},
	}
	hashtags := []models.HashTagBikeComponent{
		{Tag: "#chain1", ComponentID: 10, RoleID: 20},
	}
	acts := []models.Activity{activity(1, "Ride #chain1", ts(2024, 2, 1), gear("b9999"))}

	resolved, err := Resolve(acts, bikes, longterms, hashtags)
	require.NoError(t, err)
	require.Len(t, resolved, 2)

	seen := make(map[uint]bool)
	for _, r := range resolved {
		assert.False(t, seen[r.RoleID], "role %d resolved twice", r.RoleID)
		seen[r.RoleID] = true
	}
	// Drivetrain came from the hashtag, the other role from the interval.
	byRole := map[uint]uint{}
	for _, r := range resolved {
		byRole[r.RoleID] = r.ComponentID
	}
	assert.Equal(t, uint(10), byRole[20])
	assert.Equal(t, uint(12), byRole[21])
}

func TestResolve_HashtagMatchesExactTokenOnly(t *testing.T) {
	hashtags := []models.HashTagBikeComponent{
		{Tag: "#chain", ComponentID: 10, RoleID: 20},
	}

	tests := []struct {
		name    string
		actName string
		matches bool
	}{
		{"exact token", "Ride #chain today", true},
		{"prefix of longer tag", "Ride #chain1", false},
		{"tag embedded in word", "Ridechain", false},
		{"no hash prefix", "Ride chain", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acts := []models.Activity{activity(1, tt.actName, ts(2024, 2, 1), gear("b9999"))}
			resolved, err := Resolve(acts, bikes, nil, hashtags)
			require.NoError(t, err)
			if tt.matches {
				assert.Len(t, resolved, 1)
			} else {
				assert.Empty(t, resolved)
			}
		})
	}
}

func TestResolve_IntervalOnOtherBikeIgnored(t *testing.T) {
	other := models.Bike{ID: 2, StravaID: "b1", Name: "Gravel"}
	allBikes := map[string]models.Bike{"b9999": roadie, "b1": other}

	longterms := []models.LongtermBikeComponent{
		{ComponentID: 10, BikeID: other.ID, RoleID: 20, StartsAt: ts(2024, 1, 1)},
	}
	acts := []models.Activity{activity(1, "Ride", ts(2024, 2, 1), gear("b9999"))}

	resolved, err := Resolve(acts, allBikes, longterms, nil)
	require.NoError(t, err)
	assert.Empty(t, resolved)
}

func TestResolve_ActivityBeforeIntervalGetsNothing(t *testing.T) {
	longterms := []models.LongtermBikeComponent{
		{ComponentID: 10, BikeID: roadie.ID, RoleID: 20, StartsAt: ts(2024, 1, 1)},
	}
	acts := []models.Activity{activity(1, "Ride", ts(2023, 12, 31), gear("b9999"))}

	resolved, err := Resolve(acts, bikes, longterms, nil)
	require.NoError(t, err)
	assert.Empty(t, resolved)
}
