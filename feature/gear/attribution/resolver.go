package attribution

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lgangitano/strava-gear/feature/gear/models"
)

// ErrUnknownBike reports an activity whose equipment reference has no
// matching bike row. That is a data-integrity breach between the Activity and
// Bike tables and is fatal to the run rather than silently skipped.
var ErrUnknownBike = errors.New("activity references unknown bike")

// Resolve computes the attributed components for every activity that carries
// an equipment reference. Two independent passes produce candidates:
//
//   - hashtag pass: every rule whose tag appears as a '#'-prefixed
//     whitespace token of the activity name, in rule-table order;
//   - interval pass: every longterm assignment on the activity's bike whose
//     interval contains the activity's start instant.
//
// Hashtag candidates precede interval candidates, and the first candidate per
// role wins, so a hashtag attribution always overrides an interval
// attribution for the same role.
func Resolve(
	activities []models.Activity,
	bikesByStravaID map[string]models.Bike,
	longterms []models.LongtermBikeComponent,
	hashtags []models.HashTagBikeComponent,
) ([]models.ActivityComponent, error) {
	resolved := make([]models.ActivityComponent, 0, len(activities))

	for _, act := range activities {
		if act.BikeStravaID == nil {
			continue
		}
		bike, ok := bikesByStravaID[*act.BikeStravaID]
		if !ok {
			return nil, fmt.Errorf("%w: activity %d gear %q",
				ErrUnknownBike, act.StravaID, *act.BikeStravaID)
		}

		var candidates []models.ActivityComponent

		tags := hashtagTokens(act.Name)
		for _, rule := range hashtags {
			if _, hit := tags[rule.Tag]; !hit {
				continue
			}
			candidates = append(candidates, models.ActivityComponent{
				ActivityID:  act.ID,
				ComponentID: rule.ComponentID,
				RoleID:      rule.RoleID,
			})
		}

		for _, lt := range longterms {
			if lt.BikeID != bike.ID || !lt.Contains(act.StartsAt) {
				continue
			}
			candidates = append(candidates, models.ActivityComponent{
				ActivityID:  act.ID,
				ComponentID: lt.ComponentID,
				RoleID:      lt.RoleID,
			})
		}

		// Deduplicate by role: first candidate wins.
		seen := make(map[uint]struct{}, len(candidates))
		for _, c := range candidates {
			if _, dup := seen[c.RoleID]; dup {
				continue
			}
			seen[c.RoleID] = struct{}{}
			resolved = append(resolved, c)
		}
	}

	return resolved, nil
}

// hashtagTokens extracts the whitespace-delimited tokens of name that begin
// with '#'.
func hashtagTokens(name string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(name) {
		if strings.HasPrefix(tok, "#") {
			tokens[tok] = struct{}{}
		}
	}
	return tokens
}
