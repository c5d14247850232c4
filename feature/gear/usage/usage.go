package usage

import (
	"sort"

	"github.com/lgangitano/strava-gear/feature/gear/models"
)

// Wear is the cumulative use of one component: its initial offsets plus the
// moving time and distance of every activity attributed to it.
type Wear struct {
	Component  models.Component
	Time       float64 // seconds
	Distance   float64 // meters
	Activities int
}

// Aggregate sums attributed activity time and distance per component, seeded
// with each component's initial offsets. A component attributed to the same
// activity under several roles accrues that activity's usage once. Results
// are sorted by component code for deterministic output.
func Aggregate(
	components []models.Component,
	activities []models.Activity,
	attributions []models.ActivityComponent,
) []Wear {
	byActivity := make(map[uint]models.Activity, len(activities))
	for _, a := range activities {
		byActivity[a.ID] = a
	}

	wear := make([]Wear, len(components))
	index := make(map[uint]int, len(components))
	for i, c := range components {
		wear[i] = Wear{Component: c, Time: c.InitialTime, Distance: c.InitialDistance}
		index[c.ID] = i
	}

	counted := make(map[[2]uint]struct{}, len(attributions))
	for _, ac := range attributions {
		i, ok := index[ac.ComponentID]
		if !ok {
			continue
		}
		act, ok := byActivity[ac.ActivityID]
		if !ok {
			continue
		}
		pair := [2]uint{ac.ComponentID, ac.ActivityID}
		if _, dup := counted[pair]; dup {
			continue
		}
		counted[pair] = struct{}{}

		wear[i].Time += act.MovingTime
		wear[i].Distance += act.Distance
		wear[i].Activities++
	}

	sort.Slice(wear, func(i, j int) bool {
		return wear[i].Component.Code < wear[j].Component.Code
	})
	return wear
}
