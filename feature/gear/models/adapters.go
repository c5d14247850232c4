package models

import (
	"github.com/lgangitano/strava-gear/core/reconcile"
)

// Reconcile adapters for the four keyed record kinds. Equality deliberately
// ignores the surrogate ID: two rows are value-identical when every
// source-derived attribute matches.

// BikeAdapter reconciles bikes by their remote Strava id.
func BikeAdapter() reconcile.Adapter[Bike, string] {
	return reconcile.Adapter[Bike, string]{
		KeyColumn: "strava_id",
		Key:       func(b Bike) string { return b.StravaID },
		Equal: func(a, b Bike) bool {
			return a.StravaID == b.StravaID && a.Name == b.Name
		},
		Keep: func(dst *Bike, prev Bike) { dst.ID = prev.ID },
	}
}

// ComponentAdapter reconciles components by their configured code.
func ComponentAdapter() reconcile.Adapter[Component, string] {
	return reconcile.Adapter[Component, string]{
		KeyColumn: "code",
		Key:       func(c Component) string { return c.Code },
		Equal: func(a, b Component) bool {
			return a.Code == b.Code &&
				a.Name == b.Name &&
				a.InitialTime == b.InitialTime &&
				a.InitialDistance == b.InitialDistance
		},
		Keep: func(dst *Component, prev Component) { dst.ID = prev.ID },
	}
}

// RoleAdapter reconciles component roles by name.
func RoleAdapter() reconcile.Adapter[ComponentRole, string] {
	return reconcile.Adapter[ComponentRole, string]{
		KeyColumn: "name",
		Key:       func(r ComponentRole) string { return r.Name },
		Equal: func(a, b ComponentRole) bool {
			return a.Name == b.Name
		},
		Keep: func(dst *ComponentRole, prev ComponentRole) { dst.ID = prev.ID },
	}
}

// ActivityAdapter reconciles activities by their remote Strava id.
func ActivityAdapter() reconcile.Adapter[Activity, int64] {
	return reconcile.Adapter[Activity, int64]{
		KeyColumn: "strava_id",
		Key:       func(a Activity) int64 { return a.StravaID },
		Equal: func(a, b Activity) bool {
			return a.StravaID == b.StravaID &&
				a.Name == b.Name &&
				a.StartsAt.Equal(b.StartsAt) &&
				a.MovingTime == b.MovingTime &&
				a.Distance == b.Distance &&
				eqStringPtr(a.BikeStravaID, b.BikeStravaID)
		},
		Keep: func(dst *Activity, prev Activity) { dst.ID = prev.ID },
	}
}

func eqStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
