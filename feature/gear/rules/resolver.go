package rules

import (
	"fmt"
	"sort"
	"time"

	"github.com/lgangitano/strava-gear/feature/gear/models"

	"gorm.io/gorm"
)

// Reference kinds used in UnknownReferenceError.
const (
	KindComponent = "component"
	KindRole      = "role"
	KindBike      = "bike"
)

// UnknownReferenceError reports a directive naming a key that does not exist
// in the store. This is an operator error in the rules file, not recoverable.
type UnknownReferenceError struct {
	Kind      string
	Name      string
	Directive string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("unknown %s %q referenced by directive %q", e.Kind, e.Name, e.Directive)
}

// OverlapError reports two longterm assignments for the same bike and role
// whose intervals share at least one instant. Intervals are closed on both
// ends, so an assignment ending exactly when the next one starts also
// overlaps. Overlapping assignments would make attribution depend on rule
// order, so they are rejected eagerly as a configuration error.
type OverlapError struct {
	BikeStravaID string
	RoleName     string
	FirstStart   time.Time
	SecondStart  time.Time
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("overlapping longterm assignments for role %q on bike %s: intervals starting %s and %s both apply",
		e.RoleName, e.BikeStravaID,
		e.FirstStart.Format(timestampLayout), e.SecondStart.Format(timestampLayout))
}

// Lookup maps the semantic names used in the rules file to store identities.
// It must be built after the component, role and bike tables have been
// reconciled, inside the same transaction that replaces the rule tables.
type Lookup struct {
	Components map[string]uint
	Roles      map[string]uint
	Bikes      map[string]uint
}

// BuildLookup loads the three name-to-identity mappings from the store.
func BuildLookup(db *gorm.DB) (*Lookup, error) {
	lk := &Lookup{
		Components: make(map[string]uint),
		Roles:      make(map[string]uint),
		Bikes:      make(map[string]uint),
	}

	var components []models.Component
	if err := db.Find(&components).Error; err != nil {
		return nil, fmt.Errorf("loading components: %w", err)
	}
	for _, c := range components {
		lk.Components[c.Code] = c.ID
	}

	var roles []models.ComponentRole
	if err := db.Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("loading roles: %w", err)
	}
	for _, r := range roles {
		lk.Roles[r.Name] = r.ID
	}

	var bikes []models.Bike
	if err := db.Find(&bikes).Error; err != nil {
		return nil, fmt.Errorf("loading bikes: %w", err)
	}
	for _, b := range bikes {
		lk.Bikes[b.StravaID] = b.ID
	}

	return lk, nil
}

// Resolve materializes the longterm and hashtag rule rows from the parsed
// document. Every reference is resolved through the lookup; an unresolved
// reference is fatal. Longterm assignments whose intervals overlap for the
// same bike and role are rejected.
func Resolve(doc *Document, lk *Lookup) ([]models.LongtermBikeComponent, []models.HashTagBikeComponent, error) {
	if err := validateOverlaps(doc.Longterms); err != nil {
		return nil, nil, err
	}

	longterms := make([]models.LongtermBikeComponent, 0, len(doc.Longterms))
	for _, d := range doc.Longterms {
		componentID, ok := lk.Components[d.ComponentCode]
		if !ok {
			return nil, nil, &UnknownReferenceError{KindComponent, d.ComponentCode, d.String()}
		}
		bikeID, ok := lk.Bikes[d.BikeStravaID]
		if !ok {
			return nil, nil, &UnknownReferenceError{KindBike, d.BikeStravaID, d.String()}
		}
		roleID, ok := lk.Roles[d.RoleName]
		if !ok {
			return nil, nil, &UnknownReferenceError{KindRole, d.RoleName, d.String()}
		}
		longterms = append(longterms, models.LongtermBikeComponent{
			ComponentID: componentID,
			BikeID:      bikeID,
			RoleID:      roleID,
			StartsAt:    d.StartsAt,
			EndsAt:      d.EndsAt,
		})
	}

	hashtags := make([]models.HashTagBikeComponent, 0, len(doc.Hashtags))
	for _, d := range doc.Hashtags {
		componentID, ok := lk.Components[d.ComponentCode]
		if !ok {
			return nil, nil, &UnknownReferenceError{KindComponent, d.ComponentCode, d.String()}
		}
		roleID, ok := lk.Roles[d.RoleName]
		if !ok {
			return nil, nil, &UnknownReferenceError{KindRole, d.RoleName, d.String()}
		}
		hashtags = append(hashtags, models.HashTagBikeComponent{
			Tag:         d.Tag,
			ComponentID: componentID,
			RoleID:      roleID,
		})
	}

	return longterms, hashtags, nil
}

// validateOverlaps rejects longterm directives whose intervals overlap for
// the same (bike, role) pair.
func validateOverlaps(directives []LongtermDirective) error {
	type slot struct {
		bike string
		role string
	}

	bySlot := make(map[slot][]LongtermDirective)
	for _, d := range directives {
		s := slot{d.BikeStravaID, d.RoleName}
		bySlot[s] = append(bySlot[s], d)
	}

	for s, ds := range bySlot {
		if len(ds) < 2 {
			continue
		}
		sort.Slice(ds, func(i, j int) bool { return ds[i].StartsAt.Before(ds[j].StartsAt) })
		for i := 1; i < len(ds); i++ {
			prev, next := ds[i-1], ds[i]
			if prev.EndsAt == nil || !prev.EndsAt.Before(next.StartsAt) {
				return &OverlapError{
					BikeStravaID: s.bike,
					RoleName:     s.role,
					FirstStart:   prev.StartsAt,
					SecondStart:  next.StartsAt,
				}
			}
		}
	}

	return nil
}
