package models

import (
	"time"

	"gorm.io/gorm"
)

// Bike mirrors one piece of equipment on the athlete's Strava profile.
// Created, updated and deleted purely by the remote source.
type Bike struct {
	ID       uint   `gorm:"primaryKey"`
	StravaID string `gorm:"column:strava_id;uniqueIndex"`
	Name     string `gorm:"column:name"`
}

// Component is a physical part defined in the gear rules file. The initial
// offsets seed cumulative wear accrued before tracking began.
type Component struct {
	ID              uint    `gorm:"primaryKey"`
	Code            string  `gorm:"column:code;uniqueIndex"`
	Name            string  `gorm:"column:name"`
	InitialTime     float64 `gorm:"column:initial_time"`     // seconds
	InitialDistance float64 `gorm:"column:initial_distance"` // meters
}

// ComponentRole is a functional slot a component can fill, e.g. "chain" or
// "front_tire".
type ComponentRole struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"column:name;uniqueIndex"`
}

// LongtermBikeComponent states that a component served a role on a bike from
// StartsAt until EndsAt (nil means ongoing). Pure rule row: the table is
// wiped and reinserted on every rules interpretation pass.
type LongtermBikeComponent struct {
	ID          uint       `gorm:"primaryKey"`
	ComponentID uint       `gorm:"column:component_id"`
	BikeID      uint       `gorm:"column:bike_id"`
	RoleID      uint       `gorm:"column:role_id"`
	StartsAt    time.Time  `gorm:"column:starts_at"`
	EndsAt      *time.Time `gorm:"column:ends_at"`
}

// Contains reports whether the assignment interval contains t. The interval
// is closed on both ends; only the activity's start instant is ever tested,
// not its duration.
func (l LongtermBikeComponent) Contains(t time.Time) bool {
	if t.Before(l.StartsAt) {
		return false
	}
	return l.EndsAt == nil || !l.EndsAt.Before(t)
}

// Activity mirrors one completed workout from the remote source.
type Activity struct {
	ID           uint      `gorm:"primaryKey"`
	StravaID     int64     `gorm:"column:strava_id;uniqueIndex"`
	Name         string    `gorm:"column:name"`
	StartsAt     time.Time `gorm:"column:starts_at"`
	MovingTime   float64   `gorm:"column:moving_time"` // seconds
	Distance     float64   `gorm:"column:distance"`    // meters
	BikeStravaID *string   `gorm:"column:bike_strava_id"`
}

// HashTagBikeComponent maps a literal tag token to a (component, role) pair,
// matched against tokens in an activity's name. Pure rule row.
type HashTagBikeComponent struct {
	ID          uint   `gorm:"primaryKey"`
	Tag         string `gorm:"column:tag"`
	ComponentID uint   `gorm:"column:component_id"`
	RoleID      uint   `gorm:"column:role_id"`
}

// ActivityComponent is the resolved attribution: one row per (activity, role)
// that resolved to a component. Fully recomputed on every run.
type ActivityComponent struct {
	ID          uint `gorm:"primaryKey"`
	ActivityID  uint `gorm:"column:activity_id"`
	ComponentID uint `gorm:"column:component_id"`
	RoleID      uint `gorm:"column:role_id"`
}

// Migrate applies the schema idempotently. It runs at the start of every run.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Bike{},
		&Component{},
		&ComponentRole{},
		&LongtermBikeComponent{},
		&Activity{},
		&HashTagBikeComponent{},
		&ActivityComponent{},
	)
}
