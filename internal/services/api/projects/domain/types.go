// Package domain holds DTOs and contracts for the project registry
package domain

import "time"

// Project is the admin view of a tenant
type Project struct {
	ID            int64     `json:"id"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	RetentionDays int       `json:"retention_days"`
	MinuteCap     int       `json:"minute_cap"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ListItem is a Project plus its rolling one-hour ingest volume
type ListItem struct {
	Project
	EventsLastHour int64 `json:"events_last_hour"`
}

// CreateInput names a new project. Slug and key derive server side
type CreateInput struct {
	Name          string `json:"name" validate:"required,min=1,max=128" example:"Acme Checkout"`
	RetentionDays int    `json:"retention_days,omitempty" validate:"omitempty,min=1,max=365" example:"3"`
	MinuteCap     int    `json:"minute_cap,omitempty" validate:"omitempty,min=0,max=1000000" example:"0"`
}

// CreatedProject carries the plaintext key. This is the only time the key
// is ever visible; the registry stores nothing but its hash
type CreatedProject struct {
	Project
	Key string `json:"key"`
}

// UpdateInput patches mutable fields; nil leaves a field unchanged
type UpdateInput struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=1,max=128"`
	RetentionDays *int    `json:"retention_days,omitempty" validate:"omitempty,min=1,max=365"`
	MinuteCap     *int    `json:"minute_cap,omitempty" validate:"omitempty,min=0,max=1000000"`
}

// RotatedKey carries the replacement plaintext key, shown exactly once
type RotatedKey struct {
	ID  int64  `json:"id"`
	Key string `json:"key"`
}

// ActivityPoint is one minute of ingest volume
type ActivityPoint struct {
	MinuteUTC int64 `json:"minute_utc"`
	Events    int   `json:"events"`
}
