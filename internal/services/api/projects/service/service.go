// Package service contains project registry workflows
package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"spillway/internal/core/bucket"
	"spillway/internal/core/slugify"
	"spillway/internal/modkit/repokit"
	perr "spillway/internal/platform/errors"
	"spillway/internal/services/api/projects/domain"
	"spillway/internal/services/api/projects/repo"
)

// Service defines the service contract for projects
type Service interface {
	domain.ServicePort
	domain.ResolverPort
}

// Config for the projects service
type Config struct {
	DefaultRetentionDays int
}

// slug collision retries before giving up; collisions need an identically
// folded name, so two attempts usually settle it
const slugAttempts = 5

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Storage
	binder repokit.Binder[repo.Storage]
	db     repokit.TxRunner
	cfg    Config
}

// New creates a new projects service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], cfg Config) *Svc {
	if db == nil {
		panic("projects.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("projects.Service requires a non nil Storage binder")
	}
	if cfg.DefaultRetentionDays <= 0 {
		cfg.DefaultRetentionDays = 3
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, cfg: cfg}
}

// Create registers a tenant. The plaintext key appears only in the returned
// payload; storage keeps its SHA-256
func (s *Svc) Create(ctx context.Context, in domain.CreateInput) (domain.CreatedProject, error) {
	retention := in.RetentionDays
	if retention == 0 {
		retention = s.cfg.DefaultRetentionDays
	}

	key := newKey()
	base := slugify.Slug(in.Name)
	if base == "" {
		base = "project"
	}

	for attempt := 0; attempt < slugAttempts; attempt++ {
		slug := base
		if attempt > 0 {
			slug = fmt.Sprintf("%s-%d", base, attempt+1)
		}
		p, err := s.Repo.Insert(ctx, slug, in.Name, hashKey(key), retention, in.MinuteCap)
		if err == nil {
			return domain.CreatedProject{Project: p, Key: key}, nil
		}
		if !perr.IsDuplicateKey(err) {
			return domain.CreatedProject{}, err
		}
	}
	return domain.CreatedProject{}, perr.Newf(perr.ErrorCodeConflict,
		"no free slug for %q after %d attempts", in.Name, slugAttempts)
}

// List returns every project with its ingest volume over the last hour
func (s *Svc) List(ctx context.Context) ([]domain.ListItem, error) {
	since := bucket.Minute(time.Now()) - 60
	return s.Repo.List(ctx, since)
}

// Get implements domain.ServicePort
func (s *Svc) Get(ctx context.Context, id int64) (domain.Project, error) {
	return s.Repo.Get(ctx, id)
}

// Update implements domain.ServicePort
func (s *Svc) Update(ctx context.Context, id int64, in domain.UpdateInput) (domain.Project, error) {
	return s.Repo.Update(ctx, id, in.Name, in.RetentionDays, in.MinuteCap)
}

// Delete implements domain.ServicePort
func (s *Svc) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}

// RotateKey swaps the stored hash for a fresh key. Old signatures die on the
// spot; the new plaintext is shown exactly once
func (s *Svc) RotateKey(ctx context.Context, id int64) (domain.RotatedKey, error) {
	key := newKey()
	if err := s.Repo.SwapKeyHash(ctx, id, hashKey(key)); err != nil {
		return domain.RotatedKey{}, err
	}
	return domain.RotatedKey{ID: id, Key: key}, nil
}

// Activity returns the per-minute ingest series over the trailing window.
// The activity table holds two hours, so minutes clamps to [1,120]
func (s *Svc) Activity(ctx context.Context, id int64, minutes int) ([]domain.ActivityPoint, error) {
	if minutes <= 0 {
		minutes = 60
	}
	if minutes > 120 {
		minutes = 120
	}
	if _, err := s.Repo.Get(ctx, id); err != nil {
		return nil, err
	}
	since := bucket.Minute(time.Now()) - int64(minutes) + 1
	return s.Repo.Activity(ctx, id, since)
}

// ResolveKey implements domain.ResolverPort for the auth service
func (s *Svc) ResolveKey(ctx context.Context, keyHash string) (int64, string, error) {
	return s.Repo.ResolveByKeyHash(ctx, keyHash)
}

// newKey mints a plaintext API key: a dashless uuid plus a random tail
func newKey() string {
	base := strings.ReplaceAll(uuid.NewString(), "-", "")
	tail := make([]byte, 8)
	if _, err := rand.Read(tail); err != nil {
		// the uuid alone still carries 122 random bits
		return base
	}
	return base + hex.EncodeToString(tail)
}

func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
