package domain

import "context"

// ServicePort defines the admin workflows for projects
type ServicePort interface {
	Create(ctx context.Context, in CreateInput) (CreatedProject, error)
	List(ctx context.Context) ([]ListItem, error)
	Get(ctx context.Context, id int64) (Project, error)
	Update(ctx context.Context, id int64, in UpdateInput) (Project, error)
	Delete(ctx context.Context, id int64) error
	RotateKey(ctx context.Context, id int64) (RotatedKey, error)
	Activity(ctx context.Context, id int64, minutes int) ([]ActivityPoint, error)
}

// ResolverPort is the ingest-path lookup the auth service depends on
type ResolverPort interface {
	ResolveKey(ctx context.Context, keyHash string) (id int64, slug string, err error)
}
