package store

import (
	"context"

	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

// Reader lists stored tenant configs.
type Reader interface {
	List(ctx context.Context) ([]tenant.Config, error)
}

// Writer stores and deletes tenant configs by id.
type Writer interface {
	Save(ctx context.Context, cfg tenant.Config) error
	Delete(ctx context.Context, id string) error
}

// ReadWriter is a combined reader/writer.
type ReadWriter interface {
	Reader
	Writer
}

// FeatureReader loads a stored feature set for a tenant.
type FeatureReader interface {
	Features(ctx context.Context, id string) (tenant.Features, bool, error)
}

// FeatureWriter stores a feature set for a tenant.
type FeatureWriter interface {
	SaveFeatures(ctx context.Context, id string, features tenant.Features) error
}
