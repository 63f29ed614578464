package store

import (
	"context"

	"github.com/normanwashere/patient-portal-prototype-sub001/activity"
	"github.com/normanwashere/patient-portal-prototype-sub001/ferrors"
	"github.com/normanwashere/patient-portal-prototype-sub001/logger"
)

// Mirror copies registry mutations into a Writer. Write failures are logged
// and reported to the error handler; they never affect the registry.
type Mirror struct {
	writer  Writer
	logger  logger.Logger
	onError func(context.Context, error)
}

// MirrorOption customizes a Mirror.
type MirrorOption func(*Mirror)

// WithMirrorLogger sets the logger used for write failures.
func WithMirrorLogger(lgr logger.Logger) MirrorOption {
	return func(m *Mirror) {
		if m == nil {
			return
		}
		m.logger = lgr
	}
}

// WithMirrorErrorHandler registers a callback for write failures.
func WithMirrorErrorHandler(fn func(context.Context, error)) MirrorOption {
	return func(m *Mirror) {
		if m == nil {
			return
		}
		m.onError = fn
	}
}

// NewMirror builds a Mirror hook for writer.
func NewMirror(writer Writer, opts ...MirrorOption) *Mirror {
	m := &Mirror{writer: writer}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	m.logger = logger.Or(m.logger)
	return m
}

// OnUpdate implements activity.Hook.
func (m *Mirror) OnUpdate(ctx context.Context, event activity.UpdateEvent) {
	if m == nil {
		return
	}
	switch event.Action {
	case activity.ActionAdd, activity.ActionReplace, activity.ActionRemove, activity.ActionFeatures:
	default:
		return
	}
	if m.writer == nil {
		m.fail(ctx, event, ferrors.ErrStoreRequired)
		return
	}
	var err error
	switch event.Action {
	case activity.ActionAdd, activity.ActionReplace:
		if event.Config == nil {
			return
		}
		err = m.writer.Save(ctx, *event.Config)
	case activity.ActionRemove:
		err = m.writer.Delete(ctx, event.TenantID)
	case activity.ActionFeatures:
		if event.Config == nil {
			return
		}
		if fw, ok := m.writer.(FeatureWriter); ok {
			err = fw.SaveFeatures(ctx, event.TenantID, event.Config.Features)
		} else {
			err = m.writer.Save(ctx, *event.Config)
		}
	}
	if err != nil {
		m.fail(ctx, event, err)
	}
}

func (m *Mirror) fail(ctx context.Context, event activity.UpdateEvent, err error) {
	wrapped := ferrors.WrapExternal(err, ferrors.TextCodeStoreWriteFailed, "tenant mirror write failed", map[string]any{
		ferrors.MetaTenantID:  event.TenantID,
		ferrors.MetaOperation: string(event.Action),
	})
	m.logger.WithContext(ctx).Warn("tenant mirror write failed", "tenant_id", event.TenantID, "action", event.Action, "error", wrapped)
	if m.onError != nil {
		m.onError(ctx, wrapped)
	}
}

var _ activity.Hook = (*Mirror)(nil)
