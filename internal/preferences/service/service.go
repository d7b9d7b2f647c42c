package service

import (
	"context"
	"errors"

	"crm_backend/internal/preferences/session"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
)

// Layout values the UI understands.
const (
	LayoutTopbar  = "topbar"
	LayoutSidebar = "sidebar"
	DefaultLayout = LayoutTopbar
)

// Service reads and writes the per-session layout preference.
type Service struct {
	store session.Store
	log   *logger.Logger
}

func New(store session.Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// Layout returns the session's stored layout, or the default when the
// session has none or the backing store misbehaves. A read failure is never
// surfaced; a preference is not worth failing a page over.
func (s *Service) Layout(ctx context.Context, sid string) string {
	value, err := s.store.Get(ctx, sid)
	if errors.Is(err, session.ErrNotFound) {
		return DefaultLayout
	}
	if err != nil {
		s.log.StoreError("preferences.layout", "session", err)
		return DefaultLayout
	}
	if value != LayoutTopbar && value != LayoutSidebar {
		return DefaultLayout
	}
	return value
}

// SetLayout stores the session's layout choice.
func (s *Service) SetLayout(ctx context.Context, sid, layout string) error {
	if layout != LayoutTopbar && layout != LayoutSidebar {
		return apperr.Validation("unknown layout").WithDetails([]string{LayoutTopbar, LayoutSidebar})
	}
	if err := s.store.Set(ctx, sid, layout); err != nil {
		s.log.StoreError("preferences.set_layout", "session", err)
		return apperr.Unavailable("preference store unavailable")
	}
	return nil
}
