// Package settings stores the per-mode dispatch configuration: webhook
// endpoint and the operator name stamped on outgoing envelopes.
package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/drcalc/drcalc-backend/internal/sanitize"
	"github.com/drcalc/drcalc-backend/pkg/docstore"
	"github.com/drcalc/drcalc-backend/pkg/enums"
	pkgerrors "github.com/drcalc/drcalc-backend/pkg/errors"
	"github.com/drcalc/drcalc-backend/pkg/logger"
	"github.com/drcalc/drcalc-backend/pkg/types"
)

// Service exposes settings persistence operations per operation mode.
type Service interface {
	Load(ctx context.Context, mode enums.OperationMode) (types.Settings, error)
	Save(ctx context.Context, mode enums.OperationMode, doc types.Settings) (types.Settings, error)
}

type service struct {
	store *docstore.Store
	logg  *logger.Logger
}

// NewService builds a settings service backed by the document store.
func NewService(store *docstore.Store, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("document store required")
	}
	return &service{store: store, logg: logg}, nil
}

// Load reads the mode's settings, coercing stored fields to strings.
func (s *service) Load(ctx context.Context, mode enums.OperationMode) (types.Settings, error) {
	if !mode.IsValid() {
		return types.Settings{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid operation mode")
	}

	var raw any
	if err := s.store.Load(ctx, types.SettingsKey(mode), &raw, types.DefaultSettings()); err != nil {
		return types.Settings{}, err
	}
	return sanitize.Settings(raw), nil
}

// Save persists the mode's settings. An empty endpoint is allowed (it
// just disables dispatch); a non-empty endpoint must pass the allow-list.
func (s *service) Save(ctx context.Context, mode enums.OperationMode, doc types.Settings) (types.Settings, error) {
	if !mode.IsValid() {
		return types.Settings{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid operation mode")
	}

	doc.WebhookURL = strings.TrimSpace(doc.WebhookURL)
	doc.LastActor = sanitize.NormalizeName(doc.LastActor)
	if doc.WebhookURL != "" && !IsValidEndpoint(doc.WebhookURL) {
		return types.Settings{}, pkgerrors.New(pkgerrors.CodeValidation, "webhook endpoint is not allowed")
	}

	if err := s.store.Save(ctx, types.SettingsKey(mode), doc); err != nil {
		return types.Settings{}, err
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithMode(ctx, mode.String()), "settings saved")
	}
	return doc, nil
}
