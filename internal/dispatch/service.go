package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/drcalc/drcalc-backend/internal/cart"
	"github.com/drcalc/drcalc-backend/internal/catalog"
	"github.com/drcalc/drcalc-backend/internal/sanitize"
	"github.com/drcalc/drcalc-backend/internal/settings"
	"github.com/drcalc/drcalc-backend/pkg/enums"
	pkgerrors "github.com/drcalc/drcalc-backend/pkg/errors"
	"github.com/drcalc/drcalc-backend/pkg/logger"
	"github.com/drcalc/drcalc-backend/pkg/metrics"
	"github.com/drcalc/drcalc-backend/pkg/types"
)

// Report summarizes a completed dispatch run.
type Report struct {
	Envelopes int    `json:"envelopes"`
	Entries   int    `json:"entries"`
	Units     int    `json:"units"`
	Total     int    `json:"total"`
	Currency  string `json:"currency"`
	Operator  string `json:"operator,omitempty"`
}

// Service runs the full order dispatch: price the cart, chunk it into
// envelopes, deliver them, and clear the cart on full success.
type Service interface {
	Preview(ctx context.Context, mode enums.OperationMode) ([]Envelope, error)
	Dispatch(ctx context.Context, mode enums.OperationMode, operator string) (Report, error)
}

type service struct {
	catalogs  catalog.Service
	settings  settings.Service
	carts     *cart.Manager
	sender    Sender
	collected *metrics.DispatchMetrics
	logg      *logger.Logger
}

// NewService wires the dispatch pipeline. Metrics and logger may be nil.
func NewService(
	catalogs catalog.Service,
	settingsSvc settings.Service,
	carts *cart.Manager,
	sender Sender,
	collected *metrics.DispatchMetrics,
	logg *logger.Logger,
) (Service, error) {
	if catalogs == nil || settingsSvc == nil || carts == nil || sender == nil {
		return nil, fmt.Errorf("catalog service, settings service, cart manager and sender required")
	}
	return &service{
		catalogs:  catalogs,
		settings:  settingsSvc,
		carts:     carts,
		sender:    sender,
		collected: collected,
		logg:      logg,
	}, nil
}

// Preview builds the envelopes that Dispatch would send, without
// touching the endpoint or the cart.
func (s *service) Preview(ctx context.Context, mode enums.OperationMode) ([]Envelope, error) {
	if !mode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid operation mode")
	}

	stored, err := s.settings.Load(ctx, mode)
	if err != nil {
		return nil, err
	}
	_, summary, lines, err := s.price(ctx, mode)
	if err != nil {
		return nil, err
	}
	return BuildEnvelopes(mode, stored.LastActor, summary, lines), nil
}

// Dispatch sends the current cart to the mode's webhook endpoint. The
// cart survives any failure so the operator can retry; it is cleared
// only after every envelope is accepted.
func (s *service) Dispatch(ctx context.Context, mode enums.OperationMode, operator string) (Report, error) {
	if !mode.IsValid() {
		return Report{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid operation mode")
	}

	operator = sanitize.NormalizeName(operator)
	stored, err := s.settings.Load(ctx, mode)
	if err != nil {
		return Report{}, err
	}
	if operator == "" {
		operator = stored.LastActor
	}

	if stored.WebhookURL == "" {
		return Report{}, pkgerrors.New(pkgerrors.CodeValidation, "no webhook endpoint configured")
	}
	if !settings.IsValidEndpoint(stored.WebhookURL) {
		return Report{}, pkgerrors.New(pkgerrors.CodeValidation, "webhook endpoint is not allowed")
	}

	_, summary, lines, err := s.price(ctx, mode)
	if err != nil {
		return Report{}, err
	}

	envelopes := BuildEnvelopes(mode, operator, summary, lines)

	start := time.Now()
	delivered, err := s.sender.Send(ctx, stored.WebhookURL, envelopes)
	if err != nil {
		s.collected.IncFailure(mode.String())
		s.collected.AddEnvelopes(mode.String(), delivered)
		if s.logg != nil {
			s.logg.Error(s.logg.WithMode(ctx, mode.String()), "dispatch aborted", err)
		}
		return Report{}, err
	}

	s.collected.ObserveDuration(mode.String(), time.Since(start))
	s.collected.IncSuccess(mode.String())
	s.collected.AddEnvelopes(mode.String(), delivered)

	// Remember who sent the order; a failed save must not undo an
	// already delivered dispatch.
	if operator != "" && operator != stored.LastActor {
		stored.LastActor = operator
		if _, err := s.settings.Save(ctx, mode, stored); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithMode(ctx, mode.String()), "could not record operator name")
		}
	}

	s.carts.Reset(mode)
	if s.logg != nil {
		s.logg.Info(s.logg.WithMode(ctx, mode.String()), "dispatch delivered")
	}

	return Report{
		Envelopes: delivered,
		Entries:   summary.Entries,
		Units:     summary.Units,
		Total:     summary.Total,
		Currency:  summary.Currency,
		Operator:  operator,
	}, nil
}

func (s *service) price(ctx context.Context, mode enums.OperationMode) (types.Catalog, cart.Summary, []cart.LineItem, error) {
	doc, err := s.catalogs.Load(ctx, mode)
	if err != nil {
		return types.Catalog{}, cart.Summary{}, nil, err
	}

	ledger := s.carts.Ledger(mode)
	ledger.Reconcile(doc.IDSet())
	return doc, ledger.Summarize(doc), ledger.LineItems(doc), nil
}
