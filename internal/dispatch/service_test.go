package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/drcalc/drcalc-backend/internal/cart"
	"github.com/drcalc/drcalc-backend/internal/catalog"
	"github.com/drcalc/drcalc-backend/internal/settings"
	"github.com/drcalc/drcalc-backend/pkg/config"
	"github.com/drcalc/drcalc-backend/pkg/docstore"
	"github.com/drcalc/drcalc-backend/pkg/enums"
	pkgerrors "github.com/drcalc/drcalc-backend/pkg/errors"
	"github.com/drcalc/drcalc-backend/pkg/types"
)

type capturingSender struct {
	mu        sync.Mutex
	endpoint  string
	envelopes []Envelope
	failAfter int // fail once this many envelopes were accepted; -1 never fails
}

func (c *capturingSender) Send(_ context.Context, endpoint string, envelopes []Envelope) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endpoint = endpoint

	for i, env := range envelopes {
		if c.failAfter >= 0 && i >= c.failAfter {
			return i, pkgerrors.New(pkgerrors.CodeDelivery, "endpoint answered 500 Internal Server Error")
		}
		c.envelopes = append(c.envelopes, env)
	}
	return len(envelopes), nil
}

type fixture struct {
	svc    Service
	carts  *cart.Manager
	sender *capturingSender
}

func newFixture(t *testing.T, endpoint string) fixture {
	t.Helper()
	ctx := context.Background()

	client, err := docstore.Open(ctx, "file::memory:", nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	if err := client.DB().AutoMigrate(&docstore.Document{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	store, err := docstore.NewStore(client, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	catalogs, err := catalog.NewService(store, nil)
	if err != nil {
		t.Fatalf("catalog service: %v", err)
	}
	settingsSvc, err := settings.NewService(store, nil)
	if err != nil {
		t.Fatalf("settings service: %v", err)
	}

	if _, err := catalogs.Replace(ctx, enums.OperationModeBuy, types.Catalog{
		Currency: "€",
		Potions: []types.Potion{
			{ID: "heal", Name: "Healing Draught", Price: 10},
			{ID: "mana", Name: "Mana Tonic", Price: 25},
		},
	}); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	if endpoint != "" {
		if _, err := settingsSvc.Save(ctx, enums.OperationModeBuy, types.Settings{WebhookURL: endpoint}); err != nil {
			t.Fatalf("seed settings: %v", err)
		}
	}

	carts := cart.NewManager()
	sender := &capturingSender{failAfter: -1}
	svc, err := NewService(catalogs, settingsSvc, carts, sender, nil, nil)
	if err != nil {
		t.Fatalf("dispatch service: %v", err)
	}
	return fixture{svc: svc, carts: carts, sender: sender}
}

func TestDispatchDeliversAndClearsCart(t *testing.T) {
	f := newFixture(t, "https://discord.com/api/webhooks/1/t")
	ledger := f.carts.Ledger(enums.OperationModeBuy)
	ledger.SetQuantity("heal", 3)
	ledger.SetQuantity("mana", 1)

	report, err := f.svc.Dispatch(context.Background(), enums.OperationModeBuy, "  Elena  Vane ")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if report.Envelopes != 1 || report.Entries != 2 || report.Total != 55 {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Operator != "Elena Vane" {
		t.Fatalf("operator not normalized: %q", report.Operator)
	}
	if ledger.Len() != 0 {
		t.Fatalf("cart must clear after full delivery, len = %d", ledger.Len())
	}
	if f.sender.endpoint != "https://discord.com/api/webhooks/1/t" {
		t.Fatalf("sent to %q", f.sender.endpoint)
	}
}

func TestDispatchFailurePreservesCart(t *testing.T) {
	f := newFixture(t, "https://discord.com/api/webhooks/1/t")
	f.sender.failAfter = 0
	ledger := f.carts.Ledger(enums.OperationModeBuy)
	ledger.SetQuantity("heal", 2)

	_, err := f.svc.Dispatch(context.Background(), enums.OperationModeBuy, "")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDelivery {
		t.Fatalf("expected delivery error, got %v", err)
	}
	if ledger.Quantity("heal") != 2 {
		t.Fatal("cart must survive a failed dispatch")
	}
}

func TestDispatchRequiresEndpoint(t *testing.T) {
	f := newFixture(t, "")
	f.carts.Ledger(enums.OperationModeBuy).SetQuantity("heal", 1)

	_, err := f.svc.Dispatch(context.Background(), enums.OperationModeBuy, "")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDispatchDropsStaleCartLines(t *testing.T) {
	f := newFixture(t, "https://discord.com/api/webhooks/1/t")
	ledger := f.carts.Ledger(enums.OperationModeBuy)
	ledger.SetQuantity("heal", 1)
	ledger.SetQuantity("deleted-potion", 7)

	report, err := f.svc.Dispatch(context.Background(), enums.OperationModeBuy, "")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if report.Entries != 1 || report.Total != 10 {
		t.Fatalf("stale lines must not be priced, report %+v", report)
	}
}

func TestDispatchEmptyCartSendsNotice(t *testing.T) {
	f := newFixture(t, "https://discord.com/api/webhooks/1/t")

	report, err := f.svc.Dispatch(context.Background(), enums.OperationModeBuy, "")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if report.Envelopes != 1 || report.Entries != 0 || report.Total != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(f.sender.envelopes) != 1 || len(f.sender.envelopes[0].Embeds[0].Fields) != 0 {
		t.Fatalf("expected one field-less envelope, got %+v", f.sender.envelopes)
	}
}

func TestPreviewDoesNotTouchCart(t *testing.T) {
	f := newFixture(t, "https://discord.com/api/webhooks/1/t")
	ledger := f.carts.Ledger(enums.OperationModeBuy)
	ledger.SetQuantity("heal", 2)

	envs, err := f.svc.Preview(context.Background(), enums.OperationModeBuy)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if len(envs) != 1 {
		t.Fatalf("expected one envelope, got %d", len(envs))
	}
	if ledger.Quantity("heal") != 2 {
		t.Fatal("preview must not clear the cart")
	}
	if len(f.sender.envelopes) != 0 {
		t.Fatal("preview must not send anything")
	}
}

func TestHTTPSenderSequentialDelivery(t *testing.T) {
	var mu sync.Mutex
	var bodies []Envelope
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var env Envelope
		if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		mu.Lock()
		bodies = append(bodies, env)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sender := NewSender(config.DispatchConfig{RequestTimeout: 0}, nil)
	lines, sum := linesOf(25)
	envs := BuildEnvelopes(enums.OperationModeBuy, "Elena", sum, lines)

	delivered, err := sender.Send(context.Background(), srv.URL, envs)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if delivered != 2 || len(bodies) != 2 {
		t.Fatalf("delivered %d envelopes, server saw %d", delivered, len(bodies))
	}
	if !strings.HasSuffix(bodies[0].Embeds[0].Title, "(Part 1/2)") {
		t.Fatalf("chunks arrived out of order: %q", bodies[0].Embeds[0].Title)
	}
}

func TestHTTPSenderAbortsOnFailure(t *testing.T) {
	var calls int
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sender := NewSender(config.DispatchConfig{RequestTimeout: 0}, nil)
	lines, sum := linesOf(45)
	envs := BuildEnvelopes(enums.OperationModeBuy, "Elena", sum, lines)
	if len(envs) != 3 {
		t.Fatalf("expected 3 envelopes, got %d", len(envs))
	}

	delivered, err := sender.Send(context.Background(), srv.URL, envs)
	if delivered != 1 {
		t.Fatalf("delivered = %d, want 1", delivered)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDelivery {
		t.Fatalf("expected delivery error, got %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if calls != 2 {
		t.Fatalf("sender must stop after the first failure, made %d calls", calls)
	}
}

func TestHTTPSenderSurfacesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message": "Invalid Webhook Token", "code": 50027}`))
	}))
	defer srv.Close()

	sender := NewSender(config.DispatchConfig{RequestTimeout: 0}, nil)
	lines, sum := linesOf(1)
	envs := BuildEnvelopes(enums.OperationModeBuy, "Elena", sum, lines)

	_, err := sender.Send(context.Background(), srv.URL, envs)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDelivery {
		t.Fatalf("expected delivery error, got %v", err)
	}
	msg := typed.Message()
	if !strings.Contains(msg, "400") {
		t.Fatalf("message must carry the response status, got %q", msg)
	}
	if !strings.Contains(msg, "Invalid Webhook Token") {
		t.Fatalf("message must carry the response body, got %q", msg)
	}
}
