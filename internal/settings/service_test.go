package settings

import (
	"context"
	"testing"

	"github.com/drcalc/drcalc-backend/pkg/docstore"
	"github.com/drcalc/drcalc-backend/pkg/enums"
	pkgerrors "github.com/drcalc/drcalc-backend/pkg/errors"
	"github.com/drcalc/drcalc-backend/pkg/types"
)

func newTestService(t *testing.T) Service {
	t.Helper()

	client, err := docstore.Open(context.Background(), "file::memory:", nil)
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
	svc, err := NewService(store, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestIsValidEndpoint(t *testing.T) {
	t.Parallel()

	cases := []struct {
		url  string
		want bool
	}{
		{"https://discord.com/api/webhooks/123/token", true},
		{"https://discordapp.com/api/webhooks/123/token", true},
		{"  https://discord.com/api/webhooks/123/token  ", true},
		{"http://discord.com/api/webhooks/123/token", false},
		{"https://discord.com.evil.io/api/webhooks/123/token", false},
		{"https://example.com/api/webhooks/123/token", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsValidEndpoint(tc.url); got != tc.want {
			t.Errorf("IsValidEndpoint(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestLoadSeedsDefaults(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.Load(context.Background(), enums.OperationModeBuy)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.WebhookURL != "" || got.LastActor != "" {
		t.Fatalf("expected empty settings, got %+v", got)
	}
}

func TestSaveNormalizesOperator(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	saved, err := svc.Save(ctx, enums.OperationModeSell, types.Settings{
		WebhookURL: " https://discord.com/api/webhooks/1/t ",
		LastActor:  "  Elena   the  Wise ",
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.WebhookURL != "https://discord.com/api/webhooks/1/t" {
		t.Fatalf("unexpected endpoint %q", saved.WebhookURL)
	}
	if saved.LastActor != "Elena the Wise" {
		t.Fatalf("unexpected operator %q", saved.LastActor)
	}

	reloaded, err := svc.Load(ctx, enums.OperationModeSell)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded != saved {
		t.Fatalf("reloaded %+v != saved %+v", reloaded, saved)
	}
}

func TestSaveRejectsDisallowedEndpoint(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, enums.OperationModeBuy, types.Settings{WebhookURL: "http://example.com/hook"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	// Clearing the endpoint is always allowed.
	if _, err := svc.Save(ctx, enums.OperationModeBuy, types.Settings{WebhookURL: "   "}); err != nil {
		t.Fatalf("clearing endpoint: %v", err)
	}
}

func TestSettingsPerModeIsolation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Save(ctx, enums.OperationModeBuy, types.Settings{
		WebhookURL: "https://discord.com/api/webhooks/buy/t",
	}); err != nil {
		t.Fatalf("save buy: %v", err)
	}

	sell, err := svc.Load(ctx, enums.OperationModeSell)
	if err != nil {
		t.Fatalf("load sell: %v", err)
	}
	if sell.WebhookURL != "" {
		t.Fatalf("sell settings must stay empty, got %+v", sell)
	}
}
