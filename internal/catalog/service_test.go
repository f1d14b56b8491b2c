package catalog

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

func TestLoadSeedsDefaultCatalog(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.Load(context.Background(), enums.OperationModeBuy)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Currency != types.DefaultCurrency {
		t.Fatalf("expected default currency, got %q", got.Currency)
	}
	if len(got.Potions) != 0 {
		t.Fatalf("expected empty catalog, got %+v", got.Potions)
	}
}

func TestReplaceSanitizesAndPersists(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc := types.Catalog{
		Currency: " gold ",
		Potions: []types.Potion{
			{ID: "a", Name: "  Healing   Draught ", Price: 12},
			{ID: "b", Name: "", Price: 5},
			{ID: "c", Name: "Zero", Price: 0},
		},
	}

	saved, err := svc.Replace(ctx, enums.OperationModeBuy, doc)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if saved.Currency != "gold" || len(saved.Potions) != 1 {
		t.Fatalf("unexpected saved catalog %+v", saved)
	}

	reloaded, err := svc.Load(ctx, enums.OperationModeBuy)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded.Potions) != 1 || reloaded.Potions[0].Name != "Healing Draught" {
		t.Fatalf("unexpected reloaded catalog %+v", reloaded)
	}
}

func TestBuyAndSellCatalogsAreIndependent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Replace(ctx, enums.OperationModeBuy, types.Catalog{
		Potions: []types.Potion{{ID: "a", Name: "Buy Only", Price: 10}},
	}); err != nil {
		t.Fatalf("replace buy: %v", err)
	}

	sell, err := svc.Load(ctx, enums.OperationModeSell)
	if err != nil {
		t.Fatalf("load sell: %v", err)
	}
	if len(sell.Potions) != 0 {
		t.Fatalf("sell catalog must stay empty, got %+v", sell.Potions)
	}
}

func TestUpsertPotionValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpsertPotion(ctx, enums.OperationModeBuy, types.Potion{Name: "   ", Price: 10})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty name, got %v", err)
	}

	_, err = svc.UpsertPotion(ctx, enums.OperationModeBuy, types.Potion{Name: "Valid", Price: 0})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for non-positive price, got %v", err)
	}

	// Nothing may have been written by the refused saves.
	got, err := svc.Load(ctx, enums.OperationModeBuy)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Potions) != 0 {
		t.Fatalf("refused saves must not persist, got %+v", got.Potions)
	}
}

func TestUpsertPotionGeneratesIDAndUpdates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	saved, err := svc.UpsertPotion(ctx, enums.OperationModeBuy, types.Potion{Name: " New  Brew ", Price: 20})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if len(saved.Potions) != 1 {
		t.Fatalf("expected 1 potion, got %+v", saved.Potions)
	}
	p := saved.Potions[0]
	if p.ID == "" || p.Name != "New Brew" {
		t.Fatalf("unexpected potion %+v", p)
	}

	updated, err := svc.UpsertPotion(ctx, enums.OperationModeBuy, types.Potion{ID: p.ID, Name: "New Brew", Price: 25})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.Potions) != 1 || updated.Potions[0].Price != 25 {
		t.Fatalf("expected in-place update, got %+v", updated.Potions)
	}
}

func TestDeletePotion(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	saved, err := svc.UpsertPotion(ctx, enums.OperationModeSell, types.Potion{Name: "Target", Price: 5})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	after, err := svc.DeletePotion(ctx, enums.OperationModeSell, saved.Potions[0].ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(after.Potions) != 0 {
		t.Fatalf("expected empty catalog, got %+v", after.Potions)
	}

	_, err = svc.DeletePotion(ctx, enums.OperationModeSell, "missing")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestInvalidModeRejected(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Load(context.Background(), enums.OperationMode("trade"))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
