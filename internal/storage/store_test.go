package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/davimluiz/copiacantinho-sub000/internal/config"
	"github.com/davimluiz/copiacantinho-sub000/internal/logger"
	"github.com/davimluiz/copiacantinho-sub000/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
)

func sampleCollections() ([]models.DraftOrder, []models.Order) {
	fee := decimal.RequireFromString("7.00")
	pkg := models.Packaging("Copo 300ml")
	now := time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC)

	drafts := []models.DraftOrder{{
		ID:       "draft-1",
		Customer: models.DefaultCustomerInfo(),
		Cart: []models.CartItem{{
			Product:   models.Product{ID: "acai-300", CategoryID: "acai", Name: "Açaí 300ml", Price: decimal.RequireFromString("19.00")},
			CartID:    "c1",
			Quantity:  2,
			Additions: []string{"Nutella", "Granola"},
			Packaging: &pkg,
		}},
		Step:      models.StepForm,
		UpdatedAt: now,
	}}

	orders := []models.Order{{
		ID: "order-1",
		Customer: models.CustomerInfo{
			Name: "Ana", OrderType: models.Delivery, PaymentMethod: models.PaymentCash,
			Address: "Rua A", DeliveryFee: &fee,
		},
		Items: []models.CartItem{{
			Product:            models.Product{ID: "x-burguer", CategoryID: "lanches", Name: "X-Burguer", Price: decimal.RequireFromString("18.00")},
			CartID:             "c2",
			Quantity:           1,
			RemovedIngredients: []string{"Tomate"},
		}},
		Subtotal:    decimal.RequireFromString("18.00"),
		DeliveryFee: fee,
		Total:       decimal.RequireFromString("25.00"),
		CreatedAt:   now,
		Status:      models.StatusPending,
	}}
	return drafts, orders
}

func assertRoundTrip(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	drafts, orders := sampleCollections()

	if err := s.Save(ctx, Drafts, drafts); err != nil {
		t.Fatalf("Save(drafts) error = %v", err)
	}
	if err := s.Save(ctx, Orders, orders); err != nil {
		t.Fatalf("Save(orders) error = %v", err)
	}

	var gotDrafts []models.DraftOrder
	var gotOrders []models.Order
	if err := s.Load(ctx, Drafts, &gotDrafts); err != nil {
		t.Fatalf("Load(drafts) error = %v", err)
	}
	if err := s.Load(ctx, Orders, &gotOrders); err != nil {
		t.Fatalf("Load(orders) error = %v", err)
	}

	if len(gotDrafts) != 1 || gotDrafts[0].ID != "draft-1" {
		t.Fatalf("drafts = %+v", gotDrafts)
	}
	d := gotDrafts[0]
	if d.Cart[0].Quantity != 2 || !d.Cart[0].Price.Equal(drafts[0].Cart[0].Price) {
		t.Errorf("draft cart = %+v", d.Cart[0])
	}
	if d.Cart[0].Packaging == nil || *d.Cart[0].Packaging != "Copo 300ml" {
		t.Errorf("packaging = %v", d.Cart[0].Packaging)
	}
	if !d.UpdatedAt.Equal(drafts[0].UpdatedAt) || d.Step != models.StepForm {
		t.Errorf("draft meta = %v %v", d.UpdatedAt, d.Step)
	}

	if len(gotOrders) != 1 || gotOrders[0].ID != "order-1" {
		t.Fatalf("orders = %+v", gotOrders)
	}
	o := gotOrders[0]
	if !o.Total.Equal(orders[0].Total) || !o.Subtotal.Equal(orders[0].Subtotal) || !o.DeliveryFee.Equal(orders[0].DeliveryFee) {
		t.Errorf("order totals = %s %s %s", o.Subtotal, o.DeliveryFee, o.Total)
	}
	if o.Customer.DeliveryFee == nil || !o.Customer.DeliveryFee.Equal(*orders[0].Customer.DeliveryFee) {
		t.Errorf("customer fee = %v", o.Customer.DeliveryFee)
	}
	if o.Items[0].RemovedIngredients[0] != "Tomate" {
		t.Errorf("removed ingredients = %v", o.Items[0].RemovedIngredients)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	assertRoundTrip(t, NewMemoryStore())
}

func TestFileStoreRoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	assertRoundTrip(t, s)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	_, orders := sampleCollections()

	first, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Save(ctx, Orders, orders); err != nil {
		t.Fatal(err)
	}

	second, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	var got []models.Order
	if err := second.Load(ctx, Orders, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("orders after reopen = %d", len(got))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestLoadMissingCollectionLeavesDestination(t *testing.T) {
	stores := map[string]Store{"memory": NewMemoryStore()}
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	stores["file"] = fs

	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			dst := []models.Order{{ID: "keep"}}
			if err := s.Load(context.Background(), Orders, &dst); err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if len(dst) != 1 || dst[0].ID != "keep" {
				t.Errorf("dst = %+v", dst)
			}
		})
	}
}

func TestFileStoreCorruptCollection(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "orders.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	var got []models.Order
	if err := s.Load(context.Background(), Orders, &got); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestOpen(t *testing.T) {
	log := logger.Discard()

	cfg := &config.Config{Storage: config.StorageConfig{Driver: "memory"}}
	s, err := Open(context.Background(), cfg, log)
	if err != nil {
		t.Fatalf("Open(memory) error = %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Open(memory) = %T", s)
	}

	cfg = &config.Config{Storage: config.StorageConfig{Driver: "file", Dir: t.TempDir()}}
	if _, err := Open(context.Background(), cfg, log); err != nil {
		t.Errorf("Open(file) error = %v", err)
	}

	cfg = &config.Config{Storage: config.StorageConfig{Driver: "etcd"}}
	if _, err := Open(context.Background(), cfg, log); err == nil {
		t.Error("expected error for unknown driver")
	}
}

// Runs against a live server when POS_TEST_REDIS_ADDR is set.
func TestRedisStoreRoundTrip(t *testing.T) {
	addr := os.Getenv("POS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("POS_TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	s := NewRedisStoreWithClient(rdb, "pos-test:"+t.Name()+":")
	defer s.Close(context.Background())

	assertRoundTrip(t, s)
}
