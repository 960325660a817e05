//go:build integration
// +build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/yanizio/escortde/internal/ad"
	"github.com/yanizio/escortde/internal/database"
	"github.com/yanizio/escortde/internal/store"
)

func setupPostgres(t *testing.T) *store.SQL {
	t.Helper()
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("escortde"),
		postgres.WithUsername("escortde"),
		postgres.WithPassword("escortde"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}
	db, err := database.Open(database.DriverPostgres, dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// Second run must be a no-op.
	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate again: %v", err)
	}
	return store.NewSQL(db)
}

func TestPostgresLifecycle(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	a := &ad.Ad{
		ID: "it-1", Name: "Mia", Age: "25", Gender: ad.Female,
		City: "Zürich", Country: "Switzerland", Phone: "+41",
		Languages: ad.List[string]{"German"}, Description: "hello",
		Images: ad.List[string]{"1.jpg", "2.jpg", "3.jpg"},
		Status: ad.Pending, SubmittedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	created, err := s.Create(ctx, a)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.PublicID == nil || *created.PublicID <= 0 {
		t.Fatalf("public id not assigned: %+v", created)
	}

	got, err := s.ListApproved(ctx, store.Filter{Gender: ad.Female, Country: "swi"})
	if err != nil || len(got) != 0 {
		t.Fatalf("pending ad visible: %v %v", got, err)
	}

	st := ad.Approved
	if _, err := s.Update(ctx, "it-1", store.Patch{Status: &st}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = s.ListApproved(ctx, store.Filter{Gender: ad.Female, Country: "SWI", Limit: 10})
	if err != nil || len(got) != 1 || got[0].City != "Zürich" {
		t.Fatalf("approved ad missing: %v %v", got, err)
	}

	cities, err := s.ApprovedCities(ctx, ad.Female, "switzerland")
	if err != nil || len(cities) != 1 {
		t.Fatalf("ApprovedCities = %v, %v", cities, err)
	}

	ok, err := s.Delete(ctx, "it-1")
	if err != nil || !ok {
		t.Fatalf("Delete = %v, %v", ok, err)
	}
	if _, err := s.GetByID(ctx, "it-1"); err != store.ErrNotFound {
		t.Fatalf("GetByID after delete = %v", err)
	}
}
