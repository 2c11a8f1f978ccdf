package db

import (
	"testing"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB creates an in-memory SQLite database for testing
// Auto-migrates all models and registers t.Cleanup() for automatic cleanup
func TestDB(t testing.TB) *gorm.DB {
	t.Helper()

	config := SQLiteConfig{
		Path:     ":memory:",
		LogLevel: logger.Silent, // Keep tests quiet by default
	}

	db, err := OpenSQLite(config)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("failed to auto-migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err != nil {
			t.Logf("failed to get sql.DB for cleanup: %v", err)
			return
		}
		if err := sqlDB.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	return db
}

// SeedData holds pre-created test data: two tenants and a small,
// well-known event history for the first one
type SeedData struct {
	Tenant *Tenant
	Other  *Tenant
	Events []*Event
}

// TestDBWithSeed creates a test database seeded with a fixed event
// history for one tenant (two signups, two logins, two completed
// purchases across the first days of January 2025) plus a second tenant
// with its own events for isolation checks.
func TestDBWithSeed(t testing.TB) (*gorm.DB, *SeedData) {
	t.Helper()

	db := TestDB(t)
	seed := &SeedData{}

	seed.Tenant = &Tenant{
		ID:     "11111111-1111-4111-8111-111111111111",
		Name:   "Acme Analytics",
		APIKey: "el_test_acme",
	}
	seed.Other = &Tenant{
		ID:     "22222222-2222-4222-8222-222222222222",
		Name:   "Beta Corp",
		APIKey: "el_test_beta",
	}
	for _, tenant := range []*Tenant{seed.Tenant, seed.Other} {
		if err := db.Create(tenant).Error; err != nil {
			t.Fatalf("failed to seed tenant: %v", err)
		}
	}

	at := func(day, hour int) time.Time {
		return time.Date(2025, time.January, day, hour, 0, 0, 0, time.UTC)
	}

	seed.Events = []*Event{
		{TenantID: seed.Tenant.ID, Type: "user.signup", OccurredAt: at(1, 9), Data: Attributes{"plan": "premium", "source": "landing"}},
		{TenantID: seed.Tenant.ID, Type: "user.signup", OccurredAt: at(3, 14), Data: Attributes{"plan": "free"}},
		{TenantID: seed.Tenant.ID, Type: "user.login", OccurredAt: at(2, 8), Data: Attributes{"device": "mobile"}},
		{TenantID: seed.Tenant.ID, Type: "user.login", OccurredAt: at(4, 19), Data: Attributes{"device": "desktop"}},
		{TenantID: seed.Tenant.ID, Type: "purchase.completed", OccurredAt: at(2, 12), Data: Attributes{"amount": 199.99, "currency": "USD"}},
		{TenantID: seed.Tenant.ID, Type: "purchase.completed", OccurredAt: at(5, 16), Data: Attributes{"amount": 49.5, "currency": "USD"}},
	}

	// Events for the second tenant must never leak into the first
	// tenant's aggregates
	other := []*Event{
		{TenantID: seed.Other.ID, Type: "user.signup", OccurredAt: at(1, 10), Data: Attributes{"plan": "premium"}},
		{TenantID: seed.Other.ID, Type: "purchase.completed", OccurredAt: at(3, 11), Data: Attributes{"amount": 500}},
	}

	for _, event := range append(append([]*Event{}, seed.Events...), other...) {
		if err := db.Create(event).Error; err != nil {
			t.Fatalf("failed to seed event: %v", err)
		}
	}

	return db, seed
}
