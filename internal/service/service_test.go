package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mkale/splitledger/internal/cache"
	"github.com/mkale/splitledger/internal/models"
	"github.com/mkale/splitledger/internal/storage/sqlite"
)

// testEnv bundles a temp-database store, an in-memory cache and the
// services under test.
type testEnv struct {
	store       *sqlite.SQLiteStore
	cache       *cache.MemoryCache
	dashboards  *DashboardService
	groups      *GroupService
	expenses    *ExpenseService
	settlements *SettlementService
	contacts    *ContactService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitledger-service-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	c := cache.NewMemoryCache()
	return &testEnv{
		store:       store,
		cache:       c,
		dashboards:  NewDashboardService(store, c),
		groups:      NewGroupService(store, c),
		expenses:    NewExpenseService(store, c),
		settlements: NewSettlementService(store, c),
		contacts:    NewContactService(store),
	}
}

func (env *testEnv) seedUser(t *testing.T, name string) *models.User {
	t.Helper()
	user := models.NewUser(name+"@example.com", name, "test-hash")
	if err := env.store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user %s: %v", name, err)
	}
	return user
}

func (env *testEnv) seedGroup(t *testing.T, creator *models.User, name string, members ...*models.User) *models.Group {
	t.Helper()
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	group, err := env.groups.CreateGroup(context.Background(), creator.ID, name, "", ids)
	if err != nil {
		t.Fatalf("failed to seed group %s: %v", name, err)
	}
	return group
}

func equalSplits(amount float64, payer *models.User, others ...*models.User) []models.Split {
	n := float64(len(others) + 1)
	splits := []models.Split{{UserID: payer.ID, Amount: amount / n, Paid: true}}
	for _, u := range others {
		splits = append(splits, models.Split{UserID: u.ID, Amount: amount / n})
	}
	return splits
}
