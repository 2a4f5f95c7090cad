package services

import (
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/canteen-pos/config"
	"github.com/yeremiapane/canteen-pos/models"
	"github.com/yeremiapane/canteen-pos/utils"
	"gorm.io/gorm"
)

func init() {
	utils.InfoLogger.SetOutput(io.Discard)
	utils.ErrorLogger.SetOutput(io.Discard)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return openTestDB(t, "file:"+name+"?mode=memory&cache=shared")
}

// newFileTestDB survives the pool discarding its connection, which happens
// when a transaction's context is cancelled.
func newFileTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openTestDB(t, filepath.Join(t.TempDir(), "canteen.db"))
}

func openTestDB(t *testing.T, source string) *gorm.DB {
	t.Helper()
	db, err := config.InitDB(&config.Config{
		DBDriver: "sqlite",
		DBSource: source,
	})
	require.NoError(t, err)
	require.NoError(t, config.AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

type fixture struct {
	drinks models.MenuCategory
	tea    models.MenuItem
	samosa models.MenuItem
}

func seedCatalog(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	f := fixture{drinks: models.MenuCategory{Name: "Drinks"}}
	require.NoError(t, db.Create(&f.drinks).Error)

	f.tea = models.MenuItem{CategoryID: f.drinks.ID, Name: "Tea", Price: models.NewMoney(decimal.RequireFromString("10.00")), Available: true}
	require.NoError(t, db.Create(&f.tea).Error)

	f.samosa = models.MenuItem{CategoryID: f.drinks.ID, Name: "Samosa", Price: models.NewMoney(decimal.RequireFromString("15.50")), Available: true}
	require.NoError(t, db.Create(&f.samosa).Error)
	return f
}

type recordedEvent struct {
	kind  string
	order models.Order
	id    uint
}

type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) NewOrder(o models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{kind: "new_order", order: o, id: o.ID})
}

func (r *eventRecorder) OrderUpdated(o models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{kind: "order_update", order: o, id: o.ID})
}

func (r *eventRecorder) OrderDeleted(id uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{kind: "order_deleted", id: id})
}

func (r *eventRecorder) all() []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedEvent(nil), r.events...)
}
