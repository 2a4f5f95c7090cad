package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/canteen-pos/models"
	"golang.org/x/crypto/bcrypt"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "memory", cfg.ChannelLayer)
	assert.Equal(t, 64, cfg.WSSendBuffer)
	assert.Equal(t, 30*time.Second, cfg.WSPingInterval)
	assert.False(t, cfg.WSRequireStaff)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("EMAIL_DOMAIN", "@IIITKota.ac.in")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("WS_REQUIRE_STAFF", "true")
	t.Setenv("WS_PING_INTERVAL", "5s")
	t.Setenv("WS_SEND_BUFFER", "not-a-number")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "iiitkota.ac.in", cfg.EmailDomain)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.True(t, cfg.WSRequireStaff)
	assert.Equal(t, 5*time.Second, cfg.WSPingInterval)
	assert.Equal(t, 64, cfg.WSSendBuffer)
}

func TestInitDBRejectsUnknownDriver(t *testing.T) {
	_, err := InitDB(&Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestSeedStaffIsIdempotent(t *testing.T) {
	db, err := InitDB(&Config{DBDriver: "sqlite", DBSource: "file:seedtest?mode=memory&cache=shared"})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	cfg := &Config{StaffEmail: "jane.doe@canteen.test", StaffPassword: "s3cret-pass"}
	require.NoError(t, SeedStaff(db, cfg))
	require.NoError(t, SeedStaff(db, cfg))

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, models.RoleStaff, users[0].Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[0].Password), []byte("s3cret-pass")))
}
