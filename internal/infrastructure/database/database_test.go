package database

import (
	"strings"
	"testing"

	"github.com/sangkips/caisse-api/internal/config"
	"github.com/sangkips/caisse-api/internal/domain/entity"
	"github.com/sangkips/caisse-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestSeedDemoDataIsIdempotent(t *testing.T) {
	db, err := Open(&config.DatabaseConfig{Driver: "sqlite", Path: "file:seed_test?mode=memory&cache=shared"}, false, logger.Discard())
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	require.NoError(t, SeedDemoData(db, logger.Discard()))
	require.NoError(t, SeedDemoData(db, logger.Discard()))

	var restaurants, items, options int64
	db.Model(&entity.Restaurant{}).Count(&restaurants)
	db.Model(&entity.Item{}).Count(&items)
	db.Model(&entity.GroupOption{}).Count(&options)
	assert.Equal(t, int64(1), restaurants)
	assert.Equal(t, int64(7), items)
	assert.Equal(t, int64(2), options)

	var combo entity.Item
	require.NoError(t, db.Preload("Group.Options").First(&combo, "name = ?", "Menu Burger").Error)
	assert.True(t, combo.IsCombo())
	assert.Len(t, combo.Group.Options, 2)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "oracle"}, false, logger.Discard())
	assert.Error(t, err)
}

func orderFieldType(t *testing.T, db *gorm.DB, field string) string {
	t.Helper()
	stmt := &gorm.Statement{DB: db}
	require.NoError(t, stmt.Parse(&entity.Order{}))
	f := stmt.Schema.LookUpField(field)
	require.NotNil(t, f)
	return db.Migrator().FullDataTypeOf(f).SQL
}

func TestMySQLStoresUUIDsAsChar36(t *testing.T) {
	// No server is contacted: the version query and the ping are skipped.
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "caisse:secret@tcp(127.0.0.1:3306)/caisse?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)

	require.NoError(t, adaptColumnTypes(db, models()...))

	for _, field := range []string{"ID", "RestaurantID"} {
		assert.True(t, strings.HasPrefix(orderFieldType(t, db, field), "char(36)"), field)
	}
	assert.Equal(t, "char(36) NOT NULL", orderFieldType(t, db, "RestaurantID"))
}

func TestOtherDialectsKeepUUIDType(t *testing.T) {
	db, err := NewSQLiteDB("file:"+t.Name()+"?mode=memory&cache=shared", false)
	require.NoError(t, err)

	require.NoError(t, adaptColumnTypes(db, models()...))
	assert.True(t, strings.HasPrefix(orderFieldType(t, db, "ID"), "uuid"))
}
