package database

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/caisse-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DemoRestaurantID identifies the restaurant created by SeedDemoData.
var DemoRestaurantID = uuid.MustParse("5e1f0c7a-2b1d-4c8e-9a53-0d6f1b2c3a01")

// SeedDemoData creates a demo restaurant with a small menu, including one
// combo item, unless it already exists.
func SeedDemoData(db *gorm.DB, log *logrus.Logger) error {
	var existing entity.Restaurant
	err := db.First(&existing, "id = ?", DemoRestaurantID).Error
	if err == nil {
		log.WithField("restaurant_id", DemoRestaurantID).Info("Demo data already present")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up demo restaurant: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		restaurant := entity.Restaurant{
			ID:          DemoRestaurantID,
			Name:        "Chez Nous",
			CompanyName: "SAS Chez Nous",
			Address:     "12 rue de la Paix, 75002 Paris",
			Phone:       "01 23 45 67 89",
			SiretNumber: "123 456 789 00012",
			TVANumber:   "FR12123456789",
			Timezone:    "Europe/Paris",
		}
		if err := tx.Create(&restaurant).Error; err != nil {
			return fmt.Errorf("failed to create demo restaurant: %w", err)
		}

		burgers := entity.Category{RestaurantID: restaurant.ID, Name: "Burgers", Position: 1}
		drinks := entity.Category{RestaurantID: restaurant.ID, Name: "Boissons", Position: 2}
		sauces := entity.Category{RestaurantID: restaurant.ID, Name: "Sauces", Position: 3}
		for _, c := range []*entity.Category{&burgers, &drinks, &sauces} {
			if err := tx.Create(c).Error; err != nil {
				return fmt.Errorf("failed to create category %s: %w", c.Name, err)
			}
		}

		menu := entity.Group{
			RestaurantID: restaurant.ID,
			Name:         "Menu",
			Options: []entity.GroupOption{
				{Name: "Boisson", CategoryID: &drinks.ID, Required: true, Position: 1},
				{Name: "Sauces", CategoryID: &sauces.ID, Multiple: true, AddonPrice: decimal.RequireFromString("0.30"), Position: 2},
			},
		}
		if err := tx.Create(&menu).Error; err != nil {
			return fmt.Errorf("failed to create group: %w", err)
		}

		items := []entity.Item{
			{CategoryID: burgers.ID, GroupID: &menu.ID, Name: "Menu Burger", Price: decimal.RequireFromString("11.50"), TVAPercent: decimal.NewFromInt(10), Position: 1},
			{CategoryID: burgers.ID, Name: "Burger", Price: decimal.RequireFromString("8.00"), TVAPercent: decimal.NewFromInt(10), Position: 2},
			{CategoryID: drinks.ID, Name: "Cola", Price: decimal.RequireFromString("2.50"), TVAPercent: decimal.RequireFromString("5.5"), Position: 1},
			{CategoryID: drinks.ID, Name: "Eau", Price: decimal.RequireFromString("2.00"), TVAPercent: decimal.RequireFromString("5.5"), Position: 2},
			{CategoryID: drinks.ID, Name: "Bière", Price: decimal.RequireFromString("4.00"), TVAPercent: decimal.NewFromInt(20), Position: 3},
			{CategoryID: sauces.ID, Name: "Ketchup", Price: decimal.RequireFromString("0.50"), TVAPercent: decimal.NewFromInt(10), Position: 1},
			{CategoryID: sauces.ID, Name: "Mayonnaise", Price: decimal.RequireFromString("0.50"), TVAPercent: decimal.NewFromInt(10), Position: 2},
		}
		for i := range items {
			items[i].RestaurantID = restaurant.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create items: %w", err)
		}

		log.WithField("restaurant_id", restaurant.ID).Info("Demo data seeded")
		return nil
	})
}
