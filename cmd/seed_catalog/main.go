// Command seed_catalog loads tags and ingredients from a JSON fixture
// into the database. Seeding is idempotent: rows that already exist are
// left untouched.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/platefeed/backend/config"
	"github.com/platefeed/backend/internal/database"
	"github.com/platefeed/backend/internal/models"
)

type catalogFixture struct {
	Tags []struct {
		Name  string `json:"name"`
		Color string `json:"color"`
		Slug  string `json:"slug"`
	} `json:"tags"`
	Ingredients []struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	} `json:"ingredients"`
}

func main() {
	path := flag.String("file", "data/catalog.json", "Path to the catalog fixture")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if cfg.DBDriver == "sqlite" {
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	raw, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("Failed to read fixture: %v", err)
	}
	var fixture catalogFixture
	if err := json.Unmarshal(raw, &fixture); err != nil {
		log.Fatalf("Failed to parse fixture: %v", err)
	}

	tagCount := 0
	for _, t := range fixture.Tags {
		tag := models.Tag{Name: t.Name, Color: t.Color, Slug: t.Slug}
		result := db.Where("slug = ?", t.Slug).FirstOrCreate(&tag)
		if result.Error != nil {
			log.Fatalf("Failed to seed tag %q: %v", t.Slug, result.Error)
		}
		tagCount += int(result.RowsAffected)
	}

	ingredientCount := 0
	for _, i := range fixture.Ingredients {
		ingredient := models.Ingredient{Name: i.Name, MeasurementUnit: i.MeasurementUnit}
		result := db.Where("name = ? AND measurement_unit = ?", i.Name, i.MeasurementUnit).
			FirstOrCreate(&ingredient)
		if result.Error != nil {
			log.Fatalf("Failed to seed ingredient %q: %v", i.Name, result.Error)
		}
		ingredientCount += int(result.RowsAffected)
	}

	fmt.Printf("Seeded %d tags and %d ingredients from %s\n", tagCount, ingredientCount, *path)
}
