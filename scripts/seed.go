package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/caredispatch/backend/internal/adapters/database"
	"github.com/caredispatch/backend/internal/domain/entities"
	"github.com/caredispatch/backend/internal/infrastructure/clients/postgres"
	"github.com/caredispatch/backend/pkg/config"
)

// migrationFile is resolved relative to the repository root; run the
// seeder from there.
const migrationFile = "migrations/001_initial_schema.sql"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			DROP TABLE IF EXISTS
				queue_entries,
				admission_requests,
				medical_profiles,
				facilities
			CASCADE
		`)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to reset tables")
		}
	}

	schema, err := os.ReadFile(migrationFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", migrationFile).Msg("failed to read migration file")
	}
	if _, err := pgClient.DB().ExecContext(ctx, string(schema)); err != nil {
		log.Fatal().Err(err).Msg("failed to create schema")
	}
	log.Info().Msg("schema created")

	facilityRepo := database.NewFacilityAdapter(pgClient)

	facilities := []*entities.Facility{
		{
			Name:        "Lagos General Hospital",
			Address:     "1 Broad Street, Lagos Island",
			PhoneNumber: "+234-1-555-0100",
			Location:    &entities.Location{Latitude: 6.4541, Longitude: 3.3947},
			Verified:    true,
		},
		{
			Name:        "Ikeja Medical Centre",
			Address:     "45 Allen Avenue, Ikeja",
			PhoneNumber: "+234-1-555-0101",
			Location:    &entities.Location{Latitude: 6.6018, Longitude: 3.3515},
			Verified:    true,
		},
		{
			Name:        "Victoria Island Clinic",
			Address:     "12 Adeola Odeku Street, Victoria Island",
			PhoneNumber: "+234-1-555-0102",
			Location:    &entities.Location{Latitude: 6.4281, Longitude: 3.4219},
			Verified:    true,
		},
		{
			Name:        "Surulere Community Hospital",
			Address:     "78 Adeniran Ogunsanya Street, Surulere",
			PhoneNumber: "+234-1-555-0103",
			Location:    &entities.Location{Latitude: 6.4926, Longitude: 3.3614},
			Verified:    true,
		},
		{
			// Unverified facilities are excluded from dispatch until an
			// administrator approves them.
			Name:        "New Hope Clinic",
			Address:     "3 Unity Road, Yaba",
			PhoneNumber: "+234-1-555-0104",
			Location:    &entities.Location{Latitude: 6.5095, Longitude: 3.3711},
			Verified:    false,
		},
	}

	now := time.Now()
	for _, facility := range facilities {
		facility.CreatedAt = now
		facility.UpdatedAt = now
		if err := facilityRepo.Create(ctx, facility); err != nil {
			log.Error().Err(err).Str("name", facility.Name).Msg("failed to create facility")
			continue
		}
		log.Info().Int64("id", facility.ID).Str("name", facility.Name).Msg("created facility")
	}

	log.Info().Msg("seeding complete")
}
