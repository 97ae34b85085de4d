package main

import (
	"context"
	"os"
	"time"

	"ticketly/internal/events"
	"ticketly/internal/seats"
	"ticketly/internal/shared/config"
	"ticketly/internal/shared/database"
	"ticketly/internal/users"
	"ticketly/pkg/logger"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds an admin account and a demo event with a full seat map.
// Safe to rerun: existing rows are left alone.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Error("Failed to initialize databases", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	gormDB := db.GetPostgreSQL()

	adminEmail := getEnv("SEED_ADMIN_EMAIL", "admin@ticketly.local")
	adminPassword := getEnv("SEED_ADMIN_PASSWORD", "admin-password-change-me")

	var admin users.User
	err = gormDB.WithContext(ctx).Where("email = ?", adminEmail).First(&admin).Error
	if err != nil {
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if hashErr != nil {
			log.Error("Failed to hash admin password", "error", hashErr)
			os.Exit(1)
		}
		admin = users.User{
			FirstName: "Admin",
			LastName:  "User",
			Email:     adminEmail,
			Password:  string(hashed),
			Role:      users.RoleAdmin,
		}
		if err := gormDB.WithContext(ctx).Create(&admin).Error; err != nil {
			log.Error("Failed to create admin user", "error", err)
			os.Exit(1)
		}
		log.Info("Admin user created", "email", adminEmail)
	} else {
		log.Info("Admin user already exists", "email", adminEmail)
	}

	var count int64
	if err := gormDB.WithContext(ctx).Model(&events.Event{}).Count(&count).Error; err != nil {
		log.Error("Failed to count events", "error", err)
		os.Exit(1)
	}
	if count > 0 {
		log.Info("Events already seeded, nothing to do")
		return
	}

	event := events.Event{
		Title:       "Ticketly Launch Night",
		Description: "Demo event seeded for local development.",
		Date:        time.Now().UTC().AddDate(0, 1, 0),
		Location:    "Grand Hall, Springfield",
		CreatedBy:   admin.ID,
	}

	seatRows, err := seats.Generate(event.ID, seats.GenerateConfig{
		Rows:        10,
		SeatsPerRow: 20,
		Categories:  []string{"premium", "premium", "standard", "standard", "standard", "standard", "standard", "standard", "balcony", "balcony"},
		BasePrice:   50,
	})
	if err != nil {
		log.Error("Failed to generate seats", "error", err)
		os.Exit(1)
	}

	repo := events.NewRepository(gormDB)
	if err := repo.CreateWithSeats(ctx, &event, seatRows); err != nil {
		log.Error("Failed to seed event", "error", err)
		os.Exit(1)
	}

	log.Info("Seed completed", "event_id", event.ID.String(), "seats", len(seatRows))
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
