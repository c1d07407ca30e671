// server/internal/database/seeder.go
package database

import (
	"context"
	"log"

	"reeutil-tradein-api-server/config"
	"reeutil-tradein-api-server/internal/auth"
	"reeutil-tradein-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SeedAdmin creates the bootstrap admin account if it does not exist yet.
func SeedAdmin(db *mongo.Database, cfg config.AdminConfig) error {
	userCollection := db.Collection("users")

	email := cfg.Email
	if email == "" {
		email = "admin@reeutil.local"
	}

	count, err := userCollection.CountDocuments(context.Background(), bson.M{"email": email})
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("Admin already exists. Seeding skipped.")
		return nil
	}

	log.Println("Admin not found. Seeding...")
	password := cfg.Password
	if password == "" {
		password = "adminpassword"
	}
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:    email,
		Name:     "Admin",
		Password: hashedPassword,
		Role:     "admin",
		Sub:      "admin",
		Status:   "active",
	}

	if _, err := userCollection.InsertOne(context.Background(), admin); err != nil {
		return err
	}

	log.Println("Admin seeded successfully.")
	return nil
}
