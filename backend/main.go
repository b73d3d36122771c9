package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"pharmapos/internal/api"
	"pharmapos/internal/config"
	"pharmapos/internal/database"
	"pharmapos/internal/migrations"
	"pharmapos/internal/seed"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseDSN)
	defer db.Close()

	migrations.Run(db)
	seed.LoadMedicines(db, cfg.SeedCSV)
	if err := seed.EnsureAdmin(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	handler := api.New(db, cfg.Secret, cfg.LoginRatePerMin)

	log.Printf("Pharmacy sandbox backend starting on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
