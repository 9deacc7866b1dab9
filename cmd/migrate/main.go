package main

import (
	"log"

	"enterprise-assistant-be/internal/config"
	"enterprise-assistant-be/internal/model"
	"enterprise-assistant-be/pkg/database"

	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.Database.Driver, cfg.Database.Connection, cfg.Database.SQLitePath, gormlogger.Info)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Step 1: Enabling pgvector...")
	if err := database.EnableVector(db); err != nil {
		log.Fatal("Error: ", err)
	}

	log.Println("Step 2: Running AutoMigrate...")
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Fatal("Error: AutoMigrate failed: ", err)
	}

	log.Println("Step 3: Indexing chunk embeddings...")
	if err := database.EnsureVectorIndex(db, "document_chunks", "embedding_value"); err != nil {
		log.Fatal("Error: ", err)
	}

	log.Println("Migration completed")
}
