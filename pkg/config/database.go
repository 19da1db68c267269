package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const connectTimeout = 10 * time.Second

// DB bundles the two stores the service runs against: PostgreSQL for
// relational state, MongoDB for documents.
type DB struct {
	Postgres *gorm.DB
	Mongo    *mongo.Client
}

// InitDB connects to both stores and verifies each with a ping. Unlike the
// optional subsystems, missing database settings are fatal.
func InitDB(cfg *Config) (*DB, error) {
	if cfg.PostgresConnStr == "" {
		return nil, fmt.Errorf("POSTGRES_CONN_STR environment variable not set")
	}
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable not set")
	}

	postgresDB, err := initPostgres(cfg.PostgresConnStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	mongoClient, err := initMongo(cfg.MongoURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	return &DB{Postgres: postgresDB, Mongo: mongoClient}, nil
}

func initPostgres(connStr string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}

	log.Println("Successfully connected to PostgreSQL!")
	return db, nil
}

func initMongo(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	log.Println("Successfully connected to MongoDB!")
	return client, nil
}

// CloseDB closes both connections; called from main on shutdown.
func (db *DB) CloseDB() {
	if db.Postgres != nil {
		if sqlDB, err := db.Postgres.DB(); err != nil {
			log.Printf("Error getting SQL DB from GORM: %v\n", err)
		} else if err := sqlDB.Close(); err != nil {
			log.Printf("Error closing PostgreSQL connection: %v\n", err)
		} else {
			log.Println("PostgreSQL connection closed.")
		}
	}

	if db.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Mongo.Disconnect(ctx); err != nil {
			log.Printf("Error closing MongoDB connection: %v\n", err)
		} else {
			log.Println("MongoDB connection closed.")
		}
	}
}
