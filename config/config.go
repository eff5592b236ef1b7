package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xendit/xendit-go/v6"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/kvasnikov/eventhub/internal/models"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

func LoadConfig() (*Config, error) {
	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
	}, nil
}

type XenditConfig struct {
	SecretKey     string
	CallbackToken string
}

func LoadXenditConfig() (*XenditConfig, error) {
	return &XenditConfig{
		SecretKey:     os.Getenv("XENDIT_SECRET_KEY"),
		CallbackToken: os.Getenv("XENDIT_CALLBACK_TOKEN"),
	}, nil
}

func InitXenditClient(config *XenditConfig) (*xendit.APIClient, error) {
	client := xendit.NewClient(config.SecretKey)

	return client, nil
}

// InitRedis connects to Redis when REDIS_ADDR is set; trending and
// view counters are disabled otherwise.
func InitRedis() (*redis.Client, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Category{},
		&models.Event{},
		&models.Participation{},
		&models.Comment{},
		&models.Review{},
		&models.Ticket{},
		&models.Payment{},
		&models.Subscription{},
		&models.Notification{},
	)
	if err != nil {
		return nil, err
	}

	SeedRoles(db)

	return db, nil
}

func SeedRoles(db *gorm.DB) {
	roles := []models.Role{
		{Name: "user"},
		{Name: "organizer"},
		{Name: "admin"},
	}

	for _, role := range roles {
		var existingRole models.Role
		result := db.Where("name = ?", role.Name).First(&existingRole)
		if result.Error != nil {
			db.Create(&role)
		}
	}
}
