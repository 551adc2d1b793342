package cmd

import (
	"fmt"
	"time"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	JWTSecret string
	JWTIssuer string

	PersistenceTimeout time.Duration
	ChannelBufferSize  int

	KafkaHost              string
	KafkaOrderChangedTopic string

	OutboxRelaySchedule  string
	ChannelSweepSchedule string
}

// DSN builds the PostgreSQL connection string for the gorm driver.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}
