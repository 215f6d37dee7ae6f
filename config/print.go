package config

import "fmt"

// PrintConfig prints the effective configuration with secrets masked.
func PrintConfig(cfg *Config) {
	fmt.Println("Configuration:")
	fmt.Printf("  server:   %s\n", cfg.Server.Addr())
	fmt.Printf("  database: postgres://%s:***@%s:%s/%s\n", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
	fmt.Printf("  rabbitmq: amqp://%s:***@%s:%s/\n", cfg.RabbitMQ.User, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
	fmt.Printf("  auth:     access ttl %s, refresh ttl %s\n", cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	fmt.Printf("  log:      level %s\n", cfg.Log.Level)
}
