// internal/config/database.go
package config

import (
	"fmt"
)

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// IsMemory reports whether the in-process store was selected.
func (d *DatabaseConfig) IsMemory() bool {
	return d.Driver == "memory"
}
