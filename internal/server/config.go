package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Tables []TableConfig  `hcl:"table,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address      string `hcl:"address,optional"`
	Port         int    `hcl:"port,optional"`
	LogLevel     string `hcl:"log_level,optional"`
	DatabasePath string `hcl:"database_path,optional"`
}

// TableConfig defines a cash table configuration
type TableConfig struct {
	Name            string `hcl:"name,label"`
	MaxSeats        int    `hcl:"max_seats,optional"`
	SmallBlind      int64  `hcl:"small_blind"`
	BigBlind        int64  `hcl:"big_blind"`
	HandCap         int    `hcl:"hand_cap,optional"`
	RakePercent     int    `hcl:"rake_percent,optional"`
	RakeMinPotBB    int    `hcl:"rake_min_pot_bb,optional"`
	TurnTimeoutSecs int    `hcl:"turn_timeout_seconds,optional"`
}

// TurnTimeout returns the per-action clock as a duration.
func (t TableConfig) TurnTimeout() time.Duration {
	return time.Duration(t.TurnTimeoutSecs) * time.Second
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:      "localhost",
			Port:         8080,
			LogLevel:     "info",
			DatabasePath: "cardroom.db",
		},
		Tables: []TableConfig{
			{
				Name:            "main",
				MaxSeats:        6,
				SmallBlind:      1,
				BigBlind:        2,
				RakePercent:     5,
				RakeMinPotBB:    10,
				TurnTimeoutSecs: 30,
			},
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file. A missing
// file yields the defaults.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Server.DatabasePath == "" {
		config.Server.DatabasePath = "cardroom.db"
	}

	for i := range config.Tables {
		if config.Tables[i].MaxSeats == 0 {
			config.Tables[i].MaxSeats = 6
		}
		if config.Tables[i].RakePercent == 0 {
			config.Tables[i].RakePercent = 5
		}
		if config.Tables[i].RakeMinPotBB == 0 {
			config.Tables[i].RakeMinPotBB = 10
		}
		if config.Tables[i].TurnTimeoutSecs == 0 {
			config.Tables[i].TurnTimeoutSecs = 30
		}
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}

	seen := make(map[string]bool, len(c.Tables))
	for _, table := range c.Tables {
		if seen[table.Name] {
			return fmt.Errorf("duplicate table name: %s", table.Name)
		}
		seen[table.Name] = true

		if table.SmallBlind <= 0 {
			return fmt.Errorf("table %s: small blind must be positive", table.Name)
		}
		if table.BigBlind <= table.SmallBlind {
			return fmt.Errorf("table %s: big blind must be greater than small blind", table.Name)
		}
		if table.MaxSeats < 2 || table.MaxSeats > 10 {
			return fmt.Errorf("table %s: max seats must be between 2 and 10", table.Name)
		}
		if table.RakePercent < 0 || table.RakePercent > 100 {
			return fmt.Errorf("table %s: rake percent must be between 0 and 100", table.Name)
		}
		if table.HandCap < 0 {
			return fmt.Errorf("table %s: hand cap must not be negative", table.Name)
		}
		if table.TurnTimeoutSecs < 1 {
			return fmt.Errorf("table %s: turn timeout must be at least one second", table.Name)
		}
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// GetTableByName returns a table configuration by name
func (c *ServerConfig) GetTableByName(name string) *TableConfig {
	for i := range c.Tables {
		if c.Tables[i].Name == name {
			return &c.Tables[i]
		}
	}
	return nil
}
