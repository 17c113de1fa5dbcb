// Package config handles TOML settings for awsres.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the root settings structure.
type Config struct {
	AWS       AWSConfig       `toml:"aws"`
	Bucket    BucketConfig    `toml:"bucket"`
	ECR       ECRConfig       `toml:"ecr"`
	RDS       RDSConfig       `toml:"rds"`
	Secrets   SecretsConfig   `toml:"secrets"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Log       LogConfig       `toml:"log"`
}

// AWSConfig holds credential and region overrides.
// Empty values fall through to the SDK's default chain.
type AWSConfig struct {
	Region  string `toml:"region"`
	Profile string `toml:"profile"`
}

// BucketConfig holds S3 bucket handler settings.
type BucketConfig struct {
	AttachPolicy     bool     `toml:"attach_policy"`
	PolicyPrincipals []string `toml:"policy_principals"`
}

// ECRConfig holds repository handler settings.
type ECRConfig struct {
	AttachPolicy     bool     `toml:"attach_policy"`
	PolicyPrincipals []string `toml:"policy_principals"`
	ForceDelete      bool     `toml:"force_delete"`
}

// RDSConfig holds the fixed engine parameters for Postgres instances.
type RDSConfig struct {
	Engine                 string   `toml:"engine"`
	InstanceClass          string   `toml:"instance_class"`
	SubnetGroup            string   `toml:"subnet_group"`
	SecurityGroupIDs       []string `toml:"security_group_ids"`
	AllocatedStorage       int32    `toml:"allocated_storage"`
	StorageEncrypted       bool     `toml:"storage_encrypted"`
	BackupRetentionDays    int32    `toml:"backup_retention_days"`
	FinalSnapshotSuffix    string   `toml:"final_snapshot_suffix"`
	SkipFinalSnapshot      bool     `toml:"skip_final_snapshot"`
	DeleteAutomatedBackups bool     `toml:"delete_automated_backups"`
}

// SecretsConfig holds Secrets Manager settings for database credentials.
type SecretsConfig struct {
	PasswordLength     int64  `toml:"password_length"`
	ExcludeCharacters  string `toml:"exclude_characters"`
	RecoveryWindowDays int64  `toml:"recovery_window_days"`
}

// TelemetryConfig holds tracing and run-metrics settings.
type TelemetryConfig struct {
	Endpoint        string `toml:"endpoint"`
	Insecure        bool   `toml:"insecure"`
	ServiceName     string `toml:"service_name"`
	Traces          bool   `toml:"traces"`
	Metrics         bool   `toml:"metrics"`
	MetricsTextfile string `toml:"metrics_textfile"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Bucket: BucketConfig{AttachPolicy: true},
		ECR:    ECRConfig{AttachPolicy: true, ForceDelete: true},
		RDS: RDSConfig{
			Engine:              "postgres",
			InstanceClass:       "db.m4.large",
			SubnetGroup:         "dev-rds-instance-postgres",
			SecurityGroupIDs:    []string{"sg-096b1f1e917a7ffde"},
			AllocatedStorage:    5,
			StorageEncrypted:    true,
			BackupRetentionDays: 7,
			FinalSnapshotSuffix: "-final-before-delete",
		},
		Secrets: SecretsConfig{
			PasswordLength:     16,
			ExcludeCharacters:  `/"@ `,
			RecoveryWindowDays: 7,
		},
		Telemetry: TelemetryConfig{ServiceName: "awsres"},
		Log:       LogConfig{Level: "info"},
	}
}

// Load reads a TOML settings file on top of Default.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// applyDefaults restores values a file blanked out explicitly.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.RDS.Engine == "" {
		cfg.RDS.Engine = def.RDS.Engine
	}
	if cfg.RDS.FinalSnapshotSuffix == "" {
		cfg.RDS.FinalSnapshotSuffix = def.RDS.FinalSnapshotSuffix
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = def.Telemetry.ServiceName
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
}

// Validate checks the settings are usable.
func (c *Config) Validate() error {
	if c.RDS.InstanceClass == "" {
		return fmt.Errorf("rds: instance_class required")
	}
	if c.RDS.AllocatedStorage <= 0 {
		return fmt.Errorf("rds: allocated_storage must be positive (got %d)", c.RDS.AllocatedStorage)
	}
	if c.RDS.BackupRetentionDays < 0 || c.RDS.BackupRetentionDays > 35 {
		return fmt.Errorf("rds: backup_retention_days must be between 0 and 35 (got %d)", c.RDS.BackupRetentionDays)
	}
	if c.Secrets.PasswordLength < 8 || c.Secrets.PasswordLength > 128 {
		return fmt.Errorf("secrets: password_length must be between 8 and 128 (got %d)", c.Secrets.PasswordLength)
	}
	if c.Secrets.RecoveryWindowDays < 7 || c.Secrets.RecoveryWindowDays > 30 {
		return fmt.Errorf("secrets: recovery_window_days must be between 7 and 30 (got %d)", c.Secrets.RecoveryWindowDays)
	}
	return nil
}
