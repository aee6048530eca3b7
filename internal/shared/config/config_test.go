package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setRequiredEnvVars(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("JWT_SECRET", "test-jwt-secret-key")
}

func TestLoad_Success(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.JWT.Secret != "test-jwt-secret-key" {
		t.Errorf("JWT.Secret = %q, want %q", cfg.JWT.Secret, "test-jwt-secret-key")
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "8080")
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 5432)
	}
	if cfg.Ledger.IncomeCapPercent != 20 {
		t.Errorf("Ledger.IncomeCapPercent = %d, want 20", cfg.Ledger.IncomeCapPercent)
	}
	if cfg.Ledger.StreakPolicy != "consecutive_day" {
		t.Errorf("Ledger.StreakPolicy = %q, want consecutive_day", cfg.Ledger.StreakPolicy)
	}
	if cfg.Ledger.Location != time.UTC {
		t.Errorf("Ledger.Location = %v, want UTC", cfg.Ledger.Location)
	}
	if cfg.Redis.TTL != 5*time.Minute {
		t.Errorf("Redis.TTL = %v, want 5m", cfg.Redis.TTL)
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for missing JWT_SECRET, got nil")
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("JWT_SECRET=from-file\nPORT=9999\n"), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Setenv("ENV_FILE", path)
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")
	t.Cleanup(func() {
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("PORT")
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.JWT.Secret != "from-file" {
		t.Errorf("JWT.Secret = %q, want from-file", cfg.JWT.Secret)
	}
	if cfg.Server.Port != "9999" {
		t.Errorf("Server.Port = %q, want 9999", cfg.Server.Port)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"db port", "DB_PORT", "not-a-number"},
		{"cache ttl", "CACHE_TTL", "soon"},
		{"cap percent zero", "VAULT_INCOME_CAP_PERCENT", "0"},
		{"cap percent too high", "VAULT_INCOME_CAP_PERCENT", "101"},
		{"timezone", "APP_TIMEZONE", "Mars/Olympus"},
		{"streak policy", "STREAK_POLICY", "weekly"},
		{"scheduler workers", "SCHEDULER_WORKERS", "many"},
		{"job delay", "SCHEDULER_JOB_DELAY", "later"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnvVars(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() expected error for %s=%q, got nil", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_LedgerConfig(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("STREAK_POLICY", "net_balance")
	t.Setenv("VAULT_INCOME_CAP_PERCENT", "30")
	t.Setenv("APP_TIMEZONE", "Asia/Kolkata")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Ledger.StreakPolicy != "net_balance" {
		t.Errorf("StreakPolicy = %q, want net_balance", cfg.Ledger.StreakPolicy)
	}
	if cfg.Ledger.IncomeCapPercent != 30 {
		t.Errorf("IncomeCapPercent = %d, want 30", cfg.Ledger.IncomeCapPercent)
	}
	if cfg.Ledger.Location.String() != "Asia/Kolkata" {
		t.Errorf("Location = %s, want Asia/Kolkata", cfg.Ledger.Location)
	}
}

func TestLoad_TLSValidation(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("TLS_ENABLED", "true")
	t.Setenv("TLS_CERT_PATH", "")
	t.Setenv("TLS_KEY_PATH", "")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for TLS enabled without cert path, got nil")
	}
}

func TestLoad_AllowedHosts(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("ALLOWED_HOSTS", "example.com, api.example.com, localhost:3000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.Server.AllowedHosts) != 3 {
		t.Errorf("AllowedHosts length = %d, want 3", len(cfg.Server.AllowedHosts))
	}
}

func TestLoad_SchedulerConfig(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("SCHEDULER_ENABLED", "false")
	t.Setenv("SCHEDULER_WORKERS", "10")
	t.Setenv("SCHEDULER_CRON", "*/5 * * * *")
	t.Setenv("RENEWAL_REMINDER_DAYS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Scheduler.Enabled {
		t.Error("Scheduler.Enabled should be false")
	}
	if cfg.Scheduler.WorkerCount != 10 {
		t.Errorf("Scheduler.WorkerCount = %d, want 10", cfg.Scheduler.WorkerCount)
	}
	if cfg.Scheduler.Cron != "*/5 * * * *" {
		t.Errorf("Scheduler.Cron = %q", cfg.Scheduler.Cron)
	}
	if cfg.Scheduler.RenewalReminderDays != 5 {
		t.Errorf("Scheduler.RenewalReminderDays = %d, want 5", cfg.Scheduler.RenewalReminderDays)
	}
}

func TestGetBoolEnv(t *testing.T) {
	tests := []struct {
		value    string
		defVal   bool
		expected bool
	}{
		{"true", false, true},
		{"TRUE", false, true},
		{"1", false, true},
		{"yes", false, true},
		{"false", true, false},
		{"0", true, false},
		{"no", true, false},
		{"invalid", true, true},
		{"invalid", false, false},
		{"", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			key := "TEST_BOOL_ENV"
			if tt.value == "" {
				os.Unsetenv(key)
			} else {
				t.Setenv(key, tt.value)
			}

			got := getBoolEnv(key, tt.defVal)
			if got != tt.expected {
				t.Errorf("getBoolEnv(%q, %v) = %v, want %v", tt.value, tt.defVal, got, tt.expected)
			}
		})
	}
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
		SSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	if got := cfg.ConnectionString(); got != expected {
		t.Errorf("ConnectionString() = %q, want %q", got, expected)
	}
}
