package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var configKeys = []string{
	"APP_PORT", "LOG_LEVEL", "STORAGE_DRIVER", "MONGODB_URI", "MONGODB_DB_NAME",
	"RATE_LANTABUR", "RATE_TAQWA", "WATER_PER_KG", "CO2_PER_KG", "DAILY_TARGET_KG",
	"ANTHROPIC_API_KEY", "ANTHROPIC_MODEL", "GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID",
	"WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID", "WHATSAPP_BASE_URL", "WHATSAPP_API_VERSION",
	"WHATSAPP_DIGEST_TO", "REPORT_CRON_SCHEDULE", "TIMEZONE", "COMPANY_NAME", "CURRENCY",
}

// clearEnv blanks every key so values from the developer's shell do not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "8080" || cfg.Storage.Driver != StorageMemory {
		t.Fatalf("server/storage = %+v %+v", cfg.Server, cfg.Storage)
	}
	d := cfg.Dashboard
	if d.RateLantabur != 1.25 || d.RateTaqwa != 1.18 || d.WaterPerKg != 45 || d.CO2PerKg != 2.3 || d.DailyTargetKg != 60000 {
		t.Fatalf("dashboard defaults = %+v", d)
	}
	if cfg.SheetsEnabled() || cfg.WhatsAppEnabled() {
		t.Fatalf("optional integrations should be off by default")
	}
}

func TestLoad_FromEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	content := "APP_PORT=9090\nRATE_TAQWA=1.3\nCOMPANY_NAME=Acme Dyeing\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	// godotenv does not override variables that are already set, even to "".
	for _, key := range []string{"APP_PORT", "RATE_TAQWA", "COMPANY_NAME"} {
		os.Unsetenv(key)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Dashboard.RateTaqwa != 1.3 || cfg.Company.Name != "Acme Dyeing" {
		t.Fatalf("cfg = %+v", cfg)
	}
	for _, key := range []string{"APP_PORT", "RATE_TAQWA", "COMPANY_NAME"} {
		os.Unsetenv(key)
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]struct {
		env  map[string]string
		want string
	}{
		"bad number":      {map[string]string{"WATER_PER_KG": "lots"}, "WATER_PER_KG"},
		"negative rate":   {map[string]string{"RATE_LANTABUR": "-1"}, "RATE_LANTABUR"},
		"unknown driver":  {map[string]string{"STORAGE_DRIVER": "postgres"}, "STORAGE_DRIVER"},
		"mongo no uri":    {map[string]string{"STORAGE_DRIVER": "mongodb"}, "MONGODB_URI"},
		"half sheets":     {map[string]string{"GOOGLE_SHEET_DATABASE_ID": "abc"}, "GOOGLE_SHEETS_CREDENTIALS_PATH"},
		"digest no token": {map[string]string{"WHATSAPP_DIGEST_TO": "8801"}, "WHATSAPP_TOKEN"},
		"bad timezone":    {map[string]string{"TIMEZONE": "Mars/Olympus"}, "TIMEZONE"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %s", err, tc.want)
			}
		})
	}
}
