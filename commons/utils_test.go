// SPDX-License-Identifier: GPL-3.0-only

package commons

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetEnvFallback(t *testing.T) {
	t.Setenv("LOCALE_TRACKER_TEST_KEY", "")
	if got := GetEnv("LOCALE_TRACKER_TEST_KEY", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback, got %q", got)
	}
	if got := GetEnv("LOCALE_TRACKER_TEST_KEY"); got != "" {
		t.Errorf("Expected empty value, got %q", got)
	}

	t.Setenv("LOCALE_TRACKER_TEST_KEY", "set")
	if got := GetEnv("LOCALE_TRACKER_TEST_KEY", "fallback"); got != "set" {
		t.Errorf("Expected set value, got %q", got)
	}
}

func TestLoadEnvFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "# comment\n\nLT_ENV_A=alpha\nLT_ENV_B = \"quoted value\"\nmalformed\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LT_ENV_A", "")
	t.Setenv("LT_ENV_B", "")

	if err := loadEnvFrom(path); err != nil {
		t.Fatalf("loadEnvFrom failed: %v", err)
	}
	if got := os.Getenv("LT_ENV_A"); got != "alpha" {
		t.Errorf("Expected alpha, got %q", got)
	}
	if got := os.Getenv("LT_ENV_B"); got != "quoted value" {
		t.Errorf("Expected quoted value, got %q", got)
	}
}

func TestInitMCCMNCWithOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overwrite.yaml")
	if err := os.WriteFile(path, []byte("lookup:\n  - mcc: 310\n    iso: pr\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MCC_TABLE_OVERWRITE", path)

	InitMCCMNC()

	if got := MCCMNCIndex.CountryCodeForMCC(310); got != "pr" {
		t.Errorf("Expected overwrite to apply, got %q", got)
	}
	if got := MCCMNCIndex.CountryCodeForMCC(311); got != "us" {
		t.Errorf("Expected default entry to remain, got %q", got)
	}
}
