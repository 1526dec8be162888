package internal

import (
	"strings"
	"testing"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestWorkspaceConfig_EmptyFormatDefaultsMarkup(t *testing.T) {
	cfg := WorkspaceConfig{Path: "."}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty format should default to md: %v", err)
	}
	if cfg.DefaultFormat != "md" {
		t.Errorf("default_format = %q, want md", cfg.DefaultFormat)
	}
}

func TestWorkspaceConfig_InvalidFormat(t *testing.T) {
	cfg := WorkspaceConfig{Path: ".", DefaultFormat: "xml"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown format should fail validation")
	}
}

func TestWorkspaceConfig_MissingPath(t *testing.T) {
	cfg := WorkspaceConfig{DefaultFormat: "json"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing path should fail validation")
	}
}

func TestUIConfig_ZeroDefaultsApplied(t *testing.T) {
	cfg := UIConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("zero UI config should validate: %v", err)
	}
	if cfg.MaxVisibleRecords != 500 {
		t.Errorf("max_visible_records = %d, want 500", cfg.MaxVisibleRecords)
	}
}

func TestNewDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if !cfg.Workspace.AutoReload {
		t.Error("auto_reload should default to true")
	}
	if cfg.Workspace.GitAutocommit {
		t.Error("git_autocommit should default to false")
	}
}
