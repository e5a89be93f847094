// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomtom215/admissions/internal/auth"
	"github.com/tomtom215/admissions/internal/config"
)

const testSecret = "a-test-secret-with-at-least-32-characters"

func setupTokenEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CONFIG_PATH", filepath.Join(dir, "absent.yaml"))
	t.Setenv("DOTENV_PATH", filepath.Join(dir, "absent.env"))
	t.Setenv("AUTH_MODE", "jwt")
	t.Setenv("JWT_SECRET", testSecret)
}

func TestRun_IssuesValidToken(t *testing.T) {
	setupTokenEnv(t)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-user", "alice", "-role", "editor"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}

	manager, err := auth.NewJWTManager(&config.SecurityConfig{JWTSecret: testSecret})
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	claims, err := manager.ValidateToken(strings.TrimSpace(stdout.String()))
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Username != "alice" || claims.Role != auth.RoleEditor {
		t.Errorf("claims = %+v", claims)
	}
}

func TestRun_Errors(t *testing.T) {
	setupTokenEnv(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"missing user", []string{"-role", "admin"}, 2},
		{"unknown flag", []string{"-user", "bob", "-group", "x"}, 2},
		{"unknown role", []string{"-user", "bob", "-role", "root"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != tt.want {
				t.Errorf("exit code = %d, want %d", code, tt.want)
			}
			if stdout.Len() != 0 {
				t.Errorf("stdout = %q, want empty", stdout.String())
			}
		})
	}
}
