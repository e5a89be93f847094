// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

// Package main issues bearer tokens for the API's jwt auth mode.
//
//	JWT_SECRET=... go run ./cmd/token -user alice -role editor
//
// The token is printed on stdout. It is signed with the same secret and
// TTL the server reads from its configuration.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tomtom215/admissions/internal/auth"
	"github.com/tomtom215/admissions/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(stderr)
	user := fs.String("user", "", "username placed in the token (required)")
	role := fs.String("role", auth.RoleViewer, "role: viewer, editor or admin")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *user == "" {
		fmt.Fprintln(stderr, "token: -user is required")
		fs.Usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "token: %v\n", err)
		return 1
	}

	manager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		fmt.Fprintf(stderr, "token: %v\n", err)
		return 1
	}

	token, err := manager.GenerateToken(*user, *role)
	if err != nil {
		fmt.Fprintf(stderr, "token: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, token)
	return 0
}
