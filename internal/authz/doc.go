// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

// Package authz authorizes authenticated API callers with a Casbin RBAC
// model.
//
// The request subject is the caller's role, the object is the URL path and
// the action comes from the HTTP method (GET/HEAD/OPTIONS read, POST/PUT/
// PATCH write, DELETE delete). The embedded policy grants:
//
//	viewer  read  /api/analysis/*
//	viewer  read  /api/v1/events/*  (websocket feed)
//	editor  write /api/data/*       (inherits viewer)
//	admin   *     /api/v1/admin/*   (reload and audit; inherits editor)
//
// security.casbin_model_path and security.casbin_policy_path replace the
// embedded files.
package authz
