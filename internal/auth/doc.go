// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

/*
Package auth authenticates API callers with HS256 bearer tokens.

Authentication is off unless security.auth_mode is "jwt". In that mode every
/api request must carry

	Authorization: Bearer <token>

or a "token" cookie. Tokens carry a username and a role (viewer, editor or
admin); the authz package decides what each role may do.

Tokens are issued offline with cmd/token, signed with JWT_SECRET:

	token -user alice -role editor
*/
package auth
