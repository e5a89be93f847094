// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

/*
Package cache holds report results in memory between writes.

Reports are aggregate scans over the whole admission table, while writes
are rare (one create per request, or a full reload). The API keeps report
responses in a Cache keyed by report name and page, and clears it whenever
the table changes:

	reports := cache.New[any](5 * time.Minute)
	defer reports.Close()

	key := cache.GenerateKey("chronic_readmissions", map[string]int{"page": 2})
	if v, ok := reports.Get(key); ok {
	    ...
	}
	reports.Set(key, page)

	// after a create or a reload
	reports.Clear()

Entries also expire after the TTL so a writer outside this process (the
cmd/loader binary against a shared PostgreSQL) is seen eventually.
*/
package cache
