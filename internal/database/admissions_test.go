// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/admissions/internal/models"
)

func TestCreate_AssignsIDsAndStoresAsSent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	lower := newAdmission(func(a *models.Admission) {
		a.Sex = "female"
		a.HbA1c = "elevated"
		a.AgeGroup = ">=60"
		a.DiabetesMed = true
		a.Readmitted = true
		a.HospitalStay = 0
	})
	created := seed(t, db, lower, newAdmission())

	if created[0].ID <= 0 || created[1].ID <= created[0].ID {
		t.Fatalf("ids should be positive and increasing, got %d then %d", created[0].ID, created[1].ID)
	}

	for i, want := range created {
		got, err := db.GetAdmission(ctx, want.ID)
		checkNoError(t, err)
		checkAdmissionEqual(t, i, *got, want)
	}
	if created[0].Sex != "female" || created[0].HbA1c != "elevated" {
		t.Errorf("case changed on create: %+v", created[0])
	}
}

// checkAdmissionEqual compares every field. Dates are compared as calendar
// days since the driver may attach a different location.
func checkAdmissionEqual(t *testing.T, i int, got, want models.Admission) {
	t.Helper()
	if got.AdmissionDate.String() != want.AdmissionDate.String() {
		t.Errorf("record %d admission_date = %s, want %s", i, got.AdmissionDate, want.AdmissionDate)
	}
	got.AdmissionDate = want.AdmissionDate
	if got != want {
		t.Errorf("record %d round trip:\n got %+v\nwant %+v", i, got, want)
	}
}

func TestCreate_RejectsNegativeCounts(t *testing.T) {
	db := setupTestDB(t)
	bad := newAdmission(func(a *models.Admission) { a.NumDiagnosis = -1 })
	checkError(t, db.Create(context.Background(), &bad))

	n, err := db.CountAdmissions(context.Background())
	checkNoError(t, err)
	checkInt64Equal(t, "count", n, 0)
}

func TestGetAdmission_NotFound(t *testing.T) {
	db := setupTestDB(t)
	_, err := db.GetAdmission(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDeleteAll(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db, newAdmission(), newAdmission(), newAdmission())

	n, err := db.DeleteAll(context.Background())
	checkNoError(t, err)
	checkInt64Equal(t, "deleted", n, 3)

	count, err := db.CountAdmissions(context.Background())
	checkNoError(t, err)
	checkInt64Equal(t, "count", count, 0)
}

func TestReplaceAdmissions_ReplacesContent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seed(t, db, newAdmission(), newAdmission())

	err := db.ReplaceAdmissions(ctx, func(insert func([]models.Admission) error) error {
		if err := insert([]models.Admission{newAdmission(func(a *models.Admission) { a.Sex = "MALE" })}); err != nil {
			return err
		}
		return insert(nil)
	})
	checkNoError(t, err)

	groups, err := db.GenderAnalysis(ctx)
	checkNoError(t, err)
	checkLen(t, "groups", len(groups), 1)
	checkStringEqual(t, "sex", groups[0].Sex, "MALE")
	checkInt64Equal(t, "total", groups[0].TotalRecords, 1)
}

func TestReplaceAdmissions_RollsBackOnFillError(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seed(t, db, newAdmission(), newAdmission())

	boom := errors.New("disk full")
	err := db.ReplaceAdmissions(ctx, func(insert func([]models.Admission) error) error {
		if err := insert([]models.Admission{newAdmission()}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want wrapped fill error", err)
	}

	n, err := db.CountAdmissions(ctx)
	checkNoError(t, err)
	checkInt64Equal(t, "count after rollback", n, 2)
}

func TestReplaceAdmissions_RollsBackOnInsertError(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seed(t, db, newAdmission())

	err := db.ReplaceAdmissions(ctx, func(insert func([]models.Admission) error) error {
		return insert([]models.Admission{
			newAdmission(),
			newAdmission(func(a *models.Admission) { a.HospitalStay = -5 }),
		})
	})
	checkError(t, err)

	n, err := db.CountAdmissions(ctx)
	checkNoError(t, err)
	checkInt64Equal(t, "count after rollback", n, 1)
}

func TestReplaceAdmissions_ChunksLargeBatches(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	batch := make([]models.Admission, maxRowsPerStatement*2+7)
	for i := range batch {
		batch[i] = newAdmission(func(a *models.Admission) {
			a.AdmissionDate = models.NewDate(2020, time.January, 1+i%28)
		})
	}

	err := db.ReplaceAdmissions(ctx, func(insert func([]models.Admission) error) error {
		return insert(batch)
	})
	checkNoError(t, err)

	n, err := db.CountAdmissions(ctx)
	checkNoError(t, err)
	checkInt64Equal(t, "count", n, int64(len(batch)))
}

func TestDataVersion_MovesOnEveryCommittedWrite(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	version := func() int64 {
		t.Helper()
		v, err := db.DataVersion(ctx)
		checkNoError(t, err)
		return v
	}

	v0 := version()
	seed(t, db, newAdmission())
	checkInt64Equal(t, "after create", version(), v0+1)

	bad := newAdmission(func(a *models.Admission) { a.HospitalStay = -1 })
	checkError(t, db.Create(ctx, &bad))
	checkInt64Equal(t, "after failed create", version(), v0+1)

	checkNoError(t, db.ReplaceAdmissions(ctx, func(insert func([]models.Admission) error) error {
		return insert([]models.Admission{newAdmission(), newAdmission()})
	}))
	checkInt64Equal(t, "after replace", version(), v0+2)

	checkError(t, db.ReplaceAdmissions(ctx, func(func([]models.Admission) error) error {
		return errors.New("abort")
	}))
	checkInt64Equal(t, "after rolled back replace", version(), v0+2)

	_, err := db.DeleteAll(ctx)
	checkNoError(t, err)
	checkInt64Equal(t, "after delete", version(), v0+3)
}

func TestCreate_ConcurrentWritesAllCommit(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a := newAdmission()
			errs <- db.Create(ctx, &a)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		checkNoError(t, err)
	}

	n, err := db.CountAdmissions(ctx)
	checkNoError(t, err)
	checkInt64Equal(t, "count", n, writers)

	v, err := db.DataVersion(ctx)
	checkNoError(t, err)
	checkInt64Equal(t, "version", v, writers)
}

func TestCreate_WriteSlotHonorsContext(t *testing.T) {
	db := setupTestDB(t)

	release, err := db.acquireWrite(context.Background())
	checkNoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	a := newAdmission()
	if err := db.Create(ctx, &a); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Create while a write is in progress = %v, want deadline exceeded", err)
	}
}
