package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSQLiteStorage_GetNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	st := newSQLiteStorage(db, testLogger())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv WHERE key = ?`)).
		WithArgs("user").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	if _, err := st.Get(context.Background(), "user"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLiteStorage_SetPropagatesError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	st := newSQLiteStorage(db, testLogger())
	diskFull := errors.New("database or disk is full")

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)`)).
		WithArgs("user", []byte("v"), sqlmock.AnyArg()).
		WillReturnError(diskFull)

	err = st.Set(context.Background(), "user", []byte("v"))
	if !errors.Is(err, diskFull) {
		t.Fatalf("Set() error = %v, want wrapped disk full error", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLiteStorage_GetQueryError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	st := newSQLiteStorage(db, testLogger())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv`)).
		WithArgs("user").
		WillReturnError(errors.New("no such table: kv"))

	_, err := st.Get(context.Background(), "user")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want query error", err)
	}
}
