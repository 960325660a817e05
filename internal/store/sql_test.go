// internal/store/sql_test.go
//
// Unit-tests for the sqlx store using sqlmock.
//
// Run: go test ./internal/store -v

package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/escortde/internal/ad"
)

var adCols = []string{
	"id", "public_id", "name", "age", "gender", "city", "country", "phone", "email",
	"whatsapp", "telegram", "instagram", "twitter", "hair_color", "languages", "description",
	"services", "rates", "images", "status", "submitted_at",
}

func newMock(t *testing.T, driver string) (*SQL, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQL(sqlx.NewDb(db, driver)), mock
}

func adRow(rows *sqlmock.Rows, id string, pid any, city, country string, at time.Time) *sqlmock.Rows {
	return rows.AddRow(id, pid, "Mia", "24", "female", city, country, "+41 79", "",
		"", "", "", "", "blonde", `["German","English"]`, "desc",
		`[{"name":"Massage","included":true}]`, `[{"time":"1 hour","incall":"300","outcall":""}]`,
		`["a.jpg","b.jpg","c.jpg"]`, "approved", at)
}

func TestListApproved(t *testing.T) {
	s, mock := newMock(t, "mysql")
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	q := `SELECT ` + adColumns + ` FROM ads WHERE status = ? AND gender = ? AND LOWER(country) LIKE ? ORDER BY submitted_at DESC LIMIT ?`
	mock.ExpectQuery(regexp.QuoteMeta(q)).
		WithArgs("approved", "female", "switzerland%", 100).
		WillReturnRows(adRow(sqlmock.NewRows(adCols), "a1", int64(7), "Zürich", "Switzerland", at))

	got, err := s.ListApproved(context.Background(), Filter{Gender: ad.Female, Country: "Switzerland", Limit: 100})
	if err != nil {
		t.Fatalf("ListApproved error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	a := got[0]
	if a.City != "Zürich" || a.PublicID == nil || *a.PublicID != 7 {
		t.Fatalf("unexpected row: %+v", a)
	}
	if len(a.Languages) != 2 || a.Services[0].Name != "Massage" || a.Rates[0].Incall != "300" || len(a.Images) != 3 {
		t.Fatalf("list columns not decoded: %+v", a)
	}
	if !a.SubmittedAt.Equal(at) {
		t.Fatalf("submitted_at = %v, want %v", a.SubmittedAt, at)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestListApprovedRebindsForPostgres(t *testing.T) {
	s, mock := newMock(t, "pgx")

	q := `SELECT ` + adColumns + ` FROM ads WHERE status = $1 AND LOWER(country) LIKE $2 ORDER BY submitted_at DESC`
	mock.ExpectQuery(regexp.QuoteMeta(q)).
		WithArgs("approved", `100\%%`).
		WillReturnRows(sqlmock.NewRows(adCols))

	got, err := s.ListApproved(context.Background(), Filter{Country: "100%"})
	if err != nil {
		t.Fatalf("ListApproved error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestApprovedCities(t *testing.T) {
	s, mock := newMock(t, "mysql")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT city FROM ads WHERE status = ? AND gender = ? AND LOWER(country) LIKE ?`)).
		WithArgs("approved", "male", "ger%").
		WillReturnRows(sqlmock.NewRows([]string{"city"}).AddRow("Berlin").AddRow("berlin").AddRow("Köln"))

	got, err := s.ApprovedCities(context.Background(), ad.Male, "Ger")
	if err != nil {
		t.Fatalf("ApprovedCities error: %v", err)
	}
	if len(got) != 3 || got[2] != "Köln" {
		t.Fatalf("unexpected result: %#v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	s, mock := newMock(t, "mysql")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + adColumns + ` FROM ads WHERE id = ?`)).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(adCols))

	_, err := s.GetByID(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestGetByPublicIDNullPublicID(t *testing.T) {
	s, mock := newMock(t, "mysql")
	at := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + adColumns + ` FROM ads WHERE public_id = ?`)).
		WithArgs(int64(12)).
		WillReturnRows(adRow(sqlmock.NewRows(adCols), "ad_1700000000000_x1", nil, "Wien", "Austria", at))

	a, err := s.GetByPublicID(context.Background(), 12)
	if err != nil {
		t.Fatalf("GetByPublicID error: %v", err)
	}
	if a.PublicID != nil {
		t.Fatalf("PublicID = %v, want nil", *a.PublicID)
	}
	if a.Ident() != "ad_1700000000000_x1" {
		t.Fatalf("Ident = %q", a.Ident())
	}
}

func TestUpdateBuildsStableSet(t *testing.T) {
	s, mock := newMock(t, "mysql")
	status := ad.Approved
	city := "Basel"

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE ads SET city = ?, status = ? WHERE id = ?`)).
		WithArgs("Basel", "approved", "a1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + adColumns + ` FROM ads WHERE id = ?`)).
		WithArgs("a1").
		WillReturnRows(adRow(sqlmock.NewRows(adCols), "a1", int64(1), "Basel", "Switzerland", time.Now()))

	a, err := s.Update(context.Background(), "a1", Patch{City: &city, Status: &status})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if a.City != "Basel" {
		t.Fatalf("City = %q, want Basel", a.City)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestUpdateMissingRow(t *testing.T) {
	s, mock := newMock(t, "mysql")
	status := ad.Inactive

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE ads SET status = ? WHERE id = ?`)).
		WithArgs("inactive", "gone").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + adColumns + ` FROM ads WHERE id = ?`)).
		WithArgs("gone").
		WillReturnRows(sqlmock.NewRows(adCols))

	if _, err := s.Update(context.Background(), "gone", Patch{Status: &status}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s, mock := newMock(t, "mysql")

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM ads WHERE id = ?`)).
		WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM ads WHERE id = ?`)).
		WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := s.Delete(context.Background(), "a1")
	if err != nil || !ok {
		t.Fatalf("first delete = %v, %v; want true, nil", ok, err)
	}
	ok, err = s.Delete(context.Background(), "a1")
	if err != nil || ok {
		t.Fatalf("second delete = %v, %v; want false, nil", ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestContactRoundTrip(t *testing.T) {
	s, mock := newMock(t, "mysql")
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	c := &ad.ContactSubmission{ID: "c1", Name: "Ann", Subject: "Hi", Description: "hello there!", SubmittedAt: at, Status: ad.ContactPending}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO contact_submissions (` + contactColumns + `) VALUES (?, ?, ?, ?, ?, ?)`)).
		WithArgs("c1", "Ann", "Hi", "hello there!", at, "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE contact_submissions SET status = ? WHERE id = ?`)).
		WithArgs("reviewed", "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + contactColumns + ` FROM contact_submissions ORDER BY submitted_at DESC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "subject", "description", "submitted_at", "status"}).
			AddRow("c1", "Ann", "Hi", "hello there!", at, "reviewed"))

	ctx := context.Background()
	if _, err := s.CreateContact(ctx, c); err != nil {
		t.Fatalf("CreateContact error: %v", err)
	}
	if err := s.SetContactStatus(ctx, "c1", ad.ContactReviewed); err != nil {
		t.Fatalf("SetContactStatus error: %v", err)
	}
	got, err := s.ListContacts(ctx)
	if err != nil {
		t.Fatalf("ListContacts error: %v", err)
	}
	if len(got) != 1 || got[0].Status != ad.ContactReviewed {
		t.Fatalf("unexpected result: %#v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestSetContactStatusMissingRow(t *testing.T) {
	s, mock := newMock(t, "mysql")

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE contact_submissions SET status = ? WHERE id = ?`)).
		WithArgs("reviewed", "zz").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + contactColumns + ` FROM contact_submissions WHERE id = ?`)).
		WithArgs("zz").
		WillReturnError(sql.ErrNoRows)

	err := s.SetContactStatus(context.Background(), "zz", ad.ContactReviewed)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestSetContactStatusUnchangedRow(t *testing.T) {
	s, mock := newMock(t, "mysql")
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE contact_submissions SET status = ? WHERE id = ?`)).
		WithArgs("reviewed", "c1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + contactColumns + ` FROM contact_submissions WHERE id = ?`)).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "subject", "description", "submitted_at", "status"}).
			AddRow("c1", "Ann", "Hi", "hello there!", at, "reviewed"))

	if err := s.SetContactStatus(context.Background(), "c1", ad.ContactReviewed); err != nil {
		t.Fatalf("SetContactStatus error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestLikePrefixEscapes(t *testing.T) {
	cases := map[string]string{
		"Germany": "germany%",
		"a_b":     `a\_b%`,
		`c:\x`:    `c:\\x%`,
	}
	for in, want := range cases {
		if got := likePrefix(in); got != want {
			t.Errorf("likePrefix(%q) = %q, want %q", in, got, want)
		}
	}
}
