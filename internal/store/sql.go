// internal/store/sql.go
//
// sqlx implementation of Store.
//
// Context
// -------
// Queries are written once with "?" placeholders and passed through
// db.Rebind, so the same code runs on go-sql-driver/mysql and on Postgres
// through pgx's database/sql driver.  List columns (languages, services,
// rates, images) are JSON text handled by ad.List.
//
// Country filters use `LOWER(country) LIKE ?` with the user value escaped,
// which is the portable form of a case-insensitive prefix match.
//
// Notes
// -----
// • MySQL DSNs need parseTime=true so submitted_at scans into time.Time.
// • Update re-reads the row instead of trusting RowsAffected, because
//   MySQL reports 0 for an UPDATE that changes nothing.
// • Oxford commas, two spaces after periods.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/escortde/internal/ad"
)

const adColumns = `id, public_id, name, age, gender, city, country, phone, email, ` +
	`whatsapp, telegram, instagram, twitter, hair_color, languages, description, ` +
	`services, rates, images, status, submitted_at`

const contactColumns = `id, name, subject, description, submitted_at, status`

// SQL is a Store backed by a relational database.
type SQL struct {
	db *sqlx.DB
}

// NewSQL wraps an open pool.
func NewSQL(db *sqlx.DB) *SQL { return &SQL{db: db} }

var _ Store = (*SQL)(nil)

// -----------------------------------------------------------------------------
// Ads
// -----------------------------------------------------------------------------

// ListApproved returns approved ads, newest first.
func (s *SQL) ListApproved(ctx context.Context, f Filter) ([]ad.Ad, error) {
	where, args := approvedWhere(f.Gender, f.Country)
	q := `SELECT ` + adColumns + ` FROM ads WHERE ` + where + ` ORDER BY submitted_at DESC`
	if f.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	var out []ad.Ad
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("list approved: %w", err)
	}
	return out, nil
}

// ApprovedCities returns the city of every approved ad matching gender and
// country prefix.  Callers aggregate the counts.
func (s *SQL) ApprovedCities(ctx context.Context, g ad.Gender, countryPrefix string) ([]string, error) {
	where, args := approvedWhere(g, countryPrefix)
	q := `SELECT city FROM ads WHERE ` + where

	var out []string
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("approved cities: %w", err)
	}
	return out, nil
}

// ListAll returns every ad regardless of status, newest first.
func (s *SQL) ListAll(ctx context.Context) ([]ad.Ad, error) {
	var out []ad.Ad
	q := `SELECT ` + adColumns + ` FROM ads ORDER BY submitted_at DESC`
	if err := s.db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list all: %w", err)
	}
	return out, nil
}

// GetByID fetches one ad in any status.
func (s *SQL) GetByID(ctx context.Context, id string) (*ad.Ad, error) {
	return s.getOne(ctx, `id = ?`, id)
}

// GetByPublicID fetches one ad by its numeric public id.
func (s *SQL) GetByPublicID(ctx context.Context, n int64) (*ad.Ad, error) {
	return s.getOne(ctx, `public_id = ?`, n)
}

func (s *SQL) getOne(ctx context.Context, cond string, arg any) (*ad.Ad, error) {
	var a ad.Ad
	q := s.db.Rebind(`SELECT ` + adColumns + ` FROM ads WHERE ` + cond)
	if err := s.db.GetContext(ctx, &a, q, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get ad: %w", err)
	}
	return &a, nil
}

// Create inserts a and returns the stored row, including the public id the
// database assigned.
func (s *SQL) Create(ctx context.Context, a *ad.Ad) (*ad.Ad, error) {
	q := s.db.Rebind(`INSERT INTO ads (id, name, age, gender, city, country, phone, ` +
		`email, whatsapp, telegram, instagram, twitter, hair_color, languages, ` +
		`description, services, rates, images, status, submitted_at) ` +
		`VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := s.db.ExecContext(ctx, q,
		a.ID, a.Name, a.Age, a.Gender, a.City, a.Country, a.Phone,
		a.Email, a.WhatsApp, a.Telegram, a.Instagram, a.Twitter, a.HairColor, a.Languages,
		a.Description, a.Services, a.Rates, a.Images, a.Status, a.SubmittedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create ad: %w", err)
	}
	return s.GetByID(ctx, a.ID)
}

// Update applies p to the ad and returns the stored row.  Last write wins.
func (s *SQL) Update(ctx context.Context, id string, p Patch) (*ad.Ad, error) {
	cols, args := patchColumns(p)
	if len(cols) == 0 {
		return s.GetByID(ctx, id)
	}

	q := `UPDATE ads SET ` + strings.Join(cols, ", ") + ` WHERE id = ?`
	args = append(args, id)
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("update ad: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Delete removes the ad permanently.  ok is false when no row matched.
func (s *SQL) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM ads WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("delete ad: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete ad: %w", err)
	}
	return n > 0, nil
}

// -----------------------------------------------------------------------------
// Contact submissions
// -----------------------------------------------------------------------------

// ListContacts returns every submission, newest first.
func (s *SQL) ListContacts(ctx context.Context) ([]ad.ContactSubmission, error) {
	var out []ad.ContactSubmission
	q := `SELECT ` + contactColumns + ` FROM contact_submissions ORDER BY submitted_at DESC`
	if err := s.db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return out, nil
}

// GetContact fetches one submission.
func (s *SQL) GetContact(ctx context.Context, id string) (*ad.ContactSubmission, error) {
	var c ad.ContactSubmission
	q := s.db.Rebind(`SELECT ` + contactColumns + ` FROM contact_submissions WHERE id = ?`)
	if err := s.db.GetContext(ctx, &c, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return &c, nil
}

// CreateContact inserts c.
func (s *SQL) CreateContact(ctx context.Context, c *ad.ContactSubmission) (*ad.ContactSubmission, error) {
	q := s.db.Rebind(`INSERT INTO contact_submissions (` + contactColumns + `) VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, q,
		c.ID, c.Name, c.Subject, c.Description, c.SubmittedAt, c.Status); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	out := *c
	return &out, nil
}

// SetContactStatus writes the review state.
func (s *SQL) SetContactStatus(ctx context.Context, id string, st ad.ContactStatus) error {
	q := s.db.Rebind(`UPDATE contact_submissions SET status = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, q, st, id)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	if n > 0 {
		return nil
	}
	// MySQL reports 0 for a matched row whose status was already st.
	_, err = s.GetContact(ctx, id)
	return err
}

// DeleteContact removes the submission.  ok is false when no row matched.
func (s *SQL) DeleteContact(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM contact_submissions WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("delete contact: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete contact: %w", err)
	}
	return n > 0, nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func approvedWhere(g ad.Gender, country string) (string, []any) {
	conds := []string{`status = ?`}
	args := []any{ad.Approved}
	if g != "" {
		conds = append(conds, `gender = ?`)
		args = append(args, g)
	}
	if country = strings.TrimSpace(country); country != "" {
		conds = append(conds, `LOWER(country) LIKE ?`)
		args = append(args, likePrefix(country))
	}
	return strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePrefix lower-cases s, escapes LIKE metacharacters, and appends "%".
func likePrefix(s string) string {
	return likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// patchColumns lists "col = ?" fragments in a fixed order so generated SQL
// is stable.
func patchColumns(p Patch) ([]string, []any) {
	var cols []string
	var args []any
	add := func(col string, v any) {
		cols = append(cols, col+" = ?")
		args = append(args, v)
	}
	str := func(col string, v *string) {
		if v != nil {
			add(col, *v)
		}
	}

	str("name", p.Name)
	str("age", p.Age)
	if p.Gender != nil {
		add("gender", *p.Gender)
	}
	str("city", p.City)
	str("country", p.Country)
	str("phone", p.Phone)
	str("email", p.Email)
	str("whatsapp", p.WhatsApp)
	str("telegram", p.Telegram)
	str("instagram", p.Instagram)
	str("twitter", p.Twitter)
	str("hair_color", p.HairColor)
	if p.Languages != nil {
		add("languages", ad.List[string](*p.Languages))
	}
	str("description", p.Description)
	if p.Services != nil {
		add("services", ad.List[ad.Service](*p.Services))
	}
	if p.Rates != nil {
		add("rates", ad.List[ad.Rate](*p.Rates))
	}
	if p.Images != nil {
		add("images", ad.List[string](*p.Images))
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	return cols, args
}
