package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/noteandcode/sitelinks"
)

// Compile-time interface verification.
var _ sitelinks.ScanService = (*ScanService)(nil)

// ScanService implements sitelinks.ScanService using SQLite.
type ScanService struct {
	db *DB
}

// NewScanService creates a new ScanService.
func NewScanService(db *DB) *ScanService {
	return &ScanService{db: db}
}

// CreateScan stores a scan, assigning its ID and CreatedAt. The hash is
// computed from the roots when not already set.
func (s *ScanService) CreateScan(ctx context.Context, scan *sitelinks.Scan) error {
	if err := scan.Validate(); err != nil {
		return err
	}

	scan.ID = uuid.New().String()
	scan.CreatedAt = time.Now().UTC()
	if scan.Roots == nil {
		scan.Roots = []string{}
	}
	if scan.Hash == "" {
		scan.Hash = sitelinks.HashRoots(scan.Roots)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scans (id, url, roots, root_count, hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, scan.ID, scan.URL, joinRoots(scan.Roots), len(scan.Roots), scan.Hash, formatTime(scan.CreatedAt))

	return err
}

// FindScanByID retrieves a scan by ID.
func (s *ScanService) FindScanByID(ctx context.Context, id string) (*sitelinks.Scan, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, roots, hash, created_at
		FROM scans
		WHERE id = ?
	`, id)

	scan, err := scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sitelinks.Errorf(sitelinks.ENOTFOUND, "scan not found")
	}
	if err != nil {
		return nil, err
	}
	return scan, nil
}

// FindScans retrieves scans matching the filter, newest first.
func (s *ScanService) FindScans(ctx context.Context, filter sitelinks.ScanFilter) ([]*sitelinks.Scan, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, url, roots, hash, created_at FROM scans WHERE 1=1")

	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scans := make([]*sitelinks.Scan, 0)
	for rows.Next() {
		scan, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		scans = append(scans, scan)
	}

	return scans, rows.Err()
}

// DeleteScan permanently removes a scan.
func (s *ScanService) DeleteScan(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM scans WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sitelinks.Errorf(sitelinks.ENOTFOUND, "scan not found")
	}

	return nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(row rowScanner) (*sitelinks.Scan, error) {
	var scan sitelinks.Scan
	var roots, createdAt string

	if err := row.Scan(&scan.ID, &scan.URL, &roots, &scan.Hash, &createdAt); err != nil {
		return nil, err
	}

	var err error
	scan.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	scan.Roots = splitRoots(roots)

	return &scan, nil
}
