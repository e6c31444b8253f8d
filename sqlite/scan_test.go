package sqlite_test

import (
	"context"
	"testing"

	"github.com/noteandcode/sitelinks"
	"github.com/noteandcode/sitelinks/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func createScan(t *testing.T, svc *sqlite.ScanService, url string, roots ...string) *sitelinks.Scan {
	t.Helper()
	scan := &sitelinks.Scan{URL: url, Roots: roots}
	require.NoError(t, svc.CreateScan(context.Background(), scan))
	return scan
}

func TestScanService_CreateScan(t *testing.T) {
	t.Parallel()

	t.Run("assigns ID, timestamp and hash", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewScanService(setupTestDB(t))
		scan := createScan(t, svc, "https://example.com", "https://a.com/", "https://b.com/")

		assert.NotEmpty(t, scan.ID)
		assert.False(t, scan.CreatedAt.IsZero())
		assert.Equal(t, sitelinks.HashRoots([]string{"https://a.com/", "https://b.com/"}), scan.Hash)
	})

	t.Run("stores root count", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewScanService(db)
		scan := createScan(t, svc, "https://example.com", "https://a.com/", "https://b.com/")

		var count int
		err := db.QueryRowContext(context.Background(), "SELECT root_count FROM scans WHERE id = ?", scan.ID).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("returns error for invalid scan", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewScanService(setupTestDB(t))
		err := svc.CreateScan(context.Background(), &sitelinks.Scan{})

		require.Error(t, err)
		assert.Equal(t, sitelinks.EINVALID, sitelinks.ErrorCode(err))
	})
}

func TestScanService_FindScanByID(t *testing.T) {
	t.Parallel()

	t.Run("returns scan when found", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewScanService(setupTestDB(t))
		scan := createScan(t, svc, "https://example.com", "https://a.com/", "https://b.com/")

		found, err := svc.FindScanByID(context.Background(), scan.ID)

		require.NoError(t, err)
		assert.Equal(t, scan.ID, found.ID)
		assert.Equal(t, "https://example.com", found.URL)
		assert.Equal(t, []string{"https://a.com/", "https://b.com/"}, found.Roots)
		assert.Equal(t, scan.Hash, found.Hash)
		assert.True(t, scan.CreatedAt.Equal(found.CreatedAt))
	})

	t.Run("empty scan round trips as empty", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewScanService(setupTestDB(t))
		scan := createScan(t, svc, "https://example.com")

		found, err := svc.FindScanByID(context.Background(), scan.ID)

		require.NoError(t, err)
		assert.True(t, found.Empty())
		assert.NotNil(t, found.Roots)
	})

	t.Run("returns ENOTFOUND for missing scan", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewScanService(setupTestDB(t))
		_, err := svc.FindScanByID(context.Background(), "nonexistent")

		require.Error(t, err)
		assert.Equal(t, sitelinks.ENOTFOUND, sitelinks.ErrorCode(err))
	})
}

func TestScanService_FindScans(t *testing.T) {
	t.Parallel()

	t.Run("returns newest first", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewScanService(setupTestDB(t))
		first := createScan(t, svc, "https://one.com")
		second := createScan(t, svc, "https://two.com")
		third := createScan(t, svc, "https://three.com")

		scans, err := svc.FindScans(context.Background(), sitelinks.ScanFilter{})

		require.NoError(t, err)
		require.Len(t, scans, 3)
		assert.Equal(t, third.ID, scans[0].ID)
		assert.Equal(t, second.ID, scans[1].ID)
		assert.Equal(t, first.ID, scans[2].ID)
	})

	t.Run("filters by URL", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewScanService(setupTestDB(t))
		createScan(t, svc, "https://one.com")
		want := createScan(t, svc, "https://two.com")

		url := "https://two.com"
		scans, err := svc.FindScans(context.Background(), sitelinks.ScanFilter{URL: &url})

		require.NoError(t, err)
		require.Len(t, scans, 1)
		assert.Equal(t, want.ID, scans[0].ID)
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewScanService(setupTestDB(t))
		for _, u := range []string{"https://a.com", "https://b.com", "https://c.com", "https://d.com"} {
			createScan(t, svc, u)
		}

		scans, err := svc.FindScans(context.Background(), sitelinks.ScanFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, scans, 2)
		assert.Equal(t, "https://c.com", scans[0].URL)
		assert.Equal(t, "https://b.com", scans[1].URL)

		scans, err = svc.FindScans(context.Background(), sitelinks.ScanFilter{Offset: 3})
		require.NoError(t, err)
		require.Len(t, scans, 1)
		assert.Equal(t, "https://a.com", scans[0].URL)
	})

	t.Run("returns empty slice when nothing matches", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewScanService(setupTestDB(t))
		scans, err := svc.FindScans(context.Background(), sitelinks.ScanFilter{})

		require.NoError(t, err)
		assert.NotNil(t, scans)
		assert.Empty(t, scans)
	})
}

func TestScanService_DeleteScan(t *testing.T) {
	t.Parallel()

	t.Run("removes scan", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewScanService(setupTestDB(t))
		scan := createScan(t, svc, "https://example.com", "https://a.com/")

		require.NoError(t, svc.DeleteScan(context.Background(), scan.ID))

		_, err := svc.FindScanByID(context.Background(), scan.ID)
		assert.Equal(t, sitelinks.ENOTFOUND, sitelinks.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for missing scan", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewScanService(setupTestDB(t))
		err := svc.DeleteScan(context.Background(), "nonexistent")

		require.Error(t, err)
		assert.Equal(t, sitelinks.ENOTFOUND, sitelinks.ErrorCode(err))
	})
}
