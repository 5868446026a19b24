package videorepo_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/funtube/funtube-server/internal/domain/video"
	"github.com/funtube/funtube-server/internal/infrastructure/repository/videorepo"
)

// sqlRecorder captures the statements gorm builds so dry-run sessions can be
// inspected without a database connection.
type sqlRecorder struct {
	statements []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface { return r }

func (r *sqlRecorder) Info(context.Context, string, ...interface{})  {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{})  {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{}) {}

func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.statements = append(r.statements, sql)
}

func (r *sqlRecorder) last(t *testing.T) string {
	t.Helper()
	if len(r.statements) == 0 {
		t.Fatal("no SQL statements recorded")
	}
	return r.statements[len(r.statements)-1]
}

func dryRunRepository(t *testing.T) (*videorepo.Repository, *sqlRecorder) {
	t.Helper()
	recorder := &sqlRecorder{}
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "postgres://localhost:5432/funtube?sslmode=disable",
	}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 recorder,
	})
	if err != nil {
		t.Fatalf("open dry-run session: %v", err)
	}
	return videorepo.New(db), recorder
}

func TestUpdateDoesNotWriteViews(t *testing.T) {
	repo, recorder := dryRunRepository(t)

	err := repo.Update(context.Background(), &video.Video{
		ID:           "vid_000000000000000000000001",
		OwnerID:      "user_00000000000000000000001",
		Title:        "updated title",
		Description:  "updated description",
		ThumbnailURL: "/uploads/thumbnails/t.png",
		VideoURL:     "/uploads/videos/v.mp4",
		Tags:         []string{"go"},
		Views:        7,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	sql := recorder.last(t)
	if !strings.Contains(sql, `UPDATE "videos" SET`) {
		t.Fatalf("expected an UPDATE on videos, got %q", sql)
	}
	if !strings.Contains(sql, `"title"`) {
		t.Fatalf("expected title to be written, got %q", sql)
	}
	if strings.Contains(sql, `"views"`) {
		t.Fatalf("edit must not write the view counter, got %q", sql)
	}
}

func TestIncrementViewsIsAtomic(t *testing.T) {
	repo, recorder := dryRunRepository(t)

	// Dry-run updates affect zero rows, which reads as video-not-found.
	v, err := repo.IncrementViews(context.Background(), "vid_000000000000000000000001")
	if err != nil {
		t.Fatalf("IncrementViews: %v", err)
	}
	if v != nil {
		t.Fatalf("expected nil video for zero affected rows, got %+v", v)
	}

	sql := recorder.last(t)
	if !strings.Contains(sql, "views + 1") {
		t.Fatalf("expected a relative counter bump, got %q", sql)
	}
}
