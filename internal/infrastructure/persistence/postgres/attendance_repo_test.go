package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/school-hub/attendance-regularity/internal/domain/attendance"
)

func ptr(s string) *string { return &s }

func TestRecordRow_ToRecord(t *testing.T) {
	loc := time.FixedZone("ART", -3*60*60)
	row := recordRow{
		StudentID:           "s-1",
		CourseID:            "c-1",
		Date:                time.Date(2025, 3, 3, 0, 0, 0, 0, loc),
		State:               "media_falta",
		JustificationReason: ptr("  "),
		OtherReasonText:     ptr(" turno "),
	}

	rec := row.toRecord()

	assert.Equal(t, attendance.StateHalfAbsence, rec.State)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), rec.Date)
	assert.Nil(t, rec.JustificationReason)
	assert.Nil(t, rec.ExclusionReason)
	assert.Equal(t, "turno", *rec.OtherReasonText)
}

func TestRecordRow_UnknownStateIsKept(t *testing.T) {
	rec := recordRow{State: "tardanza"}.toRecord()
	assert.Equal(t, attendance.State("tardanza"), rec.State)
	assert.False(t, rec.State.IsValid())
}

func TestErrorHelpers(t *testing.T) {
	assert.True(t, IsNoRows(pgx.ErrNoRows))
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func TestConfig_DSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Password = "secret"
	assert.Equal(t,
		"host=localhost port=5432 dbname=attendance user=postgres password=secret sslmode=disable connect_timeout=10",
		cfg.DSN())

	cfg.URL = "postgres://u:p@db:5432/attendance"
	assert.Equal(t, "postgres://u:p@db:5432/attendance", cfg.DSN())

	pc, err := cfg.PoolConfig()
	assert.NoError(t, err)
	assert.Equal(t, int32(10), pc.MaxConns)
}

func TestGetMigrations_Ordered(t *testing.T) {
	migs := GetMigrations()
	for i, m := range migs {
		assert.Equal(t, i+1, m.Version)
		assert.NotEmpty(t, m.UpSQL)
		assert.NotEmpty(t, m.DownSQL)
	}
	assert.Contains(t, migs[1].UpSQL, "UNIQUE (student_id, course_id, date)")
}
