package main

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-hub/attendance-regularity/config"
	"github.com/school-hub/attendance-regularity/internal/domain/shared"
)

func execute(args ...string) (string, error) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd().Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"report", "at-risk", "compare", "student", "runs", "invalidate", "migrate", "version"} {
		assert.True(t, names[want], want)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := execute("version")
	require.NoError(t, err)
	assert.Equal(t, "regularity version 0.1.0 (build: dev)\n", out)
}

func TestReportCmd_RequiresFlags(t *testing.T) {
	_, err := execute("report", "--course", "c-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"from"`)
	assert.Equal(t, 2, exitCode(err))
}

func TestReportCmd_RejectsInvertedWindow(t *testing.T) {
	_, err := execute("report", "--course", "c-1", "--from", "2025-03-28", "--to", "2025-03-03")
	require.Error(t, err)
	assert.True(t, shared.IsInvalidRange(err))
	assert.Equal(t, 2, exitCode(err))
}

func TestCompareCmd_NamesBadPeriod(t *testing.T) {
	_, err := execute("compare", "--course", "c-1",
		"--from1", "2025-03-03", "--to1", "2025-03-14",
		"--from2", "2025-03-17", "--to2", "17/03/2025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "period 2")
}

func TestMigrateCmd_RejectsUnknownAction(t *testing.T) {
	_, err := execute("migrate", "sideways")
	assert.Error(t, err)
}

func TestExitCode(t *testing.T) {
	notFound := shared.NewDomainError("query", "GetCourseReport", shared.ErrNotFound, "course not found")
	down := shared.SourceUnavailable("op", "fetch roster", errors.New("refused"))

	assert.Equal(t, 3, exitCode(fmt.Errorf("wrapped: %w", notFound)))
	assert.Equal(t, 4, exitCode(down))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
}

func TestDatabaseConfig(t *testing.T) {
	pc := databaseConfig(config.DatabaseConfig{URL: "postgres://u:p@db/attendance", MaxConns: 4})
	assert.Equal(t, "postgres://u:p@db/attendance", pc.DSN())
	assert.Equal(t, int32(4), pc.MaxConns)
}

func TestLoadConfig_PolicyFileFlag(t *testing.T) {
	_, err := loadConfig(&rootOptions{policyFile: "/nonexistent/policy.yaml"})
	assert.Error(t, err)

	cfg, err := loadConfig(&rootOptions{logLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
}
