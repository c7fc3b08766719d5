package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-hub/attendance-regularity/internal/domain/attendance"
	"github.com/school-hub/attendance-regularity/internal/domain/shared"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.App.Environment)
	assert.Equal(t, 10*time.Minute, cfg.Report.CacheTTL)
	assert.Equal(t, 3, cfg.Report.FetchAttempts)
	assert.Equal(t, "info", cfg.Observability.LogLevel)

	policy, err := cfg.Policy.RegularityPolicy()
	require.NoError(t, err)
	assert.Equal(t, attendance.DefaultPolicy().Fingerprint(), policy.Fingerprint())
}

func TestLoad_DatabaseFromParts(t *testing.T) {
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "reader")
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://reader:pw@db:5432/attendance?sslmode=disable", cfg.Database.URL)
}

func TestLoad_PolicyThresholdsFromEnv(t *testing.T) {
	t.Setenv("POLICY_REGULAR_THRESHOLD", "90")
	t.Setenv("POLICY_AT_RISK_THRESHOLD", "80")

	cfg, err := Load()
	require.NoError(t, err)

	policy, err := cfg.Policy.RegularityPolicy()
	require.NoError(t, err)
	assert.Equal(t, 90.0, policy.RegularThreshold())
	assert.Equal(t, 80.0, policy.AtRiskThreshold())
}

func TestLoad_InvalidPolicyRejected(t *testing.T) {
	t.Setenv("POLICY_REGULAR_THRESHOLD", "70")
	t.Setenv("POLICY_AT_RISK_THRESHOLD", "80")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestLoad_JoinsErrors(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("REPORT_FETCH_ATTEMPTS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required in production")
	assert.Contains(t, err.Error(), "REPORT_FETCH_ATTEMPTS must be at least 1")
}

func TestLoadPolicyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	body := `
regular_threshold: 80
at_risk_threshold: 70
weights:
  half_absence: 0.4
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	pc, err := LoadPolicyFile(path)
	require.NoError(t, err)

	assert.Equal(t, 80.0, pc.RegularThreshold)
	assert.Equal(t, 70.0, pc.AtRiskThreshold)
	assert.Equal(t, 0.4, pc.Weights.Half)
	assert.Equal(t, 1.0, pc.Weights.Absent)
	assert.Equal(t, path, pc.File)
}

func TestLoad_PolicyFileThenEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("regular_threshold: 80\nat_risk_threshold: 60\n"), 0o600))
	t.Setenv("POLICY_FILE", path)
	t.Setenv("POLICY_AT_RISK_THRESHOLD", "65")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 80.0, cfg.Policy.RegularThreshold)
	assert.Equal(t, 65.0, cfg.Policy.AtRiskThreshold)
}

func TestLoadPolicyFile_Missing(t *testing.T) {
	_, err := LoadPolicyFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
