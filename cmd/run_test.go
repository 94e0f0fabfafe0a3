package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadBatteryFromResultArtifact(t *testing.T) {
	path := writeFile(t, "battery.json", `{
		"testCases": [
			{"id": "TC_001", "category": "valid", "request": {"method": "GET", "endpoint": "/x"}, "expected_response": {"status": 200}}
		],
		"summary": {"total": 1}
	}`)

	cases, err := loadBattery(path)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "TC_001", cases[0].ID)
}

func TestLoadBatteryFromBareArray(t *testing.T) {
	path := writeFile(t, "cases.json", `[
		{"id": "TC_001", "category": "valid", "request": {"method": "GET", "endpoint": "/x"}, "expected_response": {"status": [200, 201]}}
	]`)

	cases, err := loadBattery(path)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, []int{200, 201}, []int(cases[0].Expected.Status))
}

func TestLoadBatteryRejectsEmpty(t *testing.T) {
	path := writeFile(t, "empty.json", `{"summary": {"total": 0}}`)

	_, err := loadBattery(path)
	assert.ErrorContains(t, err, "contains no test cases")
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "_api_users__id_", sanitizeName("/api/users/{id}"))
}
