package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/migueltaller/Commagra-Planing/internal/model"
)

func TestFileRepo_DefaultsOnFreshDir(t *testing.T) {
	repo, err := NewFileRepo(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), repo.Get())
}

func TestFileRepo_PutPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepo(dir, nil)
	require.NoError(t, err)

	s := model.Settings{
		ContactOne:           model.Contact{Label: "Oficina", Number: "600111222"},
		SheetEnabled:         true,
		SheetWebhookURL:      "https://script.google.com/macros/s/abc/exec",
		NotificationsEnabled: true,
	}
	require.NoError(t, repo.Put(s))

	reopened, err := NewFileRepo(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, s, reopened.Get())
}

func TestFileRepo_CorruptFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte("not json"), 0o644))

	repo, err := NewFileRepo(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), repo.Get())
}

func TestFileRepo_OlderRecordDefaultsNewFields(t *testing.T) {
	dir := t.TempDir()
	// A record persisted before the sheet fields existed.
	older := `{"contactOne":{"label":"Taller","number":"600333444"},"notificationsEnabled":true}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte(older), 0o644))

	repo, err := NewFileRepo(dir, nil)
	require.NoError(t, err)
	got := repo.Get()
	assert.Equal(t, "Taller", got.ContactOne.Label)
	assert.True(t, got.NotificationsEnabled)
	assert.False(t, got.SheetEnabled)
	assert.Empty(t, got.SheetWebhookURL)
}

func TestFileRepo_PutReplacesWholesale(t *testing.T) {
	repo, err := NewFileRepo(t.TempDir(), nil)
	require.NoError(t, err)

	require.NoError(t, repo.Put(model.Settings{
		ContactOne:   model.Contact{Label: "Oficina", Number: "600111222"},
		SheetEnabled: true,
	}))
	require.NoError(t, repo.Put(model.Settings{ManualSendEnabled: true}))

	got := repo.Get()
	assert.True(t, got.ManualSendEnabled)
	assert.False(t, got.SheetEnabled)
	assert.False(t, got.ContactOne.Configured())
}
