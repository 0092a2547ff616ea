package settings

import (
	"errors"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/rebind/internal/state"
)

func TestLoad_Defaults(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	m, err := Load(state.NewMock(), log)
	require.NoError(t, err)

	assert.False(t, m.VSync())
	assert.Equal(t, Fullscreen, m.DisplayMode())
	assert.Equal(t, 80, m.MusicVolume())
	assert.Equal(t, 80, m.SFXVolume())
	assert.Equal(t, 80, m.MainVolume())
	assert.Equal(t, 8, m.Rumble())
	assert.Equal(t, "en", m.Language())
	assert.False(t, m.LanguageSet())

	_, _, ok := m.Resolution()
	assert.False(t, ok)
}

func TestLoad_PersistedValues(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	p := state.NewMock()
	p.SetString(KeyMusicVolume, "35")
	p.SetString(KeyDisplayMode, "1")
	p.SetString(KeySFXVolume, "loud")
	p.SetString(KeyLanguage, "fr")
	p.SetString(KeyResolution, "1280x720")

	m, err := Load(p, log)
	require.NoError(t, err)

	assert.Equal(t, 35, m.MusicVolume())
	assert.Equal(t, Windowed, m.DisplayMode())
	assert.Equal(t, 80, m.SFXVolume(), "malformed value falls back to default")
	assert.Len(t, hook.Entries, 1)
	assert.Equal(t, "fr", m.Language())
	assert.True(t, m.LanguageSet())

	w, h, ok := m.Resolution()
	require.True(t, ok)
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
}

func TestLoad_StorageError(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	p := state.NewMock()
	p.SetError(errors.New("locked"))

	_, err := Load(p, log)
	assert.Error(t, err)
}

func TestSetters_PersistAndNotify(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	p := state.NewMock()
	m, err := Load(p, log)
	require.NoError(t, err)

	var changed []string
	m.Subscribe(func(key string) { changed = append(changed, key) })

	m.SetVSync(true)
	m.SetMainVolume(150)
	m.SetRumble(-3)
	m.SetResolution(1920, 1080)
	m.SetLanguage("de")

	assert.Equal(t, []string{KeyVSync, KeyMainVolume, KeyRumble, KeyResolution, KeyLanguage}, changed)
	assert.Equal(t, "1", p.Value(KeyVSync))
	assert.Equal(t, "100", p.Value(KeyMainVolume))
	assert.Equal(t, 0, m.Rumble())
	assert.Equal(t, "1920x1080", p.Value(KeyResolution))
	assert.True(t, m.LanguageSet())
}

func TestRumbleScale(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	m, err := Load(state.NewMock(), log)
	require.NoError(t, err)

	assert.InDelta(t, 0.8, m.RumbleScale(), 1e-9)
	m.SetRumble(MaxRumble)
	assert.InDelta(t, 1.0, m.RumbleScale(), 1e-9)
}

func TestUnknownKeys(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	p := state.NewMock()
	p.SetString("Brightness", "7")
	m, err := Load(p, log)
	require.NoError(t, err)

	assert.Equal(t, 7, m.GetInt("Brightness"))
	assert.Equal(t, 0, m.GetInt("Contrast"))
	assert.Equal(t, "", m.GetString("Theme"))
	assert.Len(t, hook.Entries, 3)

	assert.Equal(t, 80, m.GetInt(KeyMusicVolume))
	assert.Equal(t, "en", m.GetString(KeyLanguage))
	assert.Len(t, hook.Entries, 3)
}
