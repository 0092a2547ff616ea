// Package settings holds the user preferences shown in the settings menu.
//
// Values are persisted through the state store one key at a time. The
// store debounces writes, so setters can be called on every tick of a
// slider without hitting the database.
package settings

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/rebind/internal/observer"
)

// Persisted keys.
const (
	KeyVSync       = "VSync"
	KeyDisplayMode = "DisplayMode"
	KeyMusicVolume = "MusicVolume"
	KeySFXVolume   = "SFXVolume"
	KeyMainVolume  = "MainVolume"
	KeyRumble      = "Rumble"
	KeyLanguage    = "GameLanguage"
	KeyResolution  = "Resolution"
)

// DisplayMode is the window mode.
type DisplayMode int

const (
	Fullscreen DisplayMode = iota
	Windowed
)

func (m DisplayMode) String() string {
	if m == Windowed {
		return "windowed"
	}
	return "fullscreen"
}

// MaxRumble is the top of the rumble scale.
const MaxRumble = 10

var intDefaults = map[string]int{
	KeyVSync:       0,
	KeyDisplayMode: int(Fullscreen),
	KeyMusicVolume: 80,
	KeySFXVolume:   80,
	KeyMainVolume:  80,
	KeyRumble:      8,
}

var stringDefaults = map[string]string{
	KeyLanguage:   "en",
	KeyResolution: "",
}

// IntKeys returns the integer settings in display order.
func IntKeys() []string {
	return []string{KeyVSync, KeyDisplayMode, KeyMusicVolume, KeySFXVolume, KeyMainVolume, KeyRumble}
}

// StringKeys returns the string settings in display order.
func StringKeys() []string {
	return []string{KeyLanguage, KeyResolution}
}

// Persister stores raw setting values.
type Persister interface {
	GetString(key string) (string, bool, error)
	SetString(key, value string)
}

// Manager holds the current settings.
type Manager struct {
	p   Persister
	log logrus.FieldLogger

	ints        map[string]int
	strs        map[string]string
	languageSet bool

	changed observer.List[string]
}

// Load reads every known setting from p, using defaults for missing or
// unreadable values.
func Load(p Persister, log logrus.FieldLogger) (*Manager, error) {
	m := &Manager{
		p:    p,
		log:  log,
		ints: make(map[string]int, len(intDefaults)),
		strs: make(map[string]string, len(stringDefaults)),
	}
	for key, def := range intDefaults {
		m.ints[key] = def
		raw, ok, err := p.GetString(key)
		if err != nil {
			return nil, fmt.Errorf("load setting %s: %w", key, err)
		}
		if !ok {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			log.WithFields(logrus.Fields{"key": key, "value": raw}).Warn("invalid setting value, using default")
			continue
		}
		m.ints[key] = v
	}
	for key, def := range stringDefaults {
		m.strs[key] = def
		raw, ok, err := p.GetString(key)
		if err != nil {
			return nil, fmt.Errorf("load setting %s: %w", key, err)
		}
		if ok {
			m.strs[key] = raw
			if key == KeyLanguage {
				m.languageSet = true
			}
		}
	}
	return m, nil
}

// Subscribe registers fn, called with the key of every changed setting.
func (m *Manager) Subscribe(fn func(key string)) (unsubscribe func()) {
	return m.changed.Subscribe(fn)
}

// GetInt returns an integer setting. Unknown keys log a warning and fall
// back to the persisted value, or zero.
func (m *Manager) GetInt(key string) int {
	if v, ok := m.ints[key]; ok {
		return v
	}
	m.log.WithField("key", key).Warn("unknown integer setting")
	raw, ok, err := m.p.GetString(key)
	if err != nil || !ok {
		return 0
	}
	v, _ := strconv.Atoi(raw)
	return v
}

// GetString returns a string setting. Unknown keys log a warning and fall
// back to the persisted value, or "".
func (m *Manager) GetString(key string) string {
	if v, ok := m.strs[key]; ok {
		return v
	}
	m.log.WithField("key", key).Warn("unknown string setting")
	raw, _, err := m.p.GetString(key)
	if err != nil {
		return ""
	}
	return raw
}

// SetInt stores an integer setting and notifies subscribers.
func (m *Manager) SetInt(key string, v int) {
	m.ints[key] = v
	m.p.SetString(key, strconv.Itoa(v))
	m.changed.Notify(key)
}

// SetString stores a string setting and notifies subscribers.
func (m *Manager) SetString(key, v string) {
	m.strs[key] = v
	if key == KeyLanguage {
		m.languageSet = true
	}
	m.p.SetString(key, v)
	m.changed.Notify(key)
}

func (m *Manager) VSync() bool { return m.ints[KeyVSync] != 0 }

func (m *Manager) SetVSync(on bool) {
	v := 0
	if on {
		v = 1
	}
	m.SetInt(KeyVSync, v)
}

func (m *Manager) DisplayMode() DisplayMode { return DisplayMode(m.ints[KeyDisplayMode]) }

func (m *Manager) SetDisplayMode(mode DisplayMode) { m.SetInt(KeyDisplayMode, int(mode)) }

func (m *Manager) MusicVolume() int { return m.ints[KeyMusicVolume] }

func (m *Manager) SetMusicVolume(v int) { m.SetInt(KeyMusicVolume, clamp(v, 0, 100)) }

func (m *Manager) SFXVolume() int { return m.ints[KeySFXVolume] }

func (m *Manager) SetSFXVolume(v int) { m.SetInt(KeySFXVolume, clamp(v, 0, 100)) }

func (m *Manager) MainVolume() int { return m.ints[KeyMainVolume] }

func (m *Manager) SetMainVolume(v int) { m.SetInt(KeyMainVolume, clamp(v, 0, 100)) }

// Rumble returns the rumble strength, 0 to MaxRumble.
func (m *Manager) Rumble() int { return m.ints[KeyRumble] }

func (m *Manager) SetRumble(v int) { m.SetInt(KeyRumble, clamp(v, 0, MaxRumble)) }

// RumbleScale returns the rumble strength as a factor from 0 to 1.
func (m *Manager) RumbleScale() float64 {
	return float64(clamp(m.Rumble(), 0, MaxRumble)) / MaxRumble
}

func (m *Manager) Language() string { return m.strs[KeyLanguage] }

// LanguageSet reports whether a language was ever chosen, as opposed to
// the default being in effect.
func (m *Manager) LanguageSet() bool { return m.languageSet }

func (m *Manager) SetLanguage(code string) { m.SetString(KeyLanguage, code) }

// Resolution returns the stored window size. ok is false when none is
// stored or the value is malformed.
func (m *Manager) Resolution() (width, height int, ok bool) {
	raw := m.strs[KeyResolution]
	if raw == "" {
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(raw, "%dx%d", &width, &height); err != nil {
		return 0, 0, false
	}
	return width, height, true
}

func (m *Manager) SetResolution(width, height int) {
	m.SetString(KeyResolution, FormatResolution(width, height))
}

// FormatResolution formats a window size the way it is persisted.
func FormatResolution(width, height int) string {
	return strconv.Itoa(width) + "x" + strconv.Itoa(height)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
