package game

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	settingsObject   = "settings"
	settingsProperty = "view"
)

// Settings are the view preferences kept between runs.
type Settings struct {
	CellSize float64 `yaml:"cellSize"` // 0 keeps the tuned default
	Weapon   int     `yaml:"weapon"`
	Muted    bool    `yaml:"muted"`
}

// SettingsStore loads and saves Settings through gdata. A store without a
// gdata manager keeps settings in memory only.
type SettingsStore struct {
	data    *gdata.Manager
	current Settings
}

// OpenSettings opens the per-user data directory for appName and loads what
// is there. A missing or unreadable file leaves the defaults in place.
func OpenSettings(appName string) (*SettingsStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open settings storage: %w", err)
	}
	st := NewSettingsStore(m)
	if err := st.Load(); err != nil {
		log.Warn("settings not loaded, using defaults", "err", err)
	}
	return st, nil
}

// NewSettingsStore wraps m, which may be nil.
func NewSettingsStore(m *gdata.Manager) *SettingsStore {
	return &SettingsStore{data: m}
}

// Settings returns the current values.
func (st *SettingsStore) Settings() Settings { return st.current }

// Set replaces the current values without saving.
func (st *SettingsStore) Set(s Settings) { st.current = s }

// Load reads the stored settings. A store with nothing saved keeps its
// current values.
func (st *SettingsStore) Load() error {
	if st.data == nil || !st.data.ObjectPropExists(settingsObject, settingsProperty) {
		return nil
	}
	raw, err := st.data.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	var s Settings
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("parse settings: %w", err)
	}
	st.current = s
	return nil
}

// Save writes the current values. Memory-only stores do nothing.
func (st *SettingsStore) Save() error {
	if st.data == nil {
		return nil
	}
	raw, err := yaml.Marshal(st.current)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := st.data.SaveObjectProp(settingsObject, settingsProperty, raw); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Apply pushes the stored zoom and weapon into s. Out-of-range values are
// ignored.
func (st *SettingsStore) Apply(s *Session) {
	if st.current.CellSize > 0 {
		s.SetCellSize(st.current.CellSize)
	}
	s.SelectWeapon(st.current.Weapon)
}

// Capture records the session's zoom and weapon plus the mute flag.
func (st *SettingsStore) Capture(s *Session, muted bool) {
	st.current = Settings{
		CellSize: s.World.CellSize,
		Weapon:   s.WeaponIndex(),
		Muted:    muted,
	}
}
