// Package l10n provides translated UI strings.
package l10n

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/rebind/internal/observer"
)

//go:embed translations/*.toml
var builtin embed.FS

// DefaultLanguageName is shown when no translation is active.
const DefaultLanguageName = "English"

// Translation is one language.
type Translation struct {
	Code    string            `koanf:"code"`
	Name    string            `koanf:"name"`
	Font    string            `koanf:"font"`
	Strings map[string]string `koanf:"strings"`
}

// Get returns the string for key, or "[key]" when it is missing.
func (t *Translation) Get(key string) string {
	if v, ok := t.Strings[key]; ok {
		return v
	}
	return missing(key)
}

func missing(key string) string { return "[" + key + "]" }

// Translation keys may contain dots, so the key path delimiter must not.
const delim = "/"

func parse(p koanf.Provider, source string) (*Translation, error) {
	k := koanf.New(delim)
	if err := k.Load(p, toml.Parser()); err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	t := &Translation{
		Code:    k.String("code"),
		Name:    k.String("name"),
		Font:    k.String("font"),
		Strings: k.StringMap("strings"),
	}
	if t.Code == "" {
		return nil, fmt.Errorf("parse %s: missing language code", source)
	}
	if t.Name == "" {
		t.Name = t.Code
	}
	return t, nil
}

// LoadDir reads every *.toml translation in dir, sorted by file name.
func LoadDir(dir string) ([]*Translation, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	out := make([]*Translation, 0, len(paths))
	for _, path := range paths {
		t, err := parse(file.Provider(path), path)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Builtin returns the translations shipped with the binary.
func Builtin() ([]*Translation, error) {
	names, err := fs.Glob(builtin, "translations/*.toml")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	out := make([]*Translation, 0, len(names))
	for _, name := range names {
		data, err := builtin.ReadFile(name)
		if err != nil {
			return nil, err
		}
		t, err := parse(rawbytes.Provider(data), name)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Discover loads the translations of dir, or the built-in ones when dir
// is empty or does not exist.
func Discover(dir string) ([]*Translation, error) {
	if dir != "" {
		if _, err := os.Stat(dir); err == nil {
			return LoadDir(dir)
		}
	}
	return Builtin()
}

// LanguageStore persists the chosen language.
type LanguageStore interface {
	SetLanguage(code string)
}

// Catalog selects the active translation.
type Catalog struct {
	enabled bool
	langs   []*Translation
	byCode  map[string]*Translation
	current *Translation
	store   LanguageStore
	log     logrus.FieldLogger

	changed observer.List[*Translation]
}

// NewCatalog creates a catalog over langs. A catalog without languages is
// disabled regardless of enabled. store may be nil.
func NewCatalog(enabled bool, langs []*Translation, store LanguageStore, log logrus.FieldLogger) *Catalog {
	c := &Catalog{
		enabled: enabled && len(langs) > 0,
		langs:   langs,
		byCode:  make(map[string]*Translation, len(langs)),
		store:   store,
		log:     log,
	}
	for _, t := range langs {
		if _, dup := c.byCode[t.Code]; dup {
			log.WithField("code", t.Code).Warn("duplicate translation ignored")
			continue
		}
		c.byCode[t.Code] = t
	}
	if enabled && !c.enabled {
		log.Warn("no translations found, localization disabled")
	}
	return c
}

// Enabled reports whether text is translated.
func (c *Catalog) Enabled() bool { return c.enabled }

// Languages returns the available translations.
func (c *Catalog) Languages() []*Translation { return c.langs }

// Current returns the active translation, or nil.
func (c *Catalog) Current() *Translation { return c.current }

// CurrentName returns the display name of the active language.
func (c *Catalog) CurrentName() string {
	if c.current == nil {
		return DefaultLanguageName
	}
	return c.current.Name
}

// Get returns the translated string for key. Without an active
// translation it returns "[key]".
func (c *Catalog) Get(key string) string {
	if c.current == nil {
		return missing(key)
	}
	return c.current.Get(key)
}

// Getf formats the translated string for key with args.
func (c *Catalog) Getf(key string, args ...any) string {
	return fmt.Sprintf(c.Get(key), args...)
}

// Load switches to the language code, persists the choice and notifies
// subscribers. Unknown codes are logged and leave the language unchanged.
// It reports whether the language changed.
func (c *Catalog) Load(code string) bool {
	return c.use(code, true)
}

// Restore is Load without persisting the choice. It is used at startup,
// where the language comes from the saved setting or the configuration.
func (c *Catalog) Restore(code string) bool {
	return c.use(code, false)
}

func (c *Catalog) use(code string, persist bool) bool {
	if !c.enabled || (c.current != nil && c.current.Code == code) {
		return false
	}
	t, ok := c.byCode[code]
	if !ok {
		c.log.WithField("code", code).Warn("language not found")
		return false
	}
	c.log.WithField("code", code).Info("loading language")
	c.current = t
	if persist && c.store != nil {
		c.store.SetLanguage(code)
	}
	c.changed.Notify(t)
	return true
}

// Subscribe registers fn for language changes.
func (c *Catalog) Subscribe(fn func(*Translation)) (unsubscribe func()) {
	return c.changed.Subscribe(fn)
}

// Sync notifies subscribers of the current language so that text created
// before it was loaded can refresh.
func (c *Catalog) Sync() {
	c.changed.Notify(c.current)
}
