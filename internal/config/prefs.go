package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"

	"github.com/dshills/shortcuts/internal/config/layer"
	"github.com/dshills/shortcuts/internal/config/loader"
	"github.com/dshills/shortcuts/internal/config/notify"
)

// DefaultEnvPrefix is the prefix of environment overrides.
const DefaultEnvPrefix = "SHORTCUTS_"

const maxIncludeDepth = 10

// Prefs is the layered preference store.
type Prefs struct {
	fs       loader.WritableFileSystem
	layers   *layer.Stack
	notifier *notify.Notifier
	env      *loader.EnvLoader
	log      logrus.FieldLogger

	defaultFiles []string
	userFile     string
}

// Option configures Prefs.
type Option func(*Prefs)

// WithFS sets the file system used for reading and saving.
func WithFS(fs loader.WritableFileSystem) Option {
	return func(p *Prefs) {
		p.fs = fs
	}
}

// WithDefaultFiles sets the default preference files, merged in order.
func WithDefaultFiles(paths ...string) Option {
	return func(p *Prefs) {
		p.defaultFiles = append([]string(nil), paths...)
	}
}

// WithUserFile sets the user preference file.
func WithUserFile(path string) Option {
	return func(p *Prefs) {
		p.userFile = path
	}
}

// WithEnvPrefix sets the prefix of environment overrides.
func WithEnvPrefix(prefix string) Option {
	return func(p *Prefs) {
		p.env = loader.NewEnvLoader(prefix)
	}
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Prefs) {
		if log != nil {
			p.log = log
		}
	}
}

// New creates a preference store with empty layers. Call Load to read
// the files.
func New(opts ...Option) *Prefs {
	p := &Prefs{
		fs:       loader.DefaultFS(),
		layers:   layer.NewStack(),
		notifier: notify.New(),
		env:      loader.NewEnvLoader(DefaultEnvPrefix),
		log:      logrus.StandardLogger(),
		userFile: DefaultUserFile(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// DefaultUserFile returns the default user preference file path.
func DefaultUserFile() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "shortcuts", "shortcuts.toml")
	}
	if home, err := homedir.Dir(); err == nil {
		return filepath.Join(home, ".config", "shortcuts", "shortcuts.toml")
	}
	return ""
}

// Load reads the default files, the user file and the environment.
// Missing files are not errors. Files that cannot be read or parsed are
// returned as errors and leave their contribution empty; loading goes on.
func (p *Prefs) Load() []error {
	var errs []error
	tl := loader.NewTOMLLoaderWithFS(p.fs, "")

	defaults := make(loader.Sections)
	for _, raw := range p.defaultFiles {
		path := loader.ExpandPath(raw)
		s, warnings, err := tl.LoadSections(path, maxIncludeDepth)
		if err != nil {
			p.log.WithError(err).WithField("path", path).Warn("cannot load default preferences")
			errs = append(errs, err)
			continue
		}
		for _, w := range warnings {
			p.log.WithField("path", path).Warn(w)
		}
		defaults = layer.Merge(defaults, s)
	}
	defaultPath := ""
	if len(p.defaultFiles) > 0 {
		defaultPath = p.defaultFiles[0]
	}
	p.layers.Replace(layer.Defaults, defaultPath, defaults)

	envData := p.env.Load()
	userPath := p.UserFile()
	if override, ok := layer.Get(envData, "paths", "user"); ok && override != "" {
		userPath = loader.ExpandPath(override)
		p.userFile = userPath
	}

	user := make(loader.Sections)
	if userPath != "" {
		s, warnings, err := tl.LoadSections(userPath, maxIncludeDepth)
		if err != nil {
			p.log.WithError(err).WithField("path", userPath).Warn("cannot load user preferences")
			errs = append(errs, err)
		} else {
			for _, w := range warnings {
				p.log.WithField("path", userPath).Warn(w)
			}
			user = s
		}
	}
	p.layers.Replace(layer.User, userPath, user)
	p.layers.Replace(layer.Env, "", envData)

	p.log.WithFields(logrus.Fields{
		"defaults": len(p.defaultFiles),
		"user":     userPath,
	}).Debug("preferences loaded")
	p.notifier.NotifyReload()
	return errs
}

// Sections returns a copy of the merged sections, or of the default
// layer alone.
func (p *Prefs) Sections(defaultOnly bool) loader.Sections {
	if defaultOnly {
		return p.layers.Merged(layer.Defaults)
	}
	return p.layers.Merged()
}

// Section returns a copy of one section. The result is empty, not nil,
// for a missing section.
func (p *Prefs) Section(name string, defaultOnly bool) map[string]string {
	s := p.Sections(defaultOnly)[name]
	if s == nil {
		s = make(map[string]string)
	}
	return s
}

// SectionNames returns the names of the sections starting with prefix,
// sorted.
func (p *Prefs) SectionNames(prefix string, defaultOnly bool) []string {
	var names []string
	for _, name := range p.Sections(defaultOnly).Names() {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	return names
}

// Value returns one value.
func (p *Prefs) Value(section, key string, defaultOnly bool) (string, bool) {
	if defaultOnly {
		v, _, ok := p.layers.Lookup(section, key, layer.Defaults)
		return v, ok
	}
	v, _, ok := p.layers.Lookup(section, key)
	return v, ok
}

// SetValue writes a value to the user layer.
func (p *Prefs) SetValue(section, key, value string) error {
	old, _ := p.Value(section, key, false)
	if err := p.layers.Set(layer.User, section, key, value); err != nil {
		return err
	}
	p.notifier.NotifySet(section, key, old, value)
	return nil
}

// SetValues writes several values of one section to the user layer and
// notifies observers once all are written.
func (p *Prefs) SetValues(section string, values map[string]string) error {
	batch := p.notifier.NewBatch()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		old, _ := p.Value(section, k, false)
		if err := p.layers.Set(layer.User, section, k, values[k]); err != nil {
			batch.Discard()
			return err
		}
		batch.Add(notify.Change{Type: notify.ChangeSet, Section: section, Key: k, OldValue: old, NewValue: values[k]})
	}
	batch.Commit()
	return nil
}

// RemoveValue deletes a value from the user layer. A default value for
// the same key becomes visible again.
func (p *Prefs) RemoveValue(section, key string) error {
	old, _ := p.Value(section, key, false)
	removed, err := p.layers.Delete(layer.User, section, key)
	if err != nil || !removed {
		return err
	}
	p.notifier.NotifyDelete(section, key, old)
	return nil
}

// RemoveSection deletes a section from the user layer.
func (p *Prefs) RemoveSection(name string) error {
	removed, err := p.layers.DeleteSection(layer.User, name)
	if err != nil || !removed {
		return err
	}
	p.notifier.NotifyDelete(name, "", "")
	return nil
}

// ClearUser discards all user values.
func (p *Prefs) ClearUser() error {
	p.layers.Replace(layer.User, p.userFile, nil)
	p.notifier.NotifyReload()
	return nil
}

// HasUserValues reports whether the user layer holds any section.
func (p *Prefs) HasUserValues() bool {
	return len(p.layers.Layer(layer.User).Data) > 0
}

// UserFile returns the user preference file path.
func (p *Prefs) UserFile() string {
	return p.userFile
}

// DefaultFiles returns the default preference files.
func (p *Prefs) DefaultFiles() []string {
	return append([]string(nil), p.defaultFiles...)
}

// Files returns every preference file that contributes to the store.
func (p *Prefs) Files() []string {
	files := make([]string, 0, len(p.defaultFiles)+1)
	for _, f := range p.defaultFiles {
		files = append(files, loader.ExpandPath(f))
	}
	if p.userFile != "" {
		files = append(files, p.userFile)
	}
	return files
}

// Save writes the user layer to the user file.
func (p *Prefs) Save() error {
	if p.userFile == "" {
		return ErrNoUserFile
	}
	data, err := loader.EncodeSections(p.layers.Layer(layer.User).Data)
	if err != nil {
		return err
	}
	if err := p.fs.WriteFile(p.userFile, data, 0o644); err != nil {
		return fmt.Errorf("saving preferences to %s: %w", p.userFile, err)
	}
	p.log.WithField("path", p.userFile).Debug("preferences saved")
	return nil
}

// Subscribe registers an observer for all preference changes.
func (p *Prefs) Subscribe(observer notify.Observer) *notify.Subscription {
	return p.notifier.Subscribe(observer)
}

// SubscribeSection registers an observer for sections starting with prefix.
func (p *Prefs) SubscribeSection(prefix string, observer notify.Observer) *notify.Subscription {
	return p.notifier.SubscribeSection(prefix, observer)
}

// Close releases the notifier.
func (p *Prefs) Close() {
	p.notifier.Close()
}
