package layer

import (
	"errors"
	"testing"

	"github.com/dshills/shortcuts/internal/config/loader"
)

func newTestStack() *Stack {
	s := NewStack()
	s.Replace(Defaults, "/res/defaults.toml", loader.Sections{
		"shortcuts_vA1.0:":      {"Edit/Copy": "Ctrl+C", "Edit/Paste": "Ctrl+V"},
		"shortcuts_vA1.0:Paint": {"Tools/Brush": "B"},
	})
	s.Replace(User, "/home/user/shortcuts.toml", loader.Sections{
		"shortcuts_vA1.0:": {"Edit/Copy": "Ctrl+Shift+C"},
		"language":         {"language": "fr"},
	})
	s.Replace(Env, "", loader.Sections{
		"language": {"language": "de"},
	})
	return s
}

func TestStack_Merged(t *testing.T) {
	s := newTestStack()

	merged := s.Merged()
	if got := merged["shortcuts_vA1.0:"]["Edit/Copy"]; got != "Ctrl+Shift+C" {
		t.Errorf("Edit/Copy = %q, want user value", got)
	}
	if got := merged["shortcuts_vA1.0:"]["Edit/Paste"]; got != "Ctrl+V" {
		t.Errorf("Edit/Paste = %q, want default value", got)
	}
	if got := merged["language"]["language"]; got != "de" {
		t.Errorf("language = %q, want environment value", got)
	}

	// The merged result is a copy.
	merged["language"]["language"] = "it"
	if got := s.Merged()["language"]["language"]; got != "de" {
		t.Errorf("cached merge was modified through returned copy: %q", got)
	}

	defaults := s.Merged(Defaults)
	if got := defaults["shortcuts_vA1.0:"]["Edit/Copy"]; got != "Ctrl+C" {
		t.Errorf("default Edit/Copy = %q, want Ctrl+C", got)
	}
	if _, ok := defaults["language"]; ok {
		t.Error("defaults should not contain the language section")
	}
}

func TestStack_Lookup(t *testing.T) {
	s := newTestStack()

	tests := []struct {
		section, key string
		sources      []Source
		want         string
		from         Source
		found        bool
	}{
		{"shortcuts_vA1.0:", "Edit/Copy", nil, "Ctrl+Shift+C", User, true},
		{"shortcuts_vA1.0:", "Edit/Copy", []Source{Defaults}, "Ctrl+C", Defaults, true},
		{"shortcuts_vA1.0:", "Edit/Paste", nil, "Ctrl+V", Defaults, true},
		{"language", "language", nil, "de", Env, true},
		{"language", "language", []Source{Defaults, User}, "fr", User, true},
		{"shortcuts_vA1.0:", "Edit/Cut", nil, "", 0, false},
	}
	for _, tt := range tests {
		got, from, found := s.Lookup(tt.section, tt.key, tt.sources...)
		if got != tt.want || found != tt.found || (found && from != tt.from) {
			t.Errorf("Lookup(%q, %q, %v) = %q, %v, %v; want %q, %v, %v",
				tt.section, tt.key, tt.sources, got, from, found, tt.want, tt.from, tt.found)
		}
	}
}

func TestStack_Edit(t *testing.T) {
	s := newTestStack()

	if err := s.Set(User, "shortcuts_vA1.0:Paint", "Tools/Brush", "Ctrl+B"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := s.Merged()["shortcuts_vA1.0:Paint"]["Tools/Brush"]; got != "Ctrl+B" {
		t.Errorf("Tools/Brush = %q after Set, want Ctrl+B", got)
	}

	removed, err := s.Delete(User, "shortcuts_vA1.0:Paint", "Tools/Brush")
	if err != nil || !removed {
		t.Fatalf("Delete = %v, %v; want true, nil", removed, err)
	}
	if got := s.Merged()["shortcuts_vA1.0:Paint"]["Tools/Brush"]; got != "B" {
		t.Errorf("Tools/Brush = %q after Delete, want default B", got)
	}
	if _, ok := s.Layer(User).Data["shortcuts_vA1.0:Paint"]; ok {
		t.Error("empty user section should be removed")
	}

	removed, err = s.DeleteSection(User, "language")
	if err != nil || !removed {
		t.Fatalf("DeleteSection = %v, %v; want true, nil", removed, err)
	}
	if removed, _ = s.DeleteSection(User, "language"); removed {
		t.Error("second DeleteSection should report false")
	}
}

func TestStack_ReadOnly(t *testing.T) {
	s := newTestStack()

	for _, src := range []Source{Defaults, Env} {
		if err := s.Set(src, "language", "language", "en"); !errors.Is(err, ErrReadOnly) {
			t.Errorf("Set(%s) error = %v, want ErrReadOnly", src, err)
		}
		if _, err := s.Delete(src, "language", "language"); !errors.Is(err, ErrReadOnly) {
			t.Errorf("Delete(%s) error = %v, want ErrReadOnly", src, err)
		}
	}
}

func TestStack_LayerIsCopy(t *testing.T) {
	s := newTestStack()

	l := s.Layer(User)
	if l.Path != "/home/user/shortcuts.toml" {
		t.Errorf("Path = %q", l.Path)
	}
	l.Data["language"]["language"] = "it"
	if got, _, _ := s.Lookup("language", "language", User); got != "fr" {
		t.Errorf("user language = %q, want fr", got)
	}
}

func TestSource_String(t *testing.T) {
	tests := map[Source]string{Defaults: "defaults", User: "user", Env: "environment", Source(9): "unknown"}
	for src, want := range tests {
		if got := src.String(); got != want {
			t.Errorf("Source(%d).String() = %q, want %q", src, got, want)
		}
	}
}
