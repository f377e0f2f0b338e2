package key

import "testing"

func TestModifierString(t *testing.T) {
	tests := []struct {
		mod       Modifier
		want      string
		wantShort string
	}{
		{ModNone, "", ""},
		{ModCtrl, "Ctrl", "C"},
		{ModShift | ModCtrl, "Ctrl+Shift", "C-S"},
		{ModMeta | ModAlt | ModCtrl | ModShift, "Ctrl+Alt+Shift+Meta", "C-A-S-M"},
	}

	for _, tt := range tests {
		if got := tt.mod.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
		if got := tt.mod.ShortString(); got != tt.wantShort {
			t.Errorf("ShortString() = %q, want %q", got, tt.wantShort)
		}
	}
}

func TestModifierWithWithout(t *testing.T) {
	m := ModNone.With(ModCtrl).With(ModAlt)
	if !m.HasCtrl() || !m.HasAlt() || m.HasShift() {
		t.Errorf("unexpected modifiers %v", m)
	}
	m = m.Without(ModCtrl)
	if m.HasCtrl() || !m.HasAlt() {
		t.Errorf("Without(Ctrl) = %v", m)
	}
	if !ModNone.IsEmpty() || m.IsEmpty() {
		t.Error("IsEmpty mismatch")
	}
}

func TestParseModifiers(t *testing.T) {
	tests := []struct {
		in   string
		want Modifier
	}{
		{"Ctrl+Alt", ModCtrl | ModAlt},
		{"C-S", ModCtrl | ModShift},
		{"cmd", ModMeta},
		{"shift+unknown", ModShift},
	}

	for _, tt := range tests {
		if got := ParseModifiers(tt.in); got != tt.want {
			t.Errorf("ParseModifiers(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
