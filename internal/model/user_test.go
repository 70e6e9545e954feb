package model

import (
	"testing"
	"time"
)

func TestMakeSafe(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Alice", "alice"},
		{"Cool Guy 42", "cool_guy_42"},
		{"  padded  ", "padded"},
		{"already_safe", "already_safe"},
	}
	for _, c := range cases {
		if got := MakeSafe(c.in); got != c.want {
			t.Errorf("MakeSafe(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPrivileges(t *testing.T) {
	if DefaultPrivileges != 5 {
		t.Errorf("DefaultPrivileges = %d, want 5 (PLAYER|SUPPORTER)", DefaultPrivileges)
	}

	p := PrivPlayer | PrivSupporter
	if !p.Has(PrivPlayer) || !p.Has(PrivSupporter) || p.Has(PrivModerator) {
		t.Error("Has misreports bits")
	}
	if p.Restricted() {
		t.Error("PLAYER bit set must not be restricted")
	}
	if !PrivSupporter.Restricted() {
		t.Error("missing PLAYER bit must be restricted")
	}
}

func TestUser_Silenced(t *testing.T) {
	u := &User{SilenceEnd: time.Now().Add(time.Hour).Unix()}
	if !u.Silenced() {
		t.Error("future SilenceEnd should report silenced")
	}
	u.SilenceEnd = time.Now().Add(-time.Hour).Unix()
	if u.Silenced() {
		t.Error("past SilenceEnd should not report silenced")
	}
}

func TestCountryCode(t *testing.T) {
	if CountryCode("XX") != 0 {
		t.Error("XX should map to 0")
	}
	if CountryCode("nosuch") != 0 {
		t.Error("unknown acronym should map to 0")
	}
	if got := CountryCode("in"); got == 0 {
		t.Error("IN should map to a nonzero code")
	}
	if CountryCode("us") != CountryCode("US") {
		t.Error("lookup must be case-insensitive")
	}
}
