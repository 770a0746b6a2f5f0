package catalog

import (
	"testing"
	"time"
)

func TestValidGameName(t *testing.T) {
	valid := []string{"Half-Life 2", "Portal", "FTL: Faster Than Light", "Osmos(tm) demo", "Game #1 (R)"}
	for _, name := range valid {
		if !validGameName(name) {
			t.Fatalf("expected name %q to be valid", name)
		}
	}

	invalid := []string{"", "ゼルダの伝説", "Ведьмак 3", "Café Simulator é"}
	for _, name := range invalid {
		if validGameName(name) {
			t.Fatalf("expected name %q to be rejected", name)
		}
	}
}

func TestCleanGameName(t *testing.T) {
	got := cleanGameName("Tomb Raider® Anniversary™ ")
	want := "Tomb Raider Anniversary"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestParseReleaseDate(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{raw: "Oct 21, 2008", want: time.Date(2008, time.October, 21, 0, 0, 0, 0, time.UTC), ok: true},
		{raw: "Jan 2020", want: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{raw: "", ok: false},
		{raw: "coming soon", ok: false},
	}
	for _, tc := range tests {
		got, ok := parseReleaseDate(tc.raw)
		if ok != tc.ok {
			t.Fatalf("raw=%q ok=%v want %v", tc.raw, ok, tc.ok)
		}
		if ok && !got.Equal(tc.want) {
			t.Fatalf("raw=%q got %v want %v", tc.raw, got, tc.want)
		}
	}
}

func TestSeedable(t *testing.T) {
	base := DatasetGame{
		Name:               "Portal",
		SupportedLanguages: []string{"English", "French"},
	}
	if !seedable(base) {
		t.Fatalf("expected base game to be seedable")
	}

	noEnglish := base
	noEnglish.SupportedLanguages = []string{"German"}
	if seedable(noEnglish) {
		t.Fatalf("expected game without English support to be skipped")
	}

	badName := base
	badName.Name = "ポータル"
	if seedable(badName) {
		t.Fatalf("expected non-latin name to be skipped")
	}
}
