package shared

import "testing"

func TestNormalizeTitle(t *testing.T) {
	tc := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "plain title",
			title: "Master of Puppets",
			want:  "Master of Puppets",
		},
		{
			name:  "parenthetical aside",
			title: "Paint It Black (Live)",
			want:  "Paint It Black",
		},
		{
			name:  "bracketed aside",
			title: "One [Remastered 2008]",
			want:  "One",
		},
		{
			name:  "slashes collapse",
			title: "Intro/Outro Jam",
			want:  "Intro Outro Jam",
		},
		{
			name:  "extra whitespace",
			title: "  So   What  ",
			want:  "So What",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTitle(tt.title)
			if got != tt.want {
				t.Errorf("NormalizeTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTitleKey(t *testing.T) {
	t.Run("case and parenthetical collapse to one key", func(t *testing.T) {
		a := TitleKey("Master Of Puppets (Live)")
		b := TitleKey("master of puppets")
		if a != b {
			t.Errorf("expected equal keys, got %q and %q", a, b)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		for _, s := range []string{"Paint It Black (Live)", "Motörhead", "AC/DC", "  spaced  out  "} {
			once := TitleKey(s)
			twice := TitleKey(once)
			if once != twice {
				t.Errorf("TitleKey not idempotent for %q: %q != %q", s, once, twice)
			}
		}
	})
}

func TestNormalizeName(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "diacritics folded",
			input: "Motörhead",
			want:  "motorhead",
		},
		{
			name:  "casefold",
			input: "METALLICA",
			want:  "metallica",
		},
		{
			name:  "parenthetical stripped",
			input: "Nirvana (Tribute)",
			want:  "nirvana",
		},
		{
			name:  "separators collapsed",
			input: "AC/DC",
			want:  "ac dc",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeName(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	t.Run("idempotent", func(t *testing.T) {
		for _, s := range []string{"Motörhead", "Beyoncé", "AC/DC", "Sigur Rós"} {
			once := NormalizeName(s)
			twice := NormalizeName(once)
			if once != twice {
				t.Errorf("NormalizeName not idempotent for %q: %q != %q", s, once, twice)
			}
		}
	})
}

func TestNormalizeTrackKey(t *testing.T) {
	tc := []struct {
		name   string
		artist string
		title  string
		want   string
	}{
		{
			name:   "basic normalization",
			artist: "Artist Name",
			title:  "Song Title",
			want:   "artist name|song title",
		},
		{
			name:   "mixed case and whitespace",
			artist: "  ArTiSt   NaMe ",
			title:  " SoNg TiTlE ",
			want:   "artist name|song title",
		},
		{
			name:   "live suffix ignored",
			artist: "Metallica",
			title:  "Battery (Live)",
			want:   "metallica|battery",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTrackKey(tt.artist, tt.title)
			if got != tt.want {
				t.Errorf("NormalizeTrackKey() = %v, want %v", got, tt.want)
			}
		})
	}
}
