package text

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "nam", "nam"},
		{"diacritics", "Hải Nam", "hai nam"},
		{"uppercase", "HAI NAM", "hai nam"},
		{"extra whitespace", "  Hải   Nam  ", "hai nam"},
		{"d stroke", "Đức", "duc"},
		{"punctuation", "Nam (sếp)", "nam sep"},
		{"digits kept", "Nam 2", "nam 2"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.input); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeNameIdempotent(t *testing.T) {
	inputs := []string{"Hải Nam", "ĐỨC ANH", "  nguyễn   văn  a ", "court"}
	for _, in := range inputs {
		once := NormalizeName(in)
		if twice := NormalizeName(once); twice != once {
			t.Errorf("NormalizeName not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestNormalizeNameAccentInsensitive(t *testing.T) {
	a := NormalizeName("Hải Nam")
	b := NormalizeName("hai nam")
	c := NormalizeName("HAI NAM")
	if a != b || b != c {
		t.Errorf("expected identical keys, got %q %q %q", a, b, c)
	}
}

func TestSlugify(t *testing.T) {
	if got := Slugify("Hải Nam"); got != "hai-nam" {
		t.Errorf("Slugify = %q, want %q", got, "hai-nam")
	}
	if got := Slugify("  Nguyễn  Văn   A "); got != "nguyen-van-a" {
		t.Errorf("Slugify = %q, want %q", got, "nguyen-van-a")
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"150500", 151000, false},
		{"200k", 200000, false},
		{"200K", 200000, false},
		{"1.500.000", 1500000, false},
		{"1,500,000 vnd", 1500000, false},
		{"35k đ", 35000, false},
		{"100000đ", 100000, false},
		{"999", 1000, false},
		{"0", 0, false},
		{"abc", 0, true},
		{"12k5", 0, true},
		{"-100", 0, true},
		{"", 0, true},
		// int64 overflow must be rejected, not wrapped into a bogus amount.
		{"9223372036854775807k", 0, true},
		{"9223372036854775807", 0, true},
		{"99999999999999999999", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("ParseAmount(%q) error = %v, want ErrInvalidAmount", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAmount(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestCeilToThousand(t *testing.T) {
	tests := []struct {
		in   int64
		want int64
	}{
		{0, 0},
		{-500, 0},
		{1, 1000},
		{1000, 1000},
		{150500, 151000},
	}
	for _, tt := range tests {
		if got := CeilToThousand(tt.in); got != tt.want {
			t.Errorf("CeilToThousand(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	if got := FormatCurrency(150000); got != "150.000 đ" {
		t.Errorf("FormatCurrency(150000) = %q, want %q", got, "150.000 đ")
	}
	if got := FormatCurrency(0); got != "0 đ" {
		t.Errorf("FormatCurrency(0) = %q, want %q", got, "0 đ")
	}
}

func TestParseCommandDate(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	got, err := ParseCommandDate("05/01/26", loc)
	if err != nil {
		t.Fatalf("ParseCommandDate: %v", err)
	}
	want := time.Date(2026, time.January, 5, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("ParseCommandDate = %v, want %v", got, want)
	}

	if _, err := ParseCommandDate("2026-01-05", loc); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := ParseCommandDate("32/01/26", loc); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate for impossible day, got %v", err)
	}
}

func TestFormatEventLabel(t *testing.T) {
	if got := FormatEventLabel("Hải Nam", 3); got != "Hải Nam-003" {
		t.Errorf("FormatEventLabel = %q", got)
	}
	if got := FormatEventLabel("Nam", 12); got != "Nam-012" {
		t.Errorf("FormatEventLabel = %q", got)
	}
}
