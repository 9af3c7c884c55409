package model

import "testing"

func TestCountry_Slug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"United States", "united-states"},
		{"Germany", "germany"},
		{"  Bosnia and Herzegovina ", "bosnia-and-herzegovina"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Country{Name: CountryName{Common: tt.name}}
			if got := c.Slug(); got != tt.want {
				t.Errorf("Slug() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNameFromSlug(t *testing.T) {
	if got := NameFromSlug("united-states"); got != "united states" {
		t.Errorf("NameFromSlug() = %q, want %q", got, "united states")
	}
	c := Country{Name: CountryName{Common: "United States", Official: "United States of America"}}
	if !c.MatchesName(NameFromSlug(c.Slug())) {
		t.Error("slug round trip should match the common name")
	}
}

func TestCountry_MatchesName(t *testing.T) {
	c := Country{Name: CountryName{Common: "South Korea", Official: "Republic of Korea"}}

	tests := []struct {
		name string
		want bool
	}{
		{"South Korea", true},
		{"south korea", true},
		{"REPUBLIC OF KOREA", true},
		{"Korea", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.MatchesName(tt.name); got != tt.want {
				t.Errorf("MatchesName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestCountry_AreaOrZero(t *testing.T) {
	var c Country
	if got := c.AreaOrZero(); got != 0 {
		t.Errorf("absent area = %v, want 0", got)
	}
	c.Area = Float64(357114)
	if got := c.AreaOrZero(); got != 357114 {
		t.Errorf("AreaOrZero() = %v, want 357114", got)
	}
}

func TestCountry_PrimaryCapital(t *testing.T) {
	tests := []struct {
		desc    string
		capital []string
		want    string
		ok      bool
	}{
		{"single", []string{"Seoul"}, "Seoul", true},
		{"first of many", []string{"Pretoria", "Cape Town", "Bloemfontein"}, "Pretoria", true},
		{"skips blank", []string{" ", "Bern"}, "Bern", true},
		{"none", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			c := Country{Capital: tt.capital}
			got, ok := c.PrimaryCapital()
			if got != tt.want || ok != tt.ok {
				t.Errorf("PrimaryCapital() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}
