package catalog

import (
	"encoding/json"
	"strings"

	"github.com/countries-explorer/explorer/internal/model"
)

// v3Country is the restcountries v3.1 record. Name, flags and capital are
// kept raw because both a nested and a flat form appear in the wild.
type v3Country struct {
	Name       json.RawMessage           `json:"name"`
	CCA3       string                    `json:"cca3"`
	CIOC       string                    `json:"cioc"`
	Region     string                    `json:"region"`
	Subregion  string                    `json:"subregion"`
	Population int64                     `json:"population"`
	Area       *float64                  `json:"area"`
	Languages  map[string]string         `json:"languages"`
	Currencies map[string]model.Currency `json:"currencies"`
	Borders    []string                  `json:"borders"`
	Flags      json.RawMessage           `json:"flags"`
	Flag       string                    `json:"flag"`
	Capital    json.RawMessage           `json:"capital"`
	Timezones  []string                  `json:"timezones"`
}

// v2Country is the restcountries v2 record.
type v2Country struct {
	Name       string   `json:"name"`
	Alpha3Code string   `json:"alpha3Code"`
	CIOC       string   `json:"cioc"`
	Region     string   `json:"region"`
	Subregion  string   `json:"subregion"`
	Population int64    `json:"population"`
	Area       *float64 `json:"area"`
	Capital    string   `json:"capital"`
	Borders    []string `json:"borders"`
	Timezones  []string `json:"timezones"`
	Flag       string   `json:"flag"`
	Flags      struct {
		SVG string `json:"svg"`
		PNG string `json:"png"`
	} `json:"flags"`
	Languages []struct {
		ISO6391 string `json:"iso639_1"`
		ISO6392 string `json:"iso639_2"`
		Name    string `json:"name"`
	} `json:"languages"`
	Currencies []struct {
		Code   string `json:"code"`
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"currencies"`
}

// normalizeV3 converts a v3 record, accepting flat name/flags/capital.
func normalizeV3(raw v3Country) model.Country {
	c := model.Country{
		Name:       decodeName(raw.Name),
		CCA3:       raw.CCA3,
		CIOC:       raw.CIOC,
		Region:     raw.Region,
		Subregion:  raw.Subregion,
		Population: clampPopulation(raw.Population),
		Area:       clampArea(raw.Area),
		Languages:  raw.Languages,
		Currencies: raw.Currencies,
		Borders:    raw.Borders,
		Flags:      decodeFlags(raw.Flags, raw.Flag),
		Capital:    decodeCapital(raw.Capital),
		Timezones:  raw.Timezones,
	}
	return c
}

// normalizeV2 converts a v2 record into the v3 shape.
func normalizeV2(raw v2Country) model.Country {
	c := model.Country{
		Name:       model.CountryName{Common: raw.Name, Official: raw.Name},
		CCA3:       raw.Alpha3Code,
		CIOC:       raw.CIOC,
		Region:     raw.Region,
		Subregion:  raw.Subregion,
		Population: clampPopulation(raw.Population),
		Area:       clampArea(raw.Area),
		Borders:    raw.Borders,
		Timezones:  raw.Timezones,
		Flags: model.Flags{
			SVG: firstNonEmpty(raw.Flag, raw.Flags.SVG),
			PNG: raw.Flags.PNG,
		},
		Languages:  map[string]string{},
		Currencies: map[string]model.Currency{},
	}

	if raw.Capital != "" {
		c.Capital = []string{raw.Capital}
	}
	for _, l := range raw.Languages {
		code := firstNonEmpty(l.ISO6392, l.ISO6391, l.Name)
		if code != "" && l.Name != "" {
			c.Languages[code] = l.Name
		}
	}
	for _, cur := range raw.Currencies {
		code := firstNonEmpty(cur.Code, cur.Name)
		if code != "" && cur.Name != "" {
			c.Currencies[code] = model.Currency{Name: cur.Name, Symbol: cur.Symbol}
		}
	}
	return c
}

func decodeName(raw json.RawMessage) model.CountryName {
	if len(raw) == 0 {
		return model.CountryName{}
	}
	var nested model.CountryName
	if err := json.Unmarshal(raw, &nested); err == nil {
		if nested.Official == "" {
			nested.Official = nested.Common
		}
		return nested
	}
	var flat string
	if err := json.Unmarshal(raw, &flat); err == nil {
		return model.CountryName{Common: flat, Official: flat}
	}
	return model.CountryName{}
}

func decodeFlags(raw json.RawMessage, emoji string) model.Flags {
	var flags model.Flags
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &flags); err != nil {
			var flat string
			if json.Unmarshal(raw, &flat) == nil {
				flags.SVG = flat
			}
		}
	}
	if flags.SVG == "" && strings.HasPrefix(emoji, "http") {
		flags.SVG = emoji
	}
	return flags
}

func decodeCapital(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}
	return nil
}

func clampPopulation(p int64) int64 {
	if p < 0 {
		return 0
	}
	return p
}

func clampArea(a *float64) *float64 {
	if a == nil || *a < 0 {
		return nil
	}
	return a
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Normalize decodes a catalog payload in either the v3 or v2 shape.
func Normalize(body []byte, version APIVersion) ([]model.Country, error) {
	switch version {
	case V2:
		var raw []v2Country
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, err
		}
		out := make([]model.Country, 0, len(raw))
		for _, r := range raw {
			c := normalizeV2(r)
			if c.Name.Common != "" {
				out = append(out, c)
			}
		}
		return out, nil
	default:
		var raw []v3Country
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, err
		}
		out := make([]model.Country, 0, len(raw))
		for _, r := range raw {
			c := normalizeV3(r)
			if c.Name.Common != "" {
				out = append(out, c)
			}
		}
		return out, nil
	}
}
