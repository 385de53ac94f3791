package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Locale is the language (and optional region) a text or claim is written
// in. The zero value means "unspecified".
type Locale struct {
	tag language.Tag
	set bool
}

// ParseLocale accepts BCP-47 tags ("en-US") as well as the underscore form
// ("en_US"). The empty string yields the zero Locale.
func ParseLocale(s string) (Locale, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Locale{}, nil
	}
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return Locale{}, fmt.Errorf("parse locale %q: %w", s, err)
	}
	return Locale{tag: tag, set: true}, nil
}

// MustParseLocale is like ParseLocale but panics on error.
func MustParseLocale(s string) Locale {
	l, err := ParseLocale(s)
	if err != nil {
		panic(err)
	}
	return l
}

// IsZero reports whether the locale is unspecified.
func (l Locale) IsZero() bool {
	return !l.set
}

// Tag returns the underlying language tag, language.Und when unspecified.
func (l Locale) Tag() language.Tag {
	if !l.set {
		return language.Und
	}
	return l.tag
}

func (l Locale) String() string {
	if !l.set {
		return ""
	}
	return l.tag.String()
}

// Equal compares canonical tag strings.
func (l Locale) Equal(other Locale) bool {
	return l.String() == other.String()
}

func (l Locale) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// legacyLocale is the object form older records carry.
type legacyLocale struct {
	Language string `json:"language"`
	Country  string `json:"country"`
}

func (l *Locale) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = Locale{}
		return nil
	}

	var raw string
	if len(data) > 0 && data[0] == '{' {
		var legacy legacyLocale
		if err := json.Unmarshal(data, &legacy); err != nil {
			return err
		}
		raw = legacy.Language
		if legacy.Country != "" {
			raw += "-" + legacy.Country
		}
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, err := ParseLocale(raw)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
