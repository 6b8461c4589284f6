package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales
var LocalesFS embed.FS

// fallbackLang is used when a locale file is missing a key.
const fallbackLang = "en"

// DefaultLangs lists the locales bundled under locales/.
var DefaultLangs = []string{"ko", "zh", "km", "vi", "en"}

// Catalog holds the reply templates for every supported locale. The bot
// serves mixed-language groups, so most replies are composed across all
// locales at once via Multi.
type Catalog struct {
	langs        []string
	translations map[string]map[string]string
}

// NewCatalog loads locales/<lang>.yaml for each requested language.
func NewCatalog(fsys fs.FS, langs []string) (*Catalog, error) {
	if len(langs) == 0 {
		return nil, fmt.Errorf("i18n: no languages configured")
	}
	c := &Catalog{langs: langs, translations: make(map[string]map[string]string, len(langs))}
	for _, lang := range langs {
		filePath := path.Join("locales", fmt.Sprintf("%s.yaml", lang))
		data, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			return nil, fmt.Errorf("read translation file %s: %w", filePath, err)
		}
		var m map[string]string
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse translation file %s: %w", filePath, err)
		}
		c.translations[lang] = m
	}
	return c, nil
}

// T renders a key in one language, falling back to English and finally to
// the key itself so a missing translation never breaks a reply.
func (c *Catalog) T(lang, key string, args ...interface{}) string {
	format, ok := c.translations[lang][key]
	if !ok {
		format, ok = c.translations[fallbackLang][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}

// Multi renders a key in every configured language, one line per language,
// skipping duplicates that fall back to the same English text.
func (c *Catalog) Multi(key string, args ...interface{}) string {
	var lines []string
	seen := make(map[string]struct{}, len(c.langs))
	for _, lang := range c.langs {
		line := c.T(lang, key, args...)
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Langs returns the configured locale codes in order.
func (c *Catalog) Langs() []string { return c.langs }
