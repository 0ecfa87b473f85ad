// Package i18n serves the storefront's user-facing messages in English and
// Spanish.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localesFS embed.FS

// Catalog maps language codes to flattened message keys such as "cart.empty".
type Catalog struct {
	fallback string
	messages map[string]map[string]string
	tags     []language.Tag
	matcher  language.Matcher
}

// Load reads the embedded locales. fallback must be one of them.
func Load(fallback string) (*Catalog, error) {
	entries, err := localesFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	c := &Catalog{fallback: fallback, messages: make(map[string]map[string]string)}
	for _, e := range entries {
		name := e.Name()
		if path.Ext(name) != ".yaml" {
			continue
		}
		data, err := localesFS.ReadFile("locales/" + name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		var tree map[string]any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		flat := make(map[string]string)
		flatten("", tree, flat)
		c.messages[strings.TrimSuffix(name, ".yaml")] = flat
	}

	if _, ok := c.messages[fallback]; !ok {
		return nil, fmt.Errorf("fallback language %q has no locale file", fallback)
	}

	// the matcher prefers its first tag when nothing matches
	c.tags = append(c.tags, language.Make(fallback))
	for _, lang := range c.Languages() {
		if lang != fallback {
			c.tags = append(c.tags, language.Make(lang))
		}
	}
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// Languages returns the supported language codes, sorted.
func (c *Catalog) Languages() []string {
	out := make([]string, 0, len(c.messages))
	for lang := range c.messages {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// Supports reports whether lang has a locale.
func (c *Catalog) Supports(lang string) bool {
	_, ok := c.messages[lang]
	return ok
}

// Fallback returns the default language.
func (c *Catalog) Fallback() string {
	return c.fallback
}

// Match picks the best supported language for an Accept-Language header.
func (c *Catalog) Match(acceptLanguage string) string {
	if strings.TrimSpace(acceptLanguage) == "" {
		return c.fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.fallback
	}
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return c.fallback
	}
	base, _ := c.tags[idx].Base()
	return base.String()
}

// T returns the message for key in lang, then in the fallback language, then
// the key itself. Placeholders written as {name} are replaced from args,
// given as name/value pairs.
func (c *Catalog) T(lang, key string, args ...string) string {
	msg, ok := c.messages[lang][key]
	if !ok {
		msg, ok = c.messages[c.fallback][key]
	}
	if !ok {
		msg = key
	}
	for i := 0; i+1 < len(args); i += 2 {
		msg = strings.ReplaceAll(msg, "{"+args[i]+"}", args[i+1])
	}
	return msg
}
