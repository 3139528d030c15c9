// internal/messages/messages.go
package messages

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

/*
 * Localized message templates.
 *
 * Templates use positional placeholders {0}, {1}, ... which are rewritten
 * to explicit-index verbs (%[1]v, %[2]v) and stored in an x/text catalog.
 * Formatting goes through a message.Printer for the best matching locale,
 * so numbers in arguments pick up locale grouping.
 *
 * Lookup order: the requested locale (matched against the loaded ones),
 * then the fallback locale. A key found in neither reports false.
 *
 * A Catalog is built at startup and read-only afterwards.
 */

// Catalog holds message templates per locale.
type Catalog struct {
	builder  *catalog.Builder
	fallback language.Tag
	keys     map[language.Tag]map[string]struct{}
	tags     []language.Tag
	matcher  language.Matcher
}

// Bundle is the YAML form of one locale's messages.
type Bundle struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// New returns an empty catalog falling back to fallback.
func New(fallback language.Tag) *Catalog {
	return &Catalog{
		builder:  catalog.NewBuilder(catalog.Fallback(fallback)),
		fallback: fallback,
		keys:     make(map[language.Tag]map[string]struct{}),
	}
}

// Set stores template under key for tag.
func (c *Catalog) Set(tag language.Tag, key, template string) error {
	if err := c.builder.SetString(tag, key, Convert(template)); err != nil {
		return fmt.Errorf("message %s/%s: %w", tag, key, err)
	}
	set, ok := c.keys[tag]
	if !ok {
		set = make(map[string]struct{})
		c.keys[tag] = set
		c.tags = append(c.tags, tag)
		c.matcher = language.NewMatcher(c.tags)
	}
	set[key] = struct{}{}
	return nil
}

// AddBundle stores every message of b.
func (c *Catalog) AddBundle(b *Bundle) error {
	tag, err := language.Parse(b.Locale)
	if err != nil {
		return fmt.Errorf("bundle locale %q: %w", b.Locale, err)
	}
	keys := make([]string, 0, len(b.Messages))
	for k := range b.Messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := c.Set(tag, k, b.Messages[k]); err != nil {
			return err
		}
	}
	return nil
}

// ParseBundle decodes a YAML bundle.
func ParseBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse bundle: %w", err)
	}
	if b.Locale == "" {
		return nil, fmt.Errorf("parse bundle: missing locale")
	}
	return &b, nil
}

// LoadDir adds every *.yaml and *.yml bundle in dir, in name order.
func (c *Catalog) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read messages dir: %w", err)
	}
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read bundle: %w", err)
		}
		b, err := ParseBundle(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := c.AddBundle(b); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// Message formats key for tag with positional args.
func (c *Catalog) Message(tag language.Tag, key string, args ...any) (string, bool) {
	resolved, ok := c.resolve(tag, key)
	if !ok {
		return "", false
	}
	return message.NewPrinter(resolved, message.Catalog(c.builder)).Sprintf(key, args...), true
}

// resolve picks the loaded locale that holds key for tag.
func (c *Catalog) resolve(tag language.Tag, key string) (language.Tag, bool) {
	if c.matcher != nil {
		_, idx, conf := c.matcher.Match(tag)
		if conf != language.No {
			if _, ok := c.keys[c.tags[idx]][key]; ok {
				return c.tags[idx], true
			}
		}
	}
	if _, ok := c.keys[c.fallback][key]; ok {
		return c.fallback, true
	}
	return language.Und, false
}

// Locales returns the loaded locales in load order.
func (c *Catalog) Locales() []language.Tag {
	return append([]language.Tag(nil), c.tags...)
}

// Convert rewrites {n} placeholders to %[n+1]v and escapes literal '%'.
// Braces not enclosing a number are kept verbatim.
func Convert(template string) string {
	var b strings.Builder
	for i := 0; i < len(template); i++ {
		ch := template[i]
		switch ch {
		case '%':
			b.WriteString("%%")
			continue
		case '{':
			if end := strings.IndexByte(template[i:], '}'); end > 1 {
				if n, err := strconv.Atoi(template[i+1 : i+end]); err == nil && n >= 0 {
					fmt.Fprintf(&b, "%%[%d]v", n+1)
					i += end
					continue
				}
			}
		}
		b.WriteByte(ch)
	}
	return b.String()
}
