// Package i18n provides the translation lookup used by brewdesk's views.
//
// Catalogs are YAML files embedded in the binary, one per language, with
// nested keys addressed by dotted paths ("buttons.clearLog"). Values may
// contain {{param}} placeholders that are filled from Params at lookup time.
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
var catalogFS embed.FS

// DefaultLocale is used when no requested locale matches a catalog.
const DefaultLocale = "en"

// Param is a named interpolation value.
type Param struct {
	Name  string
	Value string
}

// P is shorthand for building a Param.
func P(name string, value any) Param {
	return Param{Name: name, Value: fmt.Sprint(value)}
}

// Translator resolves translation keys for one locale.
type Translator interface {
	T(key string, params ...Param) string
	Locale() string
}

// Bundle holds every loaded catalog and negotiates locales against them.
type Bundle struct {
	tags     []language.Tag
	catalogs []map[string]string
	matcher  language.Matcher
}

// Load reads the embedded catalogs.
func Load() (*Bundle, error) {
	entries, err := catalogFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locale catalogs: %w", err)
	}

	files := make(map[string][]byte, len(entries))
	for _, e := range entries {
		data, err := catalogFS.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", e.Name(), err)
		}
		files[strings.TrimSuffix(e.Name(), path.Ext(e.Name()))] = data
	}
	return NewBundle(files)
}

// NewBundle builds a Bundle from raw YAML catalogs keyed by locale name.
// A catalog for DefaultLocale is required.
func NewBundle(files map[string][]byte) (*Bundle, error) {
	if _, ok := files[DefaultLocale]; !ok {
		return nil, fmt.Errorf("missing %q catalog", DefaultLocale)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		if name != DefaultLocale {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	// The matcher falls back to the first tag, so the default goes first.
	names = append([]string{DefaultLocale}, names...)

	b := &Bundle{}
	for _, name := range names {
		tag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("invalid locale %q: %w", name, err)
		}
		var tree map[string]any
		if err := yaml.Unmarshal(files[name], &tree); err != nil {
			return nil, fmt.Errorf("failed to parse %s catalog: %w", name, err)
		}
		flat := make(map[string]string)
		flatten("", tree, flat)

		b.tags = append(b.tags, tag)
		b.catalogs = append(b.catalogs, flat)
	}
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

// Locales returns the available locales, default first.
func (b *Bundle) Locales() []string {
	out := make([]string, len(b.tags))
	for i, t := range b.tags {
		out[i] = t.String()
	}
	return out
}

// Translator returns a Translator for the closest available match to
// locale. POSIX forms such as "de_DE.UTF-8" are accepted.
func (b *Bundle) Translator(locale string) Translator {
	idx := 0
	if want, err := language.Parse(normalize(locale)); err == nil {
		_, idx, _ = b.matcher.Match(want)
	}
	return &localizer{
		tag:      b.tags[idx],
		primary:  b.catalogs[idx],
		fallback: b.catalogs[0],
	}
}

type localizer struct {
	tag      language.Tag
	primary  map[string]string
	fallback map[string]string
}

func (l *localizer) Locale() string { return l.tag.String() }

// T looks the key up in the active catalog, then the default catalog, and
// finally returns the key itself so a missing string is visible but harmless.
func (l *localizer) T(key string, params ...Param) string {
	msg, ok := l.primary[key]
	if !ok {
		msg, ok = l.fallback[key]
	}
	if !ok {
		return key
	}
	return interpolate(msg, params)
}

func interpolate(msg string, params []Param) string {
	if len(params) == 0 || !strings.Contains(msg, "{{") {
		return msg
	}
	pairs := make([]string, 0, len(params)*4)
	for _, p := range params {
		pairs = append(pairs, "{{"+p.Name+"}}", p.Value, "{{ "+p.Name+" }}", p.Value)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
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

func normalize(locale string) string {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "" || locale == "C" || locale == "POSIX" {
		return DefaultLocale
	}
	return strings.ReplaceAll(locale, "_", "-")
}
