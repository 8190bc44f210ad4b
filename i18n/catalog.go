// Package i18n renders notices through the embedded locale catalogs.
package i18n

import (
	"chat-pair/domain"
	"chat-pair/errors"
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

var buttonCommands = map[string]domain.CommandKind{
	"button.search": domain.CommandStartSearch,
	"button.next":   domain.CommandNextPartner,
	"button.stop":   domain.CommandEndChat,
	"button.cancel": domain.CommandEndChat,
	"button.help":   domain.CommandHelp,
}

var requiredKeys = []domain.NoticeKey{
	domain.NoticeWelcome, domain.NoticeHelp, domain.NoticePartnerFound, domain.NoticeSearching,
	domain.NoticeSearchingQueued, domain.NoticeAlreadySearching, domain.NoticeAlreadyInChat,
	domain.NoticeChatEnded, domain.NoticePartnerLeft, domain.NoticeSearchCancelled,
	domain.NoticeNothingToEnd, domain.NoticeLookingForNext, domain.NoticeStillSearching,
	domain.NoticeNotInChat, domain.NoticePartnerMissing, domain.NoticeUnsupportedContent,
	domain.NoticeInvalidContent, domain.NoticeDeliveryFailed, domain.NoticeDialogEnded,
	domain.NoticeStatus, domain.NoticeStats,
}

// Renderer turns notices into user facing text.
type Renderer struct {
	tags     []language.Tag
	matcher  language.Matcher
	catalog  *catalog.Builder
	printers map[language.Tag]*message.Printer
	buttons  map[string]domain.CommandKind
}

// NewRenderer loads the embedded catalogs, defaultLocale is used when no catalog matches.
func NewRenderer(defaultLocale string) (*Renderer, error) {
	return LoadFromFS(embeddedLocales, defaultLocale)
}

func LoadFromFS(locales fs.FS, defaultLocale string) (*Renderer, error) {
	paths, err := fs.Glob(locales, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no catalog files found", errors.ErrMissingCatalog)
	}
	slices.Sort(paths)

	defaultTag, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("parse default locale %q: %w", defaultLocale, err)
	}

	r := &Renderer{
		catalog:  catalog.NewBuilder(catalog.Fallback(defaultTag)),
		printers: make(map[language.Tag]*message.Printer),
		buttons:  make(map[string]domain.CommandKind),
	}
	for _, path := range paths {
		data, err := fs.ReadFile(locales, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		if err := r.add(path, data); err != nil {
			return nil, err
		}
	}

	idx := slices.Index(r.tags, defaultTag)
	if idx < 0 {
		return nil, fmt.Errorf("%w: default locale %s", errors.ErrMissingCatalog, defaultLocale)
	}
	// The matcher falls back on its first tag.
	r.tags[0], r.tags[idx] = r.tags[idx], r.tags[0]
	r.matcher = language.NewMatcher(r.tags)
	for _, tag := range r.tags {
		r.printers[tag] = message.NewPrinter(tag, message.Catalog(r.catalog))
	}
	return r, nil
}

func (r *Renderer) add(path string, data []byte) error {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse catalog %s: %w", path, err)
	}
	tag, err := language.Parse(strings.TrimSpace(file.Locale))
	if err != nil {
		return fmt.Errorf("catalog %s: parse locale %q: %w", path, file.Locale, err)
	}
	if slices.Contains(r.tags, tag) {
		return fmt.Errorf("catalog %s: locale %s already defined", path, tag)
	}
	for _, key := range requiredKeys {
		if _, ok := file.Messages[string(key)]; !ok {
			return fmt.Errorf("%w: %s has no %q", errors.ErrMissingCatalog, path, key)
		}
	}
	for key, msg := range file.Messages {
		if err := r.catalog.SetString(tag, key, msg); err != nil {
			return fmt.Errorf("catalog %s: key %q: %w", path, key, err)
		}
		if cmd, ok := buttonCommands[key]; ok {
			r.buttons[msg] = cmd
		}
	}
	r.tags = append(r.tags, tag)
	return nil
}

// Locales lists the loaded catalogs, the default one first.
func (r *Renderer) Locales() []string {
	out := make([]string, 0, len(r.tags))
	for _, tag := range r.tags {
		out = append(out, tag.String())
	}
	return out
}

func (r *Renderer) printer(locale string) *message.Printer {
	tag, _ := language.Parse(locale)
	_, idx, confidence := r.matcher.Match(tag)
	if confidence == language.No {
		idx = 0
	}
	return r.printers[r.tags[idx]]
}

// Render formats the notice in the catalog closest to locale.
func (r *Renderer) Render(locale string, notice domain.Notice) string {
	p := r.printer(locale)
	var args []any
	switch notice.Key {
	case domain.NoticeSearchingQueued:
		args = append(args, notice.Waiting)
	case domain.NoticeStatus:
		args = append(args, p.Sprintf("state."+notice.State.String()))
	case domain.NoticeStats:
		var stats domain.Stats
		if notice.Stats != nil {
			stats = *notice.Stats
		}
		args = append(args, stats.TotalTrackedUsers, stats.ChattingCount,
			stats.SearchingCount, stats.TotalPairingsFormed)
	}
	return p.Sprintf(string(notice.Key), args...)
}

// Button returns the label of a keyboard button.
func (r *Renderer) Button(locale, key string) string {
	return r.printer(locale).Sprintf(key)
}

// CommandOf maps a keyboard button label, in any locale, on its command.
func (r *Renderer) CommandOf(text string) (domain.CommandKind, bool) {
	cmd, ok := r.buttons[strings.TrimSpace(text)]
	return cmd, ok
}
