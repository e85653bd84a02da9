package coordinator

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/language"

	"github.com/smykla-skalski/liftoff/internal/settings"
)

// SetLanguage selects the UI language, persists it and refreshes the
// status. The tag is matched against the available languages, so "ru"
// selects "ru-RU".
func (c *Coordinator) SetLanguage(ctx context.Context, tag string) (*Report, error) {
	matched, err := c.matchLanguage(tag)
	if err != nil {
		return nil, err
	}

	if _, err := c.deps.Settings.Update(func(s *settings.Settings) {
		s.Language = matched
	}); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.language = matched
	c.mu.Unlock()

	c.logger.Info("language changed", "language", matched)

	return c.RefreshStatus(ctx), nil
}

// AvailableLanguages returns the configured language tags.
func (c *Coordinator) AvailableLanguages() []string {
	return c.cfg.GetLanguage().GetAvailable()
}

func (c *Coordinator) matchLanguage(tag string) (string, error) {
	available := c.AvailableLanguages()

	requested, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		return "", errors.WithHintf(
			errors.Wrapf(ErrUnsupportedLanguage, "%q", tag),
			"available: %s", strings.Join(available, ", "),
		)
	}

	tags := make([]language.Tag, 0, len(available))
	for _, a := range available {
		tags = append(tags, language.Make(a))
	}

	_, idx, confidence := language.NewMatcher(tags).Match(requested)
	if confidence == language.No {
		return "", errors.WithHintf(
			errors.Wrapf(ErrUnsupportedLanguage, "%q", tag),
			"available: %s", strings.Join(available, ", "),
		)
	}

	return available[idx], nil
}
