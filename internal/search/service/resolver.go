package service

import (
	"fmt"
	"strings"

	geodomain "github.com/smallbiznis/geodata/internal/geo/domain"
	"github.com/smallbiznis/geodata/internal/search/domain"
)

// ResolveLanguages validates the primary language and keeps extra only when
// it is supported and differs from primary.
func ResolveLanguages(primary, extra string) (domain.LanguageFilter, error) {
	lang, ok := geodomain.ParseLanguage(primary)
	if !ok {
		return domain.LanguageFilter{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedLanguage, primary)
	}

	filter := domain.LanguageFilter{Primary: lang}
	if extraLang, ok := geodomain.ParseLanguage(strings.TrimSpace(extra)); ok && extraLang != lang {
		filter.Extra = &extraLang
	}
	return filter, nil
}
