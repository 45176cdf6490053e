package i18n

import "errors"

var (
	ErrNoTranslations  = errors.New("i18n: no translations provided")
	ErrInvalidLanguage = errors.New("i18n: invalid language code")
	ErrParseFailed     = errors.New("i18n: failed to parse translation source")
)
