package i18n

import "errors"

var (
	ErrUnknownResolverKind     = errors.New("i18n.unknown_resolver_kind")
	ErrInvalidLocale           = errors.New("i18n.invalid_locale")
	ErrPreferenceStoreRequired = errors.New("i18n.preference_store_required")
	ErrCookieManagerRequired   = errors.New("i18n.cookie_manager_required")
)
