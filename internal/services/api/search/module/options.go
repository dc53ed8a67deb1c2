package module

import "bookable/internal/platform/config"

// Options controls provider search
type Options struct {
	// DefaultSlotMin is checked for providers whose services carry no duration
	DefaultSlotMin int
}

// FromConfig reads CORE_API_ keys
func FromConfig(cfg config.Conf) Options {
	return Options{DefaultSlotMin: cfg.Prefix("CORE_API_").MayInt("DEFAULT_SLOT_MIN", 60)}
}
