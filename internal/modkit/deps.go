package modkit

import (
	"bookable/internal/modkit/repokit"
	"bookable/internal/platform/config"
	"bookable/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// CH is nil when clickhouse is disabled
type Deps struct {
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
	// Probes are the readiness checks reported by the meta module
	Probes map[string]store.Pinger
}
