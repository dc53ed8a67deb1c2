package ch

import (
	"os"
	"runtime"
	"strings"

	"bookable/internal/core/version"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// BuildClientInfo names this process in system.query_log: app and build
// version first, then role, go runtime, short commit and host
func BuildClientInfo(role, app string) clickhouse.ClientInfo {
	bi := version.Info()
	app = strings.TrimSpace(app)
	if app == "" {
		app = "bookable"
	}
	goVer := bi.GoVersion
	if goVer == "" {
		goVer = runtime.Version()
	}
	commit := bi.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	host, _ := os.Hostname()

	type product = struct{ Name, Version string }
	return clickhouse.ClientInfo{Products: []product{
		{Name: app, Version: bi.Version},
		{Name: "role", Version: strings.TrimSpace(role)},
		{Name: "go", Version: goVer},
		{Name: "commit", Version: commit},
		{Name: "host", Version: host},
	}}
}
