// Package version reports what macchanger binary is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Release builds stamp these with
// -ldflags "-X github.com/projecteru2/macchanger/version.VERSION=v0.1.0 ...".
// Unstamped builds fall back to the module and VCS data the Go linker
// embeds, see Info.
var (
	NAME     = "macchanger"
	VERSION  = ""
	REVISION = ""
	BUILTAT  = ""
)

// Info is the resolved build metadata.
type Info struct {
	Version  string
	Revision string
	BuiltAt  string
	Modified bool
}

// Read resolves Info from the ldflags vars, then debug.ReadBuildInfo.
func Read() Info {
	info := Info{Version: VERSION, Revision: REVISION, BuiltAt: BUILTAT}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = fromBuildInfo(info, bi)
	}
	if info.Version == "" {
		info.Version = "devel"
	}
	return info
}

func fromBuildInfo(info Info, bi *debug.BuildInfo) Info {
	if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Revision == "" {
				info.Revision = s.Value
			}
		case "vcs.time":
			if info.BuiltAt == "" {
				info.BuiltAt = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String renders the version command's output, one "key: value" per line.
func String() string {
	info := Read()
	rev := orUnknown(info.Revision)
	if info.Modified {
		rev += " (dirty)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", NAME)
	fmt.Fprintf(&b, "  version:  %s\n", info.Version)
	fmt.Fprintf(&b, "  revision: %s\n", rev)
	fmt.Fprintf(&b, "  built:    %s\n", orUnknown(info.BuiltAt))
	fmt.Fprintf(&b, "  go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
