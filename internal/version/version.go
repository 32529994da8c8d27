package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Version and Commit identify the build. Releases set them through ldflags:
//
//	go build -ldflags "-X github.com/dalymople/avrsetup/internal/version.Version=v0.3.0 \
//	                   -X github.com/dalymople/avrsetup/internal/version.Commit=1a2b3c4"
//
// Development builds fill them from the module's VCS stamp instead, so
// 'avrsetup version' stays meaningful for a plain 'go build'.
var (
	Version = ""
	Commit  = ""
)

func init() {
	if Version == "" || Commit == "" {
		stampFromVCS()
	}
	if Version == "" {
		Version = "dev-" + time.Now().Format("20060102-150405")
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// stampFromVCS fills the unset identifiers from debug.ReadBuildInfo.
// Go embeds vcs.* settings when building inside a git checkout.
func stampFromVCS() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}

	if Commit == "" {
		if rev := settings["vcs.revision"]; rev != "" {
			if len(rev) > 7 {
				rev = rev[:7]
			}
			if settings["vcs.modified"] == "true" {
				rev += "-dirty"
			}
			Commit = rev
		}
	}

	// Build info carries no tags; a dev version dated by the commit is the
	// best available.
	if Version == "" {
		if t, err := time.Parse(time.RFC3339, settings["vcs.time"]); err == nil {
			Version = "dev-" + t.Format("20060102")
		}
	}
}

// Full returns the version together with the commit hash.
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
