package buildinfo

import "time"

// Set via -ldflags at build time
var (
	Version    = "dev" // release tag
	CommitHash string  // short git commit hash
	BuildTime  string  // when the binary was compiled
)

// StartTime is recorded when the process starts
var StartTime = time.Now().UTC()

// Info is reported by the health endpoint
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit,omitempty"`
	BuildTime  string `json:"build_time,omitempty"`
	StartedAt  string `json:"started_at"`
	Uptime     string `json:"uptime"`
}

// Current returns the build info and uptime at now
func Current(now time.Time) Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		StartedAt:  StartTime.Format(time.RFC3339),
		Uptime:     now.Sub(StartTime).Truncate(time.Second).String(),
	}
}
