package handler

import (
	"net/http"
	"runtime"
)

// VersionInfo describes the running build
type VersionInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
	GoVersion   string `json:"go_version"`
	GitCommit   string `json:"git_commit,omitempty"`
}

// GitCommit is injected with -ldflags at build time.
var GitCommit = "unset"

// HandleVersion reports the configured version and environment.
func HandleVersion(version, environment string) http.HandlerFunc {
	info := VersionInfo{
		Version:     version,
		Environment: environment,
		GoVersion:   runtime.Version(),
		GitCommit:   GitCommit,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, r, http.StatusOK, info)
	}
}
