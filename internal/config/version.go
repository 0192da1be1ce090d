package config

// Build information reported by `fundme version`
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// SetBuildFlags records the build information injected by the linker
func SetBuildFlags(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date
}
