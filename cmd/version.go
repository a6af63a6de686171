package cmd

// version is overridden at build time with -ldflags "-X .../cmd.version=...".
var version = "dev"

// versionTemplate renders `intarr --version` as "intarr <version>".
const versionTemplate = "{{.Name}} {{.Version}}\n"
