package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var (
	// Set via ldflags at build time
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// currentVersion fills whatever ldflags left unset from the module build
// info, so `go install` builds still report a version and revision.
func currentVersion(bi *debug.BuildInfo, ok bool) versionInfo {
	v := versionInfo{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
	if !ok || bi == nil {
		return v
	}
	if v.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		v.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if v.Commit == "unknown" {
				v.Commit = s.Value
			}
		case "vcs.time":
			if v.BuildDate == "unknown" {
				v.BuildDate = s.Value
			}
		case "vcs.modified":
			v.Modified = s.Value == "true"
		}
	}
	return v
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := currentVersion(debug.ReadBuildInfo())
		if JSONOutput() {
			return printJSON(v)
		}

		fmt.Printf("auralyn %s\n", v.Version)
		if Verbose() {
			commit := v.Commit
			if v.Modified {
				commit += " (modified)"
			}
			fmt.Printf("  commit:     %s\n", commit)
			fmt.Printf("  built:      %s\n", v.BuildDate)
			fmt.Printf("  go version: %s\n", v.GoVersion)
			fmt.Printf("  platform:   %s/%s\n", v.OS, v.Arch)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
