// Package buildinfo reports how the running binary was built, so that output
// files produced by the pipeline tools can be traced back to an exact commit.
package buildinfo

import (
	"fmt"
	"os"
	"runtime/debug"
)

type Info struct {
	Module    string
	GoVersion string
	Revision  string
	BuildTime string
	Dirty     bool
}

func (i Info) String() string {
	dirty := ""
	if i.Dirty {
		dirty = " The working tree was dirty at build time."
	}

	return fmt.Sprintf("%s built with %s from revision %s (%s).%s",
		i.Module, i.GoVersion, i.Revision, i.BuildTime, dirty)
}

func Get() Info {
	out := Info{}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	out.Module = bi.Path
	out.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Revision = s.Value
		case "vcs.time":
			out.BuildTime = s.Value
		case "vcs.modified":
			out.Dirty = s.Value == "true"
		}
	}

	return out
}

func PrintToStderr() {
	fmt.Fprintln(os.Stderr, Get())
}
