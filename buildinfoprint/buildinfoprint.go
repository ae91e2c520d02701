// buildinfoprint is imported for the side effect of printing the build
// information to os.Stderr.
package buildinfoprint

import "github.com/npeschke/jump-monorepo/buildinfo"

func init() {
	buildinfo.PrintToStderr()
}
