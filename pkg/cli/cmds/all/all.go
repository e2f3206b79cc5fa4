// Package all registers all shell commands.
package all

import (
	_ "github.com/robotalks/mrf.go/pkg/cli/cmds/chip"
	_ "github.com/robotalks/mrf.go/pkg/cli/cmds/radio"
)
