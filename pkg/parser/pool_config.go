package parser

import (
	"github.com/gnana997/importsorter/pkg/util"
)

// poolSize keeps one parser per directory worker so that workers never wait
// on a parser. A positive override wins.
func poolSize(override int) int {
	return util.GetOptimalPoolSizeWithOverride(override)
}
