package evaluator

import (
	"time"

	"github.com/titivuk/golox/object"
)

// builtins are resolved after the environment chain, so a script may shadow
// them with its own definitions.
var builtins = map[string]*object.Builtin{
	"clock": {
		Name:   "clock",
		Params: 0,
		Fn: func(args ...object.Object) object.Object {
			return &object.Number{Value: float64(time.Now().UnixNano()) / float64(time.Second)}
		},
	},
}
