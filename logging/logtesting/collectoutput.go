package logtesting

import (
	"bytes"
	"strings"

	"github.com/MobRulesGames/boardscene/logging"
)

// Runs fn with all logging output captured and returns the captured lines.
func CollectOutput(fn func()) []string {
	buf := &bytes.Buffer{}
	reset := logging.Redirect(buf)
	defer reset()

	fn()

	out := strings.TrimRight(buf.String(), "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}
