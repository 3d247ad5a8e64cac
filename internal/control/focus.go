package control

import "regexp"

// focusEventPattern matches the focus tracking sequences a ConPTY
// backend echoes into child output: DECSET/DECRST 1004 and the focus
// in/out reports.
var focusEventPattern = regexp.MustCompile(`\x1b\[(\?1004[hl]|[IO])`)

// StripFocusEvents removes focus tracking sequences from a chunk of
// child output. Backends that echo them report it through
// EchoesFocusEvents; the session loop applies this filter only there.
func StripFocusEvents(data []byte) []byte {
	return focusEventPattern.ReplaceAll(data, nil)
}
