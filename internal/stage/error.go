package stage

import (
	"fmt"
	"strings"

	"github.com/geonmo/NMSSMPheno/internal/utils"
)

// Error is a failed external tool invocation while staging job inputs.
type Error struct {
	Op      string // high level intent: "archive"
	Tool    string // low level tool: "tar"
	Path    string // the file being produced
	Output  string // Captured Stderr/Stdout
	BaseErr error  // The underlying execution error
}

func (e *Error) Error() string {
	hint := e.analyze()
	var msg strings.Builder

	msg.WriteString(fmt.Sprintf("Staging operation '%s' failed.\n", utils.StyleAction(e.Op)))
	msg.WriteString(fmt.Sprintf("\tTarget:  %s\n", utils.StylePath(e.Path)))
	msg.WriteString(fmt.Sprintf("\tTool:    %s\n", utils.StyleCommand(e.Tool)))

	if cleanOut := strings.TrimSpace(e.Output); cleanOut != "" {
		msg.WriteString(fmt.Sprintf("\tOutput:  %s\n", utils.StyleError(cleanOut)))
	}
	if hint != "" {
		msg.WriteString(fmt.Sprintf("\t%s    %s\n", utils.StyleHint("Hint:"), hint))
	}

	msg.WriteString(fmt.Sprintf("\tError:   %v", e.BaseErr))
	return msg.String()
}

// Unwrap allows errors.Is/As to see the underlying BaseErr
func (e *Error) Unwrap() error {
	return e.BaseErr
}

func (e *Error) analyze() string {
	out := e.Output

	if strings.Contains(out, "No space left on device") {
		return "Submit host storage is full. Free space for the install tarball."
	}
	if strings.Contains(out, "Permission denied") {
		return "Check file permissions on the install directory and the working directory."
	}
	if strings.Contains(out, "Cannot stat") || strings.Contains(out, "No such file or directory") {
		return "The install directory moved or was never built. Check mg5_dir/delphes_dir in your config."
	}
	return ""
}
