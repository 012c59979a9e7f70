package runtime

import "os"

// stdoutSink/stderrSink back System.out/System.err (C9/§11). SetOutputs
// swaps them so PrintStream output can be captured without touching the
// real file descriptors.
var (
	stdoutSink PrintSink = os.Stdout
	stderrSink PrintSink = os.Stderr
)

// stringWriterSink adapts anything with a Write([]byte) method (such as
// *bytes.Buffer) to the WriteString-shaped PrintSink interface.
type stringWriterSink struct {
	w interface {
		Write([]byte) (int, error)
	}
}

func (s stringWriterSink) WriteString(str string) (int, error) {
	return s.w.Write([]byte(str))
}

// SetOutputs rebinds System.out/System.err's backing sinks. Passing nil for
// either leaves that stream unchanged. Lets an embedder or a test redirect
// printed output; the CLI does not call it.
func SetOutputs(out, err PrintSink) {
	if out != nil {
		stdoutSink = out
	}
	if err != nil {
		stderrSink = err
	}
}

// NewWriterSink wraps an io.Writer-shaped value (e.g. *bytes.Buffer) as a
// PrintSink for SetOutputs.
func NewWriterSink(w interface{ Write([]byte) (int, error) }) PrintSink {
	return stringWriterSink{w}
}
