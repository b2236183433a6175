package engine

// Phase names emitted in order during a multi-step write. They are an
// observation side channel for progress UIs, not part of the operation's
// correctness contract.
const (
	PhaseGenerating = "generating config"
	PhaseReading    = "reading existing"
	PhaseAdding     = "adding entry"
	PhaseRemoving   = "removing entry"
	PhaseWriting    = "writing"
	PhaseRefreshing = "refreshing"
)

// Reporter observes the named phases of a write operation.
type Reporter interface {
	Phase(name string)
}

// NopReporter discards all phases. It is the default in headless use.
type NopReporter struct{}

// Phase implements Reporter.
func (NopReporter) Phase(string) {}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(name string)

// Phase implements Reporter.
func (f ReporterFunc) Phase(name string) { f(name) }
