// Package diagnostic defines the reporter sink consumed by the
// semantic core (spec §6: "the diagnostic reporter sink — we emit
// structured reports to an interface"). The core never formats
// diagnostics for a terminal or an LSP client itself; it only produces
// Report values and hands them to whatever Reporter the caller wired.
package diagnostic

import "github.com/SirZenith/vls/internal/ast"

// Kind is a report's severity.
type Kind int

const (
	KindNotice Kind = iota
	KindWarning
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindNotice:
		return "notice"
	case KindWarning:
		return "warning"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Report is one structured diagnostic: a kind, a message, the source
// range it pertains to, and the file it was produced for.
type Report struct {
	Kind     Kind
	Message  string
	Range    ast.Range
	FilePath string
}

// Reporter receives Reports. The language-server host supplies the
// concrete implementation (e.g. one that translates to LSP
// publishDiagnostics); this package only defines the contract.
type Reporter interface {
	Report(Report)
}

// Collector is a Reporter that simply accumulates every report it
// receives, useful for tests and for the demonstration CLI.
type Collector struct {
	Reports []Report
}

func (c *Collector) Report(r Report) {
	c.Reports = append(c.Reports, r)
}
