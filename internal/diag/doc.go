// Package diag defines the diagnostic model shared by the parser, the
// compiler and the driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error (severity.go).
//   - Code – compact numeric identifier with a stable string form (codes.go).
//     Codes 2xxx are ICU syntax errors, 3xxx compile errors, 4xxx I/O,
//     5xxx configuration and 6xxx observability records.
//   - Message – short, actionable text.
//   - Primary span – the source.Span pointing at the offending text.
//   - Notes – optional secondary spans, e.g. "first declared here".
//   - Fixes – optional textual edits, e.g. inserting a missing other case.
//
// # Emitting diagnostics
//
// Producers report through a Reporter. ReportError/ReportWarning/ReportInfo
// return a ReportBuilder that collects notes and fixes before Emit.
// BagReporter stores everything in a Bag; FirstErrorReporter keeps only the
// first error, which is how the compiler fails fast per message.
//
// Rendering lives in internal/diagfmt. FormatShortDiagnostics here is the
// stable one-line form used by tests and `icuc check --format short`.
package diag
