// Package analyzer defines the core RevU analysis framework.
//
// Architecture overview:
//
//   - Analyzers implement the Analyzer interface (Analyze + Name) for one
//     external tool each: the syntax checker, Ruff, mypy, Bandit, Black,
//     isort, and pydocstyle. Every analyzer writes the snippet to a temp
//     file, shells out to its tool, and parses the output into normalized
//     Findings.
//   - Runner coordinates concurrent execution with a worker pool and a
//     global rate limiter, invoking a shared ObserveFunc per analyzer so
//     every run produces consistent telemetry.
//   - Shared result structs (Result, Finding) model the rows stored in a
//     review's JSON record and consumed by reports.
//   - The Registry fixes the analyzer order and reports tool availability
//     for the `revu tools` command and the /api/v1/tools endpoint.
//
// A tool that is missing, times out, or errors still yields exactly one
// Result; the run always continues to the next tool.
package analyzer
