// Package main hosts the intake CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into capture
// pipeline runs, tracker inspection, capture history queries, and
// configuration scaffolding. It centralizes configuration resolution and
// structured logging setup so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
// That separation keeps the CLI declarative while the heavy lifting lives in
// reusable pipeline components.
package main
