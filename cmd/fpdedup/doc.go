// Package main hosts the fpdedup CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation, applies
// flag overrides, and hands the actual work to internal/dedup. Output meant
// for people goes to stdout; logs and progress go to stderr.
package main
