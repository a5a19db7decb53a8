// Package agents resolves creator descriptions to target-system agent
// references via get-or-create semantics.
package agents
