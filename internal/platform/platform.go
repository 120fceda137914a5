// Package platform holds the chat adapters. An adapter only obtains inbound
// text and delivers replies; every command goes through the interpreter, and
// interpreter errors are delivered with a leading warning glyph.
package platform

// Adapter is a running chat platform integration.
type Adapter interface {
	Start() error
	Stop() error
}

const errorGlyph = "⚠️ "
