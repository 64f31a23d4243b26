// Package events defines the normalized input Event record and the
// validation rules the engine enforces before any event reaches the path
// builder. The engine does not parse raw source formats (GA export,
// Facebook export, browser history, ...) — those adapters are out of
// scope (spec.md §1) and are expected to produce Events directly.
package events
