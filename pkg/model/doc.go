// Package model implements the device memory map of a synthesizer.
//
// # Map Hierarchy
//
// A map is a tree of named nodes. Groups organize parameters, leaves hold
// them:
//
//	Group (root)
//	├── Group "XG System"            @ 00 00 00
//	│   ├── Leaf "Master Volume"     @ 00 00 04  (7 bits)
//	│   └── Leaf "XG System On"      @ 00 00 7E  (7 bits, desired address)
//	└── Group "Multi Part 1"         @ 08 00 00
//	    └── ...
//
// Every leaf owns one Contents cell. A Contents holds the raw value, its
// default, the bit width it occupies in the address space and one or more
// Range views used for stepping and display.
//
// # Addressing
//
// Addresses are bit addresses. Resolve walks the tree depth-first and places
// each node at the next free address, or at its desired address when one was
// given. Desired addresses create padding gaps; a gap belongs to no node and
// Locate reports it as not found. Asking for an address that was already
// passed is a configuration error.
//
// # Ranges
//
// A Range is an ordered union of disjoint subranges of unsigned 32-bit raw
// values. Each subrange renders its values through a ValueType: an
// Enumeration of labels, a single fixed label, or a Numeric with an offset.
// Bounds are cyclic: a subrange whose lower bound is above its upper bound
// wraps through 0xFFFFFFFF.
//
// # Concurrency
//
// Ranges and ValueTypes are immutable once attached and may be shared.
// Each Contents guards its value with its own mutex, so a dump running on a
// worker goroutine may read leaves while an editor writes them. Structural
// edits of the tree are construction-time operations and are not
// synchronized.
package model
