// Package table loads device tables: the static description of a
// synthesizer's parameters, their addresses and value ranges.
//
// Tables are YAML documents. Named ranges are declared once and referenced by
// parameters; groups nest; repeat expands a node into numbered copies at a
// fixed address stride.
//
//	name: xg
//	manufacturer: 0x43
//	model: 0x4C
//	framing: xg
//	address_format: hex3
//	ranges:
//	  level:
//	    subranges:
//	      - {lower: 0, upper: 127, offset: 0}
//	nodes:
//	  - label: System
//	    address: "00 00 00"
//	    children:
//	      - {label: Master Volume, address: "00 00 04", range: level, default: 127}
//
// Addresses are byte addresses, written either as an integer or as three
// 7-bit hex bytes. Build turns a Table into a resolved *device.Device; the
// tablegen command compiles tables into Go source that calls Build.
package table
