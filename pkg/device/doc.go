// Package device binds an address map to the identity and framing of a
// concrete synthesizer model.
//
// A Device is what the editor shell works with: it knows the manufacturer
// and model bytes, how dumps are framed, how addresses are labeled for
// display, and it owns the resolved parameter tree. Devices are created
// through a Registry that maps names to constructors; see package builtin
// for the models that ship with synmap.
package device
