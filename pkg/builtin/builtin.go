// Package builtin holds the device tables compiled into the binary.
//
// The *_gen.go files are produced from tables/*.yaml:
//
//	go generate ./pkg/builtin
package builtin

import "github.com/synmap/synmap-go/pkg/device"

//go:generate go run ../../cmd/synmap-tablegen -tables ../../tables -output . -package builtin

// Registry returns a registry holding every built-in device.
func Registry() *device.Registry {
	r := device.NewRegistry()
	register(r)
	return r
}
