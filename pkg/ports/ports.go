// Package ports defines interfaces for external dependencies: the inbound
// stream transport, the image codec, the virtual camera device, and the
// ambient logging, metrics, and debug outputs.
package ports
