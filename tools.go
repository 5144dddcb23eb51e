//go:build tools

package tools

// No tool dependencies are tracked with blank imports. mockery v3 runs as an
// installed binary and reads .mockery.yaml: run `mockery` from the module
// root to regenerate pkg/cert/mocks.
