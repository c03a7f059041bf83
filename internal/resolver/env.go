package resolver

import "os"

// LookupFunc adapts a plain function to the Lookup interface.
type LookupFunc func(name string) (string, bool)

// Lookup implements the Lookup interface.
func (f LookupFunc) Lookup(name string) (string, bool) {
	return f(name)
}

// OSEnv returns a Lookup backed by the process environment.
func OSEnv() Lookup {
	return LookupFunc(os.LookupEnv)
}

// StaticEnv returns a Lookup backed by a fixed map, primarily for tests and
// for injecting secret-store values.
func StaticEnv(values map[string]string) Lookup {
	return LookupFunc(func(name string) (string, bool) {
		value, ok := values[name]
		return value, ok
	})
}
