// Package infra contains technical adapters such as the simplex engine
// and progress sinks. These packages should depend only on the
// interfaces defined in the core packages.
package infra
