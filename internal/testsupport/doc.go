// Package testsupport builds isolated configs, stores, and catalog fixtures
// for package tests.
package testsupport
