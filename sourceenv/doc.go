// Package sourceenv provides the process environment as an envgraft Source.
package sourceenv
