// Package envgraft populates the fields of an arbitrary struct from
// environment variables, using a name prefix plus the field name to derive
// each variable's key.
//
// Quick Start:
//
//	type Config struct {
//	    Port    int
//	    Host    string
//	    Workers []int
//	}
//
//	template := Config{Port: 8080, Host: "localhost"}
//	cfg, err := envgraft.Load("APP", &template)
//
// With APP_PORT=9090 and APP_WORKERS="[1, 2, 3]" set, cfg.Port is 9090,
// cfg.Workers is [1 2 3], and cfg.Host keeps its template default.
//
// Nested structs are addressed by extending the prefix with the field name:
// APP_DATABASE_HOST targets Config.Database.Host. Sequence and mapping
// fields are written as YAML flow literals ("[1, 2]", "{a: 1}") in a single
// variable. The caller's template is never mutated; Load returns a fresh
// record or the first coercion error, never a half-populated record.
//
// See example_test.go and README.md for detailed usage.
package envgraft
