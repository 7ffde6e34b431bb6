package envgraft_test

import (
	"context"
	"fmt"

	"github.com/croback/envgraft"
)

func ExampleLoader_Load() {
	type Database struct {
		Host string
		Port int
	}
	type Config struct {
		Name     string
		Workers  []int
		Database Database
	}

	template := Config{
		Name:     "demo",
		Database: Database{Host: "localhost", Port: 5432},
	}

	loader := envgraft.NewLoader[Config]("APP").
		WithSource(envgraft.MapSource{
			"APP_WORKERS":       "[1, 2, 3]",
			"APP_DATABASE_HOST": "db.internal",
		})

	cfg, err := loader.Load(context.Background(), &template)
	if err != nil {
		fmt.Println("load failed:", err)
		return
	}

	fmt.Println(cfg.Name)
	fmt.Println(cfg.Workers)
	fmt.Println(cfg.Database.Host, cfg.Database.Port)
	// Output:
	// demo
	// [1 2 3]
	// db.internal 5432
}

func ExampleVarNames() {
	type Config struct {
		Host  string
		Port  int
		Inner struct {
			Limit int
		}
	}

	names, _ := envgraft.VarNames("app", &Config{})
	for _, name := range names {
		fmt.Println(name)
	}
	// Output:
	// APP_HOST
	// APP_PORT
	// APP_INNER_LIMIT
}
