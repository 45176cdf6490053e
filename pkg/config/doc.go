// Package config loads env-tagged configuration structs.
//
// Load parses environment variables into a struct using caarlos0/env tags,
// loading a .env file (via godotenv) once per process first. Each struct type
// is parsed a single time and cached, so independent packages can load the
// same config without re-reading the environment.
//
//	type StoreConfig struct {
//	    URL string `env:"MONGODB_URL,required"`
//	}
//
//	var cfg StoreConfig
//	if err := config.Load(&cfg); err != nil { ... }
package config
