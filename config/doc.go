// Package config loads scribe configuration with Viper.
//
// A YAML file supplies the base values, the process environment and an
// optional .env file (loaded with godotenv) override them.
//
// # Usage
//
//	var cfg app.Config
//	err := config.LoadConfig("scribe", &cfg, config.WithConfigFile("scribe.yml"))
package config
