package constants

// AppName is the binary and metrics namespace name.
const AppName = "curlloop"

// DefaultEnvPath is the default path to the .env file
const DefaultEnvPath = "./.env"

// DefaultConfigPath is the default path to the config.toml file
const DefaultConfigPath = "./config.toml"
