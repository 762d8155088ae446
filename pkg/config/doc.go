// Package config loads env-tagged configuration structs from environment
// variables, reading a .env file once per process when one exists. The store,
// billing and analytics packages each define their own config struct; hosts
// load whichever they wire.
package config
