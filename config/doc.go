// Package config loads the engine's tunable parameters (spec.md §6): the
// hybrid blend weight, session gap, the exact-Shapley channel guardrail,
// UQ replicate counts and priors, the alpha/lambda sweep grids, the RNG
// seed, and psychographic weight overrides. Load reads environment
// variables (optionally via a .env file, godotenv), and FromYAML reads a
// YAML file via viper. The two are independent: Load reads no YAML file
// and FromYAML reads no environment variables.
package config
