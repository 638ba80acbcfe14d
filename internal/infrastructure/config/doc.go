// Package config handles loading and validating xComfort SHC client configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - Sensitive values (gateway password, remote key, InfluxDB token)
//     should be set via environment variables rather than the file
//   - The config file should have restricted permissions (0600)
//
// Performance Characteristics:
//   - Configuration is loaded once at startup
//   - No runtime overhead after initial load
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Gateway.BaseURL)
//
// Tools without a config file can start from Default, layer ApplyEnv
// and their own flags on top, and call Validate themselves.
package config
