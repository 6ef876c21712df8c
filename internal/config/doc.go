// Package config loads almanac.json.
//
// Configuration is layered: built-in defaults, then almanac.json, then
// ALMANAC_* environment variables, then command-line flags applied by the
// CLI. Relative directories are resolved against the config file's
// directory.
//
// Example almanac.json:
//
//	{
//	  "server": {"host": "0.0.0.0", "port": 8080},
//	  "content": {"source": "s3", "s3": {"bucket": "magazine", "prefix": "site/"}},
//	  "static": {"dir": "public"},
//	  "defaultMode": "dark"
//	}
package config
