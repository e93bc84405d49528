// Package config loads the hybrids tool configuration.
//
// The configuration lives next to the scenario files in hybrids.json,
// hybrids.yaml (or .yml) or hybrids.toml. The first one found wins, in that
// order. Every section is optional.
//
// # Configuration File Structure
//
//	{
//	  "log": {
//	    "level": "debug",
//	    "format": "json"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "hybrids"
//	  },
//	  "tracing": {
//	    "enabled": true,
//	    "tracerName": "hybrids"
//	  },
//	  "inspector": {
//	    "addr": "127.0.0.1:7357"
//	  }
//	}
package config
