// Package config provides configuration parsing for the prsh live server.
//
// The configuration is stored in prsh.json next to the binary or in the
// directory passed to Load. Missing fields take their defaults, and command
// line flags override file values.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "host": "localhost",
//	    "port": 8080,
//	    "shutdownTimeout": "10s"
//	  },
//	  "store": {
//	    "initialCount": 0
//	  },
//	  "session": {
//	    "maxFlushPasses": 100
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "path": "/metrics",
//	    "namespace": "prsh"
//	  },
//	  "tracing": {
//	    "enabled": false,
//	    "tracerName": "prsh"
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
