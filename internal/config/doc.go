// Package config provides configuration parsing for wtree tools.
//
// The configuration is stored in wtree.json (or wtree.yaml) at the project
// root. This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "name": "demo",
//	  "logLevel": "debug",
//	  "logFormat": "json",
//	  "checked": true,
//	  "serialRenders": false,
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "wtree"
//	  },
//	  "inspector": {
//	    "addr": "localhost:7070",
//	    "history": 256
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
//	fmt.Println("Inspector:", cfg.Inspector.Addr)
package config
