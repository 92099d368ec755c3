// Package config provides configuration loading for the gophauth CLI.
//
// Values are resolved in three layers, later ones winning:
//
//  1. Defaults (LoadDefaults): local HTTP API, HTTP transport, 10s timeout.
//  2. JSON file named by -c or -config.
//  3. Short flags: -a (server URL), -g (gRPC address), -t (transport),
//     -w (timeout, seconds), -s (session file).
//
// Example JSON file:
//
//	{
//	  "server_url": "http://auth.example:8080",
//	  "grpc_addr": "auth.example:50051",
//	  "transport": "grpc",
//	  "timeout": "5s",
//	  "session_file": "/home/me/.gauth.db"
//	}
package config
