// Package config loads runtime configuration for the terminal client.
//
// Built-in defaults are overlaid by an optional JSON file (-c or -config),
// then by BASICWEBAPP_SERVER_URL, then by command-line flags:
//
//	-a string   base URL of the API server
//	-i int      online status check interval (seconds)
//	-t int      request timeout (seconds)
//
// The JSON file accepts durations as strings like "3s" or integer
// nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s"
//	}
package config
