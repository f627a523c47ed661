// Package config loads renderstate.yaml, the configuration file read by the
// renderstate command.
//
// # Configuration File Structure
//
//	devtools:
//	  host: localhost
//	  port: 7331
//	  allowedOrigins: ["http://localhost:3000"]
//	metrics:
//	  enabled: true
//	  namespace: renderstate
//	  subsystem: ""
//	tracing:
//	  tracerName: renderstate
//	logging:
//	  level: info     # debug, info, warn, error
//	  format: text    # text or json
//
// Every field is optional; missing fields take the defaults shown above.
// Unknown keys are rejected so that typos surface as R030 errors.
package config
