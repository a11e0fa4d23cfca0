// Package config loads the envrepo configuration.
//
// Configuration is read from a single directory containing config.yaml. The
// default directory is ~/.config/envrepo; commands accept --config-path to
// point elsewhere. A missing file is not an error: the defaults from
// GetDefaultConfig are used instead.
//
// # Example
//
//	refreshInterval: 5m
//	fetchTimeout: 30s
//	source:
//	  type: file
//	  path: /etc/envrepo/environments.yaml
//	  watch: true
//	logging:
//	  level: debug
//	  format: json
//	metrics:
//	  enabled: true
//	  address: localhost:9464
//	view:
//	  type: ssh
//	  defaultUsername: dev
//	localization:
//	  templates: true
//	  vars:
//	    region: eu-west-1
//
// Values that are present but invalid are reported together by Validate, so
// a user sees every problem in one run.
package config
