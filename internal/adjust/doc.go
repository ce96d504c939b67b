// Package adjust loads adjustment documents: a YAML file that narrows the set
// of exposed routes and overrides tool descriptions.
//
//	routes:
//	  - path: /todos/*
//	    methods: [GET, POST]
//	descriptions:
//	  - path: /todos
//	    updates:
//	      - method: GET
//	        new_description: List every todo
//
// Path patterns are compiled once, at load time. A single `*` matches one or
// more characters inside a path segment and `**` matches across segments.
package adjust
