// Package config loads texio configuration files and builds engines from
// them.
//
// Configuration is written in CUE or YAML. Both are checked against the
// same embedded CUE schema, which also supplies defaults:
//
//	stdout: "stderr"
//	log: level: "debug"
//	backends: [
//		{type: "dir", path: "./build", writable: true},
//		{type: "stargz", path: "/var/cache/texlive.esgz", match: ["**.tfm", "**.tex"]},
//		{type: "kpsewhich"},
//	]
//
// Build opens every backend, chains them in the listed order and returns
// a ready engine.
package config
