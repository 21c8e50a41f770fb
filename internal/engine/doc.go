// Package engine discovers installed Node.js versions and picks the one a
// repository should run with.
//
// # Discovery
//
// Two version manager layouts are recognized:
//
//   - NVM_HOME (nvm-windows): $NVM_HOME/<version>/node.exe
//   - NVM_BIN (nvm): $NVM_BIN is <home>/<version>/bin, executables live in
//     <home>/<version>/bin/node
//
// Every folder below the versions home becomes a [Version]. Folders without
// a usable executable are kept with [Version.Err] set and excluded from
// [Engine.Usable].
//
// # Selection
//
// [Engine.Select] combines a [Request] (explicit version prefix, oldest
// policy) with a [Requirement] (the repository's declared range) and returns
// exactly one version or a [*RangeError]:
//
//	e := engine.New()
//	v, err := e.Select(
//		engine.Request{Path: repo, Version: "12"},
//		engine.Requirement{Engines: "^12.13.0 || ^14.15.0"},
//	)
//
// Versions are ordered by [Rank], newest first. One Engine is built per
// invocation and handed to consumers through the context.
package engine
