package ecs

// QueryCacheCapacity bounds the number of distinct Query resolutions each
// World's query cache retains (LRU-evicted). Override before creating a
// World to change it; the default matches the source engine's.
var QueryCacheCapacity = 256

// DebugAssertions is a development switch for extra validation. No code
// in this module reads it: setting it enables no AccessPolicy checks,
// archetype invariant walks or other validation.
var DebugAssertions = false
