package commands

// CheckRoot exports checkRoot for testing.
var CheckRoot = checkRoot //nolint:gochecknoglobals // test export
