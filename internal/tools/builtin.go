package tools

// RegisterBuiltins installs the default tool set. This is the one
// registration step at startup; there is no runtime discovery.
func RegisterBuiltins(registry *Registry) {
	registry.Register(&CurrentTimeTool{})
	registry.Register(&HTTPRequestTool{})
	registry.Register(&ReadFileTool{})
	registry.Register(&ListDirTool{})
	registry.Register(&SearchTextTool{})
}
