package main

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	addr := deps.Config.Server.Addr
	deps.Logger.Info("serving", "addr", addr, "mcp", "/mcp", "api", "/api")
	return deps.Server.ListenAndServe(deps.Ctx, addr)
}
