package app

import (
	mcpserver "ordna/internal/mcp"
)

// ApproveMCPAction lets a pending agent action run.
func (a *App) ApproveMCPAction(actionID string) error {
	return mcpserver.ResolveStored(a.db.Conn(), actionID, true)
}

// RejectMCPAction cancels a pending agent action.
func (a *App) RejectMCPAction(actionID string) error {
	return mcpserver.ResolveStored(a.db.Conn(), actionID, false)
}
