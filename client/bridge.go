// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"

	"github.com/formagent/a2a/assistant"
)

// ExecuteAction carries an assistant action to completion. Actions that do
// not reach out to an agent pass through with their message intact; a
// confirmed send is executed against the target agent and the outcome is
// appended to the displayable message. The returned string is always safe
// to show the user.
func (c *Client) ExecuteAction(ctx context.Context, action assistant.Action) string {
	if action.Kind != assistant.ActionConfirmSend && action.Kind != assistant.ActionSendToAgent {
		return action.Message
	}

	resp, err := c.ExecuteOnAgent(ctx, action.AgentID, action.SkillID, action.Data)
	if err != nil {
		return action.Message + "\n\n❌ Failed to contact agent: " + err.Error()
	}
	if !resp.IsSuccess() {
		return action.Message + "\n\n❌ Agent error: " + resp.Error.Message
	}
	return action.Message + "\n\n✅ Agent response: " + resp.ResultMessage()
}
