package request

import (
	"entitlement-service/internal/usecase/commands"
)

type ConsumeQuotaRequest struct {
	InputChars       int    `json:"inputChars" binding:"min=0,max=1000000"`
	OutputChars      int    `json:"outputChars" binding:"min=0,max=1000000"`
	ConversationType string `json:"conversationType" binding:"max=64"`
}

func (r *ConsumeQuotaRequest) ToCommand() commands.ConsumeRequest {
	conversationType := r.ConversationType
	if conversationType == "" {
		conversationType = "general"
	}
	return commands.ConsumeRequest{
		InputChars:       r.InputChars,
		OutputChars:      r.OutputChars,
		ConversationType: conversationType,
	}
}

type CheckQuotaRequest struct {
	InputChars  int `json:"inputChars" binding:"min=0,max=1000000"`
	OutputChars int `json:"outputChars" binding:"min=0,max=1000000"`
}
