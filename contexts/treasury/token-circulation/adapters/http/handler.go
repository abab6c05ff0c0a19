package httpadapter

import (
	"context"
	"log/slog"

	"ballotbridge/contexts/treasury/token-circulation/application/commands"
	"ballotbridge/contexts/treasury/token-circulation/domain/entities"
	"ballotbridge/contexts/treasury/token-circulation/ports"
	httptransport "ballotbridge/contexts/treasury/token-circulation/transport/http"
)

type Handler struct {
	Circulation commands.CirculationUseCase
	Logger      *slog.Logger
}

func (h Handler) AirdropAllHandler(ctx context.Context, actor ports.Actor) (httptransport.BatchTransferResponse, error) {
	results, err := h.Circulation.AirdropToAll(ctx, actor)
	if err != nil {
		return httptransport.BatchTransferResponse{}, err
	}
	return mapBatch("airdrop complete", results), nil
}

func (h Handler) AirdropToUserHandler(
	ctx context.Context,
	actor ports.Actor,
	req httptransport.AirdropToUserRequest,
) (httptransport.TransferResponse, error) {
	result, err := h.Circulation.AirdropToAddress(ctx, actor, req.WalletAddress)
	if err != nil {
		return httptransport.TransferResponse{}, err
	}
	return httptransport.TransferResponse{Message: "airdrop complete", Result: mapResult(result)}, nil
}

func (h Handler) SendBackHandler(ctx context.Context, actor ports.Actor) (httptransport.BatchTransferResponse, error) {
	results, err := h.Circulation.SendBackAll(ctx, actor)
	if err != nil {
		return httptransport.BatchTransferResponse{}, err
	}
	return mapBatch("send-back complete", results), nil
}

func (h Handler) ReclaimHandler(ctx context.Context, actor ports.Actor) (httptransport.TransferResponse, error) {
	result, err := h.Circulation.ReclaimPercentage(ctx, actor.Holder)
	if err != nil {
		return httptransport.TransferResponse{}, err
	}
	return httptransport.TransferResponse{Message: "reclaim complete", Result: mapResult(result)}, nil
}

func mapBatch(message string, results []entities.TransferResult) httptransport.BatchTransferResponse {
	response := httptransport.BatchTransferResponse{
		Message: message,
		Total:   len(results),
		Results: make([]httptransport.TransferResultResponse, 0, len(results)),
	}
	for _, result := range results {
		if result.Success {
			response.Succeeded++
		} else {
			response.Failed++
		}
		response.Results = append(response.Results, mapResult(result))
	}
	return response
}

func mapResult(result entities.TransferResult) httptransport.TransferResultResponse {
	return httptransport.TransferResultResponse{
		AccountID: result.AccountID,
		Address:   result.Address,
		Amount:    result.Amount,
		Success:   result.Success,
		TxID:      result.TxID,
		Error:     result.Error,
	}
}
