package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AirdropToUserRequest struct {
	WalletAddress string `json:"wallet_address"`
}

type TransferResultResponse struct {
	AccountID string `json:"account_id,omitempty"`
	Address   string `json:"address"`
	Amount    int64  `json:"amount,omitempty"`
	Success   bool   `json:"success"`
	TxID      string `json:"tx_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

type BatchTransferResponse struct {
	Message   string                   `json:"message"`
	Total     int                      `json:"total"`
	Succeeded int                      `json:"succeeded"`
	Failed    int                      `json:"failed"`
	Results   []TransferResultResponse `json:"results"`
}

type TransferResponse struct {
	Message string                 `json:"message"`
	Result  TransferResultResponse `json:"result"`
}
