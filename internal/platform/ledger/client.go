package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultRPCTimeout bounds every gateway round trip when no timeout is configured.
const DefaultRPCTimeout = 10 * time.Second

// Client talks JSON over HTTP to the ledger gateway. Each method is a single
// POST to <base>/v1/<method>. Calls are bounded by Timeout and are never
// retried here; callers decide whether a failure is fatal.
//
// Private keys never leave the process. Calls that need an authority are sent
// as a signedEnvelope: the payload is signed locally and only the signer
// address and the signature go over the wire.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	logger  *slog.Logger
	now     func() time.Time
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("ledger rpc url is required")
	}
	if timeout <= 0 {
		timeout = DefaultRPCTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		http:    &http.Client{},
		logger:  logger,
		now:     time.Now,
	}, nil
}

// rpcError is the rejection body. Code is the stable identifier; Error is
// the human readable message and is matched against the sentinels when the
// gateway omits the code.
type rpcError struct {
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

var rejectionCodes = map[string]error{
	"invalid_key":        ErrInvalidKey,
	"invalid_address":    ErrInvalidAddress,
	"invalid_amount":     ErrInvalidAmount,
	"insufficient_funds": ErrInsufficientFunds,
	"slot_occupied":      ErrSlotOccupied,
	"no_election":        ErrNoElection,
	"wrong_state":        ErrWrongState,
	"unauthorized":       ErrUnauthorized,
	"already_voted":      ErrAlreadyVoted,
	"out_of_range":       ErrOutOfRange,
}

// rejectionError resolves a gateway rejection to one of the package
// sentinels, or nil when it matches none of them.
func rejectionError(body rpcError) error {
	if sentinel, ok := rejectionCodes[strings.TrimSpace(body.Code)]; ok {
		return sentinel
	}
	message := strings.TrimSpace(body.Error)
	for _, sentinel := range rejectionCodes {
		if message == sentinel.Error() {
			return sentinel
		}
	}
	return nil
}

type signedEnvelope struct {
	Signer    string          `json:"signer"`
	IssuedAt  int64           `json:"issued_at"`
	Payload   json.RawMessage `json:"payload"`
	Signature string          `json:"signature"`
}

// SigningMessage is the byte string covered by an envelope signature.
func SigningMessage(method string, issuedAt int64, payload []byte) []byte {
	msg := make([]byte, 0, len(method)+len(payload)+24)
	msg = append(msg, method...)
	msg = append(msg, '\n')
	msg = strconv.AppendInt(msg, issuedAt, 10)
	msg = append(msg, '\n')
	return append(msg, payload...)
}

type emptyPayload struct{}

type txResponse struct {
	TxID string `json:"tx_id"`
}

type createElectionRequest struct {
	Posts []rpcPostSpec `json:"posts"`
}

type rpcPostSpec struct {
	Title      string   `json:"title"`
	Candidates []string `json:"candidates"`
}

type createElectionResponse struct {
	ElectionRef string `json:"election_ref"`
	TxID        string `json:"tx_id"`
}

type submitVoteRequest struct {
	PostIndex      int `json:"post_index"`
	CandidateIndex int `json:"candidate_index"`
}

type tallyRequest struct {
	ElectionRef string `json:"election_ref"`
}

type tallyResponse struct {
	Posts []struct {
		PostIndex  int    `json:"post_index"`
		Title      string `json:"title"`
		Candidates []struct {
			Name  string `json:"name"`
			Votes int64  `json:"votes"`
		} `json:"candidates"`
	} `json:"posts"`
}

type transferRequest struct {
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

type feeResponse struct {
	Fee int64 `json:"fee"`
}

type balanceRequest struct {
	Address string `json:"address"`
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

func (c *Client) CreateElection(ctx context.Context, operatorKey Key, posts []PostSpec) (CreateResult, error) {
	req := createElectionRequest{Posts: make([]rpcPostSpec, 0, len(posts))}
	for _, post := range posts {
		req.Posts = append(req.Posts, rpcPostSpec{Title: post.Title, Candidates: post.Candidates})
	}
	var resp createElectionResponse
	if err := c.callSigned(ctx, OpCreateElection, operatorKey, req, &resp); err != nil {
		return CreateResult{}, err
	}
	return CreateResult{ElectionRef: resp.ElectionRef, TxID: resp.TxID}, nil
}

func (c *Client) StartElection(ctx context.Context, operatorKey Key) (string, error) {
	return c.signed(ctx, OpStartElection, operatorKey)
}

func (c *Client) EndElection(ctx context.Context, operatorKey Key) (string, error) {
	return c.signed(ctx, OpEndElection, operatorKey)
}

func (c *Client) CloseElection(ctx context.Context, operatorKey Key) (string, error) {
	return c.signed(ctx, OpCloseElection, operatorKey)
}

func (c *Client) SubmitVote(ctx context.Context, voterKey Key, postIndex int, candidateIndex int) (string, error) {
	var resp txResponse
	err := c.callSigned(ctx, OpSubmitVote, voterKey, submitVoteRequest{
		PostIndex:      postIndex,
		CandidateIndex: candidateIndex,
	}, &resp)
	return resp.TxID, err
}

func (c *Client) FetchTally(ctx context.Context, electionRef string) ([]PostTally, error) {
	var resp tallyResponse
	if err := c.call(ctx, OpFetchTally, tallyRequest{ElectionRef: electionRef}, &resp); err != nil {
		return nil, err
	}
	out := make([]PostTally, 0, len(resp.Posts))
	for _, post := range resp.Posts {
		item := PostTally{PostIndex: post.PostIndex, Title: post.Title}
		for _, candidate := range post.Candidates {
			item.Candidates = append(item.Candidates, CandidateTally{Name: candidate.Name, Votes: candidate.Votes})
		}
		out = append(out, item)
	}
	return out, nil
}

func (c *Client) Transfer(ctx context.Context, fromKey Key, toAddress string, amount int64) (string, error) {
	var resp txResponse
	err := c.callSigned(ctx, OpTransfer, fromKey, transferRequest{To: toAddress, Amount: amount}, &resp)
	return resp.TxID, err
}

func (c *Client) EstimateFee(ctx context.Context, fromKey Key, toAddress string, amount int64) (int64, error) {
	var resp feeResponse
	err := c.callSigned(ctx, OpEstimateFee, fromKey, transferRequest{To: toAddress, Amount: amount}, &resp)
	return resp.Fee, err
}

func (c *Client) Balance(ctx context.Context, address string) (int64, error) {
	var resp balanceResponse
	err := c.call(ctx, OpBalance, balanceRequest{Address: address}, &resp)
	return resp.Balance, err
}

func (c *Client) signed(ctx context.Context, method string, key Key) (string, error) {
	var resp txResponse
	err := c.callSigned(ctx, method, key, emptyPayload{}, &resp)
	return resp.TxID, err
}

func (c *Client) callSigned(ctx context.Context, method string, key Key, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ledger %s: encode payload: %w", method, err)
	}
	issuedAt := c.now().UTC().UnixMilli()
	signer, signature, err := Sign(key, SigningMessage(method, issuedAt, body))
	if err != nil {
		return fmt.Errorf("ledger %s: %w", method, err)
	}
	return c.call(ctx, method, signedEnvelope{
		Signer:    signer,
		IssuedAt:  issuedAt,
		Payload:   body,
		Signature: signature,
	}, out)
}

func (c *Client) call(ctx context.Context, method string, payload any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ledger %s: encode request: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/"+method, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ledger %s: build request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("ledger rpc call failed",
			"event", "ledger_rpc_call_failed",
			"module", "internal/platform/ledger",
			"layer", "platform",
			"method", method,
			"error", err.Error(),
		)
		return fmt.Errorf("ledger %s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("ledger %s: read response: %w", method, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var rpcErr rpcError
		_ = json.Unmarshal(raw, &rpcErr)
		message := strings.TrimSpace(rpcErr.Error)
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		c.logger.Warn("ledger rpc call rejected",
			"event", "ledger_rpc_call_rejected",
			"module", "internal/platform/ledger",
			"layer", "platform",
			"method", method,
			"status", resp.StatusCode,
			"message", message,
		)
		if sentinel := rejectionError(rpcErr); sentinel != nil {
			return fmt.Errorf("ledger %s: status %d: %w", method, resp.StatusCode, sentinel)
		}
		return fmt.Errorf("ledger %s: status %d: %s", method, resp.StatusCode, message)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("ledger %s: decode response: %w", method, err)
	}
	return nil
}

var _ Gateway = (*Client)(nil)
