package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"sync"
)

const (
	OpCreateElection = "create_election"
	OpStartElection  = "start_election"
	OpEndElection    = "end_election"
	OpCloseElection  = "close_election"
	OpSubmitVote     = "submit_vote"
	OpFetchTally     = "fetch_tally"
	OpTransfer       = "transfer"
	OpEstimateFee    = "estimate_fee"
	OpBalance        = "balance"
)

type slotState int

const (
	slotConfigured slotState = iota
	slotActive
	slotEnded
	slotClosed
)

type simElection struct {
	authority string
	posts     []PostSpec
	state     slotState
	tallies   [][]int64
	voted     map[string]struct{}
}

// Simulated is an in-process ledger used for development runs and tests.
// It keeps a single election slot, account balances and a flat transfer
// fee. Fees are charged on value transfers only.
type Simulated struct {
	mu sync.Mutex

	slot     string
	fee      int64
	election *simElection
	balances map[string]int64
	seq      int

	failures   map[string]error
	transferTo map[string]error
	calls      map[string]int
}

func NewSimulated(seed string, fee int64) *Simulated {
	if fee < 0 {
		fee = 0
	}
	return &Simulated{
		slot:       ElectionSlot(seed, "simulated"),
		fee:        fee,
		balances:   make(map[string]int64),
		failures:   make(map[string]error),
		transferTo: make(map[string]error),
		calls:      make(map[string]int),
	}
}

// Fund credits an address out of thin air.
func (s *Simulated) Fund(address string, amount int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[address] += amount
}

// FailOperation makes every call of op return err until cleared with a nil err.
func (s *Simulated) FailOperation(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// FailTransfersTo makes transfers to address fail with err.
func (s *Simulated) FailTransfersTo(address string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.transferTo, address)
		return
	}
	s.transferTo[address] = err
}

// Calls returns how many times op was invoked, failed calls included.
func (s *Simulated) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *Simulated) SetFee(fee int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fee = fee
}

func (s *Simulated) CreateElection(ctx context.Context, operatorKey Key, posts []PostSpec) (CreateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx, OpCreateElection); err != nil {
		return CreateResult{}, err
	}
	authority, err := AddressOf(operatorKey)
	if err != nil {
		return CreateResult{}, err
	}
	if s.election != nil && s.election.state != slotClosed {
		return CreateResult{}, ErrSlotOccupied
	}
	tallies := make([][]int64, len(posts))
	copied := make([]PostSpec, len(posts))
	for i, post := range posts {
		tallies[i] = make([]int64, len(post.Candidates))
		copied[i] = PostSpec{Title: post.Title, Candidates: append([]string(nil), post.Candidates...)}
	}
	s.election = &simElection{
		authority: authority,
		posts:     copied,
		state:     slotConfigured,
		tallies:   tallies,
		voted:     make(map[string]struct{}),
	}
	return CreateResult{ElectionRef: s.slot, TxID: s.nextTx(OpCreateElection)}, nil
}

func (s *Simulated) StartElection(ctx context.Context, operatorKey Key) (string, error) {
	return s.transition(ctx, OpStartElection, operatorKey, slotConfigured, slotActive)
}

func (s *Simulated) EndElection(ctx context.Context, operatorKey Key) (string, error) {
	return s.transition(ctx, OpEndElection, operatorKey, slotActive, slotEnded)
}

func (s *Simulated) CloseElection(ctx context.Context, operatorKey Key) (string, error) {
	return s.transition(ctx, OpCloseElection, operatorKey, slotEnded, slotClosed)
}

func (s *Simulated) transition(ctx context.Context, op string, key Key, from slotState, to slotState) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx, op); err != nil {
		return "", err
	}
	signer, err := AddressOf(key)
	if err != nil {
		return "", err
	}
	if s.election == nil {
		return "", ErrNoElection
	}
	if s.election.authority != signer {
		return "", ErrUnauthorized
	}
	if s.election.state != from {
		return "", ErrWrongState
	}
	s.election.state = to
	return s.nextTx(op), nil
}

func (s *Simulated) SubmitVote(ctx context.Context, voterKey Key, postIndex int, candidateIndex int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx, OpSubmitVote); err != nil {
		return "", err
	}
	voter, err := AddressOf(voterKey)
	if err != nil {
		return "", err
	}
	if s.election == nil {
		return "", ErrNoElection
	}
	if s.election.state != slotActive {
		return "", ErrWrongState
	}
	if postIndex < 0 || postIndex >= len(s.election.tallies) ||
		candidateIndex < 0 || candidateIndex >= len(s.election.tallies[postIndex]) {
		return "", ErrOutOfRange
	}
	marker := voter + "#" + strconv.Itoa(postIndex)
	if _, ok := s.election.voted[marker]; ok {
		return "", ErrAlreadyVoted
	}
	s.election.voted[marker] = struct{}{}
	s.election.tallies[postIndex][candidateIndex]++
	return s.nextTx(OpSubmitVote), nil
}

func (s *Simulated) FetchTally(ctx context.Context, electionRef string) ([]PostTally, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx, OpFetchTally); err != nil {
		return nil, err
	}
	if s.election == nil || electionRef != s.slot {
		return nil, ErrNoElection
	}
	out := make([]PostTally, 0, len(s.election.posts))
	for i, post := range s.election.posts {
		candidates := make([]CandidateTally, 0, len(post.Candidates))
		for j, name := range post.Candidates {
			candidates = append(candidates, CandidateTally{Name: name, Votes: s.election.tallies[i][j]})
		}
		out = append(out, PostTally{PostIndex: i, Title: post.Title, Candidates: candidates})
	}
	return out, nil
}

func (s *Simulated) Transfer(ctx context.Context, fromKey Key, toAddress string, amount int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx, OpTransfer); err != nil {
		return "", err
	}
	if err, ok := s.transferTo[toAddress]; ok {
		return "", err
	}
	from, err := s.checkTransfer(fromKey, toAddress, amount)
	if err != nil {
		return "", err
	}
	if s.balances[from] < amount+s.fee {
		return "", ErrInsufficientFunds
	}
	s.balances[from] -= amount + s.fee
	s.balances[toAddress] += amount
	return s.nextTx(OpTransfer), nil
}

func (s *Simulated) EstimateFee(ctx context.Context, fromKey Key, toAddress string, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx, OpEstimateFee); err != nil {
		return 0, err
	}
	if _, err := s.checkTransfer(fromKey, toAddress, amount); err != nil {
		return 0, err
	}
	return s.fee, nil
}

func (s *Simulated) Balance(ctx context.Context, address string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx, OpBalance); err != nil {
		return 0, err
	}
	if !ValidAddress(address) {
		return 0, ErrInvalidAddress
	}
	return s.balances[address], nil
}

func (s *Simulated) checkTransfer(fromKey Key, toAddress string, amount int64) (string, error) {
	from, err := AddressOf(fromKey)
	if err != nil {
		return "", err
	}
	if !ValidAddress(toAddress) {
		return "", ErrInvalidAddress
	}
	if amount <= 0 {
		return "", ErrInvalidAmount
	}
	return from, nil
}

func (s *Simulated) begin(ctx context.Context, op string) error {
	s.calls[op]++
	if err := ctx.Err(); err != nil {
		return err
	}
	if err, ok := s.failures[op]; ok {
		return err
	}
	return nil
}

func (s *Simulated) nextTx(op string) string {
	s.seq++
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s/%s/%d", s.slot, op, s.seq)))
	return hex.EncodeToString(sum[:])
}

var _ Gateway = (*Simulated)(nil)
