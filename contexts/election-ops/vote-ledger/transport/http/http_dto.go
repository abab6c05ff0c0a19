package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SubmitVoteRequest uses pointers so a missing index is told apart from 0.
type SubmitVoteRequest struct {
	ElectionID     string `json:"election_id"`
	PostIndex      *int   `json:"post_index"`
	CandidateIndex *int   `json:"candidate_index"`
}

type CandidateResponse struct {
	Name     string `json:"name"`
	ImageRef string `json:"image_ref,omitempty"`
}

type VoteResponse struct {
	VoteID         string            `json:"vote_id"`
	ElectionID     string            `json:"election_id"`
	PostIndex      int               `json:"post_index"`
	PostTitle      string            `json:"post_title"`
	CandidateIndex int               `json:"candidate_index"`
	Candidate      CandidateResponse `json:"candidate"`
	VotedAt        string            `json:"voted_at"`
}

type SubmitVoteResponse struct {
	Vote         VoteResponse `json:"vote"`
	TxID         string       `json:"tx_id"`
	VotesCast    int          `json:"votes_cast"`
	PostsTotal   int          `json:"posts_total"`
	Completed    bool         `json:"completed"`
	FundsReclaim string       `json:"funds_reclaim,omitempty"`
	ReclaimTxID  string       `json:"reclaim_tx_id,omitempty"`
}

type HistoryVoteResponse struct {
	PostIndex      int               `json:"post_index"`
	PostTitle      string            `json:"post_title"`
	CandidateIndex int               `json:"candidate_index"`
	Candidate      CandidateResponse `json:"candidate"`
	VotedAt        string            `json:"voted_at"`
	TxID           string            `json:"tx_id"`
}

type ElectionHistoryResponse struct {
	ElectionID     string                `json:"election_id"`
	ElectionTitle  string                `json:"election_title"`
	ElectionStatus string                `json:"election_status"`
	Votes          []HistoryVoteResponse `json:"votes"`
}

type MyVotesResponse struct {
	TotalVotes  int                       `json:"total_votes"`
	VoteHistory []ElectionHistoryResponse `json:"vote_history"`
}

type PostStatusResponse struct {
	PostIndex int    `json:"post_index"`
	PostTitle string `json:"post_title"`
	Voted     bool   `json:"voted"`
}

type VoteStatusResponse struct {
	ElectionID string               `json:"election_id"`
	VoteStatus []PostStatusResponse `json:"vote_status"`
}

type VoterResponse struct {
	Username  string `json:"username"`
	Address   string `json:"wallet_address"`
	PostIndex int    `json:"post_index"`
	VotedAt   string `json:"voted_at"`
}

type ElectionVotersResponse struct {
	ElectionID string          `json:"election_id"`
	VoterCount int             `json:"voter_count"`
	Voters     []VoterResponse `json:"voters"`
}
