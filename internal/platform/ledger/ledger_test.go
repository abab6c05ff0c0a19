package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSimulatedElectionSlotLifecycle(t *testing.T) {
	ctx := context.Background()
	sim := NewSimulated("election_v6", 5000)
	_, operatorKey, err := GenerateWallet()
	if err != nil {
		t.Fatalf("generate wallet: %v", err)
	}
	_, voterKey, _ := GenerateWallet()

	created, err := sim.CreateElection(ctx, operatorKey, []PostSpec{{Title: "Chair", Candidates: []string{"a", "b"}}})
	if err != nil {
		t.Fatalf("create election: %v", err)
	}
	if created.ElectionRef != ElectionSlot("election_v6", "simulated") {
		t.Fatalf("unexpected election ref %s", created.ElectionRef)
	}
	if _, err := sim.CreateElection(ctx, operatorKey, nil); !errors.Is(err, ErrSlotOccupied) {
		t.Fatalf("expected slot occupied, got %v", err)
	}
	if _, err := sim.SubmitVote(ctx, voterKey, 0, 1); !errors.Is(err, ErrWrongState) {
		t.Fatalf("expected wrong state before start, got %v", err)
	}
	if _, err := sim.StartElection(ctx, voterKey); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized start, got %v", err)
	}
	if _, err := sim.StartElection(ctx, operatorKey); err != nil {
		t.Fatalf("start election: %v", err)
	}
	if _, err := sim.SubmitVote(ctx, voterKey, 0, 1); err != nil {
		t.Fatalf("submit vote: %v", err)
	}
	if _, err := sim.SubmitVote(ctx, voterKey, 0, 0); !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("expected already voted, got %v", err)
	}
	if _, err := sim.CloseElection(ctx, operatorKey); !errors.Is(err, ErrWrongState) {
		t.Fatalf("expected close to require ended state, got %v", err)
	}
	if _, err := sim.EndElection(ctx, operatorKey); err != nil {
		t.Fatalf("end election: %v", err)
	}
	if _, err := sim.CloseElection(ctx, operatorKey); err != nil {
		t.Fatalf("close election: %v", err)
	}

	tally, err := sim.FetchTally(ctx, created.ElectionRef)
	if err != nil {
		t.Fatalf("fetch tally: %v", err)
	}
	if len(tally) != 1 || tally[0].Candidates[1].Votes != 1 || tally[0].Candidates[0].Votes != 0 {
		t.Fatalf("unexpected tally %+v", tally)
	}
	if _, err := sim.CreateElection(ctx, operatorKey, nil); err != nil {
		t.Fatalf("expected closed slot to be reusable, got %v", err)
	}
}

func TestSimulatedTransferChargesFee(t *testing.T) {
	ctx := context.Background()
	sim := NewSimulated("seed", 5000)
	from, fromKey, _ := GenerateWallet()
	to, _, _ := GenerateWallet()
	sim.Fund(from, 100_000)

	if _, err := sim.Transfer(ctx, fromKey, to, 96_000); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	if _, err := sim.Transfer(ctx, fromKey, to, 95_000); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	fromBalance, _ := sim.Balance(ctx, from)
	toBalance, _ := sim.Balance(ctx, to)
	if fromBalance != 0 || toBalance != 95_000 {
		t.Fatalf("unexpected balances from=%d to=%d", fromBalance, toBalance)
	}
	if sim.Calls(OpTransfer) != 2 {
		t.Fatalf("expected 2 transfer calls, got %d", sim.Calls(OpTransfer))
	}
}

func TestAddressOfMatchesGeneratedWallet(t *testing.T) {
	address, key, err := GenerateWallet()
	if err != nil {
		t.Fatalf("generate wallet: %v", err)
	}
	derived, err := AddressOf(key)
	if err != nil {
		t.Fatalf("address of: %v", err)
	}
	if derived != address || !ValidAddress(address) {
		t.Fatalf("derived %s does not match %s", derived, address)
	}
	if _, err := AddressOf(Key("short")); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected invalid key, got %v", err)
	}
}

func TestClientPostsJSONAndSurfacesRejections(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/balance":
			var req balanceRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			_ = json.NewEncoder(w).Encode(balanceResponse{Balance: int64(len(req.Address))})
		case "/v1/transfer":
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(rpcError{Error: "insufficient lamports"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, err := NewClient(server.URL, time.Second, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	balance, err := client.Balance(context.Background(), "abcd")
	if err != nil || balance != 4 {
		t.Fatalf("expected balance 4, got %d err=%v", balance, err)
	}
	_, key, _ := GenerateWallet()
	if _, err := client.Transfer(context.Background(), key, "abcd", 1); err == nil {
		t.Fatalf("expected transfer rejection")
	}
}

func TestClientMapsRejectionsToSentinels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/submit_vote":
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(rpcError{Error: "ledger: voter already voted for post"})
		case "/v1/transfer":
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(rpcError{Code: "insufficient_funds", Error: "not enough lamports"})
		default:
			w.WriteHeader(http.StatusBadGateway)
			_ = json.NewEncoder(w).Encode(rpcError{Error: "upstream node unreachable"})
		}
	}))
	defer server.Close()

	client, err := NewClient(server.URL, time.Second, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, key, _ := GenerateWallet()
	ctx := context.Background()

	if _, err := client.SubmitVote(ctx, key, 0, 1); !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}
	if _, err := client.Transfer(ctx, key, "abcd", 10); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	_, err = client.StartElection(ctx, key)
	if err == nil {
		t.Fatalf("expected rejection")
	}
	for _, sentinel := range rejectionCodes {
		if errors.Is(err, sentinel) {
			t.Fatalf("unclassified rejection matched %v", sentinel)
		}
	}
}

func TestClientSignsLocallyAndNeverSendsKey(t *testing.T) {
	address, key, err := GenerateWallet()
	if err != nil {
		t.Fatalf("generate wallet: %v", err)
	}
	var (
		raw      []byte
		envelope signedEnvelope
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ = io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &envelope)
		_ = json.NewEncoder(w).Encode(txResponse{TxID: "tx-1"})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, time.Second, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return issued }

	txID, err := client.Transfer(context.Background(), key, "destination", 42)
	if err != nil || txID != "tx-1" {
		t.Fatalf("transfer: tx=%s err=%v", txID, err)
	}
	if bytes.Contains(raw, []byte(base58.Encode(key))) || bytes.Contains(raw, []byte(`"key"`)) {
		t.Fatalf("request body carries private key material: %s", raw)
	}
	if envelope.Signer != address || envelope.IssuedAt != issued.UnixMilli() {
		t.Fatalf("unexpected envelope header %+v", envelope)
	}
	message := SigningMessage(OpTransfer, envelope.IssuedAt, envelope.Payload)
	if !VerifySignature(address, message, envelope.Signature) {
		t.Fatalf("signature does not verify")
	}
	if VerifySignature(address, SigningMessage(OpStartElection, envelope.IssuedAt, envelope.Payload), envelope.Signature) {
		t.Fatalf("signature must bind the method")
	}
	var payload transferRequest
	if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.To != "destination" || payload.Amount != 42 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestClientTimesOut(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client, _ := NewClient(server.URL, 50*time.Millisecond, nil)
	started := time.Now()
	if _, err := client.Balance(context.Background(), "abcd"); err == nil {
		t.Fatalf("expected timeout error")
	}
	if time.Since(started) > 2*time.Second {
		t.Fatalf("timeout was not enforced")
	}
}

func TestInstrumentedCountsOutcomes(t *testing.T) {
	registry := prometheus.NewRegistry()
	sim := NewSimulated("seed", 0)
	gateway, err := Instrument(sim, registry)
	if err != nil {
		t.Fatalf("instrument: %v", err)
	}
	address, _, _ := GenerateWallet()
	_, _ = gateway.Balance(context.Background(), address)
	_, _ = gateway.Balance(context.Background(), "not-an-address")

	if got := testutil.ToFloat64(gateway.calls.WithLabelValues(OpBalance, "ok")); got != 1 {
		t.Fatalf("expected 1 ok call, got %f", got)
	}
	if got := testutil.ToFloat64(gateway.calls.WithLabelValues(OpBalance, "error")); got != 1 {
		t.Fatalf("expected 1 error call, got %f", got)
	}

	again, err := Instrument(sim, registry)
	if err != nil {
		t.Fatalf("re-instrument against same registry: %v", err)
	}
	if again.calls != gateway.calls {
		t.Fatalf("expected existing collector to be reused")
	}
}
