// Package solanatest provides an in-memory stand-in for the Solana RPC.
package solanatest

import (
	"context"
	"errors"
	"sync"

	sol "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

var ErrUnavailable = errors.New("rpc unavailable")

// FakeRPC answers from maps populated by the test. Set Fail to make every
// call error out.
type FakeRPC struct {
	mu sync.Mutex

	Blockhash  sol.Hash
	Accounts   map[sol.PublicKey]uint64
	Signatures map[sol.Signature]rpc.ConfirmationStatusType
	Fail       bool

	Calls map[string]int
}

func NewFakeRPC() *FakeRPC {
	return &FakeRPC{
		Blockhash:  sol.MustHashFromBase58("EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N"),
		Accounts:   make(map[sol.PublicKey]uint64),
		Signatures: make(map[sol.Signature]rpc.ConfirmationStatusType),
		Calls:      make(map[string]int),
	}
}

func (f *FakeRPC) record(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls[method]++
	if f.Fail {
		return ErrUnavailable
	}
	return nil
}

// SetAccount registers an on-chain account with a lamport balance.
func (f *FakeRPC) SetAccount(pk sol.PublicKey, lamports uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Accounts[pk] = lamports
}

func (f *FakeRPC) SetSignature(sig sol.Signature, status rpc.ConfirmationStatusType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Signatures[sig] = status
}

func (f *FakeRPC) GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	if err := f.record("getLatestBlockhash"); err != nil {
		return nil, err
	}
	return &rpc.GetLatestBlockhashResult{
		Value: &rpc.LatestBlockhashResult{
			Blockhash:            f.Blockhash,
			LastValidBlockHeight: 1000,
		},
	}, nil
}

func (f *FakeRPC) GetAccountInfo(ctx context.Context, account sol.PublicKey) (*rpc.GetAccountInfoResult, error) {
	if err := f.record("getAccountInfo"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	lamports, ok := f.Accounts[account]
	f.mu.Unlock()
	if !ok {
		return nil, rpc.ErrNotFound
	}
	return &rpc.GetAccountInfoResult{
		Value: &rpc.Account{
			Lamports: lamports,
			Owner:    sol.SystemProgramID,
		},
	}, nil
}

func (f *FakeRPC) GetBalance(ctx context.Context, account sol.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error) {
	if err := f.record("getBalance"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return &rpc.GetBalanceResult{Value: f.Accounts[account]}, nil
}

func (f *FakeRPC) GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, transactionSignatures ...sol.Signature) (*rpc.GetSignatureStatusesResult, error) {
	if err := f.record("getSignatureStatuses"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	out := &rpc.GetSignatureStatusesResult{}
	for _, sig := range transactionSignatures {
		status, ok := f.Signatures[sig]
		if !ok {
			out.Value = append(out.Value, nil)
			continue
		}
		out.Value = append(out.Value, &rpc.SignatureStatusesResult{ConfirmationStatus: status})
	}
	return out, nil
}

// NewAddress returns a fresh random public key.
func NewAddress() sol.PublicKey {
	return sol.NewWallet().PublicKey()
}
