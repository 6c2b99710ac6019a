// internal/solana/client.go
package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	sol "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/budayachain/budaya-backend/internal/metrics"
)

var (
	ErrInvalidAddress   = errors.New("invalid solana address")
	ErrInvalidSignature = errors.New("invalid transaction signature")
)

// RPC is the subset of the JSON-RPC API the marketplace talks to.
// *rpc.Client satisfies it.
type RPC interface {
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	GetAccountInfo(ctx context.Context, account sol.PublicKey) (*rpc.GetAccountInfoResult, error)
	GetBalance(ctx context.Context, account sol.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error)
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, transactionSignatures ...sol.Signature) (*rpc.GetSignatureStatusesResult, error)
}

type Client struct {
	rpc        RPC
	network    string
	commitment rpc.CommitmentType
	timeout    time.Duration
	metrics    *metrics.Metrics
}

type Options struct {
	Network string
	Timeout time.Duration
	Metrics *metrics.Metrics
}

// Endpoint picks the public RPC URL for network unless override is set.
func Endpoint(network, override string) string {
	if override != "" {
		return override
	}
	switch network {
	case "mainnet-beta":
		return rpc.MainNetBeta_RPC
	case "testnet":
		return rpc.TestNet_RPC
	case "localnet":
		return rpc.LocalNet_RPC
	default:
		return rpc.DevNet_RPC
	}
}

// Dial builds a client against a live endpoint.
func Dial(endpoint string, opts Options) *Client {
	return NewClient(rpc.New(endpoint), opts)
}

func NewClient(r RPC, opts Options) *Client {
	if opts.Network == "" {
		opts.Network = "devnet"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Client{
		rpc:        r,
		network:    opts.Network,
		commitment: rpc.CommitmentConfirmed,
		timeout:    opts.Timeout,
		metrics:    opts.Metrics,
	}
}

func (c *Client) Network() string {
	return c.network
}

// ExplorerURL links a transaction signature on the public explorer.
func (c *Client) ExplorerURL(signature string) string {
	return fmt.Sprintf("https://explorer.solana.com/tx/%s?cluster=%s", signature, c.network)
}

// ExplorerAddressURL links an account on the public explorer.
func (c *Client) ExplorerAddressURL(address string) string {
	return fmt.Sprintf("https://explorer.solana.com/address/%s?cluster=%s", address, c.network)
}

// LatestBlockhash returns the blockhash and the last block height at which
// a transaction using it is still valid.
func (c *Client) LatestBlockhash(ctx context.Context) (sol.Hash, uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := c.metrics.TrackRPC("getLatestBlockhash")
	out, err := c.rpc.GetLatestBlockhash(ctx, c.commitment)
	done(err)
	if err != nil {
		return sol.Hash{}, 0, fmt.Errorf("failed to get latest blockhash: %w", err)
	}
	if out == nil || out.Value == nil {
		return sol.Hash{}, 0, fmt.Errorf("failed to get latest blockhash: empty response")
	}
	return out.Value.Blockhash, out.Value.LastValidBlockHeight, nil
}

// AccountExists reports whether address holds an account on chain.
func (c *Client) AccountExists(ctx context.Context, address sol.PublicKey) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := c.metrics.TrackRPC("getAccountInfo")
	out, err := c.rpc.GetAccountInfo(ctx, address)
	if errors.Is(err, rpc.ErrNotFound) {
		done(nil)
		return false, nil
	}
	done(err)
	if err != nil {
		return false, fmt.Errorf("failed to get account info: %w", err)
	}
	return out != nil && out.Value != nil, nil
}

// Balance returns the lamport balance of address.
func (c *Client) Balance(ctx context.Context, address sol.PublicKey) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := c.metrics.TrackRPC("getBalance")
	out, err := c.rpc.GetBalance(ctx, address, c.commitment)
	done(err)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	if out == nil {
		return 0, nil
	}
	return out.Value, nil
}

// SignatureConfirmed reports whether a transaction reached confirmed or
// finalized commitment without an execution error.
func (c *Client) SignatureConfirmed(ctx context.Context, signature string) (bool, error) {
	sig, err := ParseSignature(signature)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := c.metrics.TrackRPC("getSignatureStatuses")
	out, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
	done(err)
	if err != nil {
		return false, fmt.Errorf("failed to get signature status: %w", err)
	}
	if out == nil || len(out.Value) == 0 || out.Value[0] == nil {
		return false, nil
	}

	status := out.Value[0]
	if status.Err != nil {
		return false, nil
	}
	switch status.ConfirmationStatus {
	case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
		return true, nil
	}
	return false, nil
}

// ParseAddress decodes a base58 public key.
func ParseAddress(address string) (sol.PublicKey, error) {
	if len(address) < 32 || len(address) > 44 {
		return sol.PublicKey{}, ErrInvalidAddress
	}
	pk, err := sol.PublicKeyFromBase58(address)
	if err != nil {
		return sol.PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return pk, nil
}

// IsValidAddress reports whether address decodes to a 32 byte key.
func IsValidAddress(address string) bool {
	_, err := ParseAddress(address)
	return err == nil
}

func ParseSignature(signature string) (sol.Signature, error) {
	sig, err := sol.SignatureFromBase58(signature)
	if err != nil {
		return sol.Signature{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return sig, nil
}

// VerifyMessage checks an ed25519 signature produced by wallet over message.
func VerifyMessage(wallet, signature string, message []byte) bool {
	pk, err := ParseAddress(wallet)
	if err != nil {
		return false
	}
	sig, err := ParseSignature(signature)
	if err != nil {
		return false
	}
	return sig.Verify(pk, message)
}
