// Package stellar implements the payment rail against a Stellar Horizon
// server. Each submission is a single native-asset payment operation signed
// by the server's funding account.
package stellar

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/stellar/go/amount"
	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/strkey"
	"github.com/stellar/go/txnbuild"

	apperrors "github.com/YaelStO/AlasLatinasNeftify/internal/errors"
	"github.com/YaelStO/AlasLatinasNeftify/internal/rail"
	"github.com/YaelStO/AlasLatinasNeftify/pkg/logger"
)

// Config configures the Horizon rail.
type Config struct {
	HorizonURL string
	// Seed is the funding account's secret seed (S...).
	Seed string
	// NetworkPassphrase defaults to the test network.
	NetworkPassphrase string
	// Timeout bounds the Horizon calls for one submission.
	Timeout time.Duration
}

// Rail submits payments through Horizon.
type Rail struct {
	client     *horizonclient.Client
	source     *keypair.Full
	passphrase string
	log        *logger.Logger
}

var _ rail.Rail = (*Rail)(nil)

// New creates a Horizon-backed rail. The seed must parse to a full keypair.
func New(cfg Config, log *logger.Logger) (*Rail, error) {
	if log == nil {
		log = logger.NewDefault("stellar")
	}
	source, err := keypair.ParseFull(cfg.Seed)
	if err != nil {
		return nil, apperrors.NewValidationError("stellar seed", "not a valid secret seed")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	url := cfg.HorizonURL
	if url == "" {
		url = "https://horizon-testnet.stellar.org"
	}
	passphrase := cfg.NetworkPassphrase
	if passphrase == "" {
		passphrase = network.TestNetworkPassphrase
	}

	return &Rail{
		client: &horizonclient.Client{
			HorizonURL: url,
			HTTP:       &http.Client{Timeout: timeout},
		},
		source:     source,
		passphrase: passphrase,
		log:        log,
	}, nil
}

// Name identifies the rail.
func (r *Rail) Name() string { return "stellar" }

// Validate checks the destination address and the stroop amount.
func (r *Rail) Validate(req rail.Request) error {
	if req.Destination == "" {
		return apperrors.NewValidationError("destination", "is required")
	}
	if !strkey.IsValidEd25519PublicKey(req.Destination) {
		return apperrors.NewValidationError("destination", "not a valid Stellar address")
	}
	if req.AmountStroops <= 0 {
		return apperrors.NewValidationError("amountStroops", "must be positive")
	}
	return nil
}

// Submit loads the funding account, builds a single payment operation, signs
// it and submits it to Horizon. The amount arrives in stroops and is
// converted to lumens. On failure the Horizon result codes are distilled
// into the error detail; the raw Horizon error stays server-side.
func (r *Rail) Submit(ctx context.Context, req rail.Request) (rail.Receipt, error) {
	account, err := r.client.AccountDetail(horizonclient.AccountRequest{AccountID: r.source.Address()})
	if err != nil {
		r.log.WithError(err).Error("loading source account failed")
		return rail.Receipt{}, apperrors.NewPaymentError("source account unavailable", err)
	}

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &account,
		IncrementSequenceNum: true,
		BaseFee:              txnbuild.MinBaseFee,
		Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewTimeout(30)},
		Operations: []txnbuild.Operation{
			&txnbuild.Payment{
				Destination: req.Destination,
				Amount:      amount.StringFromInt64(req.AmountStroops),
				Asset:       txnbuild.NativeAsset{},
			},
		},
	})
	if err != nil {
		return rail.Receipt{}, apperrors.NewPaymentError("building transaction failed", err)
	}

	tx, err = tx.Sign(r.passphrase, r.source)
	if err != nil {
		return rail.Receipt{}, apperrors.NewPaymentError("signing transaction failed", err)
	}

	submitted, err := r.client.SubmitTransaction(tx)
	if err != nil {
		detail := resultCodesDetail(err)
		r.log.WithError(err).WithField("result_codes", detail).Error("transaction submission failed")
		return rail.Receipt{}, apperrors.NewPaymentError(detail, err)
	}

	r.log.WithField("hash", submitted.Hash).
		WithField("ledger", submitted.Ledger).
		Info("transaction submitted")
	return rail.Receipt{TransactionID: submitted.Hash, Ledger: submitted.Ledger}, nil
}

// resultCodesDetail mines the transaction result codes out of a Horizon
// error, the only part of the rail's response safe to show callers.
func resultCodesDetail(err error) string {
	herr := horizonclient.GetError(err)
	if herr == nil {
		return "transaction submission failed"
	}
	codes, codesErr := herr.ResultCodes()
	if codesErr != nil || codes == nil {
		return "transaction submission failed"
	}
	parts := []string{codes.TransactionCode}
	parts = append(parts, codes.OperationCodes...)
	return strings.Join(parts, ", ")
}
