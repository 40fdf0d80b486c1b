package stellar

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stellar/go/keypair"

	apperrors "github.com/YaelStO/AlasLatinasNeftify/internal/errors"
	"github.com/YaelStO/AlasLatinasNeftify/internal/rail"
)

func testKeypair(t *testing.T) *keypair.Full {
	t.Helper()
	kp, err := keypair.Random()
	if err != nil {
		t.Fatalf("generate keypair: %v", err)
	}
	return kp
}

func TestNewRejectsBadSeed(t *testing.T) {
	_, err := New(Config{Seed: "not-a-seed"}, nil)
	if !apperrors.IsValidation(err) {
		t.Fatalf("New with bad seed = %v, want ValidationError", err)
	}
}

func TestNewDefaults(t *testing.T) {
	kp := testKeypair(t)
	r, err := New(Config{Seed: kp.Seed()}, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if r.client.HorizonURL != "https://horizon-testnet.stellar.org" {
		t.Fatalf("HorizonURL = %q", r.client.HorizonURL)
	}
	if r.source.Address() != kp.Address() {
		t.Fatalf("source address = %q, want %q", r.source.Address(), kp.Address())
	}
	if !strings.HasPrefix(r.source.Address(), "G") {
		t.Fatalf("unexpected address shape: %q", r.source.Address())
	}
}

func TestNewHonorsTimeout(t *testing.T) {
	kp := testKeypair(t)
	r, err := New(Config{Seed: kp.Seed(), Timeout: 5 * time.Second}, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	httpClient, ok := r.client.HTTP.(*http.Client)
	if !ok {
		t.Fatalf("client.HTTP is %T, want *http.Client", r.client.HTTP)
	}
	if httpClient.Timeout != 5*time.Second {
		t.Fatalf("HTTP timeout = %v, want 5s", httpClient.Timeout)
	}
}

func TestValidate(t *testing.T) {
	kp := testKeypair(t)
	r, err := New(Config{Seed: kp.Seed()}, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	destination := testKeypair(t).Address()

	cases := []struct {
		name string
		req  rail.Request
		ok   bool
	}{
		{name: "valid", req: rail.Request{Destination: destination, AmountStroops: 100}, ok: true},
		{name: "missing_destination", req: rail.Request{AmountStroops: 100}},
		{name: "bad_destination", req: rail.Request{Destination: "GABC", AmountStroops: 100}},
		{name: "zero_amount", req: rail.Request{Destination: destination}},
		{name: "negative_amount", req: rail.Request{Destination: destination, AmountStroops: -5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := r.Validate(tc.req)
			if tc.ok && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if !tc.ok && !apperrors.IsValidation(err) {
				t.Fatalf("Validate() = %v, want ValidationError", err)
			}
		})
	}
}
