// Package roles implements transaction authorization as a sequence of
// roles.
//
// Roles separate the life of a transaction into distinct responsibilities:
//   - Creator: builds unsigned raw data from contracts and a reference block
//   - Constructor: adds contracts and metadata before anyone signs
//   - Signer: appends one signature over the signing hash
//   - Combiner: reconciles copies where one extends the other
//   - Validator: checks every signature against its contract's owner
//   - Extractor: produces broadcast bytes from a fully authorized transaction
//
// The signing hash covers the raw data only. Once the first signature is
// attached the raw data is frozen: the metadata setters in this package
// return signed transactions unchanged.
package roles

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/lightningnetwork/lnd/clock"

	"github.com/suffix-labs/stabila-sign/pkg/tx"
)

// DefaultExpirationWindow is how long after creation a transaction stays
// valid unless configured otherwise.
const DefaultExpirationWindow = 6 * time.Hour

// ErrNoContracts is returned when a transaction would carry no contracts.
var ErrNoContracts = errors.New("transaction has no contracts")

// ReferenceBlock pins a transaction to a recent block so it cannot be
// replayed on a fork that lacks that block.
type ReferenceBlock struct {
	Number int64    // Block height
	ID     [32]byte // Block id
}

// refBytes returns bytes 6..8 of the big-endian height.
func (b ReferenceBlock) refBytes() []byte {
	var num [8]byte
	binary.BigEndian.PutUint64(num[:], uint64(b.Number))
	return append([]byte{}, num[6:8]...)
}

// refHash returns bytes 8..16 of the block id.
func (b ReferenceBlock) refHash() []byte {
	return append([]byte{}, b.ID[8:16]...)
}

// Creator builds unsigned transactions.
type Creator struct {
	clock            clock.Clock
	expirationWindow time.Duration
	refBlock         *ReferenceBlock
	feeLimit         int64
	data             []byte
}

// NewCreator creates a Creator that stamps transactions with clk.
func NewCreator(clk clock.Clock) *Creator {
	if clk == nil {
		clk = clock.NewDefaultClock()
	}
	return &Creator{
		clock:            clk,
		expirationWindow: DefaultExpirationWindow,
	}
}

// WithReferenceBlock sets the block the transaction references.
func (c *Creator) WithReferenceBlock(block ReferenceBlock) *Creator {
	c.refBlock = &block
	return c
}

// WithExpirationWindow overrides DefaultExpirationWindow.
func (c *Creator) WithExpirationWindow(window time.Duration) *Creator {
	c.expirationWindow = window
	return c
}

// WithFeeLimit caps the energy fee of smart contract calls, in sun.
func (c *Creator) WithFeeLimit(limit int64) *Creator {
	c.feeLimit = limit
	return c
}

// WithData attaches a free-form memo.
func (c *Creator) WithData(data []byte) *Creator {
	c.data = append([]byte{}, data...)
	return c
}

// Create builds an unsigned transaction holding contracts, stamped with the
// current time and expiring after the configured window.
func (c *Creator) Create(contracts ...tx.Contract) (*tx.Transaction, error) {
	if len(contracts) == 0 {
		return nil, ErrNoContracts
	}

	now := c.clock.Now()
	raw := tx.RawData{
		Contracts:  make([]tx.Contract, len(contracts)),
		Timestamp:  toMillis(now),
		Expiration: toMillis(now.Add(c.expirationWindow)),
		FeeLimit:   c.feeLimit,
	}
	for i, contract := range contracts {
		raw.Contracts[i] = contract.Clone()
	}
	if len(c.data) > 0 {
		raw.Data = append([]byte{}, c.data...)
	}
	if c.refBlock != nil {
		raw.RefBlockBytes = c.refBlock.refBytes()
		raw.RefBlockHash = c.refBlock.refHash()
		raw.RefBlockNum = c.refBlock.Number
	}

	log.Debugf("Created transaction with %d contract(s), expiring at %d",
		len(contracts), raw.Expiration)

	return &tx.Transaction{RawData: raw}, nil
}

func toMillis(t time.Time) int64 {
	return t.UnixNano() / int64(time.Millisecond)
}
