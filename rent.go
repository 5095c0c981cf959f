package tokenswap

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/bits"

	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/tokenswap/errors"
)

const (
	// AccountStorageOverhead is the number of bytes every account is
	// charged for in addition to its data.
	AccountStorageOverhead = 128

	// RentSize is the length of the serialized rent sysvar.
	RentSize = 17
)

// Rent holds the parameters of the storage deposit. An account whose
// balance covers the deposit for its data length is exempt and is never
// reclaimed.
type Rent struct {
	LamportsPerByteYear uint64  `json:"lamports_per_byte_year"`
	ExemptionThreshold  float64 `json:"exemption_threshold"`
	BurnPercent         uint8   `json:"burn_percent"`
}

// DefaultRent returns the parameters used when genesis does not declare any.
func DefaultRent() *Rent {
	return &Rent{
		LamportsPerByteYear: 3480,
		ExemptionThreshold:  2.0,
		BurnPercent:         50,
	}
}

// MinimumBalance returns the deposit required for an account holding
// dataLen bytes to be exempt. A deposit that does not fit in uint64 is
// reported as math.MaxUint64.
func (r *Rent) MinimumBalance(dataLen int) uint64 {
	size := uint64(AccountStorageOverhead + dataLen)
	hi, perYear := bits.Mul64(size, r.LamportsPerByteYear)
	if hi != 0 {
		return math.MaxUint64
	}
	deposit := float64(perYear) * r.ExemptionThreshold
	if deposit >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(deposit)
}

// IsExempt returns true if lamports cover the deposit for dataLen bytes.
func (r *Rent) IsExempt(lamports uint64, dataLen int) bool {
	return lamports >= r.MinimumBalance(dataLen)
}

// Validate checks the parameters are usable.
func (r *Rent) Validate() error {
	var errs error
	if r.LamportsPerByteYear == 0 {
		errs = errors.AppendField(errs, "LamportsPerByteYear", errors.ErrEmpty)
	}
	if r.ExemptionThreshold <= 0 || math.IsNaN(r.ExemptionThreshold) || math.IsInf(r.ExemptionThreshold, 0) {
		errs = errors.AppendField(errs, "ExemptionThreshold", errors.ErrInput)
	}
	if r.BurnPercent > 100 {
		errs = errors.AppendField(errs, "BurnPercent", errors.ErrInput)
	}
	return errs
}

// Marshal serializes the rent into the sysvar account layout.
func (r *Rent) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBinEncoder(&buf)
	if err := enc.WriteUint64(r.LamportsPerByteYear, binary.LittleEndian); err != nil {
		return nil, errors.Wrap(err, "lamports per byte year")
	}
	if err := enc.WriteFloat64(r.ExemptionThreshold, binary.LittleEndian); err != nil {
		return nil, errors.Wrap(err, "exemption threshold")
	}
	if err := enc.WriteUint8(r.BurnPercent); err != nil {
		return nil, errors.Wrap(err, "burn percent")
	}
	return buf.Bytes(), nil
}

// Unmarshal loads the rent from the sysvar account layout.
func (r *Rent) Unmarshal(raw []byte) error {
	if len(raw) != RentSize {
		return errors.Wrapf(errors.ErrInvalidAccountData, "rent must be %d bytes, got %d", RentSize, len(raw))
	}
	dec := bin.NewBinDecoder(raw)
	var err error
	if r.LamportsPerByteYear, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	if r.ExemptionThreshold, err = dec.ReadFloat64(binary.LittleEndian); err != nil {
		return errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	if r.BurnPercent, err = dec.ReadUint8(); err != nil {
		return errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	return nil
}

// RentFromAccount reads the rent parameters from the rent sysvar account.
func RentFromAccount(info *AccountInfo) (*Rent, error) {
	if !info.Key.Equals(SysvarRentAddress) {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "%s is not the rent sysvar", info.Key)
	}
	var r Rent
	if err := r.Unmarshal(info.Data); err != nil {
		return nil, err
	}
	return &r, nil
}
