package tx

import (
	"github.com/suffix-labs/stabila-sign/pkg/crypto"
)

// OwnerAddress returns the raw owner address declared by the contract's
// parameter. For TransferAssetContract this is field 2 of the parameter;
// every other kind declares it as field 1.
func OwnerAddress(c Contract) ([]byte, error) {
	p, err := UnpackParameter(c)
	if err != nil {
		return nil, err
	}
	return p.Owner(), nil
}

// ResolveOwner returns the owner address of the contract as an Address.
// An owner field that is not a well-formed address is reported as a
// ContractError.
func ResolveOwner(c Contract) (crypto.Address, error) {
	raw, err := OwnerAddress(c)
	if err != nil {
		return crypto.Address{}, err
	}

	addr, err := crypto.AddressFromBytes(raw)
	if err != nil {
		return crypto.Address{}, &ContractError{
			Type:    c.Type,
			Message: "invalid owner address",
			Cause:   err,
		}
	}
	return addr, nil
}
