package tx

import "fmt"

// ContractType tags the parameter message carried by a Contract. Values are
// the network's wire enumeration.
type ContractType int32

// Contract kinds that can be authorized by this package.
const (
	AccountCreateContract           ContractType = 0
	TransferContract                ContractType = 1
	TransferAssetContract           ContractType = 2
	VoteAssetContract               ContractType = 3
	VoteExecutiveContract           ContractType = 4
	ExecutiveCreateContract         ContractType = 5
	AssetIssueContract              ContractType = 6
	ParticipateAssetIssueContract   ContractType = 9
	CdBalanceContract               ContractType = 11
	UncdBalanceContract             ContractType = 12
	WithdrawBalanceContract         ContractType = 13
	UncdAssetContract               ContractType = 14
	UpdateAssetContract             ContractType = 15
	CreateSmartContract             ContractType = 30
	TriggerSmartContract            ContractType = 31
	AccountPermissionUpdateContract ContractType = 46
)

// typeURLPrefix is prepended to the message name in a packed parameter.
const typeURLPrefix = "type.googleapis.com/protocol."

var contractNames = map[ContractType]string{
	AccountCreateContract:           "AccountCreateContract",
	TransferContract:                "TransferContract",
	TransferAssetContract:           "TransferAssetContract",
	VoteAssetContract:               "VoteAssetContract",
	VoteExecutiveContract:           "VoteExecutiveContract",
	ExecutiveCreateContract:         "ExecutiveCreateContract",
	AssetIssueContract:              "AssetIssueContract",
	ParticipateAssetIssueContract:   "ParticipateAssetIssueContract",
	CdBalanceContract:               "CdBalanceContract",
	UncdBalanceContract:             "UncdBalanceContract",
	WithdrawBalanceContract:         "WithdrawBalanceContract",
	UncdAssetContract:               "UncdAssetContract",
	UpdateAssetContract:             "UpdateAssetContract",
	CreateSmartContract:             "CreateSmartContract",
	TriggerSmartContract:            "TriggerSmartContract",
	AccountPermissionUpdateContract: "AccountPermissionUpdateContract",
}

// String returns the protocol message name of the contract type.
func (t ContractType) String() string {
	if name, ok := contractNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ContractType(%d)", int32(t))
}

// TypeURL returns the packed-parameter type URL for t.
func (t ContractType) TypeURL() string {
	return typeURLPrefix + t.String()
}

// Known reports whether t is one of the supported contract kinds.
func (t ContractType) Known() bool {
	_, ok := contractNames[t]
	return ok
}

// KnownContractTypes lists every supported contract kind in wire order.
func KnownContractTypes() []ContractType {
	return []ContractType{
		AccountCreateContract, TransferContract, TransferAssetContract,
		VoteAssetContract, VoteExecutiveContract, ExecutiveCreateContract,
		AssetIssueContract, ParticipateAssetIssueContract,
		CdBalanceContract, UncdBalanceContract, WithdrawBalanceContract,
		UncdAssetContract, UpdateAssetContract, CreateSmartContract,
		TriggerSmartContract, AccountPermissionUpdateContract,
	}
}

// Parameter is the typed payload of a contract. Every kind names exactly
// one owner account whose signature authorizes it.
type Parameter interface {
	message

	// Type returns the contract tag this parameter belongs to.
	Type() ContractType

	// Owner returns the raw owner address field.
	Owner() []byte
}

// newParameter returns an empty parameter for t, or nil for an unknown tag.
// Adding a contract kind means adding a case here, a name above, and a
// parameter type below.
func newParameter(t ContractType) Parameter {
	switch t {
	case AccountCreateContract:
		return &AccountCreate{}
	case TransferContract:
		return &Transfer{}
	case TransferAssetContract:
		return &TransferAsset{}
	case VoteAssetContract:
		return &VoteAsset{}
	case VoteExecutiveContract:
		return &VoteExecutive{}
	case ExecutiveCreateContract:
		return &ExecutiveCreate{}
	case AssetIssueContract:
		return &AssetIssue{}
	case ParticipateAssetIssueContract:
		return &ParticipateAssetIssue{}
	case CdBalanceContract:
		return &CdBalance{}
	case UncdBalanceContract:
		return &UncdBalance{}
	case WithdrawBalanceContract:
		return &WithdrawBalance{}
	case UncdAssetContract:
		return &UncdAsset{}
	case UpdateAssetContract:
		return &UpdateAsset{}
	case CreateSmartContract:
		return &CreateSmart{}
	case TriggerSmartContract:
		return &TriggerSmart{}
	case AccountPermissionUpdateContract:
		return &AccountPermissionUpdate{}
	default:
		return nil
	}
}

// NewContract packs p into a contract with the default permission.
func NewContract(p Parameter) Contract {
	return Contract{
		Type: p.Type(),
		Parameter: Any{
			TypeURL: p.Type().TypeURL(),
			Value:   marshalMessage(nil, p),
		},
	}
}

// UnpackParameter decodes the typed parameter of c. A tag outside the
// supported set, a type URL that disagrees with the tag, or an undecodable
// payload all yield ErrUnknownContractType.
func UnpackParameter(c Contract) (Parameter, error) {
	p := newParameter(c.Type)
	if p == nil {
		return nil, &ContractError{Type: c.Type, Message: "unsupported contract type"}
	}

	if c.Parameter.TypeURL != c.Type.TypeURL() {
		return nil, &ContractError{
			Type:    c.Type,
			Message: fmt.Sprintf("parameter type %q does not match tag", c.Parameter.TypeURL),
		}
	}

	if err := unmarshalMessage(c.Parameter.Value, p); err != nil {
		return nil, &ContractError{
			Type:    c.Type,
			Message: "malformed parameter",
			Cause:   err,
		}
	}
	return p, nil
}

// ============================================================================
// Balance and asset transfers
// ============================================================================

// Transfer moves native coin between accounts.
type Transfer struct {
	OwnerAddress []byte
	ToAddress    []byte
	Amount       int64 // In sun
}

func (*Transfer) Type() ContractType { return TransferContract }
func (c *Transfer) Owner() []byte    { return c.OwnerAddress }
func (c *Transfer) fields() []field {
	return []field{
		{1, kindBytes, &c.OwnerAddress},
		{2, kindBytes, &c.ToAddress},
		{3, kindInt64, &c.Amount},
	}
}

// TransferAsset moves a custom asset between accounts. Unlike every other
// contract, the owner is field 2.
type TransferAsset struct {
	AssetName    []byte // Asset id
	OwnerAddress []byte
	ToAddress    []byte
	Amount       int64
}

func (*TransferAsset) Type() ContractType { return TransferAssetContract }
func (c *TransferAsset) Owner() []byte    { return c.OwnerAddress }
func (c *TransferAsset) fields() []field {
	return []field{
		{1, kindBytes, &c.AssetName},
		{2, kindBytes, &c.OwnerAddress},
		{3, kindBytes, &c.ToAddress},
		{4, kindInt64, &c.Amount},
	}
}

// ParticipateAssetIssue buys into an asset issuance.
type ParticipateAssetIssue struct {
	OwnerAddress []byte
	ToAddress    []byte // Issuer
	AssetName    []byte
	Amount       int64
}

func (*ParticipateAssetIssue) Type() ContractType { return ParticipateAssetIssueContract }
func (c *ParticipateAssetIssue) Owner() []byte    { return c.OwnerAddress }
func (c *ParticipateAssetIssue) fields() []field {
	return []field{
		{1, kindBytes, &c.OwnerAddress},
		{2, kindBytes, &c.ToAddress},
		{3, kindBytes, &c.AssetName},
		{4, kindInt64, &c.Amount},
	}
}

// ============================================================================
// Accounts and permissions
// ============================================================================

// AccountCreate activates a new account.
type AccountCreate struct {
	OwnerAddress   []byte
	AccountAddress []byte
	AccountType    int32
}

func (*AccountCreate) Type() ContractType { return AccountCreateContract }
func (c *AccountCreate) Owner() []byte    { return c.OwnerAddress }
func (c *AccountCreate) fields() []field {
	return []field{
		{1, kindBytes, &c.OwnerAddress},
		{2, kindBytes, &c.AccountAddress},
		{3, kindInt32, &c.AccountType},
	}
}

// PermissionKey is one weighted key of a permission.
type PermissionKey struct {
	Address []byte
	Weight  int64
}

func (k *PermissionKey) fields() []field {
	return []field{
		{1, kindBytes, &k.Address},
		{2, kindInt64, &k.Weight},
	}
}

// Permission is a weighted multi-signature rule.
type Permission struct {
	Type       int32 // 0 owner, 1 executive, 2 active
	ID         int32
	Name       string
	Threshold  int64
	ParentID   int32
	Operations []byte // Bitmap of allowed contract types (active only)
	Keys       []PermissionKey
}

func (p *Permission) fields() []field {
	return []field{
		{1, kindInt32, &p.Type},
		{2, kindInt32, &p.ID},
		{3, kindString, &p.Name},
		{4, kindInt64, &p.Threshold},
		{5, kindInt32, &p.ParentID},
		{6, kindBytes, &p.Operations},
		{7, kindMessages, repeated(&p.Keys)},
	}
}

// AccountPermissionUpdate replaces an account's permissions.
type AccountPermissionUpdate struct {
	OwnerAddress []byte
	OwnerPerm    Permission
	Executive    Permission
	Actives      []Permission
}

func (*AccountPermissionUpdate) Type() ContractType { return AccountPermissionUpdateContract }
func (c *AccountPermissionUpdate) Owner() []byte    { return c.OwnerAddress }
func (c *AccountPermissionUpdate) fields() []field {
	return []field{
		{1, kindBytes, &c.OwnerAddress},
		{2, kindMessage, &c.OwnerPerm},
		{3, kindMessage, &c.Executive},
		{4, kindMessages, repeated(&c.Actives)},
	}
}

// ============================================================================
// Voting and executives
// ============================================================================

// VoteAsset votes with asset holdings.
type VoteAsset struct {
	OwnerAddress []byte
	VoteAddress  [][]byte
	Support      bool
	Count        int32
}

func (*VoteAsset) Type() ContractType { return VoteAssetContract }
func (c *VoteAsset) Owner() []byte    { return c.OwnerAddress }
func (c *VoteAsset) fields() []field {
	return []field{
		{1, kindBytes, &c.OwnerAddress},
		{2, kindRepeatedBytes, &c.VoteAddress},
		{3, kindBool, &c.Support},
		{5, kindInt32, &c.Count},
	}
}

// Vote assigns votes to one executive candidate.
type Vote struct {
	VoteAddress []byte
	VoteCount   int64
}

func (v *Vote) fields() []field {
	return []field{
		{1, kindBytes, &v.VoteAddress},
		{2, kindInt64, &v.VoteCount},
	}
}

// VoteExecutive votes for executive candidates.
type VoteExecutive struct {
	OwnerAddress []byte
	Votes        []Vote
	Support      bool
}

func (*VoteExecutive) Type() ContractType { return VoteExecutiveContract }
func (c *VoteExecutive) Owner() []byte    { return c.OwnerAddress }
func (c *VoteExecutive) fields() []field {
	return []field{
		{1, kindBytes, &c.OwnerAddress},
		{2, kindMessages, repeated(&c.Votes)},
		{3, kindBool, &c.Support},
	}
}

// ExecutiveCreate registers the owner as an executive candidate.
type ExecutiveCreate struct {
	OwnerAddress []byte
	URL          []byte
}

func (*ExecutiveCreate) Type() ContractType { return ExecutiveCreateContract }
func (c *ExecutiveCreate) Owner() []byte    { return c.OwnerAddress }
func (c *ExecutiveCreate) fields() []field {
	return []field{
		{1, kindBytes, &c.OwnerAddress},
		{2, kindBytes, &c.URL},
	}
}

// WithdrawBalance claims accumulated executive rewards.
type WithdrawBalance struct {
	OwnerAddress []byte
}

func (*WithdrawBalance) Type() ContractType { return WithdrawBalanceContract }
func (c *WithdrawBalance) Owner() []byte    { return c.OwnerAddress }
func (c *WithdrawBalance) fields() []field {
	return []field{
		{1, kindBytes, &c.OwnerAddress},
	}
}

// ============================================================================
// Asset issuance
// ============================================================================

// CdSupply is a portion of an issued asset locked for a number of days.
type CdSupply struct {
	Amount int64
	Days   int64
}

func (s *CdSupply) fields() []field {
	return []field{
		{1, kindInt64, &s.Amount},
		{2, kindInt64, &s.Days},
	}
}

// AssetIssue creates a new custom asset.
type AssetIssue struct {
	OwnerAddress            []byte
	Name                    []byte
	Abbr                    []byte
	TotalSupply             int64
	CdSupply                []CdSupply
	StbNum                  int32
	Precision               int32
	Num                     int32
	StartTime               int64
	EndTime                 int64
	Order                   int64
	VoteScore               int32
	Description             []byte
	URL                     []byte
	FreeAssetNetLimit       int64
	PublicFreeAssetNetLimit int64
	PublicFreeAssetNetUsage int64
	PublicLatestFreeNetTime int64
	ID                      string
}

func (*AssetIssue) Type() ContractType { return AssetIssueContract }
func (c *AssetIssue) Owner() []byte    { return c.OwnerAddress }
func (c *AssetIssue) fields() []field {
	return []field{
		{1, kindBytes, &c.OwnerAddress},
		{2, kindBytes, &c.Name},
		{3, kindBytes, &c.Abbr},
		{4, kindInt64, &c.TotalSupply},
		{5, kindMessages, repeated(&c.CdSupply)},
		{6, kindInt32, &c.StbNum},
		{7, kindInt32, &c.Precision},
		{8, kindInt32, &c.Num},
		{9, kindInt64, &c.StartTime},
		{10, kindInt64, &c.EndTime},
		{11, kindInt64, &c.Order},
		{16, kindInt32, &c.VoteScore},
		{20, kindBytes, &c.Description},
		{21, kindBytes, &c.URL},
		{22, kindInt64, &c.FreeAssetNetLimit},
		{23, kindInt64, &c.PublicFreeAssetNetLimit},
		{24, kindInt64, &c.PublicFreeAssetNetUsage},
		{25, kindInt64, &c.PublicLatestFreeNetTime},
		{41, kindString, &c.ID},
	}
}

// UpdateAsset changes an issued asset's metadata and limits.
type UpdateAsset struct {
	OwnerAddress   []byte
	Description    []byte
	URL            []byte
	NewLimit       int64
	NewPublicLimit int64
}

func (*UpdateAsset) Type() ContractType { return UpdateAssetContract }
func (c *UpdateAsset) Owner() []byte    { return c.OwnerAddress }
func (c *UpdateAsset) fields() []field {
	return []field{
		{1, kindBytes, &c.OwnerAddress},
		{2, kindBytes, &c.Description},
		{3, kindBytes, &c.URL},
		{4, kindInt64, &c.NewLimit},
		{5, kindInt64, &c.NewPublicLimit},
	}
}

// UncdAsset releases the issuer's locked supply once its period ends.
type UncdAsset struct {
	OwnerAddress []byte
}

func (*UncdAsset) Type() ContractType { return UncdAssetContract }
func (c *UncdAsset) Owner() []byte    { return c.OwnerAddress }
func (c *UncdAsset) fields() []field {
	return []field{
		{1, kindBytes, &c.OwnerAddress},
	}
}

// ============================================================================
// Resources
// ============================================================================

// Resource codes for CD (freeze) operations.
const (
	ResourceBandwidth int32 = 0
	ResourceEnergy    int32 = 1
)

// CdBalance locks balance to obtain bandwidth or energy.
type CdBalance struct {
	OwnerAddress    []byte
	CdBalance       int64
	CdDuration      int64 // Days
	Resource        int32
	ReceiverAddress []byte // Delegate resources to another account
}

func (*CdBalance) Type() ContractType { return CdBalanceContract }
func (c *CdBalance) Owner() []byte    { return c.OwnerAddress }
func (c *CdBalance) fields() []field {
	return []field{
		{1, kindBytes, &c.OwnerAddress},
		{2, kindInt64, &c.CdBalance},
		{3, kindInt64, &c.CdDuration},
		{10, kindInt32, &c.Resource},
		{15, kindBytes, &c.ReceiverAddress},
	}
}

// UncdBalance releases a previous CdBalance.
type UncdBalance struct {
	OwnerAddress    []byte
	Resource        int32
	ReceiverAddress []byte
}

func (*UncdBalance) Type() ContractType { return UncdBalanceContract }
func (c *UncdBalance) Owner() []byte    { return c.OwnerAddress }
func (c *UncdBalance) fields() []field {
	return []field{
		{1, kindBytes, &c.OwnerAddress},
		{10, kindInt32, &c.Resource},
		{15, kindBytes, &c.ReceiverAddress},
	}
}

// ============================================================================
// Smart contracts
// ============================================================================

// SmartContract describes a contract being deployed. The ABI is not
// modelled; it is skipped on decode.
type SmartContract struct {
	OriginAddress              []byte
	ContractAddress            []byte
	Bytecode                   []byte
	CallValue                  int64
	ConsumeUserResourcePercent int64
	Name                       string
	OriginEnergyLimit          int64
}

func (s *SmartContract) fields() []field {
	return []field{
		{1, kindBytes, &s.OriginAddress},
		{2, kindBytes, &s.ContractAddress},
		{4, kindBytes, &s.Bytecode},
		{5, kindInt64, &s.CallValue},
		{6, kindInt64, &s.ConsumeUserResourcePercent},
		{7, kindString, &s.Name},
		{8, kindInt64, &s.OriginEnergyLimit},
	}
}

// CreateSmart deploys a smart contract.
type CreateSmart struct {
	OwnerAddress   []byte
	NewContract    SmartContract
	CallTokenValue int64
	TokenID        int64
}

func (*CreateSmart) Type() ContractType { return CreateSmartContract }
func (c *CreateSmart) Owner() []byte    { return c.OwnerAddress }
func (c *CreateSmart) fields() []field {
	return []field{
		{1, kindBytes, &c.OwnerAddress},
		{2, kindMessage, &c.NewContract},
		{3, kindInt64, &c.CallTokenValue},
		{4, kindInt64, &c.TokenID},
	}
}

// TriggerSmart calls a deployed smart contract.
type TriggerSmart struct {
	OwnerAddress    []byte
	ContractAddress []byte
	CallValue       int64
	Data            []byte
	CallTokenValue  int64
	TokenID         int64
}

func (*TriggerSmart) Type() ContractType { return TriggerSmartContract }
func (c *TriggerSmart) Owner() []byte    { return c.OwnerAddress }
func (c *TriggerSmart) fields() []field {
	return []field{
		{1, kindBytes, &c.OwnerAddress},
		{2, kindBytes, &c.ContractAddress},
		{3, kindInt64, &c.CallValue},
		{4, kindBytes, &c.Data},
		{5, kindInt64, &c.CallTokenValue},
		{6, kindInt64, &c.TokenID},
	}
}
