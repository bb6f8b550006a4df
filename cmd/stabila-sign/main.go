// stabila-sign CLI - offline Stabila transaction signer
//
// Transactions are passed around as hex so that they can be moved between
// an online machine and an offline signer.
//
// Example usage:
//
//	# Build an unsigned transfer from a payment request
//	stabila-sign transfer --owner <address> --uri "stabila:<to>?amount=1.5"
//
//	# Sign it (prompts for the permission id)
//	stabila-sign sign --tx <hex> --key <private key hex>
//
//	# Check every signature
//	stabila-sign validate --tx <hex>
//
//	# Derive shielded viewing keys (needs -tags librustzcash)
//	stabila-sign shielded-keys --sk <spending key hex>
package main

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/urfave/cli"

	"github.com/suffix-labs/stabila-sign/pkg/api"
	"github.com/suffix-labs/stabila-sign/pkg/config"
	"github.com/suffix-labs/stabila-sign/pkg/crypto"
	"github.com/suffix-labs/stabila-sign/pkg/ffi"
	"github.com/suffix-labs/stabila-sign/pkg/roles"
	"github.com/suffix-labs/stabila-sign/pkg/tx"
	"github.com/suffix-labs/stabila-sign/pkg/zen"
)

const version = "0.1.0"

// errInvalidTransaction is returned by validate for a transaction that is
// not fully authorized.
var errInvalidTransaction = errors.New("transaction invalid")

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[stabila-sign] %v\n", err)
	os.Exit(1)
}

func main() {
	app := cli.NewApp()
	app.Name = "stabila-sign"
	app.Version = version
	app.Usage = "create, sign and validate Stabila transactions offline"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "path to a TOML config file",
		},
		cli.StringFlag{
			Name:  "network",
			Usage: "mainnet or testnet; overrides the config file",
		},
		cli.StringFlag{
			Name:  "loglevel",
			Usage: "trace, debug, info, warn, error, critical or off",
		},
	}
	app.Commands = []cli.Command{
		hashCommand,
		signCommand,
		validateCommand,
		combineCommand,
		extractCommand,
		addressCommand,
		transferCommand,
		shieldedKeysCommand,
		diversifierCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

// loadConfig reads the config file named by --config, applies the global
// flag overrides, and configures logging.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path := ctx.GlobalString("config"); path != "" {
		var err error
		cfg, err = config.LoadFile(path)
		if err != nil {
			return nil, err
		}
	}

	if ctx.GlobalIsSet("network") {
		cfg.Network = ctx.GlobalString("network")
	}
	if ctx.GlobalIsSet("loglevel") {
		cfg.LogLevel = ctx.GlobalString("loglevel")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	setLogLevels(cfg.Level())
	return cfg, nil
}

// readTx decodes the hex transaction given by --tx.
func readTx(ctx *cli.Context) ([]byte, error) {
	txHex := ctx.String("tx")
	if txHex == "" {
		return nil, fmt.Errorf("--tx is required")
	}
	return hex.DecodeString(strings.TrimSpace(txHex))
}

// readKey loads the signing key from --key or --passphrase.
func readKey(ctx *cli.Context) (*crypto.PrivateKey, error) {
	switch {
	case ctx.IsSet("key"):
		return crypto.PrivateKeyFromHex(ctx.String("key"))
	case ctx.IsSet("passphrase"):
		return crypto.PrivateKeyFromPassphrase([]byte(ctx.String("passphrase")))
	default:
		return nil, fmt.Errorf("--key or --passphrase is required")
	}
}

var txFlag = cli.StringFlag{
	Name:  "tx",
	Usage: "hex-encoded transaction",
}

var keyFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "key",
		Usage: "hex-encoded private key",
	},
	cli.StringFlag{
		Name:  "passphrase",
		Usage: "derive the private key as SHA-256 of a pass phrase (test accounts only)",
	},
}

var hashCommand = cli.Command{
	Name:   "hash",
	Usage:  "print the signing hash (transaction id)",
	Flags:  []cli.Flag{txFlag},
	Action: hash,
}

func hash(ctx *cli.Context) error {
	if _, err := loadConfig(ctx); err != nil {
		return err
	}
	txBytes, err := readTx(ctx)
	if err != nil {
		return err
	}

	digest, err := api.GetSigningHash(txBytes)
	if err != nil {
		return err
	}
	fmt.Println(hex.EncodeToString(digest[:]))
	return nil
}

var signCommand = cli.Command{
	Name:  "sign",
	Usage: "append a signature for the next contract",
	Description: `
	Signs the transaction's signing hash and appends the signature. Before
	the first signature, the owner permission can be replaced by another
	account permission: answer y to keep it, or enter a permission id.`,
	Flags: append([]cli.Flag{
		txFlag,
		cli.IntFlag{
			Name:  "permission",
			Value: -1,
			Usage: "permission id of the first contract; skips the prompt",
		},
	}, keyFlags...),
	Action: sign,
}

func sign(ctx *cli.Context) error {
	if _, err := loadConfig(ctx); err != nil {
		return err
	}
	txBytes, err := readTx(ctx)
	if err != nil {
		return err
	}
	key, err := readKey(ctx)
	if err != nil {
		return err
	}
	defer key.Zero()

	t, err := tx.UnmarshalTransaction(txBytes)
	if err != nil {
		return err
	}

	switch id := ctx.Int("permission"); {
	case id >= 0:
		t, err = applyPermissionFlag(t, id)
		if err != nil {
			return err
		}
	case roles.NeedsPermissionID(t):
		t, err = promptPermission(os.Stdin, os.Stderr, t)
		if err != nil {
			return err
		}
	}

	signed, err := api.AppendSignature(t.Marshal(), key)
	if err != nil {
		return err
	}
	fmt.Println(hex.EncodeToString(signed))
	return nil
}

// applyPermissionFlag applies the permission id given by --permission.
func applyPermissionFlag(t *tx.Transaction, id int) (*tx.Transaction, error) {
	if id < 0 || id > math.MaxInt32 {
		return nil, fmt.Errorf("permission id %d out of range [0, %d]",
			id, math.MaxInt32)
	}
	return roles.ApplyPermissionID(t, int32(id)), nil
}

// promptPermission asks which permission the first contract is signed
// under and applies the answer.
func promptPermission(r io.Reader, w io.Writer,
	t *tx.Transaction) (*tx.Transaction, error) {

	fmt.Fprint(w, "Sign with the owner permission? "+
		"Enter y, or a permission id: ")

	answer, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return roles.ApplyPermissionChoice(t, answer)
}

var validateCommand = cli.Command{
	Name:   "validate",
	Usage:  "check that every contract is signed by its owner",
	Flags:  []cli.Flag{txFlag},
	Action: validate,
}

func validate(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	txBytes, err := readTx(ctx)
	if err != nil {
		return err
	}

	if !api.ValidateTransaction(txBytes, cfg.AddressPrefix()) {
		return errInvalidTransaction
	}
	fmt.Println("valid")
	return nil
}

var combineCommand = cli.Command{
	Name:      "combine",
	Usage:     "reconcile copies of a transaction where one extends the other",
	ArgsUsage: "tx-hex [tx-hex...]",
	Action:    combine,
}

func combine(ctx *cli.Context) error {
	if _, err := loadConfig(ctx); err != nil {
		return err
	}
	if ctx.NArg() == 0 {
		return cli.ShowCommandHelp(ctx, "combine")
	}

	copies := make([][]byte, ctx.NArg())
	for i, arg := range ctx.Args() {
		b, err := hex.DecodeString(arg)
		if err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
		copies[i] = b
	}

	combined, err := api.Combine(copies)
	if err != nil {
		return err
	}
	fmt.Println(hex.EncodeToString(combined))
	return nil
}

var extractCommand = cli.Command{
	Name:   "extract",
	Usage:  "print broadcast bytes of a fully signed transaction",
	Flags:  []cli.Flag{txFlag},
	Action: extract,
}

func extract(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	txBytes, err := readTx(ctx)
	if err != nil {
		return err
	}

	raw, id, err := api.Extract(txBytes, cfg.AddressPrefix())
	if err != nil {
		return err
	}
	fmt.Printf("txid: %x\n", id)
	fmt.Println(hex.EncodeToString(raw))
	return nil
}

var addressCommand = cli.Command{
	Name:   "address",
	Usage:  "print the account address of a key",
	Flags:  keyFlags,
	Action: address,
}

func address(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	key, err := readKey(ctx)
	if err != nil {
		return err
	}
	defer key.Zero()

	addr := key.Address(cfg.AddressPrefix())
	fmt.Println(addr.String())
	fmt.Println(hex.EncodeToString(addr.Bytes()))
	return nil
}

var transferCommand = cli.Command{
	Name:  "transfer",
	Usage: "build an unsigned transaction from a payment request",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "owner",
			Usage: "base58 address of the paying account",
		},
		cli.StringFlag{
			Name:  "uri",
			Usage: "payment request (stabila:<address>?amount=...)",
		},
		cli.Int64Flag{
			Name:  "ref_num",
			Usage: "height of the reference block",
		},
		cli.StringFlag{
			Name:  "ref_id",
			Usage: "hex id of the reference block",
		},
	},
	Action: transfer,
}

func transfer(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	owner, err := crypto.DecodeBase58Check(ctx.String("owner"))
	if err != nil {
		return fmt.Errorf("invalid owner: %w", err)
	}
	if owner.Prefix() != cfg.AddressPrefix() {
		return fmt.Errorf("owner %v is not a %s address", owner, cfg.Network)
	}

	proposal := &api.TransferProposal{
		Owner:   owner,
		Request: ctx.String("uri"),
	}
	if ctx.IsSet("ref_id") {
		id, err := hex.DecodeString(ctx.String("ref_id"))
		if err != nil || len(id) != 32 {
			return fmt.Errorf("ref_id must be 32 hex-encoded bytes")
		}
		block := &roles.ReferenceBlock{Number: ctx.Int64("ref_num")}
		copy(block.ID[:], id)
		proposal.RefBlock = block
	}

	txBytes, err := api.ProposeTransfer(proposal, cfg, clock.NewDefaultClock())
	if err != nil {
		return err
	}
	fmt.Println(hex.EncodeToString(txBytes))
	return nil
}

var skFlag = cli.StringFlag{
	Name:  "sk",
	Usage: "hex-encoded 32-byte spending key; generated when empty",
}

// readSpendingKey loads --sk, or generates and prints a new key.
func readSpendingKey(ctx *cli.Context) (zen.SpendingKey, error) {
	if !ctx.IsSet("sk") {
		sk, err := zen.GenerateSpendingKey(nil)
		if err != nil {
			return zen.SpendingKey{}, err
		}
		fmt.Printf("sk:  %x\n", sk[:])
		return sk, nil
	}

	raw, err := hex.DecodeString(ctx.String("sk"))
	if err != nil {
		return zen.SpendingKey{}, err
	}
	return zen.SpendingKeyFromBytes(raw)
}

var shieldedKeysCommand = cli.Command{
	Name:   "shielded-keys",
	Usage:  "derive the viewing keys and an address of a spending key",
	Flags:  []cli.Flag{skFlag},
	Action: shieldedKeys,
}

func shieldedKeys(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	lib, err := ffi.New()
	if err != nil {
		return err
	}
	sk, err := readSpendingKey(ctx)
	if err != nil {
		return err
	}
	defer sk.Zero()

	keys, err := api.DeriveShieldedKeys(sk, lib)
	if err != nil {
		return err
	}
	addr, err := api.NewPaymentAddress(sk, lib, cfg)
	if err != nil {
		return err
	}

	fvk := keys.FullViewingKey
	fmt.Printf("ak:  %x\n", fvk.Ak[:])
	fmt.Printf("nk:  %x\n", fvk.Nk[:])
	fmt.Printf("ovk: %x\n", fvk.Ovk[:])
	fmt.Printf("ivk: %x\n", keys.IncomingViewingKey[:])
	fmt.Printf("d:   %x\n", addr.D[:])
	fmt.Printf("pkd: %x\n", addr.PkD[:])
	return nil
}

var diversifierCommand = cli.Command{
	Name:   "diversifier",
	Usage:  "draw a valid diversifier",
	Action: diversifier,
}

func diversifier(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	lib, err := ffi.New()
	if err != nil {
		return err
	}

	d, err := api.NewDiversifier(lib, cfg)
	if err != nil {
		return err
	}
	fmt.Printf("%x\n", d[:])
	return nil
}
