package config

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/fleshka4/swap-pool/internal/curve"
	"github.com/fleshka4/swap-pool/internal/fees"
)

// Config holds application configuration loaded from file.
type Config struct {
	// RPCURL is only needed when a pool is seeded from a live pair.
	RPCURL            string        `yaml:"rpc_url"`
	ListenAddr        string        `yaml:"listen_addr"`
	GraceTimeout      time.Duration `yaml:"shutdown_timeout"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	CallTimeout       time.Duration `yaml:"call_timeout"`
	LogLevel          string        `yaml:"log_level"`

	// Admin owns every pool fee account.
	Admin          string            `yaml:"admin"`
	FeeConstraints *fees.Constraints `yaml:"fee_constraints"`

	Accounts []Account `yaml:"accounts"`
	Pools    []Pool    `yaml:"pools"`
}

// Account is a user token account opened at startup.
type Account struct {
	ID      string `yaml:"id"`
	Mint    string `yaml:"mint"`
	Owner   string `yaml:"owner"`
	Balance uint64 `yaml:"balance"`
}

// Pool describes a pool created at startup. Reserves come either from
// ReserveA/ReserveB or from the Uniswap V2 pair at PairAddress.
type Pool struct {
	ID          string     `yaml:"id"`
	Curve       curve.Type `yaml:"curve"`
	TokenAMint  string     `yaml:"token_a"`
	TokenBMint  string     `yaml:"token_b"`
	PoolMint    string     `yaml:"pool_mint"`
	VaultA      string     `yaml:"vault_a"`
	VaultB      string     `yaml:"vault_b"`
	FeeAccount  string     `yaml:"fee_account"`
	Destination string     `yaml:"destination"`

	// DestinationOwner owns Destination. Defaults to Admin.
	DestinationOwner string    `yaml:"destination_owner"`
	Fees             fees.Fees `yaml:"fees"`

	ReserveA uint64 `yaml:"reserve_a"`
	ReserveB uint64 `yaml:"reserve_b"`

	PairAddress   string `yaml:"pair_address"`
	TokenAAddress string `yaml:"token_a_address"`
}

// FromPair reports whether the pool reserves are read from a pair contract.
func (p Pool) FromPair() bool {
	return p.PairAddress != ""
}

// Constraints returns the configured fee policy or the default one.
func (c Config) Constraints() fees.Constraints {
	if c.FeeConstraints == nil {
		return fees.DefaultConstraints
	}
	return *c.FeeConstraints
}

// Load reads the config from a YAML file path.
// Fails fatally if config is invalid or file is missing.
func Load(path string) Config {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("failed to open config file: os.Open: %v", err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
			log.Printf("failed to close config file: f.Close: %v", err)
		}
	}(f)

	cfg, err := load(f)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func load(r io.Reader) (Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "decoder.Decode")
	}

	// Fallbacks
	const defaultTimeout = 5 * time.Second
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":1337"
	}
	if cfg.GraceTimeout == 0 {
		cfg.GraceTimeout = defaultTimeout
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = defaultTimeout
	}
	if cfg.ReadHeaderTimeout == 0 {
		cfg.ReadHeaderTimeout = defaultTimeout
	}
	if cfg.CallTimeout == 0 {
		cfg.CallTimeout = defaultTimeout
	}
	if cfg.Admin == "" {
		cfg.Admin = "admin"
	}
	for i := range cfg.Pools {
		p := &cfg.Pools[i]
		if p.Curve == "" {
			p.Curve = curve.ConstantProductType
		}
		if p.DestinationOwner == "" {
			p.DestinationOwner = cfg.Admin
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var err error
	seen := make(map[string]struct{}, len(c.Pools))
	for i, p := range c.Pools {
		if p.ID == "" {
			err = multierr.Append(err, errors.Errorf("pools[%d]: id is required", i))
			continue
		}
		if _, ok := seen[p.ID]; ok {
			err = multierr.Append(err, errors.Errorf("pool %s: duplicate id", p.ID))
		}
		seen[p.ID] = struct{}{}

		for name, v := range map[string]string{
			"token_a": p.TokenAMint, "token_b": p.TokenBMint, "pool_mint": p.PoolMint,
			"vault_a": p.VaultA, "vault_b": p.VaultB,
			"fee_account": p.FeeAccount, "destination": p.Destination,
		} {
			if v == "" {
				err = multierr.Append(err, errors.Errorf("pool %s: %s is required", p.ID, name))
			}
		}
		if p.TokenAMint != "" && p.TokenAMint == p.TokenBMint {
			err = multierr.Append(err, errors.Errorf("pool %s: token_a and token_b must differ", p.ID))
		}

		if p.FromPair() {
			if p.ReserveA != 0 || p.ReserveB != 0 {
				err = multierr.Append(err, errors.Errorf("pool %s: reserves and pair_address are exclusive", p.ID))
			}
			if p.TokenAAddress == "" {
				err = multierr.Append(err, errors.Errorf("pool %s: token_a_address is required with pair_address", p.ID))
			}
			if c.RPCURL == "" {
				err = multierr.Append(err, errors.Errorf("pool %s: rpc_url is required with pair_address", p.ID))
			}
		}
	}
	for i, a := range c.Accounts {
		if a.ID == "" || a.Mint == "" {
			err = multierr.Append(err, errors.Errorf("accounts[%d]: id and mint are required", i))
		}
	}
	return err
}
