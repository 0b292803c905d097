package gameconfig

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/osse101/EconomyBot_Go/internal/domain"
)

//go:embed defaults.json
var defaultConfigJSON []byte

//go:embed schema.json
var schemaJSON []byte

type fileConfig struct {
	Global      GlobalSettings          `json:"global"`
	LevelRoles  []LevelRole             `json:"level_roles"`
	BankTiers   []domain.BankTier       `json:"bank_tiers"`
	Discounts   DiscountTables          `json:"discount_tiers"`
	Daily       DailySettings           `json:"daily"`
	DirectDrops []domain.DropTableEntry `json:"direct_drop_table"`
	Items       []rawItem               `json:"items"`
}

// rawItem is the flat on-disk shape of an item; the type field selects
// which variant fields are meaningful.
type rawItem struct {
	domain.ItemBase
	Currency        domain.Currency    `json:"currency,omitempty"`
	NumRolls        int                `json:"num_rolls,omitempty"`
	MaxUnboxes      int                `json:"max_unboxes,omitempty"`
	Pool            []domain.PoolEntry `json:"pool,omitempty"`
	CharmType       domain.CharmType   `json:"charm_type,omitempty"`
	Boost           float64            `json:"boost,omitempty"`
	DurationMinutes int                `json:"duration_minutes,omitempty"`
	RoleID          string             `json:"role_id,omitempty"`
}

func (r rawItem) toItem() domain.Item {
	base := r.ItemBase
	switch r.Type {
	case domain.ItemTypeCurrency, domain.ItemTypeCurrencyItem:
		return &domain.CurrencyItem{ItemBase: base, Currency: r.Currency}
	case domain.ItemTypeLootBox:
		return &domain.LootBoxItem{ItemBase: base, NumRolls: r.NumRolls, Pool: r.Pool, MaxUnboxes: r.MaxUnboxes}
	case domain.ItemTypeCharm:
		return &domain.CharmItem{
			ItemBase:  base,
			CharmType: r.CharmType,
			Boost:     r.Boost,
			Duration:  time.Duration(r.DurationMinutes) * time.Minute,
		}
	case domain.ItemTypeCosmicToken, domain.ItemTypeSpecialRole:
		return &domain.TokenItem{ItemBase: base, RoleID: r.RoleID}
	default:
		return &domain.GeneralItem{ItemBase: base}
	}
}

// Default returns the configuration embedded in the binary.
func Default() (*Config, error) {
	return Parse(defaultConfigJSON)
}

// MustDefault is Default for callers that cannot recover from a broken
// embedded document, such as tests and tooling.
func MustDefault() *Config {
	cfg, err := Default()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the configuration at path, falling back to the embedded
// defaults when path is empty.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgReadConfigFailed, err)
	}
	return Parse(data)
}

// Parse validates data against the embedded schema, decodes it and checks
// cross references between sections.
func Parse(data []byte) (*Config, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgDecodeConfigFailed, err)
	}

	cfg := &Config{
		Global:      fc.Global,
		LevelRoles:  fc.LevelRoles,
		BankTiers:   fc.BankTiers,
		Discounts:   fc.Discounts,
		Daily:       fc.Daily,
		DirectDrops: fc.DirectDrops,
		items:       make(map[string]domain.Item, len(fc.Items)),
	}
	for _, raw := range fc.Items {
		if _, dup := cfg.items[raw.ID]; dup {
			return nil, fmt.Errorf("%w: "+ErrMsgDuplicateItem, domain.ErrInvalidConfiguration, raw.ID)
		}
		cfg.items[raw.ID] = raw.toItem()
		cfg.itemOrder = append(cfg.itemOrder, raw.ID)
	}

	if err := cfg.checkReferences(); err != nil {
		return nil, err
	}

	slog.Default().Debug(LogMsgConfigLoaded, "items", len(cfg.items), "bank_tiers", len(cfg.BankTiers))
	return cfg, nil
}

func validateSchema(data []byte) error {
	schemaDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgCompileSchemaFailed, err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(SchemaResourceName, schemaDoc); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgCompileSchemaFailed, err)
	}
	sch, err := c.Compile(SchemaResourceName)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgCompileSchemaFailed, err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidConfiguration, ErrMsgDecodeConfigFailed, err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidConfiguration, ErrMsgSchemaViolation, err)
	}
	return nil
}

// checkReferences fails closed on any id that points at nothing.
func (c *Config) checkReferences() error {
	for i, tier := range c.BankTiers {
		if tier.Tier != i {
			return fmt.Errorf("%w: "+ErrMsgBankTierGap, domain.ErrInvalidConfiguration, tier.Tier, i)
		}
		last := i == len(c.BankTiers)-1
		switch {
		case last && tier.NextTier != nil:
			return fmt.Errorf("%w: %s", domain.ErrInvalidConfiguration, ErrMsgBankTierLast)
		case !last && (tier.NextTier == nil || *tier.NextTier != i+1):
			return fmt.Errorf("%w: "+ErrMsgBankTierNextTier, domain.ErrInvalidConfiguration, i, i+1)
		}
	}

	for _, item := range c.items {
		if box, ok := item.(*domain.LootBoxItem); ok {
			for _, entry := range box.Pool {
				if entry.Min > entry.Max {
					return fmt.Errorf("%w: "+ErrMsgRangeInverted, domain.ErrInvalidConfiguration, box.ID, entry.Min, entry.Max)
				}
				if entry.Kind == domain.PoolEntryItem {
					if _, err := c.Item(entry.ItemID); err != nil {
						return err
					}
				}
			}
		}
		if shop := item.Info().Shop; shop != nil && shop.StockMin > shop.StockMax {
			return fmt.Errorf("%w: "+ErrMsgRangeInverted, domain.ErrInvalidConfiguration, item.Info().ID, shop.StockMin, shop.StockMax)
		}
	}

	for _, entry := range c.DirectDrops {
		if _, err := c.Item(entry.ItemID); err != nil {
			return err
		}
	}
	for _, entry := range c.Daily.ItemPool {
		if _, err := c.Item(entry.ItemID); err != nil {
			return err
		}
	}
	if _, err := c.Item(c.Global.CosmicTokenID); err != nil {
		return err
	}
	return nil
}
