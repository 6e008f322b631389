package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/munim-lab/munim/pkg/domain/model/config"
	"github.com/urfave/cli/v3"
)

// Rules holds the CLI flag pointing at a TOML rule-threshold file
type Rules struct {
	path string
}

// rulesFile is the TOML schema of the threshold file. Every field is
// optional; missing fields keep their defaults.
type rulesFile struct {
	HighValueThreshold         *float64 `toml:"high_value_threshold"`
	RefundThreshold            *float64 `toml:"refund_threshold"`
	BulkOrderThreshold         *int     `toml:"bulk_order_threshold"`
	NewCustomerOrderCount      *int     `toml:"new_customer_order_count"`
	NewCustomerAmount          *float64 `toml:"new_customer_amount"`
	InvoiceThreshold           *float64 `toml:"invoice_threshold"`
	InventoryQuantityThreshold *int     `toml:"inventory_quantity_threshold"`
	ConfidenceFloor            *float64 `toml:"confidence_floor"`
}

// Flags returns CLI flags for rule configuration
func (r *Rules) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "rules-file",
			Usage:       "TOML file overriding business-rule thresholds (empty uses defaults)",
			Sources:     cli.EnvVars("MUNIM_RULES_FILE"),
			Destination: &r.path,
		},
	}
}

// Configure loads and validates the rule set
func (r *Rules) Configure() (*domainConfig.Rules, error) {
	return LoadRules(r.path)
}

// LoadRules reads a TOML threshold file layered over the defaults. An
// empty path returns the defaults unchanged.
func LoadRules(path string) (*domainConfig.Rules, error) {
	rules := domainConfig.DefaultRules()
	if path == "" {
		return rules, nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read rules file", goerr.V("path", path))
	}

	var file rulesFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse rules file", goerr.V("path", path))
	}

	if file.HighValueThreshold != nil {
		rules.HighValueThreshold = *file.HighValueThreshold
	}
	if file.RefundThreshold != nil {
		rules.RefundThreshold = *file.RefundThreshold
	}
	if file.BulkOrderThreshold != nil {
		rules.BulkOrderThreshold = *file.BulkOrderThreshold
	}
	if file.NewCustomerOrderCount != nil {
		rules.NewCustomerOrderCount = *file.NewCustomerOrderCount
	}
	if file.NewCustomerAmount != nil {
		rules.NewCustomerAmount = *file.NewCustomerAmount
	}
	if file.InvoiceThreshold != nil {
		rules.InvoiceThreshold = *file.InvoiceThreshold
	}
	if file.InventoryQuantityThreshold != nil {
		rules.InventoryQuantityThreshold = *file.InventoryQuantityThreshold
	}
	if file.ConfidenceFloor != nil {
		rules.ConfidenceFloor = *file.ConfidenceFloor
	}

	if err := rules.Validate(); err != nil {
		return nil, goerr.Wrap(err, "rules validation failed", goerr.V("path", path))
	}
	return rules, nil
}
