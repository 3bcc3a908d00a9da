package prompts

// Strategy selects how Seed reconciles the table with the catalog.
type Strategy string

const (
	// StrategyReplace deletes every row, then inserts the catalog in order.
	StrategyReplace Strategy = "replace"
	// StrategySync upserts the catalog by name and deletes rows whose
	// names are no longer in it.
	StrategySync Strategy = "sync"
)

// ParseStrategy validates a string as a known seeding strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch v := Strategy(s); v {
	case StrategyReplace, StrategySync:
		return v, nil
	default:
		return "", ErrInvalidStrategy
	}
}
