package ledger

// Table names reported through the Notifier.
const (
	TableAccounts      = "Accounts"
	TableFamily        = "Family"
	TableTransactions  = "Transactions"
	TableCategories    = "Categories"
	TableSubcategories = "Subcategories"
	TableCurrencies    = "Currencies"
	TableMovementTypes = "MovementTypes"
	TableAccountTypes  = "AccountTypes"
	TableExchangeRates = "ExchangeRates"
)

var allTables = []string{
	TableAccounts, TableFamily, TableTransactions, TableCategories,
	TableSubcategories, TableCurrencies, TableMovementTypes,
	TableAccountTypes, TableExchangeRates,
}

// Notifier is how the engine tells its presentation collaborator to
// re-fetch state. Calls happen synchronously after the underlying write
// has committed; implementations must not call back into the engine.
type Notifier interface {
	TableChanged(table string)
	DirtyChanged(dirty bool)
	BaseCurrencyChanged(currency int)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) TableChanged(string)     {}
func (NopNotifier) DirtyChanged(bool)       {}
func (NopNotifier) BaseCurrencyChanged(int) {}
