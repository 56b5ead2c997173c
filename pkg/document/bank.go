package document

// FallbackBank is the lowest-precedence bank tier. Every field is populated.
var FallbackBank = BankAccount{
	Name:          "Accounts Receivable",
	RoutingCode:   "000 000",
	AccountNumber: "000 000 000",
}

// ResolveBank merges bank details from every tier into one account.
//
// Tiers are applied field by field, lowest precedence first: FallbackBank,
// legacy settings, the default payment account, then the explicit account.
// A tier only overrides the fields it has populated, so an explicit account
// carrying just a name keeps the inherited routing code and account number.
func ResolveBank(explicit, defaultAccount, legacy *BankAccount) BankAccount {
	resolved := FallbackBank
	for _, tier := range []*BankAccount{legacy, defaultAccount, explicit} {
		resolved = overlay(resolved, tier)
	}
	return resolved
}

func overlay(base BankAccount, tier *BankAccount) BankAccount {
	if tier == nil {
		return base
	}
	if tier.Name != "" {
		base.Name = tier.Name
	}
	if tier.RoutingCode != "" {
		base.RoutingCode = tier.RoutingCode
	}
	if tier.AccountNumber != "" {
		base.AccountNumber = tier.AccountNumber
	}
	return base
}
