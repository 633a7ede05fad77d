package store

const (
	// WalletTransactionsQuery returns every TRANSACTED_WITH pair among
	// the supplied wallet addresses.
	WalletTransactionsQuery = `
		MATCH (a:Wallet)-[:TRANSACTED_WITH]-(b:Wallet)
		WHERE a.address IN $addresses AND b.address IN $addresses
		RETURN DISTINCT a.address AS source, b.address AS target
	`

	// CrossEntityQuery returns entities of other types reachable from a
	// phone within 1-3 hops.
	CrossEntityQuery = `
		MATCH (p:Phone {number: $number})-[*1..3]-(e)
		WHERE e:Domain OR e:Wallet OR e:MessagingHandle
		RETURN DISTINCT labels(e) AS labels,
			coalesce(e.name, e.address, e.handle) AS id
	`
)
