package storefront

// Evaluate derives purchasability for a variant from its inventory fields.
//
// Rules, in priority order:
//  1. no inventory fields at all -> in stock, unbounded
//  2. inventory management explicitly disabled -> in stock, unbounded
//  3. backorders explicitly allowed -> in stock, unbounded
//  4. inventory management not explicitly enabled -> in stock, unbounded
//  5. managed, no backorder -> in stock iff available > 0, capped at available
//
// Missing data must never read as out of stock. Callers evaluate fresh on
// every request that gates an increment; the result is not cached because
// the available quantity can change between catalog fetches.
func Evaluate(v Variant) Availability {
	if v.ManageInventory == nil && v.AllowBackorder == nil && v.InventoryQuantity == nil {
		return Availability{InStock: true}
	}
	if v.ManageInventory != nil && !*v.ManageInventory {
		return Availability{InStock: true}
	}
	if v.AllowBackorder != nil && *v.AllowBackorder {
		return Availability{InStock: true}
	}
	if v.ManageInventory == nil || !*v.ManageInventory {
		return Availability{InStock: true}
	}

	if v.InventoryQuantity == nil {
		return Availability{InStock: true}
	}
	qty := *v.InventoryQuantity
	return Availability{InStock: qty > 0, MaxQuantity: &qty}
}
