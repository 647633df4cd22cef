package cart

// The functions in this file are the cart's state transitions. Each takes a
// cart value and returns a new one; the input is never modified.

// AddItem adds line to the sub-cart of st. A line for the same product and
// variant in that store has its quantity increased instead.
func AddItem(c Cart, st StoreRef, line Item, qty int) (Cart, error) {
	if qty <= 0 {
		return c, ErrInvalidQuantity
	}

	next := clone(c)
	sc := next.Store(st.ID)
	if sc == nil {
		sc = &StoreCart{StoreRef: st}
		next.Stores = append(next.Stores, sc)
	}

	for _, it := range sc.Items {
		if it.ProductID == line.ProductID && it.VariantID == line.VariantID {
			it.Quantity += qty
			recompute(&next)
			return next, nil
		}
	}

	line.Quantity = qty
	sc.Items = append(sc.Items, &line)
	recompute(&next)
	return next, nil
}

func RemoveItem(c Cart, storeID, itemID string) (Cart, error) {
	next := clone(c)
	sc := next.Store(storeID)
	if sc == nil {
		return c, ErrItemNotFound
	}

	for i, it := range sc.Items {
		if it.ID == itemID {
			sc.Items = append(sc.Items[:i], sc.Items[i+1:]...)
			recompute(&next)
			return next, nil
		}
	}
	return c, ErrItemNotFound
}

// SetQuantity replaces a line's quantity; qty <= 0 removes the line.
func SetQuantity(c Cart, storeID, itemID string, qty int) (Cart, error) {
	if qty <= 0 {
		return RemoveItem(c, storeID, itemID)
	}

	next := clone(c)
	if it := findItem(&next, storeID, itemID); it != nil {
		it.Quantity = qty
		recompute(&next)
		return next, nil
	}
	return c, ErrItemNotFound
}

func ClearStore(c Cart, storeID string) Cart {
	next := clone(c)
	kept := next.Stores[:0]
	for _, sc := range next.Stores {
		if sc.ID != storeID {
			kept = append(kept, sc)
		}
	}
	next.Stores = kept
	recompute(&next)
	return next
}

func Clear() Cart {
	return Cart{Stores: []*StoreCart{}}
}

func findItem(c *Cart, storeID, itemID string) *Item {
	sc := c.Store(storeID)
	if sc == nil {
		return nil
	}
	for _, it := range sc.Items {
		if it.ID == itemID {
			return it
		}
	}
	return nil
}

// recompute derives subtotals and totals from the lines. Nil entries and
// lines without a positive quantity are dropped, then empty sub-carts.
func recompute(c *Cart) {
	c.TotalItems = 0
	c.TotalAmount = 0

	kept := make([]*StoreCart, 0, len(c.Stores))
	for _, sc := range c.Stores {
		if sc == nil {
			continue
		}

		items := make([]*Item, 0, len(sc.Items))
		sc.Subtotal = 0
		for _, it := range sc.Items {
			if it == nil || it.Quantity <= 0 {
				continue
			}
			sc.Subtotal += it.Subtotal()
			c.TotalItems += it.Quantity
			items = append(items, it)
		}
		sc.Items = items

		if len(sc.Items) == 0 {
			continue
		}
		c.TotalAmount += sc.Subtotal
		kept = append(kept, sc)
	}
	c.Stores = kept
}

func clone(c Cart) Cart {
	out := Cart{
		Stores:      make([]*StoreCart, 0, len(c.Stores)),
		TotalItems:  c.TotalItems,
		TotalAmount: c.TotalAmount,
	}
	for _, sc := range c.Stores {
		cp := &StoreCart{StoreRef: sc.StoreRef, Subtotal: sc.Subtotal, Items: make([]*Item, 0, len(sc.Items))}
		for _, it := range sc.Items {
			item := *it
			item.OptionNames = append([]string(nil), it.OptionNames...)
			cp.Items = append(cp.Items, &item)
		}
		out.Stores = append(out.Stores, cp)
	}
	return out
}
