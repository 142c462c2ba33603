package model

import "testing"

func sampleCart() Cart {
	return Cart{Items: []CartLineItem{
		{Product: Product{ID: "p1", Price: MustMoney("10.00")}, Quantity: 2, ItemTotal: MustMoney("20.00")},
		{Product: Product{ID: "p2", Price: MustMoney("2.50")}, Quantity: 3, ItemTotal: MustMoney("7.50")},
	}}
}

func TestCart_TotalItems(t *testing.T) {
	if got := sampleCart().TotalItems(); got != 5 {
		t.Errorf("TotalItems() = %d, want 5", got)
	}
	if got := (Cart{}).TotalItems(); got != 0 {
		t.Errorf("empty TotalItems() = %d, want 0", got)
	}
}

func TestCart_Total(t *testing.T) {
	if got := sampleCart().Total(); !got.Equals(MustMoney("27.50")) {
		t.Errorf("Total() = %s, want 27.50", got)
	}
}

func TestCart_Find(t *testing.T) {
	c := sampleCart()
	item, ok := c.Find("p2")
	if !ok || item.Quantity != 3 {
		t.Errorf("Find(p2) = %+v, %v", item, ok)
	}
	if _, ok := c.Find("missing"); ok {
		t.Error("Find(missing) should report false")
	}
}

func TestCart_CloneIsIndependent(t *testing.T) {
	c := sampleCart()
	clone := c.Clone()
	clone.Items[0].Quantity = 99
	if c.Items[0].Quantity != 2 {
		t.Error("Clone shares backing array with original")
	}
}

func TestSession_IsAdmin(t *testing.T) {
	var nilSession *Session
	if nilSession.IsAdmin() {
		t.Error("nil session must not be admin")
	}
	if !(&Session{Role: RoleAdmin}).IsAdmin() {
		t.Error("ADMIN role should be admin")
	}
	if (&Session{Role: "admin"}).IsAdmin() {
		t.Error("role comparison is case-sensitive")
	}
}
