package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(id, name string, price float64) Product {
	return Product{ID: id, Name: name, Price: price}
}

func TestCartAdd(t *testing.T) {
	cart := NewCart()

	outcome := cart.Add(testProduct("1", "Apples", 3.99))
	assert.Equal(t, AddOutcomeNewLine, outcome)
	assert.Equal(t, 1, cart.Len())

	outcome = cart.Add(testProduct("1", "Apples", 3.99))
	assert.Equal(t, AddOutcomeIncremented, outcome)
	assert.Equal(t, 1, cart.Len())
	assert.Equal(t, 2, cart.ItemCount())
}

func TestCartPreservesInsertionOrder(t *testing.T) {
	cart := NewCart()
	cart.Add(testProduct("3", "Bread", 2.99))
	cart.Add(testProduct("1", "Apples", 3.99))
	cart.Add(testProduct("3", "Bread", 2.99))
	cart.Add(testProduct("2", "Milk", 4.49))

	items := cart.Snapshot()
	require.Len(t, items, 3)
	assert.Equal(t, "3", items[0].ID)
	assert.Equal(t, "1", items[1].ID)
	assert.Equal(t, "2", items[2].ID)
}

func TestCartUpdateQuantity(t *testing.T) {
	t.Run("increments and decrements", func(t *testing.T) {
		cart := NewCart()
		cart.Add(testProduct("1", "Apples", 3.99))
		cart.UpdateQuantity("1", 2)
		assert.Equal(t, 3, cart.ItemCount())
		cart.UpdateQuantity("1", -1)
		assert.Equal(t, 2, cart.ItemCount())
	})

	t.Run("removes line when quantity drops to zero or below", func(t *testing.T) {
		cart := NewCart()
		cart.Add(testProduct("1", "Apples", 3.99))
		cart.UpdateQuantity("1", -1)
		assert.True(t, cart.IsEmpty())

		cart.Add(testProduct("2", "Milk", 4.49))
		cart.UpdateQuantity("2", -5)
		assert.True(t, cart.IsEmpty())
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		cart := NewCart()
		cart.Add(testProduct("1", "Apples", 3.99))
		cart.UpdateQuantity("missing", 3)
		assert.Equal(t, 1, cart.ItemCount())
	})

	// 不论怎样组合操作，留在车里的行数量永远 >= 1
	t.Run("quantity never drops below one", func(t *testing.T) {
		cart := NewCart()
		cart.Add(testProduct("1", "Apples", 3.99))
		cart.UpdateQuantity("1", -100)
		cart.Add(testProduct("1", "Apples", 3.99))
		for _, item := range cart.Snapshot() {
			assert.GreaterOrEqual(t, item.Quantity, 1)
		}
	})
}

func TestCartRemove(t *testing.T) {
	cart := NewCart()
	cart.Add(testProduct("1", "Apples", 3.99))
	cart.Add(testProduct("2", "Milk", 4.49))

	cart.Remove("1")
	assert.Equal(t, 1, cart.Len())
	cart.Remove("1") // 已删除，再删是 no-op
	assert.Equal(t, 1, cart.Len())
}

func TestCartSubtotal(t *testing.T) {
	cart := NewCart()
	assert.Zero(t, cart.Subtotal())

	cart.Add(testProduct("1", "Apples", 3.99))
	cart.Add(testProduct("1", "Apples", 3.99))
	cart.Add(testProduct("2", "Milk", 4.49))
	assert.InDelta(t, 12.47, cart.Subtotal(), 1e-9)
}

func TestRestoreCartDropsInvalidRows(t *testing.T) {
	cart := RestoreCart([]CartItem{
		{Product: testProduct("1", "Apples", 3.99), Quantity: 2},
		{Product: testProduct("2", "Milk", 4.49), Quantity: 0},
		{Product: testProduct("3", "Bread", 2.99), Quantity: -1},
	})
	require.Equal(t, 1, cart.Len())
	assert.Equal(t, "1", cart.Snapshot()[0].ID)
}

func TestCartSnapshotIsACopy(t *testing.T) {
	cart := NewCart()
	cart.Add(testProduct("1", "Apples", 3.99))

	snapshot := cart.Snapshot()
	snapshot[0].Quantity = 99
	assert.Equal(t, 1, cart.ItemCount())
}
