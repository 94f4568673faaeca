package domain

import (
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxLineQuantity ограничивает количество товара в строке корзины и в позиции заказа.
const MaxLineQuantity = 9999

// ValidQuantity проверяет, что количество лежит в [1, MaxLineQuantity].
func ValidQuantity(quantity int) bool {
	return quantity >= 1 && quantity <= MaxLineQuantity
}

// CartLine описывает строку корзины. Цена фиксируется при первом добавлении товара.
type CartLine struct {
	ID        string
	ProductID string
	Quantity  int
	Price     decimal.Decimal
}

// Subtotal возвращает price × quantity
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart содержит строки корзины одного владельца (ID сессии).
// Количество в строке всегда в пределах [1, MaxLineQuantity].
type Cart struct {
	OwnerID string
	Lines   []CartLine
}

func NewCart(ownerID string) *Cart {
	return &Cart{OwnerID: ownerID, Lines: make([]CartLine, 0)}
}

// AddItem увеличивает количество существующей строки товара или создаёт новую
// со снимком цены product.Price. Если quantity или итоговое количество строки
// выходит за [1, MaxLineQuantity], корзина не меняется.
func (c *Cart) AddItem(product Product, quantity int) (CartLine, error) {
	if !ValidQuantity(quantity) {
		return CartLine{}, e.ErrInvalidQuantity
	}

	for i := range c.Lines {
		if c.Lines[i].ProductID == product.ID {
			if quantity > MaxLineQuantity-c.Lines[i].Quantity {
				return CartLine{}, e.ErrInvalidQuantity
			}
			c.Lines[i].Quantity += quantity
			return c.Lines[i], nil
		}
	}

	line := CartLine{
		ID:        uuid.NewString(),
		ProductID: product.ID,
		Quantity:  quantity,
		Price:     product.Price,
	}
	c.Lines = append(c.Lines, line)

	return line, nil
}

// SetQuantity задаёт количество строки. Значение меньше 1 удаляет строку,
// в этом случае removed == true. Значение больше MaxLineQuantity отклоняется.
func (c *Cart) SetQuantity(lineID string, quantity int) (line CartLine, removed bool, err error) {
	idx := c.indexOf(lineID)
	if idx < 0 {
		return CartLine{}, false, e.ErrCartLineNotFound
	}

	if quantity < 1 {
		line = c.Lines[idx]
		c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
		return line, true, nil
	}
	if quantity > MaxLineQuantity {
		return CartLine{}, false, e.ErrInvalidQuantity
	}

	c.Lines[idx].Quantity = quantity
	return c.Lines[idx], false, nil
}

// RemoveItem удаляет строку. Удаление несуществующей строки ничего не делает.
func (c *Cart) RemoveItem(lineID string) {
	if idx := c.indexOf(lineID); idx >= 0 {
		c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	}
}

func (c *Cart) Clear() {
	c.Lines = make([]CartLine, 0)
}

// Total всегда пересчитывается по текущим строкам.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ItemCount возвращает сумму количеств, а не число строк.
func (c *Cart) ItemCount() int {
	count := 0
	for _, l := range c.Lines {
		count += l.Quantity
	}
	return count
}

func (c *Cart) indexOf(lineID string) int {
	for i, l := range c.Lines {
		if l.ID == lineID {
			return i
		}
	}
	return -1
}
