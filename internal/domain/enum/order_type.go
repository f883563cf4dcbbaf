package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// OrderType tells where the order is served.
type OrderType int

const (
	OrderTypeOnSpot   OrderType = 0
	OrderTypeTakeaway OrderType = 1
	OrderTypeDelivery OrderType = 2
)

var orderTypeNames = [...]string{"ONSPOT", "TAKEAWAY", "DELIVERY"}

func (t OrderType) String() string {
	if int(t) < 0 || int(t) >= len(orderTypeNames) {
		return "ONSPOT"
	}
	return orderTypeNames[t]
}

// ParseOrderType maps a type name back to its value.
func ParseOrderType(name string) (OrderType, error) {
	for i, n := range orderTypeNames {
		if n == name {
			return OrderType(i), nil
		}
	}
	return OrderTypeOnSpot, fmt.Errorf("unknown order type %q", name)
}

func (t OrderType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *OrderType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = OrderType(i)
		return nil
	}
	parsed, err := ParseOrderType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t OrderType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *OrderType) Scan(value interface{}) error {
	if value == nil {
		*t = OrderTypeOnSpot
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = OrderType(v)
	case int:
		*t = OrderType(v)
	}
	return nil
}
