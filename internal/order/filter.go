package order

import "github.com/shopspring/decimal"

type Filter string

const (
	FilterAll       Filter = "all"
	FilterCash      Filter = "cash"
	FilterCard      Filter = "card"
	FilterPaid      Filter = "paid"
	FilterUnpaid    Filter = "unpaid"
	FilterDelivered Filter = "delivered"
)

var Filters = []Filter{FilterAll, FilterCash, FilterCard, FilterPaid, FilterUnpaid, FilterDelivered}

func (f Filter) match(o Order) (bool, error) {
	switch f {
	case "", FilterAll:
		return true, nil
	case FilterCash:
		return o.PaymentMethodType == PaymentCash, nil
	case FilterCard:
		return o.PaymentMethodType == PaymentCard, nil
	case FilterPaid:
		return o.IsPaid, nil
	case FilterUnpaid:
		return !o.IsPaid, nil
	case FilterDelivered:
		return o.IsDelivered, nil
	default:
		return false, ErrUnknownFilter
	}
}

// Apply keeps the orders matching f, preserving order.
func Apply(orders []Order, f Filter) ([]Order, error) {
	out := []Order{}
	for _, o := range orders {
		ok, err := f.match(o)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, o)
		}
	}
	return out, nil
}

type Stats struct {
	TotalOrders    int             `json:"totalOrders"`
	TotalSpent     decimal.Decimal `json:"totalSpent"`
	PaidCount      int             `json:"paidCount"`
	DeliveredCount int             `json:"deliveredCount"`
}

func ComputeStats(orders []Order) Stats {
	s := Stats{TotalOrders: len(orders), TotalSpent: decimal.Zero}
	for _, o := range orders {
		s.TotalSpent = s.TotalSpent.Add(o.TotalOrderPrice)
		if o.IsPaid {
			s.PaidCount++
		}
		if o.IsDelivered {
			s.DeliveredCount++
		}
	}
	return s
}

// StatusLabel is Delivered, then Paid, then Pending.
func StatusLabel(o Order) string {
	switch {
	case o.IsDelivered:
		return "Delivered"
	case o.IsPaid:
		return "Paid"
	default:
		return "Pending"
	}
}

func TotalItems(o Order) int {
	n := 0
	for _, it := range o.CartItems {
		n += it.Count
	}
	return n
}
