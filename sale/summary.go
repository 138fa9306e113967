package sale

import "salon-system/schedule"

// Summary is the revenue taken over a set of sales.
type Summary struct {
	Count           int                              `json:"count"`
	Subtotal        schedule.Money                   `json:"subtotal"`
	Discounts       schedule.Money                   `json:"discounts"`
	Total           schedule.Money                   `json:"total"`
	ByPaymentMethod map[PaymentMethod]schedule.Money `json:"by_payment_method"`
}

func Summarize(sales []Sale) Summary {
	s := Summary{ByPaymentMethod: map[PaymentMethod]schedule.Money{}}
	for _, sale := range sales {
		s.Count++
		s.Subtotal += sale.Subtotal
		s.Discounts += sale.Discount
		s.Total += sale.Total
		s.ByPaymentMethod[sale.PaymentMethod] += sale.Total
	}
	return s
}
