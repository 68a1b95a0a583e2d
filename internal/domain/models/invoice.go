package models

// InvoiceItem is one billed line of a proforma invoice.
type InvoiceItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// Invoice is a proforma invoice prepared for a customer.
type Invoice struct {
	InvoiceNumber   string        `json:"invoiceNumber"`
	Date            string        `json:"date"`
	CustomerName    string        `json:"customerName"`
	CustomerAddress string        `json:"customerAddress"`
	Items           []InvoiceItem `json:"items"`
}
