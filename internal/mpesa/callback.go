package mpesa

import (
	"fmt"
	"strings"
)

// Receipt reference item name inside CallbackMetadata.
const receiptItemName = "MpesaReceiptNumber"

// CallbackEnvelope is the provider-originated notification body, verbatim
// Daraja field casing.
type CallbackEnvelope struct {
	Body struct {
		STKCallback STKCallback `json:"stkCallback"`
	} `json:"Body"`
}

type STKCallback struct {
	MerchantRequestID string            `json:"MerchantRequestID"`
	CheckoutRequestID string            `json:"CheckoutRequestID"`
	ResultCode        int               `json:"ResultCode"`
	ResultDesc        string            `json:"ResultDesc"`
	CallbackMetadata  *CallbackMetadata `json:"CallbackMetadata,omitempty"`
}

type CallbackMetadata struct {
	Item []MetadataItem `json:"Item"`
}

// MetadataItem values are heterogeneous: receipt numbers are strings,
// amounts and phone numbers arrive as JSON numbers.
type MetadataItem struct {
	Name  string `json:"Name"`
	Value any    `json:"Value,omitempty"`
}

func (cb STKCallback) Success() bool {
	return cb.ResultCode == 0
}

// ReceiptReference returns the M-Pesa receipt number from the metadata, or
// "" when the callback carries none.
func (cb STKCallback) ReceiptReference() string {
	if cb.CallbackMetadata == nil {
		return ""
	}
	for _, item := range cb.CallbackMetadata.Item {
		if item.Name != receiptItemName || item.Value == nil {
			continue
		}
		switch v := item.Value.(type) {
		case string:
			return strings.TrimSpace(v)
		default:
			return strings.TrimSpace(fmt.Sprintf("%v", v))
		}
	}
	return ""
}
