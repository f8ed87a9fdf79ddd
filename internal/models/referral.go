package models

import "time"

// ReferralCode is an invite code, keyed by the uppercase code string.
type ReferralCode struct {
	Code      string    `json:"code" bson:"_id"`
	Used      bool      `json:"used" bson:"used"`
	CreatedBy string    `json:"createdBy" bson:"created_by"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// CreateCodesRequest is the admin bulk-create payload: one code per line.
type CreateCodesRequest struct {
	Codes string `json:"codes"`
}

type CodeResult struct {
	Code    string `json:"code"`
	Status  string `json:"status"`
	Success bool   `json:"success"`
}

type RedeemCodeRequest struct {
	Code string `json:"code"`
}
