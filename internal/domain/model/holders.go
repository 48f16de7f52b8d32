package model

import "github.com/shopspring/decimal"

// HolderRecord is the amount of an issued asset held by one counterparty.
type HolderRecord struct {
	Amount  decimal.Decimal
	Account string
}

// HolderShare is a ranked holder with its share of total supply.
type HolderShare struct {
	HolderRecord
	Percent decimal.Decimal
}

// ConcentrationReport summarises how an issued asset is distributed.
type ConcentrationReport struct {
	TotalSupply          decimal.Decimal
	TopNPercent          decimal.Decimal
	LargestHolderPercent decimal.Decimal
	Issuer               string
	Currency             string
	TopN                 []HolderShare
	HolderCount          int
	LinesScanned         int
	LinesSkipped         int
}
